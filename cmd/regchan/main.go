// Command regchan fits regression channels over OHLCV bars.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if err := newRootCommand().Execute(); err != nil {
		log.Error().Err(err).Msg("regchan failed")
		os.Exit(1)
	}
}
