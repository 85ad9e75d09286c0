package snapshot

import (
	"fmt"

	"github.com/dadi156/calgo-sub000/endian"
	"github.com/dadi156/calgo-sub000/format"
	"github.com/dadi156/calgo-sub000/internal/options"
)

type encodeConfig struct {
	compression format.CompressionType
	engine      endian.Engine
}

func defaultEncodeConfig() encodeConfig {
	return encodeConfig{
		compression: format.CompressionZstd,
		engine:      endian.Little(),
	}
}

// Option configures Encode.
type Option = options.Option[*encodeConfig]

// WithCompression selects the payload codec. The default is Zstd.
func WithCompression(c format.CompressionType) Option {
	return options.New(func(cfg *encodeConfig) error {
		if !c.Valid() {
			return fmt.Errorf("snapshot: invalid compression 0x%02x", uint8(c))
		}
		cfg.compression = c

		return nil
	})
}

// WithBigEndian writes fixed-width fields most significant byte first.
func WithBigEndian() Option {
	return options.NoError(func(cfg *encodeConfig) {
		cfg.engine = endian.Big()
	})
}
