// Package format defines the identifiers stored in encoded channel snapshots.
package format

import (
	"fmt"
	"strings"
)

// CompressionType identifies the codec applied to a snapshot payload.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone stores the payload as is.
	CompressionZstd CompressionType = 0x2 // CompressionZstd uses Zstandard.
	CompressionS2   CompressionType = 0x3 // CompressionS2 uses S2, the Snappy extension.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 uses LZ4 block compression.
)

var compressionNames = map[CompressionType]string{
	CompressionNone: "none",
	CompressionZstd: "zstd",
	CompressionS2:   "s2",
	CompressionLZ4:  "lz4",
}

func (c CompressionType) String() string {
	if name, ok := compressionNames[c]; ok {
		return name
	}

	return "unknown"
}

// Valid reports whether c is a known compression type.
func (c CompressionType) Valid() bool {
	_, ok := compressionNames[c]
	return ok
}

// ParseCompression parses a compression name such as "zstd" or "LZ4".
// An empty name selects CompressionNone.
func ParseCompression(name string) (CompressionType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return CompressionNone, nil
	}
	for c, n := range compressionNames {
		if n == name {
			return c, nil
		}
	}

	return 0, fmt.Errorf("format: unknown compression %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (c CompressionType) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("format: unknown compression 0x%02x", uint8(c))
	}

	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CompressionType) UnmarshalText(text []byte) error {
	parsed, err := ParseCompression(string(text))
	if err != nil {
		return err
	}
	*c = parsed

	return nil
}
