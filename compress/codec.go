package compress

import (
	"errors"
	"fmt"

	"github.com/dadi156/calgo-sub000/format"
)

// Compressor compresses a complete snapshot payload.
//
// The returned slice is owned by the caller; the input is not modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// ErrSizeMismatch is returned by DecompressSize when the payload does not
// decode to exactly the expected number of bytes.
var ErrSizeMismatch = errors.New("compress: decoded size mismatch")

// Decompressor restores a payload produced by the matching Compressor.
// Corrupted input or data from another codec yields an error.
//
// DecompressSize decodes a payload whose decoded size is known in advance and
// never allocates more than size bytes for the output.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
	DecompressSize(data []byte, size int) ([]byte, error)
}

// Codec combines both directions of one compression algorithm.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the built-in Codec for a compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("compress: unsupported compression type %s (0x%02x)", compressionType, uint8(compressionType))
}

// Ratio returns compressed/original, or 0 when original is empty.
func Ratio(original, compressed int) float64 {
	if original == 0 {
		return 0
	}

	return float64(compressed) / float64(original)
}

func sizeMismatch(got, want int) error {
	return fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, got, want)
}
