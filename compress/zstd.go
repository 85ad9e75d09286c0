package compress

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// ZstdCompressor compresses with Zstandard at the default level.
//
// The implementation is chosen at build time: zstd_pure.go uses the pure Go
// encoder of klauspost/compress, zstd_cgo.go links libzstd through gozstd.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstandard codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// checkFrameSize verifies that the zstd frame header declares size content bytes.
func checkFrameSize(data []byte, size int) error {
	var h zstd.Header
	if err := h.Decode(data); err != nil {
		return fmt.Errorf("zstd decompression failed: %w", err)
	}
	if !h.HasFCS {
		return fmt.Errorf("%w: frame does not declare its size", ErrSizeMismatch)
	}
	if h.FrameContentSize != uint64(size) { //nolint:gosec // size is non-negative
		return sizeMismatch(int(h.FrameContentSize), size) //nolint:gosec // informational
	}

	return nil
}
