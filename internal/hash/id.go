// Package hash wraps xxHash64 for series identifiers and snapshot checksums.
package hash

import "github.com/cespare/xxhash/v2"

// SeriesID returns the 64-bit identifier of a series name.
func SeriesID(name string) uint64 {
	return xxhash.Sum64String(name)
}

// Checksum returns the xxHash64 digest of data.
func Checksum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
