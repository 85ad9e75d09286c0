// Package encoding implements the column encodings of channel snapshots.
//
// Timestamps use delta-of-delta encoding: the first value, the first delta and
// every following change of delta are stored as zigzag varints, so regularly
// spaced bars cost one byte each.
//
// Float columns (center line and bands) use the Gorilla XOR scheme
// (https://www.vldb.org/pvldb/vol8/p1816-teller.pdf): each value is XORed
// with its predecessor and only the meaningful bits between the leading and
// trailing zeros are written.
//
// Encoders write into pooled buffers. Call Bytes after the last Write, copy
// what must outlive the encoder, then call Finish to return the buffer.
package encoding

import "errors"

// ErrCorrupt is returned when encoded data ends before the expected count.
var ErrCorrupt = errors.New("encoding: corrupt or truncated column")
