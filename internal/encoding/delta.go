package encoding

import (
	"encoding/binary"

	"github.com/dadi156/calgo-sub000/internal/pool"
)

// TimestampEncoder compresses an int64 column with delta-of-delta encoding.
type TimestampEncoder struct {
	buf       *pool.ByteBuffer
	prev      int64
	prevDelta int64
	count     int
}

// NewTimestampEncoder creates an encoder backed by a pooled buffer.
func NewTimestampEncoder() *TimestampEncoder {
	return &TimestampEncoder{buf: pool.GetSnapshotBuffer()}
}

// Write appends one timestamp.
func (e *TimestampEncoder) Write(ts int64) {
	e.count++

	var v int64
	switch e.count {
	case 1:
		v = ts
	case 2:
		e.prevDelta = ts - e.prev
		v = e.prevDelta
	default:
		delta := ts - e.prev
		v = delta - e.prevDelta
		e.prevDelta = delta
	}
	e.prev = ts

	e.buf.B = binary.AppendUvarint(e.buf.B, zigzag(v))
}

// WriteSlice appends every timestamp of ts.
func (e *TimestampEncoder) WriteSlice(ts []int64) {
	for _, v := range ts {
		e.Write(v)
	}
}

// Bytes returns the encoded column, valid until Reset or Finish.
func (e *TimestampEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of timestamps written.
func (e *TimestampEncoder) Len() int {
	return e.count
}

// Reset clears the encoder for a new column, keeping its buffer.
func (e *TimestampEncoder) Reset() {
	e.buf.Reset()
	e.prev, e.prevDelta, e.count = 0, 0, 0
}

// Finish returns the buffer to the pool. The encoder must not be used afterwards.
func (e *TimestampEncoder) Finish() {
	pool.PutSnapshotBuffer(e.buf)
	e.buf = nil
}

// DecodeTimestamps decodes count timestamps written by TimestampEncoder.
// It returns the decoded values and the number of bytes consumed.
func DecodeTimestamps(data []byte, count int) ([]int64, int, error) {
	// every timestamp takes at least one varint byte
	if count < 0 || count > len(data) {
		return nil, 0, ErrCorrupt
	}
	out := make([]int64, 0, count)

	var prev, delta int64
	offset := 0
	for i := range count {
		u, n := binary.Uvarint(data[offset:])
		if n <= 0 {
			return nil, 0, ErrCorrupt
		}
		offset += n
		v := unzigzag(u)

		switch i {
		case 0:
			prev = v
		case 1:
			delta = v
			prev += delta
		default:
			delta += v
			prev += delta
		}
		out = append(out, prev)
	}

	return out, offset, nil
}

func zigzag(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63)) //nolint:gosec // zigzag mapping
}

func unzigzag(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1) //nolint:gosec // zigzag mapping
}
