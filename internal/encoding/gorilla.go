package encoding

import (
	"math"
	"math/bits"

	"github.com/dadi156/calgo-sub000/internal/pool"
)

const (
	// maxLeading is the largest leading zero count representable in 5 bits.
	maxLeading = 31
)

// FloatEncoder compresses a float64 column with Gorilla XOR encoding.
//
// Layout per value after the first (stored as 64 raw bits):
//   - '0': same value as the previous one
//   - '1' '0' + meaningful bits: XOR fits inside the previous block
//   - '1' '1' + 5 bits leading zeros + 6 bits (block size - 1) + block bits
type FloatEncoder struct {
	w          bitWriter
	prev       uint64
	leading    int
	trailing   int
	blockSize  int
	blockValid bool
	count      int
}

// NewFloatEncoder creates an encoder backed by a pooled buffer.
func NewFloatEncoder() *FloatEncoder {
	return &FloatEncoder{w: bitWriter{buf: pool.GetSnapshotBuffer()}}
}

// Write appends one value.
func (e *FloatEncoder) Write(v float64) {
	valBits := math.Float64bits(v)
	e.count++

	if e.count == 1 {
		e.prev = valBits
		e.w.writeBits(valBits, 64)

		return
	}

	xor := valBits ^ e.prev
	e.prev = valBits
	if xor == 0 {
		e.w.writeBit(false)
		return
	}
	e.w.writeBit(true)

	leading := min(bits.LeadingZeros64(xor), maxLeading)
	trailing := bits.TrailingZeros64(xor)

	if e.blockValid && leading >= e.leading && trailing >= e.trailing {
		e.w.writeBit(false)
		e.w.writeBits(xor>>e.trailing, e.blockSize)

		return
	}

	blockSize := 64 - leading - trailing
	e.w.writeBit(true)
	e.w.writeBits(uint64(leading), 5)     //nolint:gosec // leading is 0-31
	e.w.writeBits(uint64(blockSize-1), 6) //nolint:gosec // blockSize is 1-64
	e.w.writeBits(xor>>trailing, blockSize)

	e.leading, e.trailing, e.blockSize = leading, trailing, blockSize
	e.blockValid = true
}

// WriteSlice appends every value of vs.
func (e *FloatEncoder) WriteSlice(vs []float64) {
	for _, v := range vs {
		e.Write(v)
	}
}

// Bytes flushes pending bits and returns the encoded column. The slice is
// owned by the encoder and valid until Reset or Finish.
func (e *FloatEncoder) Bytes() []byte {
	e.w.flush()
	return e.w.buf.Bytes()
}

// Len returns the number of values written.
func (e *FloatEncoder) Len() int {
	return e.count
}

// Reset clears the encoder for a new column, keeping its buffer.
func (e *FloatEncoder) Reset() {
	e.w.reset()
	e.prev, e.leading, e.trailing, e.blockSize = 0, 0, 0, 0
	e.blockValid = false
	e.count = 0
}

// Finish returns the buffer to the pool. The encoder must not be used afterwards.
func (e *FloatEncoder) Finish() {
	pool.PutSnapshotBuffer(e.w.buf)
	e.w.buf = nil
}

// DecodeFloats decodes count values written by FloatEncoder.
func DecodeFloats(data []byte, count int) ([]float64, error) {
	if count == 0 {
		return []float64{}, nil
	}
	// 64 bits for the first value, at least one bit for each following one
	if count < 0 || len(data) < 8 || count-1 > (len(data)-8)*8 {
		return nil, ErrCorrupt
	}

	r := bitReader{data: data}
	first, ok := r.readBits(64)
	if !ok {
		return nil, ErrCorrupt
	}

	out := make([]float64, 0, count)
	out = append(out, math.Float64frombits(first))
	prev := first

	var trailing, blockSize int
	blockValid := false
	for len(out) < count {
		changed, ok := r.readBit()
		if !ok {
			return nil, ErrCorrupt
		}
		if !changed {
			out = append(out, math.Float64frombits(prev))
			continue
		}

		newBlock, ok := r.readBit()
		if !ok {
			return nil, ErrCorrupt
		}
		if newBlock {
			leading, ok1 := r.readBits(5)
			size, ok2 := r.readBits(6)
			if !ok1 || !ok2 {
				return nil, ErrCorrupt
			}
			blockSize = int(size) + 1
			trailing = 64 - int(leading) - blockSize
			if trailing < 0 {
				return nil, ErrCorrupt
			}
			blockValid = true
		} else if !blockValid {
			return nil, ErrCorrupt
		}

		meaningful, ok := r.readBits(blockSize)
		if !ok {
			return nil, ErrCorrupt
		}
		prev ^= meaningful << trailing
		out = append(out, math.Float64frombits(prev))
	}

	return out, nil
}
