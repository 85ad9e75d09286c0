package encoding

import "github.com/dadi156/calgo-sub000/internal/pool"

// bitWriter appends bits most significant first to a byte buffer.
type bitWriter struct {
	buf  *pool.ByteBuffer
	cur  byte
	used int // bits already set in cur
}

func (w *bitWriter) writeBit(bit bool) {
	if bit {
		w.cur |= 1 << (7 - w.used)
	}
	w.used++
	if w.used == 8 {
		w.buf.B = append(w.buf.B, w.cur)
		w.cur, w.used = 0, 0
	}
}

// writeBits writes the low nbits of v.
func (w *bitWriter) writeBits(v uint64, nbits int) {
	for nbits > 0 {
		free := 8 - w.used
		take := min(free, nbits)
		chunk := (v >> (nbits - take)) & (uint64(1)<<take - 1)
		w.cur |= byte(chunk) << (free - take)
		w.used += take
		nbits -= take

		if w.used == 8 {
			w.buf.B = append(w.buf.B, w.cur)
			w.cur, w.used = 0, 0
		}
	}
}

// flush pads the pending partial byte with zero bits.
func (w *bitWriter) flush() {
	if w.used == 0 {
		return
	}
	w.buf.B = append(w.buf.B, w.cur)
	w.cur, w.used = 0, 0
}

func (w *bitWriter) reset() {
	w.cur, w.used = 0, 0
	if w.buf != nil {
		w.buf.Reset()
	}
}

// bitReader reads bits most significant first.
type bitReader struct {
	data []byte
	pos  int // absolute bit position
}

func (r *bitReader) readBit() (bool, bool) {
	if r.pos >= len(r.data)*8 {
		return false, false
	}
	bit := r.data[r.pos/8]&(1<<(7-r.pos%8)) != 0
	r.pos++

	return bit, true
}

func (r *bitReader) readBits(nbits int) (uint64, bool) {
	if r.pos+nbits > len(r.data)*8 {
		return 0, false
	}

	var v uint64
	for nbits > 0 {
		avail := 8 - r.pos%8
		take := min(avail, nbits)
		mask := uint16(1)<<take - 1
		chunk := (uint16(r.data[r.pos/8]) >> (avail - take)) & mask
		v = v<<take | uint64(chunk)
		r.pos += take
		nbits -= take
	}

	return v, true
}
