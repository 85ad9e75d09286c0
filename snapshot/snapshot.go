package snapshot

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/dadi156/calgo-sub000/channel"
	"github.com/dadi156/calgo-sub000/compress"
	"github.com/dadi156/calgo-sub000/endian"
	"github.com/dadi156/calgo-sub000/format"
	"github.com/dadi156/calgo-sub000/internal/encoding"
	"github.com/dadi156/calgo-sub000/internal/hash"
	"github.com/dadi156/calgo-sub000/internal/options"
	"github.com/dadi156/calgo-sub000/internal/pool"
)

const (
	magic = "RCHN"
	// Version is the current format version.
	Version = 1

	flagBigEndian = 1 << 0

	// headerFixedSize covers magic through stddev.
	headerFixedSize = 4 + 1 + 1 + 1 + 1 + 8 + 4 + 8 + 8
	checksumSize    = 8

	// MaxRows bounds the row count of an encoded snapshot.
	MaxRows = 1 << 24
)

// Snapshot is a persisted channel.
type Snapshot struct {
	Series     string
	Kind       string
	Deviations float64
	StdDev     float64
	Timestamps []int64
	Center     []float64
	Upper      []float64
	Lower      []float64
}

// Len returns the number of rows.
func (s *Snapshot) Len() int {
	return len(s.Center)
}

func (s *Snapshot) validate() error {
	n := len(s.Center)
	if n == 0 {
		return ErrEmptySeries
	}
	if len(s.Timestamps) != n || len(s.Upper) != n || len(s.Lower) != n {
		return fmt.Errorf("%w: timestamps=%d center=%d upper=%d lower=%d",
			ErrLengthMismatch, len(s.Timestamps), n, len(s.Upper), len(s.Lower))
	}
	if n > MaxRows {
		return fmt.Errorf("%w: %d rows", ErrTooManyRows, n)
	}
	if len(s.Series) > math.MaxUint16 || len(s.Kind) > math.MaxUint16 {
		return ErrNameTooLong
	}

	return nil
}

// FromChannel builds a snapshot of ch. The last ch.Len() timestamps are
// paired with the channel rows.
func FromChannel(series string, timestamps []int64, ch *channel.Channel) (*Snapshot, error) {
	n := ch.Len()
	if n == 0 {
		return nil, ErrEmptySeries
	}
	if len(timestamps) < n {
		return nil, fmt.Errorf("%w: %d timestamps for %d rows", ErrLengthMismatch, len(timestamps), n)
	}

	return &Snapshot{
		Series:     series,
		Kind:       ch.Kind.String(),
		Deviations: ch.Deviations,
		StdDev:     ch.StdDev,
		Timestamps: append([]int64(nil), timestamps[len(timestamps)-n:]...),
		Center:     append([]float64(nil), ch.Center...),
		Upper:      append([]float64(nil), ch.Upper...),
		Lower:      append([]float64(nil), ch.Lower...),
	}, nil
}

// Encode serializes s.
func Encode(s *Snapshot, opts ...Option) ([]byte, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	cfg := defaultEncodeConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}

	payload := encodePayload(s, cfg.engine)
	packed, err := codec.Compress(payload)
	if err != nil {
		return nil, fmt.Errorf("snapshot: compress payload: %w", err)
	}

	e := cfg.engine
	var flags byte
	if endian.IsBig(e) {
		flags |= flagBigEndian
	}

	out := make([]byte, 0, headerFixedSize+len(s.Kind)+len(s.Series)+12+len(packed)+checksumSize)
	out = append(out, magic...)
	out = append(out, Version, flags, byte(cfg.compression), 0)
	out = e.AppendUint64(out, hash.SeriesID(s.Series))
	out = e.AppendUint32(out, uint32(s.Len())) //nolint:gosec // rows fit in uint32
	out = e.AppendUint64(out, math.Float64bits(s.Deviations))
	out = e.AppendUint64(out, math.Float64bits(s.StdDev))
	out = appendString(out, e, s.Kind)
	out = appendString(out, e, s.Series)
	out = e.AppendUint32(out, uint32(len(payload))) //nolint:gosec // payload size fits in uint32
	out = e.AppendUint32(out, uint32(len(packed)))  //nolint:gosec // payload size fits in uint32
	out = append(out, packed...)
	out = e.AppendUint64(out, hash.Checksum(out))

	return out, nil
}

// encodePayload writes the four columns, each prefixed with its byte length.
func encodePayload(s *Snapshot, e endian.Engine) []byte {
	buf := pool.GetSnapshotBuffer()
	defer pool.PutSnapshotBuffer(buf)

	ts := encoding.NewTimestampEncoder()
	ts.WriteSlice(s.Timestamps)
	buf.B = appendColumn(buf.B, e, ts.Bytes())
	ts.Finish()

	values := encoding.NewFloatEncoder()
	for _, col := range [][]float64{s.Center, s.Upper, s.Lower} {
		values.Reset()
		values.WriteSlice(col)
		buf.B = appendColumn(buf.B, e, values.Bytes())
	}
	values.Finish()

	return buf.Clone()
}

func appendColumn(dst []byte, e endian.Engine, col []byte) []byte {
	dst = e.AppendUint32(dst, uint32(len(col))) //nolint:gosec // column size fits in uint32
	return append(dst, col...)
}

func appendString(dst []byte, e endian.Engine, s string) []byte {
	dst = e.AppendUint16(dst, uint16(len(s))) //nolint:gosec // checked by validate
	return append(dst, s...)
}

// Decode parses a snapshot produced by Encode.
func Decode(data []byte) (*Snapshot, error) {
	if len(data) < headerFixedSize+checksumSize {
		return nil, ErrTruncated
	}
	if string(data[:4]) != magic {
		return nil, ErrInvalidMagic
	}
	if data[4] != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[4])
	}

	e := endian.FromFlag(data[5]&flagBigEndian != 0)
	body := data[:len(data)-checksumSize]
	if e.Uint64(data[len(data)-checksumSize:]) != hash.Checksum(body) {
		return nil, ErrChecksumMismatch
	}

	compression := format.CompressionType(data[6])
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, err
	}

	r := &reader{data: body, off: 8, engine: e}
	seriesID := r.u64()
	count := int(r.u32())
	s := &Snapshot{
		Deviations: math.Float64frombits(r.u64()),
		StdDev:     math.Float64frombits(r.u64()),
	}
	s.Kind = r.str()
	s.Series = r.str()
	rawSize := int(r.u32())
	packed := r.bytes(int(r.u32()))
	if r.err != nil {
		return nil, r.err
	}
	if r.off != len(body) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrLengthMismatch, len(body)-r.off)
	}
	if hash.SeriesID(s.Series) != seriesID {
		return nil, ErrSeriesIDMismatch
	}
	if count == 0 {
		return nil, ErrEmptySeries
	}
	if count > MaxRows {
		return nil, fmt.Errorf("%w: %d rows", ErrTooManyRows, count)
	}
	if count > rawSize || rawSize > maxPayloadSize(count) {
		return nil, fmt.Errorf("%w: %d rows in a %d byte payload", ErrLengthMismatch, count, rawSize)
	}

	payload, err := codec.DecompressSize(packed, rawSize)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress payload: %w", ErrLengthMismatch, err)
	}

	if err := decodePayload(s, payload, count, e); err != nil {
		return nil, err
	}

	return s, nil
}

// maxPayloadSize is the largest payload count rows can encode to: four
// column prefixes, ten varint bytes per timestamp and the worst case Gorilla
// width for each value column.
func maxPayloadSize(count int) int {
	return 4*4 + count*binary.MaxVarintLen64 + 3*(8+(77*count+7)/8)
}

func decodePayload(s *Snapshot, payload []byte, count int, e endian.Engine) error {
	r := &reader{data: payload, engine: e}

	var err error
	tsCol := r.bytes(int(r.u32()))
	if r.err != nil {
		return r.err
	}
	if s.Timestamps, _, err = encoding.DecodeTimestamps(tsCol, count); err != nil {
		return fmt.Errorf("snapshot: timestamps: %w", err)
	}

	for _, dst := range []*[]float64{&s.Center, &s.Upper, &s.Lower} {
		col := r.bytes(int(r.u32()))
		if r.err != nil {
			return r.err
		}
		if *dst, err = encoding.DecodeFloats(col, count); err != nil {
			return fmt.Errorf("snapshot: values: %w", err)
		}
	}

	return nil
}

// Header is the fixed part of an encoded snapshot.
type Header struct {
	Version     uint8
	BigEndian   bool
	Compression format.CompressionType
	SeriesID    uint64
	Count       int
	Size        int
}

// ReadHeader parses the fixed header of data without decoding the payload
// or verifying the checksum.
func ReadHeader(data []byte) (Header, error) {
	if len(data) < headerFixedSize {
		return Header{}, ErrTruncated
	}
	if string(data[:4]) != magic {
		return Header{}, ErrInvalidMagic
	}

	big := data[5]&flagBigEndian != 0
	r := &reader{data: data, off: 8, engine: endian.FromFlag(big)}
	h := Header{
		Version:     data[4],
		BigEndian:   big,
		Compression: format.CompressionType(data[6]),
		SeriesID:    r.u64(),
		Count:       int(r.u32()),
		Size:        len(data),
	}

	return h, r.err
}

// WriteFile encodes s to path.
func WriteFile(path string, s *Snapshot, opts ...Option) error {
	data, err := Encode(s, opts...)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644) //nolint:gosec // snapshot files are not secret
}

// ReadFile decodes the snapshot stored at path.
func ReadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	return Decode(data)
}

// reader consumes fixed-width fields and records the first truncation.
type reader struct {
	data   []byte
	off    int
	engine endian.Engine
	err    error
}

func (r *reader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.data) {
		r.err = ErrTruncated
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n

	return b
}

func (r *reader) u16() uint16 {
	if b := r.bytes(2); b != nil {
		return r.engine.Uint16(b)
	}

	return 0
}

func (r *reader) u32() uint32 {
	if b := r.bytes(4); b != nil {
		return r.engine.Uint32(b)
	}

	return 0
}

func (r *reader) u64() uint64 {
	if b := r.bytes(8); b != nil {
		return r.engine.Uint64(b)
	}

	return 0
}

func (r *reader) str() string {
	return string(r.bytes(int(r.u16())))
}
