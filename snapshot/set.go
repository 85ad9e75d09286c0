package snapshot

import (
	"fmt"
	"iter"

	"github.com/dadi156/calgo-sub000/endian"
	"github.com/dadi156/calgo-sub000/internal/collision"
	"github.com/dadi156/calgo-sub000/internal/hash"
	"github.com/dadi156/calgo-sub000/internal/options"
)

const (
	setMagic      = "RCHS"
	setHeaderSize = 4 + 1 + 1 + 2 + 4
)

// Set holds snapshots of several series, addressed by name or series ID.
type Set struct {
	tracker   *collision.Tracker
	snapshots map[string]*Snapshot
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{
		tracker:   collision.NewTracker(),
		snapshots: make(map[string]*Snapshot),
	}
}

// Add inserts s. Series names must be unique and non-empty.
func (set *Set) Add(s *Snapshot) error {
	if err := s.validate(); err != nil {
		return err
	}
	if err := set.tracker.Track(s.Series, hash.SeriesID(s.Series)); err != nil {
		return fmt.Errorf("snapshot: add %q: %w", s.Series, err)
	}
	set.snapshots[s.Series] = s

	return nil
}

// Len returns the number of snapshots.
func (set *Set) Len() int {
	return set.tracker.Count()
}

// Names returns series names in insertion order.
func (set *Set) Names() []string {
	return set.tracker.Names()
}

// Get returns the snapshot of the named series.
func (set *Set) Get(name string) (*Snapshot, bool) {
	s, ok := set.snapshots[name]
	return s, ok
}

// GetByID returns the snapshot whose series hashes to id. It reports false
// when no series or more than one series has that id.
func (set *Set) GetByID(id uint64) (*Snapshot, bool) {
	names := set.tracker.Lookup(id)
	if len(names) != 1 {
		return nil, false
	}

	return set.Get(names[0])
}

// HasCollision reports whether two series in the set share an id.
func (set *Set) HasCollision() bool {
	return set.tracker.HasCollision()
}

// All iterates over the snapshots in insertion order.
func (set *Set) All() iter.Seq2[string, *Snapshot] {
	return func(yield func(string, *Snapshot) bool) {
		for _, name := range set.tracker.Names() {
			if !yield(name, set.snapshots[name]) {
				return
			}
		}
	}
}

// EncodeSet serializes every snapshot of set with the same options.
func EncodeSet(set *Set, opts ...Option) ([]byte, error) {
	if set.Len() == 0 {
		return nil, ErrEmptySeries
	}

	cfg := defaultEncodeConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}
	e := cfg.engine
	var flags byte
	if endian.IsBig(e) {
		flags |= flagBigEndian
	}

	out := make([]byte, 0, setHeaderSize)
	out = append(out, setMagic...)
	out = append(out, Version, flags, 0, 0)
	out = e.AppendUint32(out, uint32(set.Len())) //nolint:gosec // set size fits in uint32

	for name, s := range set.All() {
		data, err := Encode(s, opts...)
		if err != nil {
			return nil, fmt.Errorf("snapshot: encode %q: %w", name, err)
		}
		out = appendColumn(out, e, data)
	}

	return out, nil
}

// DecodeSet parses data produced by EncodeSet.
func DecodeSet(data []byte) (*Set, error) {
	if len(data) < setHeaderSize {
		return nil, ErrTruncated
	}
	if string(data[:4]) != setMagic {
		return nil, ErrInvalidMagic
	}
	if data[4] != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[4])
	}

	r := &reader{data: data, off: 8, engine: endian.FromFlag(data[5]&flagBigEndian != 0)}
	count := int(r.u32())

	set := NewSet()
	for i := range count {
		entry := r.bytes(int(r.u32()))
		if r.err != nil {
			return nil, r.err
		}
		s, err := Decode(entry)
		if err != nil {
			return nil, fmt.Errorf("snapshot: entry %d: %w", i, err)
		}
		if err := set.Add(s); err != nil {
			return nil, err
		}
	}
	if r.off != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrLengthMismatch, len(data)-r.off)
	}

	return set, nil
}

// IsSet reports whether data starts with the set magic.
func IsSet(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == setMagic
}
