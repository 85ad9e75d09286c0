// Package collision tracks series names by 64-bit hash and detects names
// that share a hash.
package collision

import "errors"

var (
	// ErrEmptyName is returned when a series has no name.
	ErrEmptyName = errors.New("collision: empty series name")
	// ErrDuplicateName is returned when the same name is tracked twice.
	ErrDuplicateName = errors.New("collision: duplicate series name")
)

// Tracker maps hashes to the series names that produced them.
// Names are kept in insertion order.
type Tracker struct {
	byHash    map[uint64][]string
	seen      map[string]struct{}
	names     []string
	collision bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		byHash: make(map[uint64][]string),
		seen:   make(map[string]struct{}),
	}
}

// Track records name under hash. A different name under an existing hash
// is not an error; it sets the collision flag.
func (t *Tracker) Track(name string, hash uint64) error {
	if name == "" {
		return ErrEmptyName
	}
	if _, ok := t.seen[name]; ok {
		return ErrDuplicateName
	}

	if len(t.byHash[hash]) > 0 {
		t.collision = true
	}
	t.byHash[hash] = append(t.byHash[hash], name)
	t.seen[name] = struct{}{}
	t.names = append(t.names, name)

	return nil
}

// Lookup returns the names tracked under hash.
func (t *Tracker) Lookup(hash uint64) []string {
	return t.byHash[hash]
}

// HasCollision reports whether two tracked names share a hash.
func (t *Tracker) HasCollision() bool {
	return t.collision
}

// Names returns the tracked names in insertion order.
func (t *Tracker) Names() []string {
	return t.names
}

// Count returns the number of tracked names.
func (t *Tracker) Count() int {
	return len(t.names)
}

// Reset clears all state, keeping allocated capacity.
func (t *Tracker) Reset() {
	clear(t.byHash)
	clear(t.seen)
	t.names = t.names[:0]
	t.collision = false
}
