package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dadi156/calgo-sub000/format"
	"github.com/dadi156/calgo-sub000/internal/collision"
	"github.com/dadi156/calgo-sub000/internal/hash"
)

func namedSnapshot(name string, n int) *Snapshot {
	s := sampleSnapshot(n)
	s.Series = name

	return s
}

func TestSetAddGet(t *testing.T) {
	set := NewSet()
	require.NoError(t, set.Add(namedSnapshot("BTC", 10)))
	require.NoError(t, set.Add(namedSnapshot("ETH", 20)))

	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []string{"BTC", "ETH"}, set.Names())
	assert.False(t, set.HasCollision())

	s, ok := set.Get("ETH")
	require.True(t, ok)
	assert.Equal(t, 20, s.Len())

	s, ok = set.GetByID(hash.SeriesID("BTC"))
	require.True(t, ok)
	assert.Equal(t, "BTC", s.Series)

	_, ok = set.GetByID(hash.SeriesID("SOL"))
	assert.False(t, ok)

	require.ErrorIs(t, set.Add(namedSnapshot("BTC", 5)), collision.ErrDuplicateName)
	require.ErrorIs(t, set.Add(namedSnapshot("", 5)), collision.ErrEmptyName)
	require.ErrorIs(t, set.Add(&Snapshot{Series: "X"}), ErrEmptySeries)
}

func TestSetAllStopsEarly(t *testing.T) {
	set := NewSet()
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, set.Add(namedSnapshot(name, 3)))
	}

	var seen []string
	for name := range set.All() {
		seen = append(seen, name)
		if name == "b" {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestEncodeDecodeSet(t *testing.T) {
	set := NewSet()
	require.NoError(t, set.Add(namedSnapshot("BTC", 30)))
	require.NoError(t, set.Add(namedSnapshot("ETH", 7)))

	data, err := EncodeSet(set, WithCompression(format.CompressionS2), WithBigEndian())
	require.NoError(t, err)
	assert.True(t, IsSet(data))

	got, err := DecodeSet(data)
	require.NoError(t, err)
	assert.Equal(t, set.Names(), got.Names())
	for name, want := range set.All() {
		s, ok := got.Get(name)
		require.True(t, ok)
		assert.Equal(t, want, s)
	}

	single, err := Encode(namedSnapshot("BTC", 3))
	require.NoError(t, err)
	assert.False(t, IsSet(single))
}

func TestDecodeSetErrors(t *testing.T) {
	_, err := EncodeSet(NewSet())
	require.ErrorIs(t, err, ErrEmptySeries)

	set := NewSet()
	require.NoError(t, set.Add(namedSnapshot("BTC", 4)))
	data, err := EncodeSet(set)
	require.NoError(t, err)

	_, err = DecodeSet(data[:5])
	require.ErrorIs(t, err, ErrTruncated)

	_, err = DecodeSet(data[:len(data)-3])
	require.ErrorIs(t, err, ErrTruncated)

	_, err = DecodeSet(append(append([]byte(nil), data...), 0))
	require.ErrorIs(t, err, ErrLengthMismatch)

	bad := append([]byte(nil), data...)
	bad[0] = 'X'
	_, err = DecodeSet(bad)
	require.ErrorIs(t, err, ErrInvalidMagic)
}
