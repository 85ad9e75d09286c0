package collision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker()

	require.NotNil(t, tracker)
	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasCollision())
	require.Empty(t, tracker.Names())
}

func TestTrackerTrack(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track("BTCUSDT:1h", 0x1234567890abcdef))
	require.NoError(t, tracker.Track("ETHUSDT:1h", 0xfedcba0987654321))

	require.Equal(t, 2, tracker.Count())
	require.False(t, tracker.HasCollision())
	require.Equal(t, []string{"BTCUSDT:1h", "ETHUSDT:1h"}, tracker.Names())
	require.Equal(t, []string{"ETHUSDT:1h"}, tracker.Lookup(0xfedcba0987654321))
	require.Empty(t, tracker.Lookup(42))
}

func TestTrackerErrors(t *testing.T) {
	tracker := NewTracker()

	require.ErrorIs(t, tracker.Track("", 1), ErrEmptyName)

	require.NoError(t, tracker.Track("a", 1))
	require.ErrorIs(t, tracker.Track("a", 1), ErrDuplicateName)
	require.ErrorIs(t, tracker.Track("a", 2), ErrDuplicateName)
	require.Equal(t, 1, tracker.Count())
}

func TestTrackerCollision(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track("a", 7))
	require.NoError(t, tracker.Track("b", 7))
	require.NoError(t, tracker.Track("c", 8))

	require.True(t, tracker.HasCollision())
	require.Equal(t, []string{"a", "b"}, tracker.Lookup(7))
	// a duplicate of a collided name is still rejected
	require.ErrorIs(t, tracker.Track("a", 7), ErrDuplicateName)
}

func TestTrackerReset(t *testing.T) {
	tracker := NewTracker()
	require.NoError(t, tracker.Track("a", 7))
	require.NoError(t, tracker.Track("b", 7))

	tracker.Reset()

	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasCollision())
	require.Empty(t, tracker.Lookup(7))
	require.NoError(t, tracker.Track("a", 7))
}
