package window

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrackerStartsAtMinimum(t *testing.T) {
	require.Equal(t, int64(math.MinInt64), NewTracker().Current())
}

func TestTrackerAdvanceIsMonotone(t *testing.T) {
	tracker := NewTracker()
	previous := tracker.Current()
	for i := 0; i < 1000; i++ {
		tracker.Advance(rand.Int63n(2000) - 1000)
		current := tracker.Current()
		require.GreaterOrEqual(t, current, previous)
		previous = current
	}
}

func TestTrackerBackwardAdvanceIsNoOp(t *testing.T) {
	tracker := NewTracker()
	require.Equal(t, int64(100), tracker.Advance(100))
	require.Equal(t, int64(100), tracker.Advance(40))
	require.Equal(t, int64(100), tracker.Current())
}

func TestTrackerAdvanceToInfinity(t *testing.T) {
	tracker := NewTracker()
	tracker.Advance(100)
	tracker.AdvanceToInfinity()
	require.Equal(t, Infinity, tracker.Current())
	//nothing to advance past infinity
	tracker.Advance(200)
	require.Equal(t, Infinity, tracker.Current())
}
