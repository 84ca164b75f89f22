package window

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOfAlignsToFloorDivision(t *testing.T) {
	require.Equal(t, Window{Start: 0, End: 60}, Of(0, 60))
	require.Equal(t, Window{Start: 0, End: 60}, Of(59, 60))
	require.Equal(t, Window{Start: 60, End: 120}, Of(60, 60))
	require.Equal(t, Window{Start: 60, End: 120}, Of(65, 60))
	require.Equal(t, Window{Start: 1678886400, End: 1678886460}, Of(1678886430, 60))
}

func TestOfNegativeEventTimes(t *testing.T) {
	require.Equal(t, Window{Start: -60, End: 0}, Of(-1, 60))
	require.Equal(t, Window{Start: -60, End: 0}, Of(-60, 60))
	require.Equal(t, Window{Start: -120, End: -60}, Of(-61, 60))
}

func TestOfSameBucketSameWindow(t *testing.T) {
	sizes := []int64{1, 7, 60, 300}
	for _, size := range sizes {
		for t1 := int64(-130); t1 < 130; t1++ {
			for _, delta := range []int64{1, 2, 5} {
				t2 := t1 + delta
				if floorDiv(t1, size) == floorDiv(t2, size) {
					require.Equal(t, Of(t1, size), Of(t2, size), "size %d t1 %d t2 %d", size, t1, t2)
				} else {
					require.NotEqual(t, Of(t1, size), Of(t2, size), "size %d t1 %d t2 %d", size, t1, t2)
				}
			}
		}
	}
}

func TestWindowContains(t *testing.T) {
	w := Of(65, 60)
	require.True(t, w.Contains(60))
	require.True(t, w.Contains(119))
	require.False(t, w.Contains(120))
	require.False(t, w.Contains(59))
	require.Equal(t, int64(119), w.MaxTimestamp())
}

func TestWindowString(t *testing.T) {
	require.Equal(t, "[0,60)", Of(30, 60).String())
}

func TestEveryEventTimeBelongsToItsWindow(t *testing.T) {
	for eventTime := int64(-200); eventTime < 200; eventTime++ {
		require.True(t, Of(eventTime, 60).Contains(eventTime), "event time %d", eventTime)
	}
}
