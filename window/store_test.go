package window

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

type sumFn struct{}

func (sumFn) CreateAccumulator() float64 { return 0 }

func (sumFn) AddInput(acc float64, value float64) float64 { return acc + value }

func (sumFn) MergeAccumulators(accs []float64) float64 {
	total := 0.0
	for _, acc := range accs {
		total += acc
	}
	return total
}

func (sumFn) ExtractOutput(acc float64) float64 { return acc }

func TestStoreCreatesThenFolds(t *testing.T) {
	store := NewStore[float64](sumFn{}, NewTracker(), 4, 0)
	w := Of(0, 60)
	require.True(t, store.AddRecord("a", w, 1))
	require.True(t, store.AddRecord("a", w, 2))
	require.True(t, store.AddRecord("b", w, 5))
	require.Equal(t, 2, store.Len())
}

func TestStoreDropsLateRecords(t *testing.T) {
	tracker := NewTracker()
	store := NewStore[float64](sumFn{}, tracker, 4, 0)
	w := Of(0, 60)
	tracker.Advance(60)
	require.False(t, store.AddRecord("a", w, 1))
	require.Equal(t, uint64(1), store.LateDropped())
	require.Equal(t, 0, store.Len())
	//the next window is still open
	require.True(t, store.AddRecord("a", Of(60, 60), 1))
}

func TestStorePopEligibleIsExactlyOnce(t *testing.T) {
	tracker := NewTracker()
	store := NewStore[float64](sumFn{}, tracker, 4, 0)
	require.True(t, store.AddRecord("a", Of(0, 60), 1))
	require.True(t, store.AddRecord("a", Of(0, 60), 2))
	require.True(t, store.AddRecord("a", Of(60, 60), 4))

	tracker.Advance(60)
	popped := store.PopEligible()
	require.Len(t, popped, 1)
	require.Equal(t, "a", popped[0].Key)
	require.Equal(t, Of(0, 60), popped[0].Window)
	require.Equal(t, 3.0, popped[0].Accumulator)

	//same watermark, nothing left to pop
	require.Empty(t, store.PopEligible())
	require.Equal(t, 1, store.Len())

	//a record for the popped window cannot resurrect it
	require.False(t, store.AddRecord("a", Of(0, 60), 9))
	require.Empty(t, store.PopEligible())
}

func TestStorePopEligibleSpansShardsAndKeys(t *testing.T) {
	tracker := NewTracker()
	store := NewStore[float64](sumFn{}, tracker, 8, 0)
	keys := []string{"a", "b", "c", "d", "e"}
	for _, key := range keys {
		require.True(t, store.AddRecord(key, Of(30, 60), 1))
	}
	tracker.Advance(60)
	popped := store.PopEligible()
	require.Len(t, popped, len(keys))
	var got []string
	for _, entry := range popped {
		got = append(got, entry.Key)
	}
	sort.Strings(got)
	require.Equal(t, keys, got)
}

func TestStoreLatenessDelaysEligibility(t *testing.T) {
	tracker := NewTracker()
	store := NewStore[float64](sumFn{}, tracker, 4, 30)
	w := Of(0, 60)
	require.True(t, store.AddRecord("a", w, 1))

	tracker.Advance(60)
	require.Empty(t, store.PopEligible())
	//inside the grace period the window still accepts records
	require.True(t, store.AddRecord("a", w, 2))

	tracker.Advance(90)
	popped := store.PopEligible()
	require.Len(t, popped, 1)
	require.Equal(t, 3.0, popped[0].Accumulator)
}

func TestStoreMergeFoldsPartials(t *testing.T) {
	tracker := NewTracker()
	store := NewStore[float64](sumFn{}, tracker, 4, 0)
	w := Of(0, 60)
	require.True(t, store.Merge("a", w, 10))
	require.True(t, store.AddRecord("a", w, 1))
	require.True(t, store.Merge("a", w, 5))

	tracker.Advance(60)
	popped := store.PopEligible()
	require.Len(t, popped, 1)
	require.Equal(t, 16.0, popped[0].Accumulator)

	require.False(t, store.Merge("a", w, 1))
	require.Equal(t, uint64(1), store.LateDropped())
}

func TestEligibleAtSaturates(t *testing.T) {
	w := Window{Start: Infinity - 60, End: Infinity}
	require.Equal(t, Infinity, eligibleAt(w, 30))
	require.Equal(t, int64(90), eligibleAt(Of(0, 60), 30))
}
