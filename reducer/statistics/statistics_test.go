package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractEmptyAccumulator(t *testing.T) {
	out := Fn{}.ExtractOutput(Fn{}.CreateAccumulator())
	require.Equal(t, int64(0), out.Count)
	require.True(t, math.IsNaN(out.Mean))
	require.True(t, math.IsNaN(out.StdDev))
	require.True(t, math.IsNaN(out.Variance))
}

func TestExtractSingleSample(t *testing.T) {
	fn := Fn{}
	out := fn.ExtractOutput(fn.AddInput(fn.CreateAccumulator(), 22.0))
	require.Equal(t, int64(1), out.Count)
	require.InDelta(t, 22.0, out.Mean, 1e-9)
	require.True(t, math.IsNaN(out.StdDev))
	require.True(t, math.IsNaN(out.Variance))
}

func TestExtractKnownValues(t *testing.T) {
	fn := Fn{}
	acc := fn.CreateAccumulator()
	for _, v := range []float64{20.0, 21.0} {
		acc = fn.AddInput(acc, v)
	}
	out := fn.ExtractOutput(acc)
	require.Equal(t, int64(2), out.Count)
	require.InDelta(t, 20.5, out.Mean, 1e-9)
	require.InDelta(t, math.Sqrt(0.5), out.StdDev, 1e-9)
	require.InDelta(t, 0.5, out.Variance, 1e-9)
	//sample variance is the square of the sample deviation
	require.InDelta(t, out.StdDev*out.StdDev, out.Variance, 1e-9)
}

func TestMergeOfEmptiesIsEmpty(t *testing.T) {
	fn := Fn{}
	merged := fn.MergeAccumulators([][]float64{fn.CreateAccumulator(), fn.CreateAccumulator()})
	require.Empty(t, merged)
	require.Equal(t, fn.ExtractOutput(fn.CreateAccumulator()).Count, fn.ExtractOutput(merged).Count)
}

func TestMergeOfOneIsIdentity(t *testing.T) {
	fn := Fn{}
	acc := fn.AddInput(fn.AddInput(fn.CreateAccumulator(), 20.0), 21.0)
	require.Equal(t, acc, fn.MergeAccumulators([][]float64{acc}))
}

func TestMergeMatchesSequentialAdds(t *testing.T) {
	fn := Fn{}
	values := []float64{20.0, 20.5, 21.0, 20.3, 22.0}

	sequential := fn.CreateAccumulator()
	for _, v := range values {
		sequential = fn.AddInput(sequential, v)
	}

	left := fn.CreateAccumulator()
	right := fn.CreateAccumulator()
	for i, v := range values {
		if i%2 == 0 {
			left = fn.AddInput(left, v)
		} else {
			right = fn.AddInput(right, v)
		}
	}

	want := fn.ExtractOutput(sequential)
	for _, merged := range [][]float64{
		fn.MergeAccumulators([][]float64{left, right}),
		fn.MergeAccumulators([][]float64{right, left}),
	} {
		got := fn.ExtractOutput(merged)
		require.Equal(t, want.Count, got.Count)
		require.InDelta(t, want.Mean, got.Mean, 1e-9)
		require.InDelta(t, want.StdDev, got.StdDev, 1e-9)
		require.InDelta(t, want.Variance, got.Variance, 1e-9)
	}
}
