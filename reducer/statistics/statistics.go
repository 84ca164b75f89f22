package statistics

import (
	"math"

	"github.com/montanaflynn/stats"

	"kairos/record"
	"kairos/window"
)

//Fn buffers raw samples per (key, window) and computes summary
//statistics at extraction. Buffering the raw sequence keeps the
//reducer order insensitive: add and merge in any order extract the
//same result.
//
//StdDev and Variance are the sample statistics (n-1 denominator);
//with fewer than two samples they are NaN rather than a division
//fault. Variance is StdDev squared.
type Fn struct{}

func New() Fn {
	return Fn{}
}

func (Fn) CreateAccumulator() []float64 {
	return nil
}

func (Fn) AddInput(acc []float64, value float64) []float64 {
	return append(acc, value)
}

func (Fn) MergeAccumulators(accs [][]float64) []float64 {
	var merged []float64
	for _, acc := range accs {
		merged = append(merged, acc...)
	}
	return merged
}

func (Fn) ExtractOutput(acc []float64) record.Statistics {
	n := int64(len(acc))
	if n == 0 {
		return record.Statistics{Count: 0, Mean: math.NaN(), StdDev: math.NaN(), Variance: math.NaN()}
	}
	mean, err := stats.Mean(acc)
	if err != nil {
		mean = math.NaN()
	}
	if n < 2 {
		return record.Statistics{Count: n, Mean: mean, StdDev: math.NaN(), Variance: math.NaN()}
	}
	stdDev, err := stats.StandardDeviationSample(acc)
	if err != nil {
		stdDev = math.NaN()
	}
	variance, err := stats.SampleVariance(acc)
	if err != nil {
		variance = math.NaN()
	}
	return record.Statistics{Count: n, Mean: mean, StdDev: stdDev, Variance: variance}
}

var _ window.CombineFn[[]float64, record.Statistics] = Fn{}
