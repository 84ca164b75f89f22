package tengo

import (
	"math"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"kairos/record"
	"kairos/window"
)

//Fn computes window statistics with a user supplied tengo script
//instead of the built-in formulas. The script sees the buffered
//samples as `values` and assigns `count`, `mean`, `std_dev` and
//`variance`. Accumulation is the same raw sample buffer as the
//statistics reducer, only extraction is scripted.
type Fn struct {
	compiled *tengo.Compiled
}

func New(script string) (*Fn, error) {
	s := tengo.NewScript([]byte(script))
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	if err := s.Add("values", []interface{}{}); err != nil {
		return nil, errors.WithMessage(err, "can't add values variable to reducer script")
	}
	for _, out := range []string{"count", "mean", "std_dev", "variance"} {
		if err := s.Add(out, tengo.UndefinedValue); err != nil {
			return nil, errors.WithMessagef(err, "can't add %s variable to reducer script", out)
		}
	}
	compiled, err := s.Compile()
	if err != nil {
		return nil, errors.WithMessage(err, "can't compile reducer script")
	}
	return &Fn{compiled: compiled}, nil
}

func (f *Fn) CreateAccumulator() []float64 {
	return nil
}

func (f *Fn) AddInput(acc []float64, value float64) []float64 {
	return append(acc, value)
}

func (f *Fn) MergeAccumulators(accs [][]float64) []float64 {
	var merged []float64
	for _, acc := range accs {
		merged = append(merged, acc...)
	}
	return merged
}

//ExtractOutput runs the script on a clone of the compiled program, so
//concurrent firings don't share interpreter state. A script failure
//yields undefined statistics instead of poisoning the firing pass.
func (f *Fn) ExtractOutput(acc []float64) record.Statistics {
	undefined := record.Statistics{Count: int64(len(acc)), Mean: math.NaN(), StdDev: math.NaN(), Variance: math.NaN()}
	values := make([]interface{}, len(acc))
	for i, v := range acc {
		values[i] = v
	}
	clone := f.compiled.Clone()
	if err := clone.Set("values", values); err != nil {
		return undefined
	}
	if err := clone.Run(); err != nil {
		return undefined
	}
	return record.Statistics{
		Count:    cast.ToInt64(clone.Get("count").Value()),
		Mean:     toFloat(clone.Get("mean")),
		StdDev:   toFloat(clone.Get("std_dev")),
		Variance: toFloat(clone.Get("variance")),
	}
}

func toFloat(v *tengo.Variable) float64 {
	if v == nil || v.Object() == tengo.UndefinedValue {
		return math.NaN()
	}
	f, err := cast.ToFloat64E(v.Value())
	if err != nil {
		return math.NaN()
	}
	return f
}

var _ window.CombineFn[[]float64, record.Statistics] = &Fn{}
