package window

import (
	"math"
	"sync/atomic"
)

//Tracker is the process wide low watermark: a monotone lower bound on
//the event time of any future record. It only exposes state, firing on
//advance is the engine's job.
type Tracker struct {
	current int64
}

func NewTracker() *Tracker {
	return &Tracker{current: math.MinInt64}
}

//Advance max-merges candidate into the watermark and returns the
//resulting value. Advancing backward is a no-op, not an error: out of
//order input must not corrupt the watermark.
func (t *Tracker) Advance(candidate int64) int64 {
	for {
		current := atomic.LoadInt64(&t.current)
		if candidate <= current {
			return current
		}
		if atomic.CompareAndSwapInt64(&t.current, current, candidate) {
			return candidate
		}
	}
}

//AdvanceToInfinity marks end-of-stream, guaranteeing every pending
//window eventually fires.
func (t *Tracker) AdvanceToInfinity() {
	t.Advance(Infinity)
}

func (t *Tracker) Current() int64 {
	return atomic.LoadInt64(&t.current)
}
