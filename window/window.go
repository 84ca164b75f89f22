package window

import (
	"fmt"
	"math"
	"time"
)

//Infinity is the watermark value after end-of-stream, every pending
//window is eligible once the watermark reaches it.
const Infinity int64 = math.MaxInt64

//Window is a half-open event time interval [Start, End) in epoch
//seconds. Windows are value objects, derived from an event time and
//never mutated.
type Window struct {
	Start int64
	End   int64
}

//Of derives the tumbling window owning eventTime. Boundaries are
//aligned by floor division so they do not depend on arrival order.
func Of(eventTime int64, size int64) Window {
	start := floorDiv(eventTime, size) * size
	return Window{Start: start, End: start + size}
}

//floorDiv rounds towards negative infinity, Go's integer division
//truncates towards zero and would misalign negative event times.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func (w Window) Contains(eventTime int64) bool {
	return eventTime >= w.Start && eventTime < w.End
}

//MaxTimestamp is the largest event time belonging to the window.
func (w Window) MaxTimestamp() int64 {
	return w.End - 1
}

func (w Window) StartTime() time.Time {
	return time.Unix(w.Start, 0).UTC()
}

func (w Window) EndTime() time.Time {
	return time.Unix(w.End, 0).UTC()
}

func (w Window) String() string {
	return fmt.Sprintf("[%d,%d)", w.Start, w.End)
}
