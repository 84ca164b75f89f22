package window

import (
	"github.com/pkg/errors"
)

var (
	ErrWindowSize       = errors.New("window size should be a positive number of seconds")
	ErrAccumulationMode = errors.New("unrecognized accumulation mode")
)

//AccumulationMode controls what happens to a window's state after it
//fires. Only discarding is supported: the accumulator is dropped and
//later records for the window are rejected.
type AccumulationMode string

const (
	Discarding   AccumulationMode = "discarding"
	Accumulating AccumulationMode = "accumulating"
)

func ParseAccumulationMode(s string) (AccumulationMode, error) {
	switch AccumulationMode(s) {
	case Discarding:
		return Discarding, nil
	case Accumulating:
		return "", errors.WithMessage(ErrAccumulationMode, "accumulating mode is not supported")
	default:
		return "", errors.WithMessagef(ErrAccumulationMode, "%q", s)
	}
}

//Assigner maps event times to tumbling windows of a fixed size.
//Assignment is pure, every integer event time belongs to exactly one
//window.
type Assigner struct {
	size int64
}

func NewAssigner(sizeSeconds int64) (*Assigner, error) {
	if sizeSeconds <= 0 {
		return nil, errors.WithMessagef(ErrWindowSize, "got %d", sizeSeconds)
	}
	return &Assigner{size: sizeSeconds}, nil
}

func (a *Assigner) Assign(eventTime int64) Window {
	return Of(eventTime, a.size)
}

func (a *Assigner) Size() int64 {
	return a.size
}
