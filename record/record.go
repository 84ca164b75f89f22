package record

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

//serialize

type Serializer func(ptr Ptr) ([]byte, error)
type Deserializer func([]byte) (Ptr, error)

//Ptr is not thread safety
type Ptr *Record

//Record is the envelope transmitted between components.
//Message is float64 for a raw reading and Result for a fired window.
type Record struct {
	Key     string
	Message any
	Time    time.Time
}

//Statistics is the reduced value of one window. When Count < 2 the
//spread statistics are NaN rather than a division fault.
type Statistics struct {
	Count    int64
	Mean     float64
	StdDev   float64
	Variance float64
}

//Undefined reports whether the spread statistics carry no information.
func (s Statistics) Undefined() bool {
	return math.IsNaN(s.StdDev)
}

//Result is the outcome of exactly one fired (key, window) pair.
//Start and End bound the window half-open: [Start, End).
type Result struct {
	Key        string
	Start      time.Time
	End        time.Time
	Statistics Statistics
}

var (
	ErrEmptyKey   = errors.New("record key can't be empty")
	ErrBadReading = errors.New("reading value should be a finite float64")
)

func Copy(s Ptr) Ptr {
	return &Record{Key: s.Key, Message: s.Message, Time: s.Time}
}

func MustNewReading(key string, value float64, _time time.Time) Ptr {
	if ptr, err := NewReading(key, value, _time); err != nil {
		panic(err)
	} else {
		return ptr
	}
}

func NewReading(key string, value float64, _time time.Time) (Ptr, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, errors.WithMessagef(ErrBadReading, "key %s", key)
	}
	return &Record{Key: key, Message: value, Time: _time}, nil
}

func NewResult(result Result) Ptr {
	return &Record{Key: result.Key, Message: result, Time: result.End}
}

//Reading unpacks a raw reading envelope.
func Reading(ptr Ptr) (float64, bool) {
	value, ok := ptr.Message.(float64)
	return value, ok
}

//AsResult unpacks a fired window envelope.
func AsResult(ptr Ptr) (Result, bool) {
	result, ok := ptr.Message.(Result)
	return result, ok
}
