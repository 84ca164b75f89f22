package window

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
)

//Emitter receives exactly one result per fired (key, window),
//synchronously after extraction. An error fails the firing pass, no
//retry and no silent drop.
type Emitter[OUT any] interface {
	Emit(key string, w Window, out OUT) error
}

type EmitterFunc[OUT any] func(key string, w Window, out OUT) error

func (f EmitterFunc[OUT]) Emit(key string, w Window, out OUT) error {
	return f(key, w, out)
}

type config struct {
	lateness int64
	shards   int
	pool     *ants.Pool
}

type Option func(*config)

//WithLateness retains closed windows' rejection horizon for grace
//seconds: a window fires only once the watermark passes End+grace.
func WithLateness(grace int64) Option {
	return func(c *config) {
		c.lateness = grace
	}
}

//WithShards sets the accumulator store shard count.
func WithShards(n int) Option {
	return func(c *config) {
		c.shards = n
	}
}

//WithPool fires eligible windows concurrently on pool instead of
//inline. Results for independent keys are emitted in parallel.
func WithPool(pool *ants.Pool) Option {
	return func(c *config) {
		c.pool = pool
	}
}

//Engine is the windowed aggregation core: it assigns records to
//tumbling windows, accumulates them per (key, window) through a
//CombineFn, and fires each window exactly once when the watermark
//passes its end, discarding the accumulator.
//
//Per (key, window) the life cycle is open -> fired, there is no other
//state: popping the entry under its shard lock both fires and
//discards it, and the store rejects records for closed windows.
type Engine[ACC, OUT any] struct {
	assigner *Assigner
	tracker  *Tracker
	store    *Store[ACC]
	fn       CombineFn[ACC, OUT]
	emitter  Emitter[OUT]
	pool     *ants.Pool

	//firing passes are serialized so emits of one pass finish before
	//the next begins
	firing sync.Mutex

	maxEventTime int64
}

func NewEngine[ACC, OUT any](sizeSeconds int64, fn CombineFn[ACC, OUT], emitter Emitter[OUT], options ...Option) (*Engine[ACC, OUT], error) {
	assigner, err := NewAssigner(sizeSeconds)
	if err != nil {
		return nil, err
	}
	cfg := config{lateness: 0, shards: 8}
	for _, option := range options {
		option(&cfg)
	}
	if cfg.lateness < 0 {
		return nil, errors.WithMessagef(ErrWindowSize, "lateness %d", cfg.lateness)
	}
	tracker := NewTracker()
	return &Engine[ACC, OUT]{
		assigner:     assigner,
		tracker:      tracker,
		store:        NewStore[ACC](fn, tracker, cfg.shards, cfg.lateness),
		fn:           fn,
		emitter:      emitter,
		pool:         cfg.pool,
		maxEventTime: math.MinInt64,
	}, nil
}

//Process folds one record into its window's accumulator. It reports
//false when the record was late-dropped. Process never fires, firing
//belongs to watermark advances.
func (e *Engine[ACC, OUT]) Process(key string, value float64, eventTime int64) bool {
	e.observe(eventTime)
	return e.store.AddRecord(key, e.assigner.Assign(eventTime), value)
}

func (e *Engine[ACC, OUT]) observe(eventTime int64) {
	for {
		seen := atomic.LoadInt64(&e.maxEventTime)
		if eventTime <= seen {
			return
		}
		if atomic.CompareAndSwapInt64(&e.maxEventTime, seen, eventTime) {
			return
		}
	}
}

//ObservedMax is the largest event time processed so far, the raw
//material of a heartbeat watermark. math.MinInt64 before any record.
func (e *Engine[ACC, OUT]) ObservedMax() int64 {
	return atomic.LoadInt64(&e.maxEventTime)
}

//AdvanceWatermark max-merges candidate into the watermark and fires
//every window that became eligible. A sink error aborts the pass and
//propagates; fired entries are already discarded.
func (e *Engine[ACC, OUT]) AdvanceWatermark(candidate int64) error {
	e.tracker.Advance(candidate)
	return e.fire()
}

//Drain forces the watermark to infinity and fires every open window.
//After Drain returns no half-fired state is observable.
func (e *Engine[ACC, OUT]) Drain() error {
	e.tracker.AdvanceToInfinity()
	return e.fire()
}

func (e *Engine[ACC, OUT]) fire() error {
	e.firing.Lock()
	defer e.firing.Unlock()
	eligible := e.store.PopEligible()
	if len(eligible) == 0 {
		return nil
	}
	//deterministic emit order when firing inline
	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].Key != eligible[j].Key {
			return eligible[i].Key < eligible[j].Key
		}
		return eligible[i].Window.Start < eligible[j].Window.Start
	})
	if e.pool == nil {
		for _, entry := range eligible {
			if err := e.emitter.Emit(entry.Key, entry.Window, e.fn.ExtractOutput(entry.Accumulator)); err != nil {
				return errors.WithMessagef(err, "emit %s %s", entry.Key, entry.Window)
			}
		}
		return nil
	}
	var (
		wg       sync.WaitGroup
		errMutex sync.Mutex
		firstErr error
	)
	for _, entry := range eligible {
		entry := entry
		wg.Add(1)
		submit := func() {
			defer wg.Done()
			if err := e.emitter.Emit(entry.Key, entry.Window, e.fn.ExtractOutput(entry.Accumulator)); err != nil {
				errMutex.Lock()
				if firstErr == nil {
					firstErr = errors.WithMessagef(err, "emit %s %s", entry.Key, entry.Window)
				}
				errMutex.Unlock()
			}
		}
		if err := e.pool.Submit(submit); err != nil {
			//pool rejected the task, fire inline rather than lose it
			submit()
		}
	}
	wg.Wait()
	return firstErr
}

//Watermark is the tracker's current value.
func (e *Engine[ACC, OUT]) Watermark() int64 {
	return e.tracker.Current()
}

//LateDropped counts records rejected for already-fired windows.
func (e *Engine[ACC, OUT]) LateDropped() uint64 {
	return e.store.LateDropped()
}

//OpenWindows is the number of (key, window) entries not yet fired.
func (e *Engine[ACC, OUT]) OpenWindows() int {
	return e.store.Len()
}
