package window

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
)

type entryKey struct {
	key    string
	window Window
}

//Entry is one in-progress (key, window) accumulator.
type Entry[ACC any] struct {
	Key         string
	Window      Window
	Accumulator ACC
}

type shard[ACC any] struct {
	mutex sync.Mutex
	open  map[entryKey]ACC
}

//Store owns every open accumulator, sharded by key so that mutation of
//a given (key, window) entry is serialized while independent keys stay
//concurrent. Late records, those whose window is already closed with
//respect to the tracker, are dropped and counted, never an error.
type Store[ACC any] struct {
	fn       Accumulate[ACC]
	tracker  *Tracker
	lateness int64
	shards   []*shard[ACC]

	lateDropped uint64
}

func NewStore[ACC any](fn Accumulate[ACC], tracker *Tracker, shards int, lateness int64) *Store[ACC] {
	if shards < 1 {
		shards = 1
	}
	s := &Store[ACC]{fn: fn, tracker: tracker, lateness: lateness, shards: make([]*shard[ACC], shards)}
	for i := range s.shards {
		s.shards[i] = &shard[ACC]{open: map[entryKey]ACC{}}
	}
	return s
}

func (s *Store[ACC]) shardOf(key string) *shard[ACC] {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

//closed reports whether w already fired, or will never be allowed to
//accept records again. The watermark is re-read under the shard lock,
//so a record racing a firing pass either lands before the pop or is
//rejected here, an accumulator is never resurrected.
func (s *Store[ACC]) closed(w Window) bool {
	return eligibleAt(w, s.lateness) <= s.tracker.Current()
}

//eligibleAt is the watermark at which w fires: end of window plus the
//allowed lateness, saturating instead of overflowing.
func eligibleAt(w Window, lateness int64) int64 {
	at := w.End + lateness
	if at < w.End {
		return Infinity
	}
	return at
}

//AddRecord folds value into the (key, w) accumulator, creating it on
//first contact. It reports false when the record is late-dropped.
func (s *Store[ACC]) AddRecord(key string, w Window, value float64) bool {
	sh := s.shardOf(key)
	sh.mutex.Lock()
	defer sh.mutex.Unlock()
	if s.closed(w) {
		atomic.AddUint64(&s.lateDropped, 1)
		return false
	}
	ek := entryKey{key: key, window: w}
	acc, ok := sh.open[ek]
	if !ok {
		acc = s.fn.CreateAccumulator()
	}
	sh.open[ek] = s.fn.AddInput(acc, value)
	return true
}

//Merge folds a partial accumulator from a parallel shard into the
//(key, w) entry, subject to the same lateness check as AddRecord.
func (s *Store[ACC]) Merge(key string, w Window, other ACC) bool {
	sh := s.shardOf(key)
	sh.mutex.Lock()
	defer sh.mutex.Unlock()
	if s.closed(w) {
		atomic.AddUint64(&s.lateDropped, 1)
		return false
	}
	ek := entryKey{key: key, window: w}
	if acc, ok := sh.open[ek]; ok {
		sh.open[ek] = s.fn.MergeAccumulators([]ACC{acc, other})
	} else {
		sh.open[ek] = other
	}
	return true
}

//PopEligible atomically removes and returns every entry whose window
//is eligible under the current watermark. Removal under the shard lock
//is what makes firing exactly-once: a second pass can never see the
//same entry, and a concurrent AddRecord observes the advanced
//watermark and drops.
func (s *Store[ACC]) PopEligible() []Entry[ACC] {
	watermark := s.tracker.Current()
	var eligible []Entry[ACC]
	for _, sh := range s.shards {
		sh.mutex.Lock()
		for ek, acc := range sh.open {
			if eligibleAt(ek.window, s.lateness) <= watermark {
				eligible = append(eligible, Entry[ACC]{Key: ek.key, Window: ek.window, Accumulator: acc})
				delete(sh.open, ek)
			}
		}
		sh.mutex.Unlock()
	}
	return eligible
}

//Len is the number of windows not yet closed, the store's memory bound.
func (s *Store[ACC]) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mutex.Lock()
		n += len(sh.open)
		sh.mutex.Unlock()
	}
	return n
}

//LateDropped counts records rejected because their window had fired.
func (s *Store[ACC]) LateDropped() uint64 {
	return atomic.LoadUint64(&s.lateDropped)
}
