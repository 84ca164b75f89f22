package aggregate

import (
	"math"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"kairos"
	"kairos/properties"
	"kairos/record"
	"kairos/reducer/statistics"
	"kairos/reducer/tengo"
	"kairos/window"
)

var (
	WindowSizeProperty = properties.NewProperty[int]("window.size", "tumbling window size in seconds", 60)
	ModeProperty       = properties.NewProperty[string]("mode", "accumulation mode, only discarding", "discarding")
	LatenessProperty   = properties.NewProperty[int]("lateness", "grace period in seconds before a window fires", 0)
	ReducerProperty    = properties.NewProperty[string]("reducer", "statistics or tengo", "statistics")
	ScriptProperty     = properties.NewProperty[string]("script", "tengo script for the tengo reducer", "")
	HeartbeatProperty  = properties.NewProperty[string]("watermark.heartbeat", "cron expression driving watermark advance", "@every 1s")
	DelayProperty      = properties.NewProperty[int]("watermark.delay", "max expected out of orderness in seconds", 0)
	ShardsProperty     = properties.NewProperty[int]("shards", "accumulator store shards", 8)
	ConcurrentProperty = properties.NewProperty[int]("firing.concurrent", "concurrent firing emits", 4)
)

//operator is the event-time windowed aggregation operator. Records
//flow in through Emit from any number of upstream components, a cron
//heartbeat advances the watermark to the max observed event time minus
//the configured delay, and closed windows fire downstream as result
//envelopes. Close drains: every open window fires before the operator
//stops, so a finite source always yields its final windows.
type operator struct {
	ctx    kairos.Context
	engine *window.Engine[[]float64, record.Statistics]
	cron   *cron.Cron
	pool   *ants.Pool
	delay  int64

	emitMutex sync.RWMutex
	emitNext  kairos.EmitNext
}

func (o *operator) PropertyDef() kairos.PropertyDef {
	return kairos.PropertyDef{WindowSizeProperty, ModeProperty, LatenessProperty, ReducerProperty,
		ScriptProperty, HeartbeatProperty, DelayProperty, ShardsProperty, ConcurrentProperty}
}

func (o *operator) Open(ctx kairos.Context) error {
	o.ctx = ctx
	if _, err := window.ParseAccumulationMode(ctx.Properties().GetString(ModeProperty.Name())); err != nil {
		return err
	}
	fn, err := o.newReducer()
	if err != nil {
		return err
	}
	o.pool, err = ants.NewPool(ctx.Properties().GetInt(ConcurrentProperty.Name()), ants.WithLogger(ctx.Logger()))
	if err != nil {
		return err
	}
	o.delay = int64(ctx.Properties().GetInt(DelayProperty.Name()))
	o.engine, err = window.NewEngine[[]float64, record.Statistics](
		int64(ctx.Properties().GetInt(WindowSizeProperty.Name())),
		fn,
		window.EmitterFunc[record.Statistics](o.emitResult),
		window.WithLateness(int64(ctx.Properties().GetInt(LatenessProperty.Name()))),
		window.WithShards(ctx.Properties().GetInt(ShardsProperty.Name())),
		window.WithPool(o.pool),
	)
	if err != nil {
		return errors.WithMessage(err, "can't build window engine")
	}
	o.cron = cron.New()
	if _, err = o.cron.AddFunc(ctx.Properties().GetString(HeartbeatProperty.Name()), o.heartbeat); err != nil {
		return errors.WithMessage(err, "can't add watermark heartbeat to cron")
	}
	return nil
}

func (o *operator) newReducer() (window.CombineFn[[]float64, record.Statistics], error) {
	name := o.ctx.Properties().GetString(ReducerProperty.Name())
	switch name {
	case "statistics":
		return statistics.New(), nil
	case "tengo":
		script := o.ctx.Properties().GetString(ScriptProperty.Name())
		if script == "" {
			return nil, errors.New("tengo reducer needs a script property")
		}
		return tengo.New(script)
	default:
		return nil, errors.Errorf("unknown reducer %q", name)
	}
}

//Emit receives records from upstream. Late records are absorbed here:
//counted and dropped, never an error, disorder is expected input.
func (o *operator) Emit(ptr record.Ptr) {
	if o.engine == nil {
		return
	}
	value, ok := record.Reading(ptr)
	if !ok {
		o.ctx.Logger().Warnf("drop non-reading message for key %s.", ptr.Key)
		return
	}
	if !o.engine.Process(ptr.Key, value, ptr.Time.Unix()) {
		o.ctx.Logger().Debugf("late record dropped, key %s event time %d.", ptr.Key, ptr.Time.Unix())
	}
}

func (o *operator) emitResult(key string, w window.Window, s record.Statistics) error {
	o.emitMutex.RLock()
	emitNext := o.emitNext
	o.emitMutex.RUnlock()
	if emitNext == nil {
		return errors.New("aggregate is not collecting, result has nowhere to go")
	}
	emitNext(record.NewResult(record.Result{
		Key:        key,
		Start:      w.StartTime(),
		End:        w.EndTime(),
		Statistics: s,
	}))
	return nil
}

//heartbeat advances the watermark to the max observed event time minus
//the out of orderness delay. A racy observation only ever delays a
//firing, never wrongly advances the watermark.
func (o *operator) heartbeat() {
	observed := o.engine.ObservedMax()
	if observed == math.MinInt64 {
		return
	}
	if err := o.engine.AdvanceWatermark(observed - o.delay); err != nil {
		o.ctx.Logger().WithError(err).Error("firing pass failed.")
	}
}

func (o *operator) Collect(emitNext kairos.EmitNext) error {
	o.emitMutex.Lock()
	o.emitNext = emitNext
	o.emitMutex.Unlock()
	o.cron.Start()
	<-o.ctx.Done()
	o.cron.Stop()
	return nil
}

//Close drains the engine: watermark to infinity, every open window
//fires into the still-running sinks.
func (o *operator) Close() error {
	defer o.pool.Release()
	if err := o.engine.Drain(); err != nil {
		return errors.WithMessage(err, "drain failed")
	}
	if dropped := o.engine.LateDropped(); dropped > 0 {
		o.ctx.Logger().Infof("dropped %d late records.", dropped)
	}
	return nil
}

func New() kairos.Operator {
	return &operator{}
}
