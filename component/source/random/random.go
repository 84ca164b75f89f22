package random

import (
	"math/rand"
	"time"

	"kairos"
	"kairos/properties"
	"kairos/record"
)

var (
	IntervalProperty = properties.NewProperty[int]("interval", "random source generate reading interval in milliseconds", 100)
	KeysProperty     = properties.NewProperty[[]string]("keys", "sensor keys to generate readings for", []string{"sensor_A", "sensor_B"})
	BaseProperty     = properties.NewProperty[float64]("base", "reading base value", 20.0)
	SpreadProperty   = properties.NewProperty[float64]("spread", "reading value spread", 5.0)
	JitterProperty   = properties.NewProperty[int]("jitter", "max seconds readings are backdated, makes input out of order", 0)
)

type source struct {
	ctx      kairos.Context
	interval int
	keys     []string
	base     float64
	spread   float64
	jitter   int
}

func (s *source) PropertyDef() kairos.PropertyDef {
	return kairos.PropertyDef{IntervalProperty, KeysProperty, BaseProperty, SpreadProperty, JitterProperty}
}

func (s *source) Collect(emitNext kairos.EmitNext) error {
	ticker := time.NewTicker(time.Duration(s.interval) * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			//source close
			return nil
		case <-ticker.C:
			key := s.keys[rand.Intn(len(s.keys))]
			eventTime := time.Now()
			if s.jitter > 0 {
				eventTime = eventTime.Add(-time.Duration(rand.Intn(s.jitter+1)) * time.Second)
			}
			emitNext(record.MustNewReading(key, s.base+rand.Float64()*s.spread, eventTime))
		}
	}
}

func (s *source) Open(ctx kairos.Context) error {
	s.ctx = ctx
	s.interval = ctx.Properties().GetInt(IntervalProperty.Name())
	s.keys = ctx.Properties().GetStringSlice(KeysProperty.Name())
	s.base = ctx.Properties().GetFloat64(BaseProperty.Name())
	s.spread = ctx.Properties().GetFloat64(SpreadProperty.Name())
	s.jitter = ctx.Properties().GetInt(JitterProperty.Name())
	return nil
}

func (s *source) Close() error {
	return nil
}

//New uses for test only
func New() kairos.Source {
	return &source{}
}
