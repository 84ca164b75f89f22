package memory

import (
	"kairos"
	"kairos/properties"
	"kairos/record"
)

var (
	RecordsProperty = properties.NewRequiredProperty[[]string]("records", "readings as key,value,epochSeconds lines")
)

//source replays a finite list of readings from configuration and then
//returns, signalling end-of-stream: the engine drains the pipeline and
//every pending window fires. Arrival order is the configured order,
//event time order is whatever the configuration says.
type source struct {
	ctx  kairos.Context
	rows []string
}

func (s *source) PropertyDef() kairos.PropertyDef {
	return kairos.PropertyDef{RecordsProperty}
}

func (s *source) Open(ctx kairos.Context) error {
	s.ctx = ctx
	s.rows = ctx.Properties().GetStringSlice(RecordsProperty.Name())
	return nil
}

func (s *source) Close() error {
	return nil
}

func (s *source) Collect(emitNext kairos.EmitNext) error {
	for _, row := range s.rows {
		select {
		case <-s.ctx.Done():
			return nil
		default:
		}
		ptr, err := record.Parse(row)
		if err != nil {
			s.ctx.Logger().WithError(err).Warnf("skip unparsable reading %q.", row)
			continue
		}
		emitNext(ptr)
	}
	return nil
}

func New() kairos.Source {
	return &source{}
}
