package echo

import (
	"fmt"

	"kairos"
	"kairos/properties"
	"kairos/record"
)

var (
	TypeProperty = properties.NewProperty[string]("echo", "echo type, like info debug", "info")
)

//sink renders fired windows in the reference result format. Rendering
//is synchronous, there is no buffering to lose on shutdown.
type sink struct {
	ctx      kairos.Context
	echoFunc func(format string, args ...interface{})
}

//Format renders one fired window.
func Format(result record.Result) string {
	return fmt.Sprintf("Sensor: %s, Window: %s, Stats: Count=%d, Mean=%.2f, StdDev=%.4f, Variance=%.4f",
		result.Key,
		result.Start.UTC().Format("2006-01-02 15:04:05"),
		result.Statistics.Count,
		result.Statistics.Mean,
		result.Statistics.StdDev,
		result.Statistics.Variance,
	)
}

func (s *sink) Emit(ptr record.Ptr) {
	if result, ok := record.AsResult(ptr); ok {
		s.echoFunc("%s", Format(result))
		return
	}
	s.echoFunc("%+v", ptr)
}

func (s *sink) Open(ctx kairos.Context) error {
	s.ctx = ctx
	echoType := ctx.Properties().GetString(TypeProperty.Name())
	switch echoType {
	case "debug":
		s.echoFunc = s.ctx.Logger().Debugf
	case "warn":
		s.echoFunc = s.ctx.Logger().Warnf
	case "error":
		s.echoFunc = s.ctx.Logger().Errorf
	case "info":
		s.echoFunc = s.ctx.Logger().Infof
	default:
		s.ctx.Logger().Warnf("unknown echo type %s, use info", echoType)
		s.echoFunc = s.ctx.Logger().Infof
	}
	return nil
}

func (s *sink) Close() error {
	return nil
}

func (s *sink) PropertyDef() kairos.PropertyDef {
	return kairos.PropertyDef{TypeProperty}
}

func New() kairos.Sink {
	return &sink{}
}
