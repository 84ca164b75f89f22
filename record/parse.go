package record

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

//Parse parses one "key,value,epochSeconds" line into a reading, the
//wire format of the memory and spooldir sources.
func Parse(raw string) (Ptr, error) {
	fields := strings.Split(strings.TrimSpace(raw), ",")
	if len(fields) != 3 {
		return nil, errors.Errorf("illegal field count %d in %q", len(fields), raw)
	}
	value, err := cast.ToFloat64E(strings.TrimSpace(fields[1]))
	if err != nil {
		return nil, errors.WithMessagef(err, "reading value in %q", raw)
	}
	seconds, err := cast.ToInt64E(strings.TrimSpace(fields[2]))
	if err != nil {
		return nil, errors.WithMessagef(err, "event time in %q", raw)
	}
	return NewReading(strings.TrimSpace(fields[0]), value, time.Unix(seconds, 0).UTC())
}
