package httppost

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"kairos"
	"kairos/properties"
	"kairos/record"
)

var (
	UrlProperty     = properties.NewRequiredProperty[string]("url", "results are POSTed here as JSON")
	TimeoutProperty = properties.NewProperty[int]("timeout", "request timeout in seconds", 5)
)

type payload struct {
	Sensor      string   `json:"sensor"`
	WindowStart int64    `json:"window_start"`
	WindowEnd   int64    `json:"window_end"`
	Count       int64    `json:"count"`
	Mean        *float64 `json:"mean"`
	StdDev      *float64 `json:"std_dev"`
	Variance    *float64 `json:"variance"`
}

//defined maps undefined statistics to JSON null, NaN is not
//representable in JSON.
func defined(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

//sink publishes fired windows to an HTTP collector. Failures are
//logged and the result is lost, retry policy belongs to the collector
//side.
type sink struct {
	ctx    kairos.Context
	url    string
	client *http.Client
}

func (s *sink) Open(ctx kairos.Context) error {
	s.ctx = ctx
	s.url = ctx.Properties().GetString(UrlProperty.Name())
	s.client = &http.Client{Timeout: time.Duration(ctx.Properties().GetInt(TimeoutProperty.Name())) * time.Second}
	return nil
}

func (s *sink) Close() error {
	return nil
}

func (s *sink) PropertyDef() kairos.PropertyDef {
	return kairos.PropertyDef{UrlProperty, TimeoutProperty}
}

func (s *sink) Emit(ptr record.Ptr) {
	result, ok := record.AsResult(ptr)
	if !ok {
		return
	}
	if err := s.post(result); err != nil {
		s.ctx.Logger().WithError(err).Errorf("can't publish result for %s.", result.Key)
	}
}

func (s *sink) post(result record.Result) error {
	body, err := json.Marshal(payload{
		Sensor:      result.Key,
		WindowStart: result.Start.Unix(),
		WindowEnd:   result.End.Unix(),
		Count:       result.Statistics.Count,
		Mean:        defined(result.Statistics.Mean),
		StdDev:      defined(result.Statistics.StdDev),
		Variance:    defined(result.Statistics.Variance),
	})
	if err != nil {
		return err
	}
	response, err := s.client.Post(s.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer func() { _ = response.Body.Close() }()
	if response.StatusCode >= 300 {
		return errors.Errorf("collector answered %s", response.Status)
	}
	return nil
}

func New() kairos.Sink {
	return &sink{}
}
