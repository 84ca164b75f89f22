package record

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewReadingValidates(t *testing.T) {
	now := time.Now()

	ptr, err := NewReading("sensor_A", 20.5, now)
	require.NoError(t, err)
	require.Equal(t, "sensor_A", ptr.Key)
	require.Equal(t, now, ptr.Time)
	value, ok := Reading(ptr)
	require.True(t, ok)
	require.Equal(t, 20.5, value)

	_, err = NewReading("", 20.5, now)
	require.ErrorIs(t, err, ErrEmptyKey)

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err = NewReading("sensor_A", bad, now)
		require.ErrorIs(t, err, ErrBadReading)
	}
}

func TestResultEnvelope(t *testing.T) {
	result := Result{
		Key:        "sensor_A",
		Start:      time.Unix(1678886400, 0).UTC(),
		End:        time.Unix(1678886460, 0).UTC(),
		Statistics: Statistics{Count: 2, Mean: 20.25, StdDev: 0.3536, Variance: 0.125},
	}
	ptr := NewResult(result)
	require.Equal(t, "sensor_A", ptr.Key)
	require.Equal(t, result.End, ptr.Time)

	unpacked, ok := AsResult(ptr)
	require.True(t, ok)
	require.Equal(t, result, unpacked)

	_, ok = Reading(ptr)
	require.False(t, ok)
}

func TestStatisticsUndefined(t *testing.T) {
	require.True(t, Statistics{Count: 1, Mean: 20, StdDev: math.NaN(), Variance: math.NaN()}.Undefined())
	require.False(t, Statistics{Count: 2, Mean: 20, StdDev: 0.5, Variance: 0.25}.Undefined())
}

func TestParse(t *testing.T) {
	ptr, err := Parse("sensor_A,20.5,1678886430")
	require.NoError(t, err)
	require.Equal(t, "sensor_A", ptr.Key)
	require.Equal(t, time.Unix(1678886430, 0).UTC(), ptr.Time)
	value, ok := Reading(ptr)
	require.True(t, ok)
	require.Equal(t, 20.5, value)

	//whitespace tolerant
	ptr, err = Parse(" sensor_B , 25 , 1678886410 \n")
	require.NoError(t, err)
	require.Equal(t, "sensor_B", ptr.Key)

	for _, raw := range []string{
		"",
		"sensor_A,20.5",
		"sensor_A,20.5,1678886430,extra",
		"sensor_A,twenty,1678886430",
		"sensor_A,20.5,noon",
		",20.5,1678886430",
	} {
		_, err = Parse(raw)
		require.Error(t, err, raw)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	ptr := MustNewReading("sensor_A", 20.5, time.Unix(0, 0))
	clone := Copy(ptr)
	clone.Key = "sensor_B"
	require.Equal(t, "sensor_A", ptr.Key)
	require.Equal(t, ptr.Message, clone.Message)
}
