package memory

import (
	_c "context"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	kcontext "kairos/context"
	"kairos/record"
)

func TestCollectReplaysConfiguredReadings(t *testing.T) {
	logger, _ := test.NewNullLogger()
	v := viper.New()
	v.Set("records", []string{
		"sensor_A,20.0,0",
		"not a reading",
		"sensor_B,25.0,30",
	})
	ctx := kcontext.New(_c.Background(), v, logger)

	s := New()
	require.NoError(t, s.Open(ctx))

	var emitted []record.Ptr
	require.NoError(t, s.Collect(func(ptr record.Ptr) {
		emitted = append(emitted, ptr)
	}))
	require.NoError(t, s.Close())

	require.Len(t, emitted, 2)
	require.Equal(t, "sensor_A", emitted[0].Key)
	require.Equal(t, time.Unix(0, 0).UTC(), emitted[0].Time)
	value, ok := record.Reading(emitted[0])
	require.True(t, ok)
	require.Equal(t, 20.0, value)
	require.Equal(t, "sensor_B", emitted[1].Key)
}

func TestCollectStopsOnCancel(t *testing.T) {
	logger, _ := test.NewNullLogger()
	v := viper.New()
	v.Set("records", []string{"sensor_A,20.0,0"})
	ctx := kcontext.New(_c.Background(), v, logger)

	s := New()
	require.NoError(t, s.Open(ctx))
	ctx.Cancel()

	var emitted []record.Ptr
	require.NoError(t, s.Collect(func(ptr record.Ptr) {
		emitted = append(emitted, ptr)
	}))
	require.Empty(t, emitted)
}
