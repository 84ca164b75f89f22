package properties

import (
	_c "context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"kairos"
	kcontext "kairos/context"
)

func newContext(settings map[string]interface{}) kairos.Context {
	v := viper.New()
	for key, value := range settings {
		v.Set(key, value)
	}
	logger, _ := test.NewNullLogger()
	return kcontext.New(_c.Background(), v, logger)
}

func TestInitPropertyDefAppliesDefaults(t *testing.T) {
	ctx := newContext(nil)
	def := kairos.PropertyDef{NewProperty[int]("window.size", "tumbling window size", 60)}
	rendered, err := InitPropertyDef(ctx, def)
	require.NoError(t, err)
	require.Contains(t, rendered, "window.size")
	require.Equal(t, 60, ctx.Properties().GetInt("window.size"))
}

func TestInitPropertyDefRejectsMissingRequired(t *testing.T) {
	ctx := newContext(nil)
	def := kairos.PropertyDef{NewRequiredProperty[[]string]("records", "readings")}
	_, err := InitPropertyDef(ctx, def)
	require.ErrorIs(t, err, ErrPropertyNoSet)

	ctx = newContext(map[string]interface{}{"records": []string{"sensor_A,20.0,0"}})
	_, err = InitPropertyDef(ctx, def)
	require.NoError(t, err)
}
