package window

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAssignerRejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int64{0, -1, -60} {
		_, err := NewAssigner(size)
		require.ErrorIs(t, err, ErrWindowSize)
	}
	assigner, err := NewAssigner(60)
	require.NoError(t, err)
	require.Equal(t, int64(60), assigner.Size())
	require.Equal(t, Of(65, 60), assigner.Assign(65))
}

func TestParseAccumulationMode(t *testing.T) {
	mode, err := ParseAccumulationMode("discarding")
	require.NoError(t, err)
	require.Equal(t, Discarding, mode)

	_, err = ParseAccumulationMode("accumulating")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrAccumulationMode)

	_, err = ParseAccumulationMode("bogus")
	require.ErrorIs(t, err, ErrAccumulationMode)
}
