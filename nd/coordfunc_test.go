package nd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsCoordFuncMatrixComputesFromCoordinates(t *testing.T) {
	f := CoordFuncAdapter(func(coords []int64) float64 {
		return float64(coords[0]*10 + coords[1])
	})
	m, err := AsCoordFuncMatrix(true, f, I32, []int64{2, 3})
	require.NoError(t, err)

	for r := int64(0); r < 2; r++ {
		for c := int64(0); c < 3; c++ {
			got, err := m.GetFloat64([]int64{r, c})
			require.NoError(t, err)
			assert.Equal(t, float64(r*10+c), got, "[%d][%d]", r, c)
		}
	}
}

func TestAsCoordFuncMatrixRejectsInvalidKind(t *testing.T) {
	f := CoordFuncAdapter(func(coords []int64) float64 { return 0 })
	_, err := AsCoordFuncMatrix(true, f, Kind(99), []int64{2})
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, UnsupportedElementKind, kind)
}

func TestCoordFuncViewIsImmutable(t *testing.T) {
	f := CoordFuncAdapter(func(coords []int64) float64 { return 1 })
	view, err := newCoordFuncView(f, F64, true, []int64{3})
	require.NoError(t, err)
	assert.Error(t, view.SetFloat64(0, 5))
}

func TestCoordFuncViewGetDataOdometerMatchesGetFloat64(t *testing.T) {
	f := CoordFuncAdapter(func(coords []int64) float64 {
		return float64(coords[0]*10 + coords[1]*100 + coords[2]*1000)
	})
	view, err := newCoordFuncView(f, I32, true, []int64{2, 3, 2})
	require.NoError(t, err)

	buf := NewBuffer(I32, int(view.length))
	require.NoError(t, view.GetData(0, buf, 0, view.length))
	for i := int64(0); i < view.length; i++ {
		want, err := view.GetFloat64(i)
		require.NoError(t, err)
		assert.Equal(t, want, buf.GetFloat64(int(i)), "index %d", i)
	}
}

func TestCoordFuncViewGetDataPartialRange(t *testing.T) {
	f := CoordFuncAdapter(func(coords []int64) float64 {
		return float64(coords[0] + coords[1]*10)
	})
	view, err := newCoordFuncView(f, I32, true, []int64{4, 4})
	require.NoError(t, err)

	buf := NewBuffer(I32, 5)
	require.NoError(t, view.GetData(6, buf, 0, 5))
	for k := int64(0); k < 5; k++ {
		want, err := view.GetFloat64(6 + k)
		require.NoError(t, err)
		assert.Equal(t, want, buf.GetFloat64(int(k)), "offset %d", k)
	}
}

func TestCoordFuncViewNegativeDimIsInvalidArgument(t *testing.T) {
	f := CoordFuncAdapter(func(coords []int64) float64 { return 1 })
	_, err := newCoordFuncView(f, F64, true, []int64{-1})
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, InvalidArgument, kind)
}
