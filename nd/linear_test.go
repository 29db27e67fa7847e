package nd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearViewUniformCoefficientFastPath(t *testing.T) {
	a, err := NewArrayFromFloat64s(F64, []float64{1, 2, 3})
	require.NoError(t, err)
	b, err := NewArrayFromFloat64s(F64, []float64{4, 5, 6})
	require.NoError(t, err)

	v, err := newLinearView([]float64{2, 2}, 1, F64, true, []Array{a, b})
	require.NoError(t, err)
	assert.True(t, v.uniformA)

	want := []float64{1 + 2*(1+4), 1 + 2*(2+5), 1 + 2*(3+6)}
	for i, w := range want {
		got, err := v.GetFloat64(int64(i))
		require.NoError(t, err)
		assert.Equal(t, w, got, "index %d", i)
	}
}

func TestLinearViewNonUniformCoefficients(t *testing.T) {
	a, err := NewArrayFromFloat64s(F64, []float64{1, 2})
	require.NoError(t, err)
	b, err := NewArrayFromFloat64s(F64, []float64{10, 20})
	require.NoError(t, err)

	v, err := newLinearView([]float64{3, -1}, 5, F64, true, []Array{a, b})
	require.NoError(t, err)
	assert.False(t, v.uniformA)

	got, err := v.GetFloat64(0)
	require.NoError(t, err)
	assert.Equal(t, 3*1+(-1)*10+5, got)
}

func TestLinearViewMismatchedLengthsIsSizeMismatch(t *testing.T) {
	_, err := newLinearView([]float64{1, 2}, 0, F64, true, []Array{})
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, SizeMismatch, kind)
}

func TestLinearViewIsImmutable(t *testing.T) {
	a, err := NewArrayFromFloat64s(F64, []float64{1, 2})
	require.NoError(t, err)
	v, err := newLinearView([]float64{1}, 0, F64, true, []Array{a})
	require.NoError(t, err)
	assert.Error(t, v.SetFloat64(0, 9))
}

func TestLinearViewGetDataMatchesGetFloat64(t *testing.T) {
	a, err := NewArrayFromFloat64s(F64, []float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	b, err := NewArrayFromFloat64s(F64, []float64{10, 20, 30, 40, 50})
	require.NoError(t, err)
	v, err := newLinearView([]float64{2, -1}, 3, F64, true, []Array{a, b})
	require.NoError(t, err)

	buf := NewBuffer(F64, 5)
	require.NoError(t, v.GetData(0, buf, 0, 5))
	for i := 0; i < 5; i++ {
		want, err := v.GetFloat64(int64(i))
		require.NoError(t, err)
		assert.Equal(t, want, buf.GetFloat64(i), "index %d", i)
	}
}

func TestLinearViewNoArgumentsIsConstantOverGetData(t *testing.T) {
	v, err := newLinearView(nil, 7, F64, true, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.Length())

	buf := NewBuffer(F64, 0)
	require.NoError(t, v.GetData(0, buf, 0, 0))
}
