package nd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinMaxViewGetDataMatchesGetFloat64(t *testing.T) {
	a, err := NewArrayFromFloat64s(F64, []float64{3, 1, 4, 1, 5})
	require.NoError(t, err)
	b, err := NewArrayFromFloat64s(F64, []float64{2, 9, 4, 0, 9})
	require.NoError(t, err)
	c, err := NewArrayFromFloat64s(F64, []float64{8, 0, 4, 2, 1})
	require.NoError(t, err)

	for _, op := range []ReduceOp{ReduceMin, ReduceMax} {
		v, err := newMinMaxView(op, F64, true, []Array{a, b, c})
		require.NoError(t, err)

		buf := NewBuffer(F64, 5)
		require.NoError(t, v.GetData(0, buf, 0, 5))
		for i := 0; i < 5; i++ {
			want, err := v.GetFloat64(int64(i))
			require.NoError(t, err)
			assert.Equal(t, want, buf.GetFloat64(i), "op %v index %d", op, i)
		}
	}
}

func TestDiffViewGetDataMatchesGetFloat64(t *testing.T) {
	a, err := NewArrayFromFloat64s(F64, []float64{10, 2, 5, 7, 1})
	require.NoError(t, err)
	b, err := NewArrayFromFloat64s(F64, []float64{4, 6, 5, 3, 9})
	require.NoError(t, err)

	for _, op := range []DiffOp{DiffAbs, DiffPositive} {
		v, err := newDiffView(op, F64, true, a, b)
		require.NoError(t, err)

		buf := NewBuffer(F64, 5)
		require.NoError(t, v.GetData(0, buf, 0, 5))
		for i := 0; i < 5; i++ {
			want, err := v.GetFloat64(int64(i))
			require.NoError(t, err)
			assert.Equal(t, want, buf.GetFloat64(i), "op %v index %d", op, i)
		}
	}
}

func TestFuncViewGetDataMatchesGetFloat64(t *testing.T) {
	a, err := NewArrayFromFloat64s(F64, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	b, err := NewArrayFromFloat64s(F64, []float64{10, 20, 30, 40})
	require.NoError(t, err)

	f := AnyFunc{N: 2, F: func(args []float64) float64 {
		return args[0]*args[1] - args[0]
	}}
	v, err := newFuncView(f, F64, true, []Array{a, b})
	require.NoError(t, err)

	buf := NewBuffer(F64, 4)
	require.NoError(t, v.GetData(0, buf, 0, 4))
	for i := 0; i < 4; i++ {
		want, err := v.GetFloat64(int64(i))
		require.NoError(t, err)
		assert.Equal(t, want, buf.GetFloat64(i), "index %d", i)
	}
}
