package nd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spec.md §4.4/§8: as_func_array(t,f,k,xs) == tile(as_func_array(t,f,k,base(xs)), tile_dims)
// when xs are all identically tiled.
func TestTilingCommutativityLiftsOverBaseArrays(t *testing.T) {
	backing, err := NewArrayFromFloat64s(I32, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(t, err)
	tm, err := NewTiledMatrix(backing, []int64{3, 3}, []int64{2, 2})
	require.NoError(t, err)

	f := LinearFunc{A: []float64{2}, B: 1}
	view, err := AsFuncArray(true, f, I32, []Array{tm.AsArray()})
	require.NoError(t, err)
	require.Equal(t, tm.AsArray().Length(), view.Length())

	// f is a plain elementwise affine transform, so regardless of whether
	// the tiling lift fired, view.GetInt64(i) must equal f applied to the
	// single scalar tm.AsArray().GetInt64(i) — computed here by running the
	// same composition over a one-element array holding just that value, to
	// stay agnostic of how newLinearView itself narrows/rounds.
	for i := int64(0); i < view.Length(); i++ {
		x, err := tm.AsArray().GetFloat64(i)
		require.NoError(t, err)
		single, err := NewArrayFromFloat64s(I32, []float64{x})
		require.NoError(t, err)
		ref, err := AsFuncArray(true, f, I32, []Array{single})
		require.NoError(t, err)
		want, err := ref.GetInt64(0)
		require.NoError(t, err)

		got, err := view.GetInt64(i)
		require.NoError(t, err)
		assert.Equal(t, want, got, "index %d", i)
	}
}

func TestTilingCommutativityRejectsMismatchedTiling(t *testing.T) {
	b1, err := NewArrayFromFloat64s(I32, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	b2, err := NewArrayFromFloat64s(I32, []float64{5, 6, 7, 8})
	require.NoError(t, err)
	t1, err := NewTiledMatrix(b1, []int64{2, 2}, []int64{1, 2})
	require.NoError(t, err)
	t2, err := NewTiledMatrix(b2, []int64{2, 2}, []int64{2, 1})
	require.NoError(t, err)

	// Different tilings: lift must not fire, but the general fallback must
	// still produce the correct values.
	f := LinearFunc{A: []float64{1, 1}, B: 0}
	v, err := AsFuncArray(true, f, I32, []Array{t1.AsArray(), t2.AsArray()})
	require.NoError(t, err)
	_, lifted := v.(*tiledArray)
	assert.False(t, lifted, "mismatched tilings must not be lifted, got %T", v)
	for i := int64(0); i < v.Length(); i++ {
		a, err := t1.AsArray().GetInt64(i)
		require.NoError(t, err)
		b, err := t2.AsArray().GetInt64(i)
		require.NoError(t, err)
		got, err := v.GetInt64(i)
		require.NoError(t, err)
		assert.Equal(t, a+b, got, "index %d", i)
	}
}

func TestTiledMatrixAsArrayRoundTripsReadsAndWrites(t *testing.T) {
	backing, err := NewArrayFromFloat64s(F64, make([]float64, 9))
	require.NoError(t, err)
	tm, err := NewTiledMatrix(backing, []int64{3, 3}, []int64{2, 2})
	require.NoError(t, err)
	a := tm.AsArray()

	require.NoError(t, a.SetFloat64(4, 42))

	got, err := a.GetFloat64(4)
	require.NoError(t, err)
	assert.Equal(t, 42.0, got)

	// The linear index space matches coordinate decoding against dims, not
	// tile storage order: writing via tm.SetFloat64(coords) at the same
	// coordinates must observe the same backing cell.
	row, col := int64(4)%3, int64(4)/3
	require.NoError(t, tm.SetFloat64([]int64{row, col}, 99))
	got2, err := a.GetFloat64(4)
	require.NoError(t, err)
	assert.Equal(t, 99.0, got2)
}
