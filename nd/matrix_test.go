package nd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowMajorEncodeDecodeRoundTrip(t *testing.T) {
	dims := []int64{3, 4, 2}
	for i := int64(0); i < 3*4*2; i++ {
		coords := rowMajorDecode(i, dims)
		back := rowMajorEncode(coords, dims)
		assert.Equal(t, i, back)
	}
}

func TestMatrixLinearIndex(t *testing.T) {
	backing, err := NewArray(Dense, F64, 6)
	require.NoError(t, err)
	m, err := NewMatrix(backing, []int64{2, 3})
	require.NoError(t, err)

	idx, err := m.LinearIndex([]int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), idx)

	coords, err := m.Coords(5)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, coords)
}

func TestTiledMatrixRaggedEdge(t *testing.T) {
	backing, err := NewArray(Dense, F64, 5*5)
	require.NoError(t, err)
	tm, err := NewTiledMatrix(backing, []int64{5, 5}, []int64{2, 2})
	require.NoError(t, err)

	// 5x5 tiled into 2x2 blocks has a ragged last row/column of width 1.
	assert.Equal(t, []int64{3, 3}, tm.gridDims)

	seen := make(map[int64]bool)
	for r := int64(0); r < 5; r++ {
		for c := int64(0); c < 5; c++ {
			idx, err := tm.BackingIndex([]int64{r, c})
			require.NoError(t, err)
			assert.False(t, seen[idx], "backing index %d reused", idx)
			seen[idx] = true
		}
	}
	assert.Len(t, seen, 25)
}

func TestSameTiling(t *testing.T) {
	b1, _ := NewArray(Dense, F64, 16)
	b2, _ := NewArray(Dense, F64, 16)
	a, err := NewTiledMatrix(b1, []int64{4, 4}, []int64{2, 2})
	require.NoError(t, err)
	b, err := NewTiledMatrix(b2, []int64{4, 4}, []int64{2, 2})
	require.NoError(t, err)
	c, err := NewTiledMatrix(b2, []int64{4, 4}, []int64{1, 4})
	require.NoError(t, err)

	assert.True(t, SameTiling(a, b))
	assert.False(t, SameTiling(a, c))
}
