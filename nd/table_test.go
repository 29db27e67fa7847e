package nd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableDomainSizeByKind(t *testing.T) {
	assert.Equal(t, 2, tableDomainSize(Bit))
	assert.Equal(t, 256, tableDomainSize(U8))
	assert.Equal(t, 65536, tableDomainSize(U16))
	assert.Equal(t, 65536, tableDomainSize(Char16))
	assert.Equal(t, 0, tableDomainSize(I32))
	assert.Equal(t, 0, tableDomainSize(F64))
}

func TestNewTableViewPrecomputesEntireDomain(t *testing.T) {
	src, err := NewArrayFromFloat64s(U8, []float64{0, 1, 255, 10})
	require.NoError(t, err)

	f := TableFunc{F: func(x float64) float64 { return x * 2 }}
	v, err := newTableView(f, U16, true, src)
	require.NoError(t, err)
	assert.Len(t, v.table, 256)

	want := []int64{0, 2, 510, 20}
	for i, w := range want {
		got, err := v.GetInt64(int64(i))
		require.NoError(t, err)
		assert.Equal(t, w, got, "index %d", i)
	}
}

func TestNewTableViewRejectsLargeDomain(t *testing.T) {
	src, err := NewArrayFromFloat64s(I32, []float64{1, 2})
	require.NoError(t, err)
	f := TableFunc{F: func(x float64) float64 { return x }}
	_, err = newTableView(f, I32, true, src)
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, InvalidArgument, kind)
}

func TestTableViewIsImmutable(t *testing.T) {
	src, err := NewArrayFromFloat64s(Bit, []float64{0, 1})
	require.NoError(t, err)
	f := TableFunc{F: func(x float64) float64 { return x }}
	v, err := newTableView(f, Bit, true, src)
	require.NoError(t, err)
	assert.Error(t, v.SetFloat64(0, 1))
}
