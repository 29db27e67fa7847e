package nd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMemoryModel struct {
	allocs int
}

func (m *countingMemoryModel) Alloc(k Kind, n int) *Buffer {
	m.allocs++
	return NewBuffer(k, n)
}

// sync.Pool reuse across a Put/Get is a runtime implementation detail, not a
// guarantee, so this only checks what Acquire/Release actually promise: a
// valid buffer of the requested kind on every call.
func TestBufferPoolAcquireReleaseCycle(t *testing.T) {
	model := &countingMemoryModel{}
	pool := NewBufferPool(model)

	buf := pool.Acquire(F64)
	require.GreaterOrEqual(t, model.allocs, 1)
	assert.Equal(t, F64, buf.Kind)
	pool.Release(buf)

	buf2 := pool.Acquire(F64)
	assert.Equal(t, F64, buf2.Kind)
	pool.Release(buf2)
}

func TestBufferPoolPerKindIsolated(t *testing.T) {
	model := &countingMemoryModel{}
	pool := NewBufferPool(model)

	f64Buf := pool.Acquire(F64)
	i32Buf := pool.Acquire(I32)
	assert.Equal(t, F64, f64Buf.Kind)
	assert.Equal(t, I32, i32Buf.Kind)
	assert.Equal(t, 2, model.allocs)
}

func TestBufferPoolReleaseNilIsNoop(t *testing.T) {
	pool := NewBufferPool(nil)
	assert.NotPanics(t, func() { pool.Release(nil) })
}

func TestGlobalBufferPoolAcquireReleaseRoundTrip(t *testing.T) {
	buf := GlobalBufferPool().Acquire(Bit)
	require.NotNil(t, buf)
	assert.Equal(t, Bit, buf.Kind)
	GlobalBufferPool().Release(buf)
}

func TestPoolBufferLenScalesWithStorageWidth(t *testing.T) {
	assert.Greater(t, poolBufferLen(U8), poolBufferLen(F64))
	assert.Greater(t, poolBufferLen(Bit), poolBufferLen(U8))
}
