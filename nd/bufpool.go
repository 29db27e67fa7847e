package nd

import "sync"

// poolBufferBytes is the byte budget behind the standard buffer length
// kernels request (poolBufferLen): 64 KiB worth of elements at the kind's
// storage width (spec.md §4.3). Bit buffers
// get a fixed 64*8192-bit capacity plus a small alignment gap instead, since
// "elements" for Bit are single bits packed 64-to-a-word.
const poolBufferBytes = 64 * 1024

func poolBufferLen(k Kind) int {
	if k == Bit {
		return 64*8192 + 64 // + one word of alignment gap
	}
	width := k.StorageWidthBits() / 8
	if width == 0 {
		width = 1
	}
	return poolBufferBytes / width
}

// MemoryModel abstracts how a BufferPool allocates a new buffer, so tests can
// substitute a deterministic, counting allocator for the make()-based
// default; the per-kind sync.Pools still hold released buffers and call
// Alloc only on a miss (spec.md §9 Design Notes: "Global buffer pool,
// parameterized by memory model so tests can substitute a deterministic
// allocator").
type MemoryModel interface {
	// Alloc returns a freshly allocated Buffer of kind k with length n.
	// Pool-backed callers only invoke this on a pool miss.
	Alloc(k Kind, n int) *Buffer
}

// defaultMemoryModel allocates directly with make(), matching the teacher's
// sync.Pool "New" closures (hwy/contrib/matmul's transposePool32/64 etc,
// one pool per element kind/size).
type defaultMemoryModel struct{}

func (defaultMemoryModel) Alloc(k Kind, n int) *Buffer {
	return NewBuffer(k, n)
}

// DefaultMemoryModel is the process-wide allocator used by Pools created
// without an explicit MemoryModel.
var DefaultMemoryModel MemoryModel = defaultMemoryModel{}

// BufferPool is a set of fixed-capacity, per-kind scratch buffer pools.
// Buffers are zero-initialized the first time they're created but are NOT
// cleared on reuse — kernels acquiring a buffer must not assume its
// contents, only its length and kind (spec.md §4.3).
type BufferPool struct {
	model MemoryModel
	pools [numKinds]sync.Pool
	once  sync.Once
}

// NewBufferPool creates a pool backed by model. A nil model uses
// DefaultMemoryModel.
func NewBufferPool(model MemoryModel) *BufferPool {
	if model == nil {
		model = DefaultMemoryModel
	}
	p := &BufferPool{model: model}
	p.init()
	return p
}

func (p *BufferPool) init() {
	p.once.Do(func() {
		for k := range p.pools {
			kind := Kind(k)
			p.pools[k].New = func() any {
				return p.model.Alloc(kind, poolBufferLen(kind))
			}
		}
	})
}

// globalPool is the process-wide pool used when callers don't construct
// their own (spec.md §5: "process-wide, lifecycle init on first use ->
// retained for process lifetime").
var globalPool = NewBufferPool(nil)

// GlobalBufferPool returns the process-wide buffer pool.
func GlobalBufferPool() *BufferPool { return globalPool }

// Acquire borrows a scratch Buffer of kind k and the pool's standard
// length. Callers MUST call Release (typically via defer) on every exit
// path, including error paths, to return the buffer to the pool (spec.md
// §3/§7: "scoped acquisition with guaranteed release on all exit paths").
func (p *BufferPool) Acquire(k Kind) *Buffer {
	p.init()
	buf := p.pools[k].Get().(*Buffer)
	return buf
}

// Release returns buf to its kind's pool. Releasing a nil buffer is a
// no-op; releasing a buffer not obtained from this pool is a programming
// error the caller must avoid. Release itself never fails because it has no side effect
// observable to other callers until the next Acquire.
func (p *BufferPool) Release(buf *Buffer) {
	if buf == nil {
		return
	}
	p.init()
	p.pools[buf.Kind].Put(buf)
}
