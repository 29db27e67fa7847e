package nd

import "context"

// ArrayFlags mirrors the attribute set of spec.md §3: an array's length and
// kind are carried by the Array interface itself (Length/Kind), but these
// six booleans describe the capability/lifecycle contract a caller can
// rely on.
type ArrayFlags struct {
	IsImmutable         bool
	IsUnresizable       bool
	IsCopyOnNextWrite   bool
	IsLazy              bool
	IsNew               bool
	IsNewReadOnlyView   bool
}

// Array is an ordered, typed, length-bounded sequence (spec.md §3/§4.1).
// Every concrete kind (Bit..F64) implements Array; views (function,
// coordinate-function, sub-matrix, updatable) implement it too, computing
// GetFloat64/GetInt64 on demand instead of reading owned storage.
type Array interface {
	Kind() Kind
	Length() int64
	Flags() ArrayFlags

	// GetFloat64 and GetInt64 are the two generic scalar accessors every
	// kind supports: GetFloat64 widens to a real value (used wherever the
	// algorithm genuinely needs one, e.g. the any-func kernel and
	// coordinate functions); GetInt64 widens to an integer pivot (used by
	// the table/linear/diff/min-max integer fast paths per spec.md §9's
	// "avoid f64 as internal pivot" guidance). Both fail with
	// IndexOutOfBounds when i is out of [0, Length()).
	GetFloat64(i int64) (float64, error)
	GetInt64(i int64) (int64, error)

	// SetFloat64 and SetInt64 write without any bounds check on the value
	// itself — narrowing is the caller's contract (spec.md §4.1) — but DO
	// bounds-check i, and fail with UnallowedMutation when the array (or
	// view) is immutable.
	SetFloat64(i int64, v float64) error
	SetInt64(i int64, v int64) error

	// GetData/SetData bulk-transfer count elements starting at pos into/
	// from dst/src starting at off. Fails with IndexOutOfBounds when
	// pos<0 || pos+count>Length(), InvalidArgument when count<0, and
	// ArrayStoreError when dst.Kind/src.Kind != Kind().
	GetData(pos int64, dst *Buffer, off, count int64) error
	SetData(pos int64, src *Buffer, off, count int64) error

	// Subarray returns a view with Length() == hi-lo whose reads delegate
	// to this array with an index offset. Fails with IndexOutOfBounds on
	// an illegal range (lo<0, hi>Length(), or lo>hi).
	Subarray(lo, hi int64) (Array, error)

	// IndexOf/LastIndexOf scan [max(lo,0), min(Length(),hi)) for the first/
	// last element equal to value, returning -1 when absent. The default
	// implementation (see indexOfScan in array_kinds.go) is a linear scan; specialized arrays may override for O(1)-per-
	// element amortized behavior under sub-matrix/tiled composition.
	IndexOf(lo, hi int64, value float64) (int64, error)
	LastIndexOf(lo, hi int64, value float64) (int64, error)

	// Resource hooks default to no-op; constructors built over "parallel"
	// underlyings (index i of this array depends only on nearby indices of
	// each underlying) propagate the call to those underlyings.
	LoadResources(ctx context.Context) error
	FlushResources(ctx context.Context) error
	FreeResources(ctx context.Context) error
}

// BitBulkArray is implemented by arrays of kind Bit, offering packed bulk
// access in addition to the common Array interface (spec.md §4.1's
// get_bits).
type BitBulkArray interface {
	Array
	GetBits(pos int64, dst []uint64, dstOffBits, countBits int64) error
	SetBits(pos int64, src []uint64, srcOffBits, countBits int64) error
}

// checkRange validates a [pos, pos+count) bulk range against length,
// returning the three errors GetData/SetData/GetBits/SetBits promise.
func checkRange(op string, pos, count, length int64) error {
	if count < 0 {
		return newError(InvalidArgument, op, nil)
	}
	if pos < 0 || pos+count > length {
		return newError(IndexOutOfBounds, op, nil)
	}
	return nil
}

// checkIndex validates a single scalar index against length.
func checkIndex(op string, i, length int64) error {
	if i < 0 || i >= length {
		return newError(IndexOutOfBounds, op, nil)
	}
	return nil
}

// noopResources is embedded by every leaf/view array that has no resources
// to load/flush/free and nothing to propagate to.
type noopResources struct{}

func (noopResources) LoadResources(context.Context) error  { return nil }
func (noopResources) FlushResources(context.Context) error { return nil }
func (noopResources) FreeResources(context.Context) error  { return nil }

// propagateResources calls the hook named by which on every underlying in
// turn, stopping at the first error. Used by "parallel" view constructors
// (function views, sub-matrix views) whose element i depends only on
// indices near i of each underlying.
func propagateResources(ctx context.Context, underlying []Array, which func(Array, context.Context) error) error {
	for _, u := range underlying {
		if u == nil {
			continue
		}
		if err := which(u, ctx); err != nil {
			return err
		}
	}
	return nil
}
