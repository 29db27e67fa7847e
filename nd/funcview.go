package nd

import "context"

// FuncView is the general "any-func" fallback of spec.md §4.6 rule 10: per
// element it materializes one float64 argument per underlying array, calls
// f.Get, and narrows the result to kind using truncate's policy. Specialized
// views (linear, min/max, diff, table, coord-func) exist precisely to avoid
// this per-element virtual-call overhead when the function's shape is
// recognized; FuncView is what every other Func falls back to.
type FuncView struct {
	f          Func
	kind       Kind
	truncate   bool
	underlying []Array
	length     int64
	immutable  bool
}

// funcViewLength computes the common length of a function view's non-
// constant underlyings, validating they agree (spec.md §3: "all non-
// constant underlyings have equal length").
func funcViewLength(underlying []Array) (int64, error) {
	length := int64(-1)
	for _, u := range underlying {
		if u == nil {
			continue
		}
		if length == -1 {
			length = u.Length()
			continue
		}
		if u.Length() != length {
			return 0, newError(SizeMismatch, "funcViewLength", nil)
		}
	}
	if length == -1 {
		return 0, nil
	}
	return length, nil
}

func newFuncView(f Func, kind Kind, truncate bool, underlying []Array) (*FuncView, error) {
	length, err := funcViewLength(underlying)
	if err != nil {
		return nil, err
	}
	return &FuncView{f: f, kind: kind, truncate: truncate, underlying: underlying, length: length}, nil
}

func (v *FuncView) Kind() Kind      { return v.kind }
func (v *FuncView) Length() int64   { return v.length }
func (v *FuncView) Flags() ArrayFlags {
	return ArrayFlags{IsImmutable: v.immutable, IsUnresizable: true, IsLazy: true, IsNew: true}
}

// gatherArgs widens underlying[k] at index i into a scratch slice. Allocates
// fresh each call: per spec.md §5 an instance's scalar getters are not
// required to be reentrant-safe across goroutines, but they ARE called
// repeatedly from bulk kernels' inner loops, so the args slice is owned by
// the caller rather than mutable shared state on the view.
func (v *FuncView) gatherArgs(i int64) ([]float64, error) {
	args := make([]float64, len(v.underlying))
	for k, u := range v.underlying {
		val, err := u.GetFloat64(i)
		if err != nil {
			return nil, err
		}
		args[k] = val
	}
	return args, nil
}

func (v *FuncView) GetFloat64(i int64) (float64, error) {
	if err := checkIndex("FuncView.GetFloat64", i, v.length); err != nil {
		return 0, err
	}
	args, err := v.gatherArgs(i)
	if err != nil {
		return 0, err
	}
	return narrowDouble(v.kind, v.f.Get(args), v.truncate), nil
}

func (v *FuncView) GetInt64(i int64) (int64, error) {
	f, err := v.GetFloat64(i)
	if err != nil {
		return 0, err
	}
	return narrowFloatToInt(v.kind, f, true), nil
}

func (v *FuncView) SetFloat64(int64, float64) error {
	return newError(UnallowedMutation, "FuncView.SetFloat64", nil)
}
func (v *FuncView) SetInt64(int64, int64) error {
	return newError(UnallowedMutation, "FuncView.SetInt64", nil)
}

// GetData pulls every underlying argument through a pool-acquired scratch
// buffer in lockstep, chunked to the smallest pool buffer among them,
// gathering each element's args straight out of those buffers instead of
// dispatching GetFloat64 through the Array interface once per index per
// argument (spec.md §4.7).
func (v *FuncView) GetData(pos int64, dst *Buffer, off, count int64) error {
	if dst.Kind != v.kind {
		return newError(ArrayStoreError, "FuncView.GetData", nil)
	}
	if err := checkRange("FuncView.GetData", pos, count, v.length); err != nil {
		return err
	}
	if len(v.underlying) == 0 {
		for k := int64(0); k < count; k++ {
			dst.SetFromFloat64(int(off+k), v.f.Get(nil), v.truncate)
		}
		return nil
	}

	pool := GlobalBufferPool()
	argBufs := make([]*Buffer, len(v.underlying))
	chunkLen := count
	for i, u := range v.underlying {
		buf := pool.Acquire(u.Kind())
		argBufs[i] = buf
		if n := int64(buf.Len()); n > 0 && n < chunkLen {
			chunkLen = n
		}
	}
	defer func() {
		for _, buf := range argBufs {
			pool.Release(buf)
		}
	}()

	args := make([]float64, len(v.underlying))
	for done := int64(0); done < count; {
		n := count - done
		if n > chunkLen {
			n = chunkLen
		}
		for i, u := range v.underlying {
			if err := u.GetData(pos+done, argBufs[i], 0, n); err != nil {
				return err
			}
		}
		for k := int64(0); k < n; k++ {
			for i, buf := range argBufs {
				args[i] = buf.GetFloat64(int(k))
			}
			dst.SetFromFloat64(int(off+done+k), v.f.Get(args), v.truncate)
		}
		done += n
	}
	return nil
}

func (v *FuncView) SetData(int64, *Buffer, int64, int64) error {
	return newError(UnallowedMutation, "FuncView.SetData", nil)
}

func (v *FuncView) Subarray(lo, hi int64) (Array, error) {
	if lo < 0 || hi > v.length || lo > hi {
		return nil, newError(IndexOutOfBounds, "FuncView.Subarray", nil)
	}
	return newOffsetView(v, lo, hi-lo), nil
}

func (v *FuncView) IndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(v, lo, hi, value, false)
}
func (v *FuncView) LastIndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(v, lo, hi, value, true)
}

func (v *FuncView) LoadResources(ctx context.Context) error {
	return propagateResources(ctx, v.underlying, Array.LoadResources)
}
func (v *FuncView) FlushResources(ctx context.Context) error {
	return propagateResources(ctx, v.underlying, Array.FlushResources)
}
func (v *FuncView) FreeResources(ctx context.Context) error {
	return propagateResources(ctx, v.underlying, Array.FreeResources)
}
