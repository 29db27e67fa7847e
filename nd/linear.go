package nd

import "context"

// LinearView specializes f(x) = Σ A[k]*x[k] + B (spec.md §4.6 rule 9 / §4.7
// "Linear kernel"). When every coefficient is equal, the bulk kernel
// accumulates the unweighted sum once and applies the single multiply at
// the end instead of one multiply-add per argument per element.
type LinearView struct {
	kind       Kind
	truncate   bool
	a          []float64
	b          float64
	underlying []Array
	length     int64
	uniformA   bool // all a[k] equal; enables the one-multiply fast path
}

func newLinearView(a []float64, b float64, kind Kind, truncate bool, underlying []Array) (*LinearView, error) {
	if len(a) != len(underlying) {
		return nil, newError(SizeMismatch, "newLinearView", nil)
	}
	length, err := funcViewLength(underlying)
	if err != nil {
		return nil, err
	}
	uniform := true
	for _, ak := range a {
		if ak != a[0] {
			uniform = false
			break
		}
	}
	return &LinearView{kind: kind, truncate: truncate, a: append([]float64(nil), a...), b: b, underlying: underlying, length: length, uniformA: uniform}, nil
}

func (v *LinearView) Kind() Kind    { return v.kind }
func (v *LinearView) Length() int64 { return v.length }
func (v *LinearView) Flags() ArrayFlags {
	return ArrayFlags{IsImmutable: true, IsUnresizable: true, IsLazy: true, IsNew: true}
}

func (v *LinearView) rawValue(i int64) (float64, error) {
	if len(v.a) == 0 {
		return v.b, nil
	}
	if v.uniformA {
		sum := 0.0
		for _, u := range v.underlying {
			val, err := u.GetFloat64(i)
			if err != nil {
				return 0, err
			}
			sum += val
		}
		return sum*v.a[0] + v.b, nil
	}
	sum := v.b
	for k, u := range v.underlying {
		val, err := u.GetFloat64(i)
		if err != nil {
			return 0, err
		}
		sum += v.a[k] * val
	}
	return sum, nil
}

func (v *LinearView) GetFloat64(i int64) (float64, error) {
	if err := checkIndex("LinearView.GetFloat64", i, v.length); err != nil {
		return 0, err
	}
	raw, err := v.rawValue(i)
	if err != nil {
		return 0, err
	}
	return narrowDouble(v.kind, raw, v.truncate), nil
}

func (v *LinearView) GetInt64(i int64) (int64, error) {
	f, err := v.GetFloat64(i)
	if err != nil {
		return 0, err
	}
	return narrowFloatToInt(v.kind, f, true), nil
}

func (v *LinearView) SetFloat64(int64, float64) error {
	return newError(UnallowedMutation, "LinearView.SetFloat64", nil)
}
func (v *LinearView) SetInt64(int64, int64) error {
	return newError(UnallowedMutation, "LinearView.SetInt64", nil)
}

// GetData pulls every underlying argument through a pool-acquired scratch
// buffer in lockstep, chunked to the smallest pool buffer among them, and
// accumulates the linear combination straight out of those buffers instead
// of dispatching GetFloat64 through the Array interface once per index per
// argument (spec.md §4.7 "Linear kernel").
func (v *LinearView) GetData(pos int64, dst *Buffer, off, count int64) error {
	if dst.Kind != v.kind {
		return newError(ArrayStoreError, "LinearView.GetData", nil)
	}
	if err := checkRange("LinearView.GetData", pos, count, v.length); err != nil {
		return err
	}
	if len(v.a) == 0 {
		for k := int64(0); k < count; k++ {
			dst.SetFromFloat64(int(off+k), v.b, v.truncate)
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
			var raw float64
			if v.uniformA {
				sum := 0.0
				for _, buf := range argBufs {
					sum += buf.GetFloat64(int(k))
				}
				raw = sum*v.a[0] + v.b
			} else {
				sum := v.b
				for ai, buf := range argBufs {
					sum += v.a[ai] * buf.GetFloat64(int(k))
				}
				raw = sum
			}
			dst.SetFromFloat64(int(off+done+k), raw, v.truncate)
		}
		done += n
	}
	return nil
}

func (v *LinearView) SetData(int64, *Buffer, int64, int64) error {
	return newError(UnallowedMutation, "LinearView.SetData", nil)
}

func (v *LinearView) Subarray(lo, hi int64) (Array, error) {
	if lo < 0 || hi > v.length || lo > hi {
		return nil, newError(IndexOutOfBounds, "LinearView.Subarray", nil)
	}
	return newOffsetView(v, lo, hi-lo), nil
}

func (v *LinearView) IndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(v, lo, hi, value, false)
}
func (v *LinearView) LastIndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(v, lo, hi, value, true)
}

func (v *LinearView) LoadResources(ctx context.Context) error {
	return propagateResources(ctx, v.underlying, Array.LoadResources)
}
func (v *LinearView) FlushResources(ctx context.Context) error {
	return propagateResources(ctx, v.underlying, Array.FlushResources)
}
func (v *LinearView) FreeResources(ctx context.Context) error {
	return propagateResources(ctx, v.underlying, Array.FreeResources)
}
