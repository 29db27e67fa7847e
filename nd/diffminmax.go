package nd

import (
	"context"
	"math"
)

// ReduceOp selects MIN or MAX for MinMaxView.
type ReduceOp int

const (
	ReduceMin ReduceOp = iota
	ReduceMax
)

// MinMaxView specializes the N-ary MIN/MAX reduction (spec.md §4.6 rule 5 /
// §4.7 "Min/Max kernel"). On Bit-kind inputs the arithmetic min/max over
// {0,1} already coincides with AND/OR, so no separate bit path is needed.
type MinMaxView struct {
	kind       Kind
	truncate   bool
	op         ReduceOp
	underlying []Array
	length     int64
}

func newMinMaxView(op ReduceOp, kind Kind, truncate bool, underlying []Array) (*MinMaxView, error) {
	length, err := funcViewLength(underlying)
	if err != nil {
		return nil, err
	}
	return &MinMaxView{kind: kind, truncate: truncate, op: op, underlying: underlying, length: length}, nil
}

func (v *MinMaxView) Kind() Kind      { return v.kind }
func (v *MinMaxView) Length() int64   { return v.length }
func (v *MinMaxView) Flags() ArrayFlags {
	return ArrayFlags{IsImmutable: true, IsUnresizable: true, IsLazy: true, IsNew: true}
}

func (v *MinMaxView) rawValue(i int64) (float64, error) {
	if len(v.underlying) == 0 {
		if v.op == ReduceMin {
			return math.Inf(1), nil
		}
		return math.Inf(-1), nil
	}
	val, err := v.underlying[0].GetFloat64(i)
	if err != nil {
		return 0, err
	}
	best := val
	for _, u := range v.underlying[1:] {
		val, err := u.GetFloat64(i)
		if err != nil {
			return 0, err
		}
		if (v.op == ReduceMin && val < best) || (v.op == ReduceMax && val > best) {
			best = val
		}
	}
	return best, nil
}

func (v *MinMaxView) GetFloat64(i int64) (float64, error) {
	if err := checkIndex("MinMaxView.GetFloat64", i, v.length); err != nil {
		return 0, err
	}
	raw, err := v.rawValue(i)
	if err != nil {
		return 0, err
	}
	return narrowDouble(v.kind, raw, v.truncate), nil
}

func (v *MinMaxView) GetInt64(i int64) (int64, error) {
	f, err := v.GetFloat64(i)
	if err != nil {
		return 0, err
	}
	return narrowFloatToInt(v.kind, f, true), nil
}

func (v *MinMaxView) SetFloat64(int64, float64) error {
	return newError(UnallowedMutation, "MinMaxView.SetFloat64", nil)
}
func (v *MinMaxView) SetInt64(int64, int64) error {
	return newError(UnallowedMutation, "MinMaxView.SetInt64", nil)
}

// GetData pulls every underlying argument through a pool-acquired scratch
// buffer in lockstep, chunked to the smallest pool buffer among them, and
// reduces straight out of those buffers instead of dispatching GetFloat64
// through the Array interface once per index per argument (spec.md §4.7
// "Min/Max kernel").
func (v *MinMaxView) GetData(pos int64, dst *Buffer, off, count int64) error {
	if dst.Kind != v.kind {
		return newError(ArrayStoreError, "MinMaxView.GetData", nil)
	}
	if err := checkRange("MinMaxView.GetData", pos, count, v.length); err != nil {
		return err
	}
	if len(v.underlying) == 0 {
		fill := math.Inf(1)
		if v.op == ReduceMax {
			fill = math.Inf(-1)
		}
		for k := int64(0); k < count; k++ {
			dst.SetFromFloat64(int(off+k), fill, v.truncate)
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
			best := argBufs[0].GetFloat64(int(k))
			for _, buf := range argBufs[1:] {
				val := buf.GetFloat64(int(k))
				if (v.op == ReduceMin && val < best) || (v.op == ReduceMax && val > best) {
					best = val
				}
			}
			dst.SetFromFloat64(int(off+done+k), best, v.truncate)
		}
		done += n
	}
	return nil
}

func (v *MinMaxView) SetData(int64, *Buffer, int64, int64) error {
	return newError(UnallowedMutation, "MinMaxView.SetData", nil)
}

func (v *MinMaxView) Subarray(lo, hi int64) (Array, error) {
	if lo < 0 || hi > v.length || lo > hi {
		return nil, newError(IndexOutOfBounds, "MinMaxView.Subarray", nil)
	}
	return newOffsetView(v, lo, hi-lo), nil
}

func (v *MinMaxView) IndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(v, lo, hi, value, false)
}
func (v *MinMaxView) LastIndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(v, lo, hi, value, true)
}

func (v *MinMaxView) LoadResources(ctx context.Context) error {
	return propagateResources(ctx, v.underlying, Array.LoadResources)
}
func (v *MinMaxView) FlushResources(ctx context.Context) error {
	return propagateResources(ctx, v.underlying, Array.FlushResources)
}
func (v *MinMaxView) FreeResources(ctx context.Context) error {
	return propagateResources(ctx, v.underlying, Array.FreeResources)
}

// DiffOp selects ABS_DIFF (|x0-x1|) or POSITIVE_DIFF (max(x0-x1, 0)).
type DiffOp int

const (
	DiffAbs DiffOp = iota
	DiffPositive
)

// DiffView specializes the binary difference views (spec.md §4.6 rules 6-7
// / §4.7 "Diff kernel"). Like MinMaxView, the Bit-domain arithmetic already
// coincides with the bitwise operations the spec calls out (XOR for
// ABS_DIFF, AND-NOT for POSITIVE_DIFF), so one code path covers both
// domains.
type DiffView struct {
	kind     Kind
	truncate bool
	op       DiffOp
	x0, x1   Array
	length   int64
}

func newDiffView(op DiffOp, kind Kind, truncate bool, x0, x1 Array) (*DiffView, error) {
	length, err := funcViewLength([]Array{x0, x1})
	if err != nil {
		return nil, err
	}
	return &DiffView{kind: kind, truncate: truncate, op: op, x0: x0, x1: x1, length: length}, nil
}

func (v *DiffView) Kind() Kind    { return v.kind }
func (v *DiffView) Length() int64 { return v.length }
func (v *DiffView) Flags() ArrayFlags {
	return ArrayFlags{IsImmutable: true, IsUnresizable: true, IsLazy: true, IsNew: true}
}

func (v *DiffView) rawValue(i int64) (float64, error) {
	a, err := v.x0.GetFloat64(i)
	if err != nil {
		return 0, err
	}
	b, err := v.x1.GetFloat64(i)
	if err != nil {
		return 0, err
	}
	d := a - b
	if v.op == DiffPositive && d < 0 {
		return 0, nil
	}
	if v.op == DiffAbs && d < 0 {
		return -d, nil
	}
	return d, nil
}

func (v *DiffView) GetFloat64(i int64) (float64, error) {
	if err := checkIndex("DiffView.GetFloat64", i, v.length); err != nil {
		return 0, err
	}
	raw, err := v.rawValue(i)
	if err != nil {
		return 0, err
	}
	return narrowDouble(v.kind, raw, v.truncate), nil
}

func (v *DiffView) GetInt64(i int64) (int64, error) {
	f, err := v.GetFloat64(i)
	if err != nil {
		return 0, err
	}
	return narrowFloatToInt(v.kind, f, true), nil
}

func (v *DiffView) SetFloat64(int64, float64) error {
	return newError(UnallowedMutation, "DiffView.SetFloat64", nil)
}
func (v *DiffView) SetInt64(int64, int64) error {
	return newError(UnallowedMutation, "DiffView.SetInt64", nil)
}

// GetData pulls both operands through pool-acquired scratch buffers in
// lockstep, chunked to the smaller of the two pool buffers, and computes the
// difference straight out of those buffers instead of dispatching GetFloat64
// through the Array interface once per index per operand (spec.md §4.7
// "Diff kernel").
func (v *DiffView) GetData(pos int64, dst *Buffer, off, count int64) error {
	if dst.Kind != v.kind {
		return newError(ArrayStoreError, "DiffView.GetData", nil)
	}
	if err := checkRange("DiffView.GetData", pos, count, v.length); err != nil {
		return err
	}

	pool := GlobalBufferPool()
	buf0 := pool.Acquire(v.x0.Kind())
	buf1 := pool.Acquire(v.x1.Kind())
	defer pool.Release(buf0)
	defer pool.Release(buf1)

	chunkLen := count
	if n := int64(buf0.Len()); n > 0 && n < chunkLen {
		chunkLen = n
	}
	if n := int64(buf1.Len()); n > 0 && n < chunkLen {
		chunkLen = n
	}

	for done := int64(0); done < count; {
		n := count - done
		if n > chunkLen {
			n = chunkLen
		}
		if err := v.x0.GetData(pos+done, buf0, 0, n); err != nil {
			return err
		}
		if err := v.x1.GetData(pos+done, buf1, 0, n); err != nil {
			return err
		}
		for k := int64(0); k < n; k++ {
			d := buf0.GetFloat64(int(k)) - buf1.GetFloat64(int(k))
			if v.op == DiffPositive && d < 0 {
				d = 0
			} else if v.op == DiffAbs && d < 0 {
				d = -d
			}
			dst.SetFromFloat64(int(off+done+k), d, v.truncate)
		}
		done += n
	}
	return nil
}

func (v *DiffView) SetData(int64, *Buffer, int64, int64) error {
	return newError(UnallowedMutation, "DiffView.SetData", nil)
}

func (v *DiffView) Subarray(lo, hi int64) (Array, error) {
	if lo < 0 || hi > v.length || lo > hi {
		return nil, newError(IndexOutOfBounds, "DiffView.Subarray", nil)
	}
	return newOffsetView(v, lo, hi-lo), nil
}

func (v *DiffView) IndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(v, lo, hi, value, false)
}
func (v *DiffView) LastIndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(v, lo, hi, value, true)
}

func (v *DiffView) LoadResources(ctx context.Context) error {
	return propagateResources(ctx, []Array{v.x0, v.x1}, Array.LoadResources)
}
func (v *DiffView) FlushResources(ctx context.Context) error {
	return propagateResources(ctx, []Array{v.x0, v.x1}, Array.FlushResources)
}
func (v *DiffView) FreeResources(ctx context.Context) error {
	return propagateResources(ctx, []Array{v.x0, v.x1}, Array.FreeResources)
}
