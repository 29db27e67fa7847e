package nd

import "context"

// AsUpdatableFuncArray builds a two-way function view (spec.md §4.8): reads
// behave like AsFuncArray; set_X(i, v) computes args = xs.get_double(i),
// calls f.Set(args, v) to mutate them in place, then writes each arg back
// into its source honoring that source's narrowing policy.
//
// Two shortcuts avoid ever calling f.Set:
//   - a single-argument invertible linear map (a != 0) inverts directly:
//     x.set(i, (v-b)/a);
//   - when requiredKind is Bit, the two possible output values (false,
//     true) are run through f.Set once at construction, so every
//     set_bit(i, v) thereafter just replays the precomputed args.
func AsUpdatableFuncArray(truncate bool, f UpdatableFunc, requiredKind Kind, xs []Array) (Array, error) {
	if !requiredKind.Valid() {
		return nil, newError(UnsupportedElementKind, "AsUpdatableFuncArray", nil)
	}
	length, err := funcViewLength(xs)
	if err != nil {
		return nil, err
	}

	if lf, ok := f.(interface{ invertible() (float64, float64, bool) }); ok {
		if a, b, ok := lf.invertible(); ok && len(xs) == 1 {
			return &invertibleLinearUpdatableView{a: a, b: b, kind: requiredKind, truncate: truncate, x: xs[0], length: length}, nil
		}
	}

	v := &UpdatableFuncView{f: f, kind: requiredKind, truncate: truncate, underlying: xs, length: length}
	if requiredKind == Bit {
		v.precomputeBitBackArgs()
	}
	return v, nil
}

// UpdatableFuncView is the general updatable function view; see
// AsUpdatableFuncArray for the two specializations that bypass it.
type UpdatableFuncView struct {
	f          UpdatableFunc
	kind       Kind
	truncate   bool
	underlying []Array
	length     int64

	hasBitBackArgs bool
	argsForFalse   []float64
	argsForTrue    []float64
}

func (v *UpdatableFuncView) precomputeBitBackArgs() {
	argsF := make([]float64, len(v.underlying))
	argsT := make([]float64, len(v.underlying))
	if v.f.Set(argsF, 0) && v.f.Set(argsT, 1) {
		v.hasBitBackArgs = true
		v.argsForFalse = argsF
		v.argsForTrue = argsT
	}
}

func (v *UpdatableFuncView) Kind() Kind    { return v.kind }
func (v *UpdatableFuncView) Length() int64 { return v.length }
func (v *UpdatableFuncView) Flags() ArrayFlags {
	return ArrayFlags{IsUnresizable: true, IsLazy: true, IsNew: true}
}

func (v *UpdatableFuncView) gatherArgs(i int64) ([]float64, error) {
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

func (v *UpdatableFuncView) GetFloat64(i int64) (float64, error) {
	if err := checkIndex("UpdatableFuncView.GetFloat64", i, v.length); err != nil {
		return 0, err
	}
	args, err := v.gatherArgs(i)
	if err != nil {
		return 0, err
	}
	return narrowDouble(v.kind, v.f.Get(args), v.truncate), nil
}

func (v *UpdatableFuncView) GetInt64(i int64) (int64, error) {
	f, err := v.GetFloat64(i)
	if err != nil {
		return 0, err
	}
	return narrowFloatToInt(v.kind, f, true), nil
}

// writeBackArgsAt pushes a freshly mutated args vector into each source
// array at index i, per spec.md §4.8's per-input policy: I64 inputs get the
// long_precision_on_set path (cast to int64 before SetInt64, to dodge
// float64 rounding past 2^53); other bounded integer kinds get
// truncate_on_set (clamp into range before SetFloat64); float kinds get a
// plain SetFloat64.
func writeBackArgsAt(underlying []Array, args []float64, i int64) error {
	for k, x := range underlying {
		kind := x.Kind()
		val := args[k]
		switch {
		case kind == I64:
			if err := x.SetInt64(i, narrowFloatToInt(I64, val, true)); err != nil {
				return err
			}
		case kind.IsInteger() || kind == Bit:
			clamped := val
			lo, hi := kind.MinPossibleValue(), kind.MaxPossibleValue()
			if clamped < lo {
				clamped = lo
			}
			if clamped > hi {
				clamped = hi
			}
			if err := x.SetFloat64(i, clamped); err != nil {
				return err
			}
		default:
			if err := x.SetFloat64(i, val); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *UpdatableFuncView) SetFloat64(i int64, val float64) error {
	if err := checkIndex("UpdatableFuncView.SetFloat64", i, v.length); err != nil {
		return err
	}
	if v.kind == Bit && v.hasBitBackArgs {
		args := v.argsForFalse
		if val != 0 {
			args = v.argsForTrue
		}
		return writeBackArgsAt(v.underlying, args, i)
	}
	args, err := v.gatherArgs(i)
	if err != nil {
		return err
	}
	if !v.f.Set(args, val) {
		return newError(InvalidArgument, "UpdatableFuncView.SetFloat64", nil)
	}
	return writeBackArgsAt(v.underlying, args, i)
}

func (v *UpdatableFuncView) SetInt64(i int64, val int64) error {
	return v.SetFloat64(i, float64(val))
}

func (v *UpdatableFuncView) GetData(pos int64, dst *Buffer, off, count int64) error {
	if dst.Kind != v.kind {
		return newError(ArrayStoreError, "UpdatableFuncView.GetData", nil)
	}
	if err := checkRange("UpdatableFuncView.GetData", pos, count, v.length); err != nil {
		return err
	}
	for k := int64(0); k < count; k++ {
		val, err := v.GetFloat64(pos + k)
		if err != nil {
			return err
		}
		dst.SetFromFloat64(int(off+k), val, v.truncate)
	}
	return nil
}

func (v *UpdatableFuncView) SetData(pos int64, src *Buffer, off, count int64) error {
	if src.Kind != v.kind {
		return newError(ArrayStoreError, "UpdatableFuncView.SetData", nil)
	}
	if err := checkRange("UpdatableFuncView.SetData", pos, count, v.length); err != nil {
		return err
	}
	for k := int64(0); k < count; k++ {
		if err := v.SetFloat64(pos+k, src.GetFloat64(int(off+k))); err != nil {
			return err
		}
	}
	return nil
}

// Fill writes value into every element of [pos, pos+count), one SetFloat64
// call per element.
func (v *UpdatableFuncView) Fill(pos, count int64, value float64) error {
	if err := checkRange("UpdatableFuncView.Fill", pos, count, v.length); err != nil {
		return err
	}
	for k := int64(0); k < count; k++ {
		if err := v.SetFloat64(pos+k, value); err != nil {
			return err
		}
	}
	return nil
}

func (v *UpdatableFuncView) Subarray(lo, hi int64) (Array, error) {
	if lo < 0 || hi > v.length || lo > hi {
		return nil, newError(IndexOutOfBounds, "UpdatableFuncView.Subarray", nil)
	}
	return newOffsetView(v, lo, hi-lo), nil
}

func (v *UpdatableFuncView) IndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(v, lo, hi, value, false)
}
func (v *UpdatableFuncView) LastIndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(v, lo, hi, value, true)
}

func (v *UpdatableFuncView) LoadResources(ctx context.Context) error {
	return propagateResources(ctx, v.underlying, Array.LoadResources)
}
func (v *UpdatableFuncView) FlushResources(ctx context.Context) error {
	return propagateResources(ctx, v.underlying, Array.FlushResources)
}
func (v *UpdatableFuncView) FreeResources(ctx context.Context) error {
	return propagateResources(ctx, v.underlying, Array.FreeResources)
}

// invertibleLinearUpdatableView specializes a single-argument, a!=0 linear
// updatable view: set_X(i, v) computes x.set(i, (v-b)/a) directly, never
// consulting f.Set (spec.md §4.8).
type invertibleLinearUpdatableView struct {
	a, b     float64
	kind     Kind
	truncate bool
	x        Array
	length   int64
}

func (v *invertibleLinearUpdatableView) Kind() Kind    { return v.kind }
func (v *invertibleLinearUpdatableView) Length() int64 { return v.length }
func (v *invertibleLinearUpdatableView) Flags() ArrayFlags {
	return ArrayFlags{IsUnresizable: true, IsLazy: true, IsNew: true}
}

func (v *invertibleLinearUpdatableView) GetFloat64(i int64) (float64, error) {
	if err := checkIndex("invertibleLinearUpdatableView.GetFloat64", i, v.length); err != nil {
		return 0, err
	}
	x, err := v.x.GetFloat64(i)
	if err != nil {
		return 0, err
	}
	return narrowDouble(v.kind, v.a*x+v.b, v.truncate), nil
}

func (v *invertibleLinearUpdatableView) GetInt64(i int64) (int64, error) {
	f, err := v.GetFloat64(i)
	if err != nil {
		return 0, err
	}
	return narrowFloatToInt(v.kind, f, true), nil
}

func (v *invertibleLinearUpdatableView) SetFloat64(i int64, val float64) error {
	if err := checkIndex("invertibleLinearUpdatableView.SetFloat64", i, v.length); err != nil {
		return err
	}
	return v.x.SetFloat64(i, (val-v.b)/v.a)
}

func (v *invertibleLinearUpdatableView) SetInt64(i int64, val int64) error {
	return v.SetFloat64(i, float64(val))
}

func (v *invertibleLinearUpdatableView) GetData(pos int64, dst *Buffer, off, count int64) error {
	if dst.Kind != v.kind {
		return newError(ArrayStoreError, "invertibleLinearUpdatableView.GetData", nil)
	}
	if err := checkRange("invertibleLinearUpdatableView.GetData", pos, count, v.length); err != nil {
		return err
	}
	for k := int64(0); k < count; k++ {
		val, err := v.GetFloat64(pos + k)
		if err != nil {
			return err
		}
		dst.SetFromFloat64(int(off+k), val, v.truncate)
	}
	return nil
}

func (v *invertibleLinearUpdatableView) SetData(pos int64, src *Buffer, off, count int64) error {
	if src.Kind != v.kind {
		return newError(ArrayStoreError, "invertibleLinearUpdatableView.SetData", nil)
	}
	if err := checkRange("invertibleLinearUpdatableView.SetData", pos, count, v.length); err != nil {
		return err
	}
	for k := int64(0); k < count; k++ {
		if err := v.SetFloat64(pos+k, src.GetFloat64(int(off+k))); err != nil {
			return err
		}
	}
	return nil
}

func (v *invertibleLinearUpdatableView) Subarray(lo, hi int64) (Array, error) {
	if lo < 0 || hi > v.length || lo > hi {
		return nil, newError(IndexOutOfBounds, "invertibleLinearUpdatableView.Subarray", nil)
	}
	return newOffsetView(v, lo, hi-lo), nil
}

func (v *invertibleLinearUpdatableView) IndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(v, lo, hi, value, false)
}
func (v *invertibleLinearUpdatableView) LastIndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(v, lo, hi, value, true)
}
func (v *invertibleLinearUpdatableView) LoadResources(ctx context.Context) error {
	return v.x.LoadResources(ctx)
}
func (v *invertibleLinearUpdatableView) FlushResources(ctx context.Context) error {
	return v.x.FlushResources(ctx)
}
func (v *invertibleLinearUpdatableView) FreeResources(ctx context.Context) error {
	return v.x.FreeResources(ctx)
}

// immutableView detaches write capability from an updatable view while
// keeping identical read semantics (spec.md §4.8 as_immutable).
type immutableView struct {
	underlying Array
}

// AsImmutable wraps a (presumably updatable) array so every mutating call
// fails with UnallowedMutation, leaving reads untouched.
func AsImmutable(a Array) Array {
	if iv, ok := a.(*immutableView); ok {
		return iv
	}
	return &immutableView{underlying: a}
}

func (v *immutableView) Kind() Kind      { return v.underlying.Kind() }
func (v *immutableView) Length() int64   { return v.underlying.Length() }
func (v *immutableView) Flags() ArrayFlags {
	f := v.underlying.Flags()
	f.IsImmutable = true
	return f
}
func (v *immutableView) GetFloat64(i int64) (float64, error) { return v.underlying.GetFloat64(i) }
func (v *immutableView) GetInt64(i int64) (int64, error)      { return v.underlying.GetInt64(i) }
func (v *immutableView) SetFloat64(int64, float64) error {
	return newError(UnallowedMutation, "immutableView.SetFloat64", nil)
}
func (v *immutableView) SetInt64(int64, int64) error {
	return newError(UnallowedMutation, "immutableView.SetInt64", nil)
}
func (v *immutableView) GetData(pos int64, dst *Buffer, off, count int64) error {
	return v.underlying.GetData(pos, dst, off, count)
}
func (v *immutableView) SetData(int64, *Buffer, int64, int64) error {
	return newError(UnallowedMutation, "immutableView.SetData", nil)
}
func (v *immutableView) Subarray(lo, hi int64) (Array, error) {
	u, err := v.underlying.Subarray(lo, hi)
	if err != nil {
		return nil, err
	}
	return AsImmutable(u), nil
}
func (v *immutableView) IndexOf(lo, hi int64, value float64) (int64, error) {
	return v.underlying.IndexOf(lo, hi, value)
}
func (v *immutableView) LastIndexOf(lo, hi int64, value float64) (int64, error) {
	return v.underlying.LastIndexOf(lo, hi, value)
}
func (v *immutableView) LoadResources(ctx context.Context) error  { return v.underlying.LoadResources(ctx) }
func (v *immutableView) FlushResources(ctx context.Context) error { return v.underlying.FlushResources(ctx) }
func (v *immutableView) FreeResources(ctx context.Context) error  { return v.underlying.FreeResources(ctx) }
