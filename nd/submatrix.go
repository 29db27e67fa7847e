package nd

import "context"

// ContinuationMode selects how a SubMatrix resolves a view coordinate that
// falls outside its base matrix (spec.md §4.5).
type ContinuationMode int

const (
	// Strict forbids any out-of-range coordinate: NewSubMatrix validates
	// from+dims ⊆ baseDims at construction and fails otherwise.
	Strict ContinuationMode = iota
	// Constant yields outsideValue for any coordinate outside the base.
	Constant
	// Cyclic wraps each coordinate independently modulo its base dimension.
	Cyclic
	// PseudoCyclic wraps the flat linear index modulo the base's total
	// length, ignoring row boundaries — cheap but non-Cartesian.
	PseudoCyclic
	// MirrorCyclic reflects each coordinate within period 2*baseDim, giving
	// the infinite even extension of the base.
	MirrorCyclic
)

func (m ContinuationMode) String() string {
	switch m {
	case Strict:
		return "Strict"
	case Constant:
		return "Constant"
	case Cyclic:
		return "Cyclic"
	case PseudoCyclic:
		return "PseudoCyclic"
	case MirrorCyclic:
		return "MirrorCyclic"
	default:
		return "ContinuationMode(?)"
	}
}

// outsideSentinel marks a translated index as falling outside the base
// matrix under Constant mode.
const outsideSentinel = int64(-1)

// SubMatrix is a view at an offset `from` with its own shape `dims` over a
// base Matrix, translating each view coordinate into a base backing index
// under one of five continuation modes (spec.md §3/§4.5).
type SubMatrix struct {
	base            *Matrix
	baseDims        []int64
	baseLinearStart int64 // rowMajorEncode(from, baseDims); used by PseudoCyclic
	from            []int64
	dims            []int64
	mode            ContinuationMode
	outsideValue    float64
	length          int64
	immutable       bool
}

// NewSubMatrix builds a sub-matrix view. Under Strict mode, from+dims must
// lie entirely within base's shape or construction fails with
// IndexOutOfBounds; every other mode accepts any from/dims.
func NewSubMatrix(base *Matrix, from, dims []int64, mode ContinuationMode, outsideValue float64, immutable bool) (*SubMatrix, error) {
	baseDims := base.Dims()
	if len(from) != len(baseDims) || len(dims) != len(baseDims) {
		return nil, newError(SizeMismatch, "NewSubMatrix", nil)
	}
	total := int64(1)
	for _, d := range dims {
		if d < 0 {
			return nil, newError(InvalidArgument, "NewSubMatrix", nil)
		}
		total *= d
	}
	if mode == Strict {
		for k, f := range from {
			if f < 0 || f+dims[k] > baseDims[k] {
				return nil, newError(IndexOutOfBounds, "NewSubMatrix", nil)
			}
		}
	}
	cpFrom := append([]int64(nil), from...)
	cpDims := append([]int64(nil), dims...)
	return &SubMatrix{
		base:            base,
		baseDims:        baseDims,
		baseLinearStart: rowMajorEncode(cpFrom, baseDims),
		from:            cpFrom,
		dims:            cpDims,
		mode:            mode,
		outsideValue:    outsideValue,
		length:          total,
		immutable:       immutable,
	}, nil
}

func (s *SubMatrix) Kind() Kind { return s.base.Backing().Kind() }
func (s *SubMatrix) Length() int64 { return s.length }

func (s *SubMatrix) Flags() ArrayFlags {
	return ArrayFlags{
		IsImmutable:       s.immutable,
		IsUnresizable:     true,
		IsLazy:            true,
		IsNewReadOnlyView: s.immutable,
	}
}

func floorMod(a, m int64) int64 {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// mirrorAxis reflects coordinate x into [0, dim) using period 2*dim, with
// the phase that duplicates the bar at each boundary — the formula
// verified against spec.md §8's MIRROR_CYCLIC example
// (dims=[5], from=[-3], dims=[10]).
func mirrorAxis(x, dim int64) int64 {
	period := 2 * dim
	r := floorMod(x-1, period)
	if r < dim {
		return r
	}
	return period - 1 - r
}

// translate maps a flat view index i to a base backing index, or
// outsideSentinel when the coordinate is out of range under Constant mode.
func (s *SubMatrix) translate(i int64) int64 {
	switch s.mode {
	case PseudoCyclic:
		baseLen := int64(1)
		for _, d := range s.baseDims {
			baseLen *= d
		}
		return floorMod(s.baseLinearStart+i, baseLen)
	}

	viewCoords := rowMajorDecode(i, s.dims)
	baseCoords := make([]int64, len(viewCoords))
	switch s.mode {
	case Strict, Constant:
		for k, vc := range viewCoords {
			bc := s.from[k] + vc
			if bc < 0 || bc >= s.baseDims[k] {
				if s.mode == Constant {
					return outsideSentinel
				}
				// Strict guarantees in-bounds at construction; this path
				// should be unreachable, but fail safe rather than index
				// out of range.
				return outsideSentinel
			}
			baseCoords[k] = bc
		}
	case Cyclic:
		for k, vc := range viewCoords {
			baseCoords[k] = floorMod(s.from[k]+vc, s.baseDims[k])
		}
	case MirrorCyclic:
		for k, vc := range viewCoords {
			baseCoords[k] = mirrorAxis(s.from[k]+vc, s.baseDims[k])
		}
	default:
		return outsideSentinel
	}
	return rowMajorEncode(baseCoords, s.baseDims)
}

func (s *SubMatrix) checkBounds(op string, i int64) error {
	return checkIndex(op, i, s.length)
}

func (s *SubMatrix) GetFloat64(i int64) (float64, error) {
	if err := s.checkBounds("SubMatrix.GetFloat64", i); err != nil {
		return 0, err
	}
	j := s.translate(i)
	if j == outsideSentinel {
		return s.outsideValue, nil
	}
	return s.base.Backing().GetFloat64(j)
}

func (s *SubMatrix) GetInt64(i int64) (int64, error) {
	if err := s.checkBounds("SubMatrix.GetInt64", i); err != nil {
		return 0, err
	}
	j := s.translate(i)
	if j == outsideSentinel {
		return narrowFloatToInt(s.Kind(), s.outsideValue, true), nil
	}
	return s.base.Backing().GetInt64(j)
}

func (s *SubMatrix) SetFloat64(i int64, v float64) error {
	if s.immutable {
		return newError(UnallowedMutation, "SubMatrix.SetFloat64", nil)
	}
	if err := s.checkBounds("SubMatrix.SetFloat64", i); err != nil {
		return err
	}
	j := s.translate(i)
	if j == outsideSentinel {
		return newError(UnallowedMutation, "SubMatrix.SetFloat64", nil)
	}
	return s.base.Backing().SetFloat64(j, v)
}

func (s *SubMatrix) SetInt64(i int64, v int64) error {
	if s.immutable {
		return newError(UnallowedMutation, "SubMatrix.SetInt64", nil)
	}
	if err := s.checkBounds("SubMatrix.SetInt64", i); err != nil {
		return err
	}
	j := s.translate(i)
	if j == outsideSentinel {
		return newError(UnallowedMutation, "SubMatrix.SetInt64", nil)
	}
	return s.base.Backing().SetInt64(j, v)
}

// GetData/SetData use the generic per-element loop rather than a
// specialized fast path — matching spec.md §9's open-question decision to
// require only a correct fallback for sub-matrix bulk/index_of paths.
func (s *SubMatrix) GetData(pos int64, dst *Buffer, off, count int64) error {
	if dst.Kind != s.Kind() {
		return newError(ArrayStoreError, "SubMatrix.GetData", nil)
	}
	if err := checkRange("SubMatrix.GetData", pos, count, s.length); err != nil {
		return err
	}
	for k := int64(0); k < count; k++ {
		v, err := s.GetFloat64(pos + k)
		if err != nil {
			return err
		}
		dst.SetFromFloat64(int(off+k), v, true)
	}
	return nil
}

func (s *SubMatrix) SetData(pos int64, src *Buffer, off, count int64) error {
	if src.Kind != s.Kind() {
		return newError(ArrayStoreError, "SubMatrix.SetData", nil)
	}
	if err := checkRange("SubMatrix.SetData", pos, count, s.length); err != nil {
		return err
	}
	for k := int64(0); k < count; k++ {
		if err := s.SetFloat64(pos+k, src.GetFloat64(int(off+k))); err != nil {
			return err
		}
	}
	return nil
}

// Fill writes value into every element of [pos, pos+count), as used by
// scenario 6 of spec.md §8 (sub-matrix fill through an updatable view).
func (s *SubMatrix) Fill(pos, count int64, value float64) error {
	if err := checkRange("SubMatrix.Fill", pos, count, s.length); err != nil {
		return err
	}
	for k := int64(0); k < count; k++ {
		if err := s.SetFloat64(pos+k, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *SubMatrix) Subarray(lo, hi int64) (Array, error) {
	if lo < 0 || hi > s.length || lo > hi {
		return nil, newError(IndexOutOfBounds, "SubMatrix.Subarray", nil)
	}
	return newOffsetView(s, lo, hi-lo), nil
}

func (s *SubMatrix) IndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(s, lo, hi, value, false)
}

func (s *SubMatrix) LastIndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(s, lo, hi, value, true)
}

func (s *SubMatrix) LoadResources(ctx context.Context) error {
	return s.base.Backing().LoadResources(ctx)
}
func (s *SubMatrix) FlushResources(ctx context.Context) error {
	return s.base.Backing().FlushResources(ctx)
}
func (s *SubMatrix) FreeResources(ctx context.Context) error {
	return s.base.Backing().FreeResources(ctx)
}

// offsetView is the plain index-shifted view returned by Subarray on any
// Array that doesn't otherwise specialize it (spec.md §4.1).
type offsetView struct {
	noopResources
	underlying Array
	lo         int64
	length     int64
}

func newOffsetView(underlying Array, lo, length int64) *offsetView {
	return &offsetView{underlying: underlying, lo: lo, length: length}
}

func (v *offsetView) Kind() Kind   { return v.underlying.Kind() }
func (v *offsetView) Length() int64 { return v.length }
func (v *offsetView) Flags() ArrayFlags {
	f := v.underlying.Flags()
	f.IsNewReadOnlyView = true
	f.IsUnresizable = true
	return f
}

func (v *offsetView) GetFloat64(i int64) (float64, error) {
	if err := checkIndex("offsetView.GetFloat64", i, v.length); err != nil {
		return 0, err
	}
	return v.underlying.GetFloat64(v.lo + i)
}

func (v *offsetView) GetInt64(i int64) (int64, error) {
	if err := checkIndex("offsetView.GetInt64", i, v.length); err != nil {
		return 0, err
	}
	return v.underlying.GetInt64(v.lo + i)
}

func (v *offsetView) SetFloat64(i int64, val float64) error {
	if err := checkIndex("offsetView.SetFloat64", i, v.length); err != nil {
		return err
	}
	return v.underlying.SetFloat64(v.lo+i, val)
}

func (v *offsetView) SetInt64(i int64, val int64) error {
	if err := checkIndex("offsetView.SetInt64", i, v.length); err != nil {
		return err
	}
	return v.underlying.SetInt64(v.lo+i, val)
}

func (v *offsetView) GetData(pos int64, dst *Buffer, off, count int64) error {
	if err := checkRange("offsetView.GetData", pos, count, v.length); err != nil {
		return err
	}
	return v.underlying.GetData(v.lo+pos, dst, off, count)
}

func (v *offsetView) SetData(pos int64, src *Buffer, off, count int64) error {
	if err := checkRange("offsetView.SetData", pos, count, v.length); err != nil {
		return err
	}
	return v.underlying.SetData(v.lo+pos, src, off, count)
}

func (v *offsetView) Subarray(lo, hi int64) (Array, error) {
	if lo < 0 || hi > v.length || lo > hi {
		return nil, newError(IndexOutOfBounds, "offsetView.Subarray", nil)
	}
	return newOffsetView(v.underlying, v.lo+lo, hi-lo), nil
}

func (v *offsetView) IndexOf(lo, hi int64, value float64) (int64, error) {
	i, err := v.underlying.IndexOf(v.lo+lo, v.lo+hi, value)
	if err != nil || i < 0 {
		return i, err
	}
	return i - v.lo, nil
}

func (v *offsetView) LastIndexOf(lo, hi int64, value float64) (int64, error) {
	i, err := v.underlying.LastIndexOf(v.lo+lo, v.lo+hi, value)
	if err != nil || i < 0 {
		return i, err
	}
	return i - v.lo, nil
}
