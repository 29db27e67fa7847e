package nd

import "context"

// CoordFuncView is the coordinate-function view of spec.md §3/§4.7: element
// i decodes into an n-dimensional coordinate vector via dims, then f.Get
// computes the value directly from the coordinates (no source arrays).
type CoordFuncView struct {
	f        CoordFunc
	kind     Kind
	truncate bool
	dims     []int64
	length   int64
}

func newCoordFuncView(f CoordFunc, kind Kind, truncate bool, dims []int64) (*CoordFuncView, error) {
	if len(dims) < 1 {
		return nil, newError(InvalidArgument, "newCoordFuncView", nil)
	}
	total := int64(1)
	for _, d := range dims {
		if d < 0 {
			return nil, newError(InvalidArgument, "newCoordFuncView", nil)
		}
		total *= d
	}
	return &CoordFuncView{f: f, kind: kind, truncate: truncate, dims: append([]int64(nil), dims...), length: total}, nil
}

func (v *CoordFuncView) Kind() Kind    { return v.kind }
func (v *CoordFuncView) Length() int64 { return v.length }
func (v *CoordFuncView) Flags() ArrayFlags {
	return ArrayFlags{IsImmutable: true, IsUnresizable: true, IsLazy: true, IsNew: true}
}

func (v *CoordFuncView) GetFloat64(i int64) (float64, error) {
	if err := checkIndex("CoordFuncView.GetFloat64", i, v.length); err != nil {
		return 0, err
	}
	coords := rowMajorDecode(i, v.dims)
	return narrowDouble(v.kind, v.f.Get(coords), v.truncate), nil
}

func (v *CoordFuncView) GetInt64(i int64) (int64, error) {
	f, err := v.GetFloat64(i)
	if err != nil {
		return 0, err
	}
	return narrowFloatToInt(v.kind, f, true), nil
}

func (v *CoordFuncView) SetFloat64(int64, float64) error {
	return newError(UnallowedMutation, "CoordFuncView.SetFloat64", nil)
}
func (v *CoordFuncView) SetInt64(int64, int64) error {
	return newError(UnallowedMutation, "CoordFuncView.SetInt64", nil)
}

// GetData decodes the chunk's starting coordinate once via rowMajorDecode,
// then advances it in place one cell at a time like an odometer (dims[0] is
// fastest-varying per rowMajorDecode/rowMajorEncode, carrying into higher
// dims on overflow) instead of re-running the full div/mod decode at every
// index, matching spec.md §4.7's "Coord-func kernel".
func (v *CoordFuncView) GetData(pos int64, dst *Buffer, off, count int64) error {
	if dst.Kind != v.kind {
		return newError(ArrayStoreError, "CoordFuncView.GetData", nil)
	}
	if err := checkRange("CoordFuncView.GetData", pos, count, v.length); err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	coords := rowMajorDecode(pos, v.dims)
	for k := int64(0); k < count; k++ {
		val := narrowDouble(v.kind, v.f.Get(coords), v.truncate)
		dst.SetFromFloat64(int(off+k), val, v.truncate)
		if k+1 < count {
			for d := 0; d < len(v.dims); d++ {
				coords[d]++
				if coords[d] < v.dims[d] {
					break
				}
				coords[d] = 0
			}
		}
	}
	return nil
}

func (v *CoordFuncView) SetData(int64, *Buffer, int64, int64) error {
	return newError(UnallowedMutation, "CoordFuncView.SetData", nil)
}

func (v *CoordFuncView) Subarray(lo, hi int64) (Array, error) {
	if lo < 0 || hi > v.length || lo > hi {
		return nil, newError(IndexOutOfBounds, "CoordFuncView.Subarray", nil)
	}
	return newOffsetView(v, lo, hi-lo), nil
}

func (v *CoordFuncView) IndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(v, lo, hi, value, false)
}
func (v *CoordFuncView) LastIndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(v, lo, hi, value, true)
}

func (v *CoordFuncView) LoadResources(ctx context.Context) error  { return nil }
func (v *CoordFuncView) FlushResources(ctx context.Context) error { return nil }
func (v *CoordFuncView) FreeResources(ctx context.Context) error  { return nil }
