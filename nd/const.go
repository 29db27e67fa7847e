package nd

// ConstArray is an immutable array whose every element equals the same
// narrowed value — returned by rule 1 of spec.md §4.6 for a zero-argument
// or constant-function composition.
type ConstArray struct {
	noopResources
	kind   Kind
	length int64
	value  float64 // already narrowed to kind
}

// NewConstArray narrows v into kind using truncate's policy, then returns
// an array of length n reporting that single value everywhere.
func NewConstArray(kind Kind, length int64, v float64, truncate bool) (*ConstArray, error) {
	if length < 0 {
		return nil, newError(InvalidArgument, "NewConstArray", nil)
	}
	return &ConstArray{kind: kind, length: length, value: narrowDouble(kind, v, truncate)}, nil
}

func (c *ConstArray) Kind() Kind    { return c.kind }
func (c *ConstArray) Length() int64 { return c.length }
func (c *ConstArray) Flags() ArrayFlags {
	return ArrayFlags{IsImmutable: true, IsUnresizable: true, IsLazy: true, IsNew: true}
}

func (c *ConstArray) GetFloat64(i int64) (float64, error) {
	if err := checkIndex("ConstArray.GetFloat64", i, c.length); err != nil {
		return 0, err
	}
	return c.value, nil
}

func (c *ConstArray) GetInt64(i int64) (int64, error) {
	if err := checkIndex("ConstArray.GetInt64", i, c.length); err != nil {
		return 0, err
	}
	return narrowFloatToInt(c.kind, c.value, true), nil
}

func (c *ConstArray) SetFloat64(int64, float64) error {
	return newError(UnallowedMutation, "ConstArray.SetFloat64", nil)
}
func (c *ConstArray) SetInt64(int64, int64) error {
	return newError(UnallowedMutation, "ConstArray.SetInt64", nil)
}

func (c *ConstArray) GetData(pos int64, dst *Buffer, off, count int64) error {
	if dst.Kind != c.kind {
		return newError(ArrayStoreError, "ConstArray.GetData", nil)
	}
	if err := checkRange("ConstArray.GetData", pos, count, c.length); err != nil {
		return err
	}
	for k := int64(0); k < count; k++ {
		dst.SetFromFloat64(int(off+k), c.value, true)
	}
	return nil
}

func (c *ConstArray) SetData(int64, *Buffer, int64, int64) error {
	return newError(UnallowedMutation, "ConstArray.SetData", nil)
}

func (c *ConstArray) Subarray(lo, hi int64) (Array, error) {
	if lo < 0 || hi > c.length || lo > hi {
		return nil, newError(IndexOutOfBounds, "ConstArray.Subarray", nil)
	}
	return &ConstArray{kind: c.kind, length: hi - lo, value: c.value}, nil
}

func (c *ConstArray) IndexOf(lo, hi int64, value float64) (int64, error) {
	lo, hi = clampRange(lo, hi, c.length)
	if lo < hi && c.value == value {
		return lo, nil
	}
	return -1, nil
}

func (c *ConstArray) LastIndexOf(lo, hi int64, value float64) (int64, error) {
	lo, hi = clampRange(lo, hi, c.length)
	if lo < hi && c.value == value {
		return hi - 1, nil
	}
	return -1, nil
}

func clampRange(lo, hi, length int64) (int64, int64) {
	if lo < 0 {
		lo = 0
	}
	if hi > length {
		hi = length
	}
	return lo, hi
}
