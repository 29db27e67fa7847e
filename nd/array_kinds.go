package nd

// numericStorage is the set of Go types used as backing storage for the
// seven non-Bit kinds. This mirrors the teacher's Lanes/Integers/Floats
// constraint lattice (hwy/types.go), generalized from "fits in a SIMD lane"
// to "is the storage type for one nd.Kind".
type numericStorage interface {
	~int32 | ~uint8 | ~uint16 | ~int64 | ~float32 | ~float64
}

func widenToFloat64[T numericStorage](v T) float64 { return float64(v) }
func widenToInt64[T numericStorage](v T) int64      { return int64(v) }

func narrowFromFloat64[T numericStorage](k Kind, v float64, truncate bool) T {
	if k.IsFloat() {
		return T(v)
	}
	return T(narrowFloatToInt(k, v, truncate))
}

func narrowFromInt64[T numericStorage](k Kind, v int64, truncate bool) T {
	if k.IsFloat() {
		return T(v)
	}
	return T(narrowIntToInt(k, v, truncate))
}

// typedArray is the one concrete representation shared by Char16, U8, U16,
// I32, I64, F32 and F64 (storage types uint16, uint8, uint16, int32, int64,
// float32, float64 respectively) — "concrete type holding a boxed Op"
// generalized to "concrete type parameterized by storage type", per
// spec.md §9 Design Notes.
type typedArray[T numericStorage] struct {
	noopResources
	kind  Kind
	data  []T
	flags ArrayFlags
	cow   cowState
}

func newTypedArray[T numericStorage](kind Kind, n int64) *typedArray[T] {
	return &typedArray[T]{kind: kind, data: make([]T, n)}
}

func (a *typedArray[T]) Kind() Kind        { return a.kind }
func (a *typedArray[T]) Length() int64     { return int64(len(a.data)) }
func (a *typedArray[T]) Flags() ArrayFlags {
	f := a.flags
	f.IsCopyOnNextWrite = a.cow.isCOW() && a.flags.IsCopyOnNextWrite
	return f
}

func (a *typedArray[T]) GetFloat64(i int64) (float64, error) {
	if err := checkIndex("Array.GetFloat64", i, a.Length()); err != nil {
		return 0, err
	}
	return widenToFloat64(a.data[i]), nil
}

func (a *typedArray[T]) GetInt64(i int64) (int64, error) {
	if err := checkIndex("Array.GetInt64", i, a.Length()); err != nil {
		return 0, err
	}
	return widenToInt64(a.data[i]), nil
}

func (a *typedArray[T]) mutableCheck(op string, i int64) error {
	if a.flags.IsImmutable {
		return newError(UnallowedMutation, op, nil)
	}
	return checkIndex(op, i, a.Length())
}

func (a *typedArray[T]) ensureOwnedData() {
	a.cow.ensureOwned(func() {
		cloned := make([]T, len(a.data))
		copy(cloned, a.data)
		a.data = cloned
	})
}

func (a *typedArray[T]) SetFloat64(i int64, v float64) error {
	if err := a.mutableCheck("Array.SetFloat64", i); err != nil {
		return err
	}
	a.ensureOwnedData()
	a.data[i] = narrowFromFloat64[T](a.kind, v, true)
	return nil
}

func (a *typedArray[T]) SetInt64(i int64, v int64) error {
	if err := a.mutableCheck("Array.SetInt64", i); err != nil {
		return err
	}
	a.ensureOwnedData()
	a.data[i] = narrowFromInt64[T](a.kind, v, true)
	return nil
}

func (a *typedArray[T]) GetData(pos int64, dst *Buffer, off, count int64) error {
	if err := checkRange("Array.GetData", pos, count, a.Length()); err != nil {
		return err
	}
	if dst.Kind != a.kind {
		return newError(ArrayStoreError, "Array.GetData", nil)
	}
	for k := int64(0); k < count; k++ {
		dst.SetFromFloat64(int(off+k), widenToFloat64(a.data[pos+k]), true)
	}
	return nil
}

func (a *typedArray[T]) SetData(pos int64, src *Buffer, off, count int64) error {
	if err := checkRange("Array.SetData", pos, count, a.Length()); err != nil {
		return err
	}
	if src.Kind != a.kind {
		return newError(ArrayStoreError, "Array.SetData", nil)
	}
	if a.flags.IsImmutable {
		return newError(UnallowedMutation, "Array.SetData", nil)
	}
	a.ensureOwnedData()
	for k := int64(0); k < count; k++ {
		a.data[pos+k] = narrowFromFloat64[T](a.kind, src.GetFloat64(int(off+k)), true)
	}
	return nil
}

func (a *typedArray[T]) Subarray(lo, hi int64) (Array, error) {
	if lo < 0 || hi > a.Length() || lo > hi {
		return nil, newError(IndexOutOfBounds, "Array.Subarray", nil)
	}
	sub := &typedArray[T]{kind: a.kind, data: a.data[lo:hi], flags: a.flags}
	sub.flags.IsNewReadOnlyView = true
	return sub, nil
}

func (a *typedArray[T]) IndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(a, lo, hi, value, false)
}

func (a *typedArray[T]) LastIndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(a, lo, hi, value, true)
}

// indexOfScan is the default linear-scan implementation of IndexOf/
// LastIndexOf shared by every array kind, per spec.md §4.1 ("Default is a
// linear scan; specialized arrays must override for sub-matrix/tiled
// cases"). SubMatrix (submatrix.go) calls this same scan; it has no
// override of its own.
func indexOfScan(a Array, lo, hi int64, value float64, last bool) (int64, error) {
	length := a.Length()
	if lo < 0 {
		lo = 0
	}
	if hi > length {
		hi = length
	}
	if lo >= hi {
		return -1, nil
	}
	found := int64(-1)
	for i := lo; i < hi; i++ {
		v, err := a.GetFloat64(i)
		if err != nil {
			return -1, err
		}
		if v == value {
			found = i
			if !last {
				return found, nil
			}
		}
	}
	return found, nil
}

// --- bitArray: packed Bit storage -------------------------------------

// bitArray stores Bit-kind elements packed 64-to-a-word: element i lives at
// bit i%64 of word i/64 (spec.md §6).
type bitArray struct {
	noopResources
	words  []uint64
	length int64
	flags  ArrayFlags
	cow    cowState
}

func newBitArray(n int64) *bitArray {
	return &bitArray{words: make([]uint64, (n+63)/64), length: n}
}

func (a *bitArray) Kind() Kind    { return Bit }
func (a *bitArray) Length() int64 { return a.length }
func (a *bitArray) Flags() ArrayFlags {
	f := a.flags
	f.IsCopyOnNextWrite = a.cow.isCOW() && a.flags.IsCopyOnNextWrite
	return f
}

func (a *bitArray) getBit(i int64) bool {
	return a.words[i/64]&(uint64(1)<<uint(i%64)) != 0
}

func (a *bitArray) setBit(i int64, v bool) {
	word := i / 64
	mask := uint64(1) << uint(i%64)
	if v {
		a.words[word] |= mask
	} else {
		a.words[word] &^= mask
	}
}

func (a *bitArray) GetFloat64(i int64) (float64, error) {
	if err := checkIndex("Array.GetFloat64", i, a.length); err != nil {
		return 0, err
	}
	if a.getBit(i) {
		return 1, nil
	}
	return 0, nil
}

func (a *bitArray) GetInt64(i int64) (int64, error) {
	v, err := a.GetFloat64(i)
	return int64(v), err
}

func (a *bitArray) ensureOwnedData() {
	a.cow.ensureOwned(func() {
		cloned := make([]uint64, len(a.words))
		copy(cloned, a.words)
		a.words = cloned
	})
}

func (a *bitArray) SetFloat64(i int64, v float64) error {
	if a.flags.IsImmutable {
		return newError(UnallowedMutation, "Array.SetFloat64", nil)
	}
	if err := checkIndex("Array.SetFloat64", i, a.length); err != nil {
		return err
	}
	a.ensureOwnedData()
	a.setBit(i, v != 0)
	return nil
}

func (a *bitArray) SetInt64(i int64, v int64) error {
	return a.SetFloat64(i, float64(v))
}

func (a *bitArray) GetData(pos int64, dst *Buffer, off, count int64) error {
	if err := checkRange("Array.GetData", pos, count, a.length); err != nil {
		return err
	}
	if dst.Kind != Bit {
		return newError(ArrayStoreError, "Array.GetData", nil)
	}
	for k := int64(0); k < count; k++ {
		dst.SetBit(int(off+k), a.getBit(pos+k))
	}
	return nil
}

func (a *bitArray) SetData(pos int64, src *Buffer, off, count int64) error {
	if err := checkRange("Array.SetData", pos, count, a.length); err != nil {
		return err
	}
	if src.Kind != Bit {
		return newError(ArrayStoreError, "Array.SetData", nil)
	}
	if a.flags.IsImmutable {
		return newError(UnallowedMutation, "Array.SetData", nil)
	}
	a.ensureOwnedData()
	for k := int64(0); k < count; k++ {
		a.setBit(pos+k, src.GetBit(int(off+k)))
	}
	return nil
}

func (a *bitArray) GetBits(pos int64, dst []uint64, dstOffBits, countBits int64) error {
	if err := checkRange("Array.GetBits", pos, countBits, a.length); err != nil {
		return err
	}
	for k := int64(0); k < countBits; k++ {
		setPackedBit(dst, dstOffBits+k, a.getBit(pos+k))
	}
	return nil
}

func (a *bitArray) SetBits(pos int64, src []uint64, srcOffBits, countBits int64) error {
	if err := checkRange("Array.SetBits", pos, countBits, a.length); err != nil {
		return err
	}
	if a.flags.IsImmutable {
		return newError(UnallowedMutation, "Array.SetBits", nil)
	}
	a.ensureOwnedData()
	for k := int64(0); k < countBits; k++ {
		a.setBit(pos+k, getPackedBit(src, srcOffBits+k))
	}
	return nil
}

func getPackedBit(words []uint64, i int64) bool {
	return words[i/64]&(uint64(1)<<uint(i%64)) != 0
}

func setPackedBit(words []uint64, i int64, v bool) {
	word := i / 64
	mask := uint64(1) << uint(i%64)
	if v {
		words[word] |= mask
	} else {
		words[word] &^= mask
	}
}

func (a *bitArray) Subarray(lo, hi int64) (Array, error) {
	if lo < 0 || hi > a.length || lo > hi {
		return nil, newError(IndexOutOfBounds, "Array.Subarray", nil)
	}
	return newOffsetView(a, lo, hi-lo), nil
}

func (a *bitArray) IndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(a, lo, hi, value, false)
}

func (a *bitArray) LastIndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(a, lo, hi, value, true)
}

// --- public constructors -----------------------------------------------

// MemoryLayout selects how NewArray allocates; spec.md §6 calls this the
// "memory_model" parameter of new_array. Only Dense is implemented — the
// engine has no persisted/sparse representation (non-goal).
type MemoryLayout int

const (
	Dense MemoryLayout = iota
)

// NewArray builds a fresh, owned, mutable array of kind with the given
// length, per spec.md §6's new_array(memory_model, kind, length).
func NewArray(layout MemoryLayout, kind Kind, length int64) (Array, error) {
	if !kind.Valid() {
		return nil, newError(UnsupportedElementKind, "NewArray", nil)
	}
	if length < 0 {
		return nil, newError(InvalidArgument, "NewArray", nil)
	}
	switch kind {
	case Bit:
		return newBitArray(length), nil
	case Char16:
		return newTypedArray[uint16](Char16, length), nil
	case U8:
		return newTypedArray[uint8](U8, length), nil
	case U16:
		return newTypedArray[uint16](U16, length), nil
	case I32:
		return newTypedArray[int32](I32, length), nil
	case I64:
		return newTypedArray[int64](I64, length), nil
	case F32:
		return newTypedArray[float32](F32, length), nil
	case F64:
		return newTypedArray[float64](F64, length), nil
	default:
		return nil, newError(UnsupportedElementKind, "NewArray", nil)
	}
}

// NewArrayFromFloat64s builds a fresh, owned, mutable array of kind
// populated from vs, narrowing each element with the saturating policy.
// Convenience used throughout the test suite and by the CLI's literal-array
// builder.
func NewArrayFromFloat64s(kind Kind, vs []float64) (Array, error) {
	a, err := NewArray(Dense, kind, int64(len(vs)))
	if err != nil {
		return nil, err
	}
	for i, v := range vs {
		if err := a.SetFloat64(int64(i), v); err != nil {
			return nil, err
		}
	}
	return a, nil
}
