package nd

import "context"

// tableDomainSize returns the number of representable values of a unary
// source kind eligible for table-kernel specialization (spec.md §4.7:
// "When the sole argument has <= 16 bits"), or 0 when the kind's domain is
// too large to precompute.
func tableDomainSize(k Kind) int {
	switch k {
	case Bit:
		return 2
	case U8:
		return 256
	case Char16, U16:
		return 65536
	default:
		return 0
	}
}

// TableView precomputes v[i] = narrow(f(i)) once at construction, over the
// source kind's entire domain, then every read is a single slice index
// (spec.md §4.7 "Table kernel").
type TableView struct {
	kind     Kind
	src      Array
	table    []float64
	length   int64
}

func newTableView(f Func, kind Kind, truncate bool, src Array) (*TableView, error) {
	domain := tableDomainSize(src.Kind())
	if domain == 0 {
		return nil, newError(InvalidArgument, "newTableView", nil)
	}
	table := make([]float64, domain)
	for x := 0; x < domain; x++ {
		table[x] = narrowDouble(kind, f.Get([]float64{float64(x)}), truncate)
	}
	return &TableView{kind: kind, src: src, table: table, length: src.Length()}, nil
}

func (v *TableView) Kind() Kind    { return v.kind }
func (v *TableView) Length() int64 { return v.length }
func (v *TableView) Flags() ArrayFlags {
	return ArrayFlags{IsImmutable: true, IsUnresizable: true, IsLazy: true, IsNew: true}
}

func (v *TableView) GetFloat64(i int64) (float64, error) {
	if err := checkIndex("TableView.GetFloat64", i, v.length); err != nil {
		return 0, err
	}
	x, err := v.src.GetInt64(i)
	if err != nil {
		return 0, err
	}
	return v.table[x], nil
}

func (v *TableView) GetInt64(i int64) (int64, error) {
	f, err := v.GetFloat64(i)
	if err != nil {
		return 0, err
	}
	return narrowFloatToInt(v.kind, f, true), nil
}

func (v *TableView) SetFloat64(int64, float64) error {
	return newError(UnallowedMutation, "TableView.SetFloat64", nil)
}
func (v *TableView) SetInt64(int64, int64) error {
	return newError(UnallowedMutation, "TableView.SetInt64", nil)
}

// GetData pulls source values through the process-wide buffer pool in
// pool-sized chunks rather than allocating one count-sized scratch buffer
// per call, matching the teacher's per-kernel pooled-scratch pattern
// (spec.md §4.3/§9 Design Notes).
func (v *TableView) GetData(pos int64, dst *Buffer, off, count int64) error {
	if dst.Kind != v.kind {
		return newError(ArrayStoreError, "TableView.GetData", nil)
	}
	if err := checkRange("TableView.GetData", pos, count, v.length); err != nil {
		return err
	}
	pool := GlobalBufferPool()
	srcBuf := pool.Acquire(v.src.Kind())
	defer pool.Release(srcBuf)

	chunkLen := int64(srcBuf.Len())
	if chunkLen <= 0 {
		chunkLen = count
	}
	for done := int64(0); done < count; {
		n := count - done
		if n > chunkLen {
			n = chunkLen
		}
		if err := v.src.GetData(pos+done, srcBuf, 0, n); err != nil {
			return err
		}
		for k := int64(0); k < n; k++ {
			x := srcBuf.GetInt64(int(k))
			dst.SetFromFloat64(int(off+done+k), v.table[x], true)
		}
		done += n
	}
	return nil
}

func (v *TableView) SetData(int64, *Buffer, int64, int64) error {
	return newError(UnallowedMutation, "TableView.SetData", nil)
}

func (v *TableView) Subarray(lo, hi int64) (Array, error) {
	if lo < 0 || hi > v.length || lo > hi {
		return nil, newError(IndexOutOfBounds, "TableView.Subarray", nil)
	}
	return newOffsetView(v, lo, hi-lo), nil
}

func (v *TableView) IndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(v, lo, hi, value, false)
}
func (v *TableView) LastIndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(v, lo, hi, value, true)
}

func (v *TableView) LoadResources(ctx context.Context) error {
	return v.src.LoadResources(ctx)
}
func (v *TableView) FlushResources(ctx context.Context) error {
	return v.src.FlushResources(ctx)
}
func (v *TableView) FreeResources(ctx context.Context) error {
	return v.src.FreeResources(ctx)
}
