package nd

import "context"

// Matrix reshapes a 1-D backing Array into n >= 1 dimensions (spec.md §3).
// Coordinate decoding is row-major with dims[0] varying fastest:
//
//	i = ((...(c[n-1])*dims[n-2] + c[n-2])*dims[n-3] + ...)*dims[0] + c[0]
type Matrix struct {
	dims    []int64
	backing Array
}

// NewMatrix wraps backing with the given shape. Fails with InvalidArgument
// when dims is empty or any dimension is negative, and with SizeMismatch
// when the product of dims doesn't equal backing.Length().
func NewMatrix(backing Array, dims []int64) (*Matrix, error) {
	if len(dims) < 1 {
		return nil, newError(InvalidArgument, "NewMatrix", nil)
	}
	total := int64(1)
	for _, d := range dims {
		if d < 0 {
			return nil, newError(InvalidArgument, "NewMatrix", nil)
		}
		total *= d
	}
	if total != backing.Length() {
		return nil, newError(SizeMismatch, "NewMatrix", nil)
	}
	cp := make([]int64, len(dims))
	copy(cp, dims)
	return &Matrix{dims: cp, backing: backing}, nil
}

func (m *Matrix) Dims() []int64 {
	cp := make([]int64, len(m.dims))
	copy(cp, m.dims)
	return cp
}

func (m *Matrix) NDims() int      { return len(m.dims) }
func (m *Matrix) Backing() Array  { return m.backing }
func (m *Matrix) Length() int64   { return m.backing.Length() }

// rowMajorEncode row-major-encodes coords (len == len(dims)) into a backing
// index, without bounds checks; Matrix.LinearIndex validates and then
// calls it.
func rowMajorEncode(coords, dims []int64) int64 {
	n := len(dims)
	idx := coords[n-1]
	for k := n - 2; k >= 0; k-- {
		idx = idx*dims[k] + coords[k]
	}
	return idx
}

// rowMajorDecode is the inverse of rowMajorEncode: c[0] = i % dims[0], then
// i /= dims[0], c[1] = i % dims[1], and so on.
func rowMajorDecode(i int64, dims []int64) []int64 {
	coords := make([]int64, len(dims))
	for k := 0; k < len(dims); k++ {
		coords[k] = i % dims[k]
		i /= dims[k]
	}
	return coords
}

func (m *Matrix) LinearIndex(coords []int64) (int64, error) {
	if len(coords) != len(m.dims) {
		return 0, newError(SizeMismatch, "Matrix.LinearIndex", nil)
	}
	for k, c := range coords {
		if c < 0 || c >= m.dims[k] {
			return 0, newError(IndexOutOfBounds, "Matrix.LinearIndex", nil)
		}
	}
	return rowMajorEncode(coords, m.dims), nil
}

func (m *Matrix) Coords(i int64) ([]int64, error) {
	if i < 0 || i >= m.Length() {
		return nil, newError(IndexOutOfBounds, "Matrix.Coords", nil)
	}
	return rowMajorDecode(i, m.dims), nil
}

func (m *Matrix) GetFloat64(coords []int64) (float64, error) {
	i, err := m.LinearIndex(coords)
	if err != nil {
		return 0, err
	}
	return m.backing.GetFloat64(i)
}

func (m *Matrix) SetFloat64(coords []int64, v float64) error {
	i, err := m.LinearIndex(coords)
	if err != nil {
		return err
	}
	return m.backing.SetFloat64(i, v)
}

// --- Tiled matrices ------------------------------------------------------

// TiledMatrix is a Matrix plus a tile shape: element c maps to the backing
// index by locating tile t = c/tileDims, in-tile offset o = c mod
// tileDims, then packing (t, o) with nested row-major encoding — tiles in
// tile-major row order, elements within a tile in natural row-major order.
// Partial edge tiles (dims[k] % tileDims[k] != 0) keep their natural,
// un-padded sub-shape (spec.md §3/§4.4).
type TiledMatrix struct {
	dims      []int64
	tileDims  []int64
	gridDims  []int64 // ceil(dims[k]/tileDims[k])
	tileSize  []int64 // element count of tile t, indexed by tile-linear index
	tileBase  []int64 // backing offset of the first element of tile t
	backing   Array
}

// NewTiledMatrix wraps backing with shape dims, tiled by tileDims.
func NewTiledMatrix(backing Array, dims, tileDims []int64) (*TiledMatrix, error) {
	if len(dims) < 1 || len(tileDims) != len(dims) {
		return nil, newError(InvalidArgument, "NewTiledMatrix", nil)
	}
	total := int64(1)
	grid := make([]int64, len(dims))
	for k, d := range dims {
		if d < 0 || tileDims[k] <= 0 {
			return nil, newError(InvalidArgument, "NewTiledMatrix", nil)
		}
		total *= d
		grid[k] = (d + tileDims[k] - 1) / tileDims[k]
	}
	if total != backing.Length() {
		return nil, newError(SizeMismatch, "NewTiledMatrix", nil)
	}

	numTiles := int64(1)
	for _, g := range grid {
		numTiles *= g
	}
	tileSize := make([]int64, numTiles)
	tileBase := make([]int64, numTiles)
	var running int64
	for t := int64(0); t < numTiles; t++ {
		tc := rowMajorDecode(t, grid)
		sz := int64(1)
		for k, tck := range tc {
			sz *= tileExtent(tck, tileDims[k], dims[k])
		}
		tileSize[t] = sz
		tileBase[t] = running
		running += sz
	}

	cpDims := append([]int64(nil), dims...)
	cpTile := append([]int64(nil), tileDims...)
	return &TiledMatrix{
		dims: cpDims, tileDims: cpTile, gridDims: grid,
		tileSize: tileSize, tileBase: tileBase, backing: backing,
	}, nil
}

// tileExtent returns the in-tile extent of axis k's tile index tk: the
// full tileDim, except for the last tile along an axis whose dim isn't an
// exact multiple of tileDim, which gets the (smaller) remainder.
func tileExtent(tk, tileDim, dim int64) int64 {
	start := tk * tileDim
	if start+tileDim > dim {
		return dim - start
	}
	return tileDim
}

func (tm *TiledMatrix) Dims() []int64     { return append([]int64(nil), tm.dims...) }
func (tm *TiledMatrix) TileDims() []int64 { return append([]int64(nil), tm.tileDims...) }
func (tm *TiledMatrix) NDims() int        { return len(tm.dims) }
func (tm *TiledMatrix) Backing() Array    { return tm.backing }

func (tm *TiledMatrix) BackingIndex(coords []int64) (int64, error) {
	if len(coords) != len(tm.dims) {
		return 0, newError(SizeMismatch, "TiledMatrix.BackingIndex", nil)
	}
	n := len(coords)
	t := make([]int64, n)
	o := make([]int64, n)
	extents := make([]int64, n)
	for k, c := range coords {
		if c < 0 || c >= tm.dims[k] {
			return 0, newError(IndexOutOfBounds, "TiledMatrix.BackingIndex", nil)
		}
		t[k] = c / tm.tileDims[k]
		o[k] = c % tm.tileDims[k]
		extents[k] = tileExtent(t[k], tm.tileDims[k], tm.dims[k])
	}
	tileLinear := rowMajorEncode(t, tm.gridDims)
	inTile := rowMajorEncode(o, extents)
	return tm.tileBase[tileLinear] + inTile, nil
}

func (tm *TiledMatrix) GetFloat64(coords []int64) (float64, error) {
	idx, err := tm.BackingIndex(coords)
	if err != nil {
		return 0, err
	}
	return tm.backing.GetFloat64(idx)
}

func (tm *TiledMatrix) SetFloat64(coords []int64, v float64) error {
	idx, err := tm.BackingIndex(coords)
	if err != nil {
		return err
	}
	return tm.backing.SetFloat64(idx, v)
}

// SameTiling reports whether a and b have equal dims and tileDims — the
// condition under which the composition layer lifts a function view out
// over the tiles' base arrays instead of the tiled arrays themselves
// (spec.md §4.4/§4.6).
func SameTiling(a, b *TiledMatrix) bool {
	if a == nil || b == nil {
		return false
	}
	return int64SliceEqual(a.dims, b.dims) && int64SliceEqual(a.tileDims, b.tileDims)
}

// AsArray exposes tm as a plain linear-indexed Array, so a tiled matrix can
// be passed directly as one of as_func_array's xs (spec.md §4.4: "the tiled
// wrapper's array computes, for every linear index, the coordinate
// decomposition ... and the corresponding backing index"). Without this,
// buildFuncArray's tiling-commutativity lift (spec.md §4.4/§4.6, tested at
// §8) has nothing to detect: a TiledMatrix could never reach xs []Array in
// the first place.
func (tm *TiledMatrix) AsArray() Array { return &tiledArray{tm: tm} }

// tiledArray is the Array adapter backing TiledMatrix.AsArray.
type tiledArray struct {
	tm *TiledMatrix
}

func (a *tiledArray) Kind() Kind { return a.tm.backing.Kind() }

func (a *tiledArray) Length() int64 {
	n := int64(1)
	for _, d := range a.tm.dims {
		n *= d
	}
	return n
}

func (a *tiledArray) Flags() ArrayFlags {
	f := a.tm.backing.Flags()
	f.IsLazy = true
	return f
}

func (a *tiledArray) coords(i int64) []int64 { return rowMajorDecode(i, a.tm.dims) }

func (a *tiledArray) backingIndex(op string, i int64) (int64, error) {
	if i < 0 || i >= a.Length() {
		return 0, newError(IndexOutOfBounds, op, nil)
	}
	return a.tm.BackingIndex(a.coords(i))
}

func (a *tiledArray) GetFloat64(i int64) (float64, error) {
	idx, err := a.backingIndex("TiledMatrix.GetFloat64", i)
	if err != nil {
		return 0, err
	}
	return a.tm.backing.GetFloat64(idx)
}

func (a *tiledArray) GetInt64(i int64) (int64, error) {
	idx, err := a.backingIndex("TiledMatrix.GetInt64", i)
	if err != nil {
		return 0, err
	}
	return a.tm.backing.GetInt64(idx)
}

func (a *tiledArray) SetFloat64(i int64, v float64) error {
	idx, err := a.backingIndex("TiledMatrix.SetFloat64", i)
	if err != nil {
		return err
	}
	return a.tm.backing.SetFloat64(idx, v)
}

func (a *tiledArray) SetInt64(i int64, v int64) error {
	idx, err := a.backingIndex("TiledMatrix.SetInt64", i)
	if err != nil {
		return err
	}
	return a.tm.backing.SetInt64(idx, v)
}

// GetData/SetData walk one tile-decoded backing index at a time: unlike the
// table/linear/diff kernels, a tiled matrix's backing index is not an
// affine function of the linear index, so there is no contiguous run of
// backing storage to chunk through the buffer pool the way table.go does.
func (a *tiledArray) GetData(pos int64, dst *Buffer, off, count int64) error {
	if dst.Kind != a.Kind() {
		return newError(ArrayStoreError, "TiledMatrix.GetData", nil)
	}
	if err := checkRange("TiledMatrix.GetData", pos, count, a.Length()); err != nil {
		return err
	}
	for k := int64(0); k < count; k++ {
		idx, err := a.tm.BackingIndex(a.coords(pos + k))
		if err != nil {
			return err
		}
		v, err := a.tm.backing.GetFloat64(idx)
		if err != nil {
			return err
		}
		dst.SetFromFloat64(int(off+k), v, true)
	}
	return nil
}

func (a *tiledArray) SetData(pos int64, src *Buffer, off, count int64) error {
	if src.Kind != a.Kind() {
		return newError(ArrayStoreError, "TiledMatrix.SetData", nil)
	}
	if err := checkRange("TiledMatrix.SetData", pos, count, a.Length()); err != nil {
		return err
	}
	for k := int64(0); k < count; k++ {
		idx, err := a.tm.BackingIndex(a.coords(pos + k))
		if err != nil {
			return err
		}
		if err := a.tm.backing.SetFloat64(idx, src.GetFloat64(int(off+k))); err != nil {
			return err
		}
	}
	return nil
}

func (a *tiledArray) Subarray(lo, hi int64) (Array, error) {
	if lo < 0 || hi > a.Length() || lo > hi {
		return nil, newError(IndexOutOfBounds, "TiledMatrix.Subarray", nil)
	}
	return newOffsetView(a, lo, hi-lo), nil
}

func (a *tiledArray) IndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(a, lo, hi, value, false)
}

func (a *tiledArray) LastIndexOf(lo, hi int64, value float64) (int64, error) {
	return indexOfScan(a, lo, hi, value, true)
}

func (a *tiledArray) LoadResources(ctx context.Context) error {
	return a.tm.backing.LoadResources(ctx)
}
func (a *tiledArray) FlushResources(ctx context.Context) error {
	return a.tm.backing.FlushResources(ctx)
}
func (a *tiledArray) FreeResources(ctx context.Context) error {
	return a.tm.backing.FreeResources(ctx)
}

func int64SliceEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
