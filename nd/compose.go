package nd

import "github.com/samber/lo"

// AsFuncArray is the composition layer's main entry point (spec.md §4.6):
// given a (possibly tagged) Func, a requested element kind, and source
// arrays, it picks the cheapest specialized view that computes the same
// values as the general any-func fallback, bit-exactly.
//
// Fails with UnsupportedElementKind when requiredKind is not a registered
// kind, and with InvalidArgument when f is an UpdatableFunc other than
// IdentityFunc, or when f is MinFunc/MaxFunc and xs is empty.
func AsFuncArray(truncate bool, f Func, requiredKind Kind, xs []Array) (Array, error) {
	if !requiredKind.Valid() {
		return nil, newError(UnsupportedElementKind, "AsFuncArray", nil)
	}
	if _, updatable := f.(UpdatableFunc); updatable {
		// IdentityFunc also implements Set; read through it is the plain
		// conversion of rule 2, so it is accepted here.
		if _, identity := f.(IdentityFunc); !identity {
			return nil, newError(InvalidArgument, "AsFuncArray", nil)
		}
	}
	return buildFuncArray(truncate, f, requiredKind, xs)
}

// buildFuncArray implements selection rules 1-10 of spec.md §4.6, shared by
// AsFuncArray and the read-path of the updatable layer (which wraps this
// with write-back in updatable.go).
func buildFuncArray(truncate bool, f Func, requiredKind Kind, xs []Array) (Array, error) {
	// Tiling commutativity (spec.md §4.4): when every xs is a view over an
	// identically-tiled TiledMatrix, build the view over the tiles' base
	// arrays instead and re-tile the result, rather than ever materializing
	// a per-tile-decoded composed view. Checked before the numbered rules
	// since it is a pre-filter on xs's shape, not one of them.
	if lifted, ok, err := liftOverIdenticalTiling(truncate, f, requiredKind, xs); err != nil {
		return nil, err
	} else if ok {
		return lifted, nil
	}

	// Rule 1: zero arguments, or an explicit constant function.
	if cf, isConst := f.(ConstFunc); isConst {
		length, err := funcViewLength(xs)
		if err != nil {
			return nil, err
		}
		return NewConstArray(requiredKind, length, cf.V, truncate)
	}
	if len(xs) == 0 {
		switch f.(type) {
		case MinFunc, MaxFunc:
			// Open question resolved: MIN/MAX over zero arguments is a
			// construction-time error rather than a +-infinity sentinel.
			return nil, newError(InvalidArgument, "buildFuncArray", nil)
		}
		return NewConstArray(requiredKind, 0, f.Get(nil), truncate)
	}

	// Rule 2 (and the simplified rule 3: no separate interpolation-tag
	// recognition — an identity composition over an already-correctly-
	// shaped source is just the conversion view, which short-circuits to
	// the source itself when kinds already match).
	if isIdentityLike(f, xs) {
		if xs[0].Kind() == requiredKind {
			return xs[0], nil
		}
		return newFuncView(IdentityFunc{}, requiredKind, truncate, xs[:1])
	}

	// Rule 4: linear with every coefficient zero degenerates to constant B.
	if lf, ok := f.(LinearFunc); ok && lf.isZero() {
		length, err := funcViewLength(xs)
		if err != nil {
			return nil, err
		}
		return NewConstArray(requiredKind, length, lf.B, truncate)
	}

	// Rule 5: MIN/MAX reduction, flattening nested same-op/same-kind
	// children first.
	switch f.(type) {
	case MinFunc, MaxFunc:
		kind0 := xs[0].Kind()
		sameKind := true
		for _, x := range xs[1:] {
			if x.Kind() != kind0 {
				sameKind = false
				break
			}
		}
		if sameKind {
			op := ReduceMin
			if _, isMax := f.(MaxFunc); isMax {
				op = ReduceMax
			}
			flat := flattenReduceInputs(op, kind0, xs)
			return newMinMaxView(op, requiredKind, truncate, flat)
		}
	}

	// Rule 6: POSITIVE_DIFF over matching integer (non-I64) inputs.
	if _, ok := f.(PositiveDiffFunc); ok && len(xs) == 2 {
		if xs[0].Kind() == xs[1].Kind() && xs[0].Kind() == requiredKind &&
			requiredKind.IsInteger() && requiredKind != I64 {
			return newDiffView(DiffPositive, requiredKind, truncate, xs[0], xs[1])
		}
	}

	// Rule 7: ABS_DIFF over matching (non-I64) inputs — bit domain's
	// arithmetic |x0-x1| already coincides with XOR, so no separate bit
	// path is required.
	if _, ok := f.(AbsDiffFunc); ok && len(xs) == 2 {
		if xs[0].Kind() == xs[1].Kind() && xs[0].Kind() == requiredKind && requiredKind != I64 {
			return newDiffView(DiffAbs, requiredKind, truncate, xs[0], xs[1])
		}
	}

	// Rule 8 (bit negation, chosen-order subtraction) is subsumed by rule 9:
	// on Bit's {0,1} domain, linear arithmetic already coincides with XOR/
	// NOT, so the degenerate coefficient shapes the spec calls out need no
	// separate code path — LinearView computes them bit-exactly already.

	// Rule 9: general linear combination.
	if lf, ok := f.(LinearFunc); ok {
		if len(lf.A) == 1 && lf.A[0] == 1 && lf.B == 0 && xs[0].Kind().IsInteger() {
			if xs[0].Kind() == requiredKind {
				return xs[0], nil
			}
			return newFuncView(IdentityFunc{}, requiredKind, truncate, xs[:1])
		}
		return newLinearView(lf.A, lf.B, requiredKind, truncate, xs)
	}

	// Table kernel: any pure unary function over a <=16-bit domain.
	if len(xs) == 1 && tableDomainSize(xs[0].Kind()) != 0 {
		if tv, err := newTableView(f, requiredKind, truncate, xs[0]); err == nil {
			return tv, nil
		}
	}

	// Rule 10: general any-func fallback.
	return newFuncView(f, requiredKind, truncate, xs)
}

// liftOverIdenticalTiling implements spec.md §4.4's tiling-commutativity
// rule and its §8 testable property
// as_func_array(t,f,k,xs) == tile(as_func_array(t,f,k,base(xs)), tile_dims):
// when every element of xs is a TiledMatrix.AsArray() view sharing the same
// dims/tileDims, recurse over the tiles' base arrays and re-tile the result
// instead of ever building a composed view that re-decodes tile coordinates
// on every read. Returns ok=false (not an error) when xs don't all share one
// tiling, so callers fall through to the ordinary rules.
func liftOverIdenticalTiling(truncate bool, f Func, requiredKind Kind, xs []Array) (Array, bool, error) {
	if len(xs) == 0 {
		return nil, false, nil
	}
	tiled := make([]*tiledArray, len(xs))
	var ref *TiledMatrix
	for i, x := range xs {
		ta, ok := x.(*tiledArray)
		if !ok {
			return nil, false, nil
		}
		tiled[i] = ta
		if ref == nil {
			ref = ta.tm
		} else if !SameTiling(ref, ta.tm) {
			return nil, false, nil
		}
	}
	base := make([]Array, len(xs))
	for i, ta := range tiled {
		base[i] = ta.tm.backing
	}
	view, err := buildFuncArray(truncate, f, requiredKind, base)
	if err != nil {
		return nil, false, err
	}
	retiled, err := NewTiledMatrix(view, ref.dims, ref.tileDims)
	if err != nil {
		return nil, false, err
	}
	return retiled.AsArray(), true, nil
}

func isIdentityLike(f Func, xs []Array) bool {
	if _, ok := f.(IdentityFunc); ok && len(xs) >= 1 {
		return true
	}
	if len(xs) == 1 {
		switch f.(type) {
		case MinFunc, MaxFunc:
			return true
		}
	}
	return false
}

// flattenReduceInputs inlines any MinMaxView child that shares op and kind,
// replacing it with its own underlying list, using samber/lo to join the
// resulting slices of arrays (spec.md §4.6 rule 5). Duplicate inputs are
// kept.
func flattenReduceInputs(op ReduceOp, kind Kind, xs []Array) []Array {
	groups := make([][]Array, 0, len(xs))
	for _, x := range xs {
		if mm, ok := x.(*MinMaxView); ok && mm.op == op && mm.kind == kind {
			groups = append(groups, mm.underlying)
			continue
		}
		groups = append(groups, []Array{x})
	}
	return lo.Flatten(groups)
}

// AsCoordFuncMatrix builds a coordinate-function view reshaped into a
// Matrix of shape dims (spec.md §3/§6's as_coord_func_matrix).
func AsCoordFuncMatrix(truncate bool, f CoordFunc, requiredKind Kind, dims []int64) (*Matrix, error) {
	if !requiredKind.Valid() {
		return nil, newError(UnsupportedElementKind, "AsCoordFuncMatrix", nil)
	}
	view, err := newCoordFuncView(f, requiredKind, truncate, dims)
	if err != nil {
		return nil, err
	}
	return NewMatrix(view, dims)
}
