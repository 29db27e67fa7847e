package nd

import "math"

// narrowFloatToInt implements spec.md §4.2/§6's narrowing policy for a
// double-precision source landing on an integer (or bit) destination kind.
//
//   - truncate == true  (saturating): clamp v into [min,max], then truncate
//     toward zero.
//   - truncate == false (wrapping):   cast v to int64 first — "(i64)(double)v",
//     matching the reference's "(int)(long)v" semantics, which differs from
//     a direct "(int)v" for magnitudes beyond int32 range — then mask to the
//     destination width.
//
// Bit destinations ignore truncate entirely: any nonzero v becomes 1.
func narrowFloatToInt(k Kind, v float64, truncate bool) int64 {
	if k == Bit {
		if v != 0 {
			return 1
		}
		return 0
	}
	if math.IsNaN(v) {
		v = 0
	}
	if truncate {
		lo, hi := k.MinPossibleValue(), k.MaxPossibleValue()
		if v <= lo {
			return int64(lo)
		}
		if v >= hi {
			if k == I64 {
				// float64(MaxInt64) rounds up to 2^63, which int64 cannot hold.
				return math.MaxInt64
			}
			return int64(hi)
		}
		return int64(v)
	}
	return maskToWidth(k, int64(v))
}

// narrowIntToInt narrows an already-integral int64 value to kind k, using
// the same two policies as narrowFloatToInt.
func narrowIntToInt(k Kind, v int64, truncate bool) int64 {
	if k == Bit {
		if v != 0 {
			return 1
		}
		return 0
	}
	if k == I64 {
		// Every int64 already fits; I64's float64 bounds do not convert
		// back to int64 exactly.
		return v
	}
	if truncate {
		lo, hi := int64(k.MinPossibleValue()), int64(k.MaxPossibleValue())
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	return maskToWidth(k, v)
}

// maskToWidth masks v to the destination kind's storage width, matching C-
// style wraparound. Unsigned destination kinds (Char16/U8/U16) mask and
// zero-extend; I32 masks to 32 bits and sign-extends; I64 is a no-op.
func maskToWidth(k Kind, v int64) int64 {
	switch k {
	case Char16, U16:
		return int64(uint16(v))
	case U8:
		return int64(uint8(v))
	case I32:
		return int64(int32(v))
	case I64:
		return v
	default:
		return v
	}
}

// narrowToF32 and narrowToF64 implement the (trivial, no clamp/wrap split)
// float destination narrowing: both policies produce the same float64->
// float32 conversion, since IEEE overflow to +-Inf is the only "saturation"
// a float destination has and spec.md does not ask for a different wrapping
// behavior on float destinations.
func narrowToF32(v float64) float32 { return float32(v) }
func narrowToF64(v float64) float64 { return v }

// narrowDouble converts a computed float64 result into the external value
// for kind k, honoring truncate for integer/bit destinations and passing
// floats through unchanged. The return is always float64-shaped (the
// caller downcasts to the kind's Go type); this mirrors how the composition
// layer (§4.6) carries values as f64 until the final store.
func narrowDouble(k Kind, v float64, truncate bool) float64 {
	switch {
	case k.IsFloat():
		if k == F32 {
			return float64(narrowToF32(v))
		}
		return narrowToF64(v)
	default:
		return float64(narrowFloatToInt(k, v, truncate))
	}
}
