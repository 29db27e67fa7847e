package nd

// cowPhase names the three-state machine spec.md §4.1 requires every
// copy-on-next-write array to pass through: Active (sharing backing storage
// with whatever it was built from), CopyOnNextWriteTriggered (a mutating
// call has begun and must finish the clone before it writes), and
// OwnedCopy (holds exclusive storage, behaves like any other mutable
// array from then on).
type cowPhase int

const (
	cowActive cowPhase = iota
	cowTriggered
	cowOwned
)

// cowState is embedded by any concrete array constructed with
// IsCopyOnNextWrite set. ensureOwned must run before every mutating entry
// point (SetFloat64, SetInt64, SetData, SetBits) so the transition happens
// before the write that follows it, never after — spec.md §5: "Writes to a
// COW array must observe the copy transition before any concurrent reader
// sees a changed element."
type cowState struct {
	phase cowPhase
}

// ensureOwned runs clone() exactly once, the first time a mutating call
// reaches a still-Active COW array, and is a no-op afterward.
func (c *cowState) ensureOwned(clone func()) {
	if c.phase == cowOwned {
		return
	}
	c.phase = cowTriggered
	clone()
	c.phase = cowOwned
}

// isCOW reports whether this array has not yet taken ownership of its
// storage (Active or mid-transition) — used by Flags() to keep reporting
// IsCopyOnNextWrite=true until the clone has actually happened.
func (c *cowState) isCOW() bool {
	return c.phase != cowOwned
}

// Clone returns a new array of a's kind and length that initially shares a's
// backing storage, with both a and the clone flagged IsCopyOnNextWrite:
// the first mutating call reaching either one clones its storage away from
// the shared slice before writing (spec.md §4.1/§5's Active ->
// CopyOnNextWriteTriggered -> OwnedCopy machine). Only concrete owned
// arrays (as returned by NewArray/NewArrayFromFloat64s) can be cloned —
// views have no backing storage to share, so Clone rejects them with
// InvalidArgument.
func Clone(a Array) (Array, error) {
	switch t := a.(type) {
	case *bitArray:
		clone := &bitArray{words: t.words, length: t.length, flags: t.flags}
		clone.flags.IsCopyOnNextWrite = true
		t.flags.IsCopyOnNextWrite = true
		// Reset both sides to Active: t may itself be the OwnedCopy result of
		// an earlier clone, and leaving its phase at cowOwned would let a
		// future write on t skip ensureOwned's clone and corrupt the new
		// sibling's shared words.
		t.cow = cowState{}
		clone.cow = cowState{}
		return clone, nil
	case *typedArray[uint16]:
		return cloneTyped(t), nil
	case *typedArray[uint8]:
		return cloneTyped(t), nil
	case *typedArray[int32]:
		return cloneTyped(t), nil
	case *typedArray[int64]:
		return cloneTyped(t), nil
	case *typedArray[float32]:
		return cloneTyped(t), nil
	case *typedArray[float64]:
		return cloneTyped(t), nil
	default:
		return nil, newError(InvalidArgument, "Clone", nil)
	}
}

func cloneTyped[T numericStorage](t *typedArray[T]) *typedArray[T] {
	clone := &typedArray[T]{kind: t.kind, data: t.data, flags: t.flags}
	clone.flags.IsCopyOnNextWrite = true
	t.flags.IsCopyOnNextWrite = true
	// See the bitArray case above: reset both sides to Active so a later
	// write to either one correctly triggers ensureOwnedData's copy instead
	// of silently mutating storage the other side still shares.
	t.cow = cowState{}
	clone.cow = cowState{}
	return clone
}
