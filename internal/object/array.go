package object

import "github.com/cwbudde/go-postscript/internal/pserror"

// arrayStore is the shared backing buffer for one or more Array views.
// spec.md §3/§9: "two Array values may share an underlying element buffer"
// and sub-arrays must observe writes to the parent in the overlapping range.
type arrayStore struct {
	elems []Object
}

// Array is a view (offset + length) into an arrayStore. Copying an Array
// value copies the view, not the storage — PostScript's reference semantics
// for container objects (spec.md §3 "Lifecycle").
type Array struct {
	store *arrayStore
	off   int
	len   int
	acc   Access
}

// NewArray allocates a fresh array of length n, all elements initialized to
// Null, per PLRM's `array` operator.
func NewArray(n int) *Array {
	elems := make([]Object, n)
	for i := range elems {
		elems[i] = Null()
	}
	return &Array{store: &arrayStore{elems: elems}, len: n}
}

// NewArrayFrom wraps an existing slice as a fresh, fully-owned array (used
// by `]` to materialize the operand-stack contents collected
// since the matching mark).
func NewArrayFrom(elems []Object) *Array {
	cp := make([]Object, len(elems))
	copy(cp, elems)
	return &Array{store: &arrayStore{elems: cp}, len: len(cp)}
}

func (a *Array) Length() int   { return a.len }
func (a *Array) Access() Access { return a.acc }

// SetAccess sets the view's access attribute. `readonly`/`noaccess`/
// `executeonly` only affect the view they're applied to, matching PLRM
// (distinct views of the same storage may carry distinct access rights).
func (a *Array) SetAccess(acc Access) { a.acc = acc }

func (a *Array) checkIndex(i int, op string) *pserror.Error {
	if i < 0 || i >= a.len {
		return pserror.New(pserror.RangeCheck, op, "array index out of range")
	}
	return nil
}

func (a *Array) Get(i int, op string) (Object, *pserror.Error) {
	if err := a.checkIndex(i, op); err != nil {
		return Object{}, err
	}
	return a.store.elems[a.off+i], nil
}

func (a *Array) Set(i int, v Object, op string) *pserror.Error {
	if a.acc == ReadOnly || a.acc == NoAccess {
		return pserror.New(pserror.InvalidAccess, op, "array is read-only")
	}
	if err := a.checkIndex(i, op); err != nil {
		return err
	}
	a.store.elems[a.off+i] = v
	return nil
}

// Items returns a copy of the elements in this view, for iteration (forall)
// and display (==) without exposing the backing store.
func (a *Array) Items() []Object {
	out := make([]Object, a.len)
	copy(out, a.store.elems[a.off:a.off+a.len])
	return out
}

// Slice returns a shared view over [from,from+count) — PLRM's getinterval.
func (a *Array) Slice(from, count int, op string) (*Array, *pserror.Error) {
	if from < 0 || count < 0 || from+count > a.len {
		return nil, pserror.New(pserror.RangeCheck, op, "getinterval out of range")
	}
	return &Array{store: a.store, off: a.off + from, len: count, acc: a.acc}, nil
}

// PutInterval overwrites [at,at+len(src)) with src's elements, in place —
// PLRM's putinterval. Per spec.md §9's resolved Open Question, the bounds
// check is target length >= source length + index, the natural PLRM check
// (the distilled source had this reversed as a probable bug).
func (a *Array) PutInterval(at int, src []Object, op string) *pserror.Error {
	if a.acc == ReadOnly || a.acc == NoAccess {
		return pserror.New(pserror.InvalidAccess, op, "array is read-only")
	}
	if at < 0 || a.len < len(src)+at {
		return pserror.New(pserror.RangeCheck, op, "putinterval out of range")
	}
	copy(a.store.elems[a.off+at:], src)
	return nil
}

// Copy performs a shallow duplication of elements from src into the first
// src.Length() slots of a (PLRM `copy` for arrays); a must be at least as
// long. Returns the sub-view of a that was written, per PLRM.
func (a *Array) Copy(src *Array, op string) (*Array, *pserror.Error) {
	if a.acc == ReadOnly || a.acc == NoAccess {
		return nil, pserror.New(pserror.InvalidAccess, op, "array is read-only")
	}
	if a.len < src.len {
		return nil, pserror.New(pserror.RangeCheck, op, "copy destination too small")
	}
	copy(a.store.elems[a.off:a.off+src.len], src.store.elems[src.off:src.off+src.len])
	return &Array{store: a.store, off: a.off, len: src.len, acc: a.acc}, nil
}
