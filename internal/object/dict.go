package object

import "github.com/cwbudde/go-postscript/internal/pserror"

// MaxDictCapacity is the process-wide cap on a single Dictionary's capacity
// (spec.md §3), unless a smaller capacity is requested at creation.
const MaxDictCapacity = 1024

// entry pairs a Dictionary's original key Object (so `forall`/`keys` can
// hand back a Name the way it was inserted) with its value.
type entry struct {
	key Object
	val Object
}

// Dict is a reference-object mapping Object keys (by value) to Objects, with
// a fixed capacity set at creation (spec.md §3/§4.3). Keys compare by
// payload value: a Name and a String with the same bytes hash equally.
type Dict struct {
	entries  map[string]entry
	capacity int
	acc      Access
}

// NewDict creates a Dict with the given capacity, clamped to
// MaxDictCapacity.
func NewDict(capacity int) *Dict {
	if capacity > MaxDictCapacity {
		capacity = MaxDictCapacity
	}
	if capacity < 0 {
		capacity = 0
	}
	return &Dict{entries: make(map[string]entry, capacity), capacity: capacity}
}

func (d *Dict) Capacity() int  { return d.capacity }
func (d *Dict) Size() int      { return len(d.entries) }
func (d *Dict) Access() Access { return d.acc }
func (d *Dict) SetAccess(acc Access) { d.acc = acc }

func keyOf(key Object) (string, *pserror.Error) {
	k, ok := key.NameKey()
	if !ok {
		return "", pserror.New(pserror.TypeCheck, "dict", "dictionary key must be a name or string")
	}
	return k, nil
}

// Get looks up key, returning ok=false if absent.
func (d *Dict) Get(key Object) (Object, bool) {
	k, err := keyOf(key)
	if err != nil {
		return Object{}, false
	}
	e, ok := d.entries[k]
	return e.val, ok
}

// Has reports whether key is present.
func (d *Dict) Has(key Object) bool {
	_, ok := d.Get(key)
	return ok
}

// Set inserts or overwrites key->val. A new key beyond capacity fails with
// dictfull (spec.md §4.3); overwriting an existing key always succeeds.
func (d *Dict) Set(key, val Object, op string) *pserror.Error {
	if d.acc == ReadOnly || d.acc == NoAccess {
		return pserror.New(pserror.InvalidAccess, op, "dictionary is read-only")
	}
	k, err := keyOf(key)
	if err != nil {
		return err
	}
	if _, exists := d.entries[k]; !exists && len(d.entries) >= d.capacity {
		return pserror.New(pserror.DictFull, op, "dictionary is full")
	}
	d.entries[k] = entry{key: key, val: val}
	return nil
}

// ForceSet bypasses the capacity and access checks, for system bootstrap
// (installing ~200 operators into SystemDict at interpreter construction).
func (d *Dict) ForceSet(key, val Object) {
	k, _ := keyOf(key)
	d.entries[k] = entry{key: key, val: val}
}

// Remove deletes key if present; a missing key is not an error (PLRM
// `undef` is defined to be a no-op on an absent key).
func (d *Dict) Remove(key Object, op string) *pserror.Error {
	if d.acc == ReadOnly || d.acc == NoAccess {
		return pserror.New(pserror.InvalidAccess, op, "dictionary is read-only")
	}
	k, err := keyOf(key)
	if err != nil {
		return err
	}
	delete(d.entries, k)
	return nil
}

// Keys returns the dictionary's keys, in unspecified order (PLRM does not
// define forall/keys ordering).
func (d *Dict) Keys() []Object {
	out := make([]Object, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, e.key)
	}
	return out
}

// Entries returns (key,value) pairs, in unspecified order.
func (d *Dict) Entries() [][2]Object {
	out := make([][2]Object, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, [2]Object{e.key, e.val})
	}
	return out
}

// Copy performs a shallow duplication of entries from src into d (PLRM
// `copy` for dictionaries); d's capacity must be at least src's size.
func (d *Dict) Copy(src *Dict, op string) *pserror.Error {
	if d.acc == ReadOnly || d.acc == NoAccess {
		return pserror.New(pserror.InvalidAccess, op, "dictionary is read-only")
	}
	if d.capacity < src.Size() {
		return pserror.New(pserror.RangeCheck, op, "copy destination dictionary too small")
	}
	for _, e := range src.entries {
		d.entries[e.key.mustKeyString()] = e
	}
	return nil
}

// mustKeyString is Copy's internal helper; src keys are already valid
// dictionary keys by construction.
func (o Object) mustKeyString() string {
	k, _ := o.NameKey()
	return k
}

// IsFontDict reports whether d looks like a font dictionary: it carries
// FontType, FontName, and FontMatrix keys (spec.md §4.3).
func (d *Dict) IsFontDict() bool {
	required := []string{"FontType", "FontName", "FontMatrix"}
	for _, r := range required {
		if !d.Has(Name(r, Literal)) {
			return false
		}
	}
	return true
}
