package stacks

import (
	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
)

// DictStack is the dictionary stack: initially [SystemDict, UserDict], per
// spec.md §4.4. Name resolution scans top to bottom.
type DictStack struct {
	dicts    []object.Object // each a TDictionary Object
	bootstrap int            // number of dicts installed at construction; `end` below this underflows
}

// MaxDictStackDepth is spec.md §4.4's default bound on nested `begin`s;
// exceeding it raises dictstackoverflow.
const MaxDictStackDepth = 20

// NewDictStack installs systemDict (read-only) and userDict as the initial
// two frames, per spec.md §4.4.
func NewDictStack(systemDict, userDict object.Object) *DictStack {
	ds := &DictStack{dicts: []object.Object{systemDict, userDict}}
	ds.bootstrap = len(ds.dicts)
	return ds
}

func (ds *DictStack) Depth() int { return len(ds.dicts) }

// Begin pushes d (which must be a Dictionary Object) onto the stack.
func (ds *DictStack) Begin(d object.Object, op string) *pserror.Error {
	if !d.Type.Has(object.TDictionary) {
		return pserror.New(pserror.TypeCheck, op, "begin requires a dictionary")
	}
	if len(ds.dicts) >= MaxDictStackDepth {
		return pserror.New(pserror.DictStackOverflow, op, "dictionary stack depth exceeded")
	}
	ds.dicts = append(ds.dicts, d)
	return nil
}

// End pops the top dictionary, failing with dictstackunderflow if only the
// bootstrap SystemDict/UserDict frames remain.
func (ds *DictStack) End(op string) *pserror.Error {
	if len(ds.dicts) <= ds.bootstrap {
		return pserror.New(pserror.DictStackUnderflow, op, "cannot end the bootstrap dictionaries")
	}
	ds.dicts = ds.dicts[:len(ds.dicts)-1]
	return nil
}

// Current returns the topmost dictionary.
func (ds *DictStack) Current() object.Object { return ds.dicts[len(ds.dicts)-1] }

// Lookup resolves key by scanning the stack top to bottom, per spec.md §4.5
// "Name resolution tie-break: the topmost dictionary wins."
func (ds *DictStack) Lookup(key object.Object) (object.Object, bool) {
	for i := len(ds.dicts) - 1; i >= 0; i-- {
		d := ds.dicts[i].Value.(*object.Dict)
		if v, ok := d.Get(key); ok {
			return v, true
		}
	}
	return object.Object{}, false
}

// Where returns the dictionary (as an Object) that defines key, per PLRM's
// `where` operator.
func (ds *DictStack) Where(key object.Object) (object.Object, bool) {
	for i := len(ds.dicts) - 1; i >= 0; i-- {
		d := ds.dicts[i].Value.(*object.Dict)
		if d.Has(key) {
			return ds.dicts[i], true
		}
	}
	return object.Object{}, false
}

// Def installs key->val into the topmost dictionary (PLRM's `def`).
func (ds *DictStack) Def(key, val object.Object, op string) *pserror.Error {
	d := ds.Current().Value.(*object.Dict)
	return d.Set(key, val, op)
}

// Snapshot returns the full stack, bottom to top, for `dictstack`.
func (ds *DictStack) Snapshot() []object.Object {
	out := make([]object.Object, len(ds.dicts))
	copy(out, ds.dicts)
	return out
}

// ClearToBootstrap pops every frame above the bootstrap SystemDict/UserDict,
// per PLRM's `cleardictstack`.
func (ds *DictStack) ClearToBootstrap() {
	ds.dicts = ds.dicts[:ds.bootstrap]
}
