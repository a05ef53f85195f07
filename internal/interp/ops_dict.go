package interp

import (
	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
)

// registerDictOps installs dictionary operators (spec.md §4.7): `<<`/`>>`
// construction, dict, begin, end, def, load, store, known, undef, where,
// currentdict, dictstack, countdictstack, cleardictstack.
func (ip *Interpreter) registerDictOps() {
	ip.register("<<", opMark)
	ip.register(">>", opDictClose)
	ip.register("dict", opDict)
	ip.register("maxlength", opMaxLength)
	ip.register("begin", opBegin)
	ip.register("end", opEnd)
	ip.register("def", opDef)
	ip.register("load", opLoad)
	ip.register("store", opStore)
	ip.register("known", opKnown)
	ip.register("undef", opUndef)
	ip.register("where", opWhere)
	ip.register("currentdict", opCurrentDict)
	ip.register("dictstack", opDictStack)
	ip.register("countdictstack", opCountDictStack)
	ip.register("cleardictstack", opClearDictStack)
}

func opDictClose(ip *Interpreter) *pserror.Error {
	items, err := ip.operands.PopToMark(">>")
	if err != nil {
		return err
	}
	if len(items)%2 != 0 {
		return pserror.New(pserror.RangeCheck, ">>", "dictionary literal has an unmatched key")
	}
	d := object.NewDict(len(items) / 2)
	for i := 0; i < len(items); i += 2 {
		if perr := d.Set(items[i], items[i+1], ">>"); perr != nil {
			return perr
		}
	}
	ip.operands.Push(object.Object{Type: object.TDictionary, Exec: object.Literal, Acc: object.Unlimited, Value: d})
	return nil
}

func opDict(ip *Interpreter) *pserror.Error {
	n, err := ip.operands.PopTyped(object.TInteger, "dict")
	if err != nil {
		return err
	}
	capacity := int(n.AsInt64())
	if capacity < 0 {
		return pserror.New(pserror.RangeCheck, "dict", "dict capacity must be non-negative")
	}
	d := object.NewDict(capacity)
	ip.operands.Push(object.Object{Type: object.TDictionary, Exec: object.Literal, Acc: object.Unlimited, Value: d})
	return nil
}

// opMaxLength implements PLRM's `maxlength`: dict maxlength int, the
// capacity fixed at the dictionary's creation (spec.md §4.3).
func opMaxLength(ip *Interpreter) *pserror.Error {
	d, err := ip.operands.PopTyped(object.TDictionary, "maxlength")
	if err != nil {
		return err
	}
	ip.operands.Push(object.Integer(int64(d.Value.(*object.Dict).Capacity())))
	return nil
}

func opBegin(ip *Interpreter) *pserror.Error {
	d, err := ip.operands.PopTyped(object.TDictionary, "begin")
	if err != nil {
		return err
	}
	return ip.dicts.Begin(d, "begin")
}

func opEnd(ip *Interpreter) *pserror.Error {
	return ip.dicts.End("end")
}

func opDef(ip *Interpreter) *pserror.Error {
	value, err := ip.operands.Pop("def")
	if err != nil {
		return err
	}
	key, err := ip.operands.Pop("def")
	if err != nil {
		return err
	}
	return ip.dicts.Def(key, value, "def")
}

func opLoad(ip *Interpreter) *pserror.Error {
	key, err := ip.operands.Pop("load")
	if err != nil {
		return err
	}
	v, ok := ip.dicts.Lookup(key)
	if !ok {
		return pserror.New(pserror.Undefined, "load", "name not found on dictionary stack")
	}
	ip.operands.Push(v)
	return nil
}

func opStore(ip *Interpreter) *pserror.Error {
	value, err := ip.operands.Pop("store")
	if err != nil {
		return err
	}
	key, err := ip.operands.Pop("store")
	if err != nil {
		return err
	}
	if d, ok := ip.dicts.Where(key); ok {
		return d.Value.(*object.Dict).Set(key, value, "store")
	}
	return ip.dicts.Def(key, value, "store")
}

func opKnown(ip *Interpreter) *pserror.Error {
	key, err := ip.operands.Pop("known")
	if err != nil {
		return err
	}
	d, err := ip.operands.PopTyped(object.TDictionary, "known")
	if err != nil {
		return err
	}
	ip.operands.Push(object.Boolean(d.Value.(*object.Dict).Has(key)))
	return nil
}

func opUndef(ip *Interpreter) *pserror.Error {
	key, err := ip.operands.Pop("undef")
	if err != nil {
		return err
	}
	d, err := ip.operands.PopTyped(object.TDictionary, "undef")
	if err != nil {
		return err
	}
	return d.Value.(*object.Dict).Remove(key, "undef")
}

func opWhere(ip *Interpreter) *pserror.Error {
	key, err := ip.operands.Pop("where")
	if err != nil {
		return err
	}
	d, ok := ip.dicts.Where(key)
	if !ok {
		ip.operands.Push(object.Boolean(false))
		return nil
	}
	ip.operands.Push(d)
	ip.operands.Push(object.Boolean(true))
	return nil
}

func opCurrentDict(ip *Interpreter) *pserror.Error {
	ip.operands.Push(ip.dicts.Current())
	return nil
}

func opDictStack(ip *Interpreter) *pserror.Error {
	a, err := ip.operands.PopTyped(object.TArray, "dictstack")
	if err != nil {
		return err
	}
	arr := a.Value.(*object.Array)
	snap := ip.dicts.Snapshot()
	if arr.Length() < len(snap) {
		return pserror.New(pserror.RangeCheck, "dictstack", "destination array too small")
	}
	for i, d := range snap {
		if perr := arr.Set(i, d, "dictstack"); perr != nil {
			return perr
		}
	}
	sub, perr := arr.Slice(0, len(snap), "dictstack")
	if perr != nil {
		return perr
	}
	ip.operands.Push(object.Object{Type: object.TArray, Exec: object.Literal, Acc: sub.Access(), Value: sub})
	return nil
}

func opCountDictStack(ip *Interpreter) *pserror.Error {
	ip.operands.Push(object.Integer(int64(ip.dicts.Depth())))
	return nil
}

func opClearDictStack(ip *Interpreter) *pserror.Error {
	ip.dicts.ClearToBootstrap()
	return nil
}
