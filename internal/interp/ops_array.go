package interp

import (
	"github.com/cwbudde/go-postscript/internal/exec"
	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
)

// registerArrayOps installs array construction/access operators (spec.md
// §4.7): `[`/`]` (mark-delimited construction, bound to the executable
// names the scanner emits for literal bracket syntax), array, aload,
// astore, length, get, put, getinterval, putinterval, forall.
func (ip *Interpreter) registerArrayOps() {
	ip.register("[", opMark)
	ip.register("]", opArrayClose)
	ip.register("array", opArray)
	ip.register("aload", opALoad)
	ip.register("astore", opAStore)
	ip.register("length", opLength)
	ip.register("get", opGet)
	ip.register("put", opPut)
	ip.register("getinterval", opGetInterval)
	ip.register("putinterval", opPutInterval)
	ip.register("forall", opForall)
}

func opArrayClose(ip *Interpreter) *pserror.Error {
	items, err := ip.operands.PopToMark("]")
	if err != nil {
		return err
	}
	arr := object.NewArrayFrom(items)
	ip.operands.Push(object.Object{Type: object.TArray, Exec: object.Literal, Acc: object.Unlimited, Value: arr})
	return nil
}

func opArray(ip *Interpreter) *pserror.Error {
	n, err := ip.operands.PopTyped(object.TInteger, "array")
	if err != nil {
		return err
	}
	count := int(n.AsInt64())
	if count < 0 {
		return pserror.New(pserror.RangeCheck, "array", "array length must be non-negative")
	}
	arr := object.NewArray(count)
	ip.operands.Push(object.Object{Type: object.TArray, Exec: object.Literal, Acc: object.Unlimited, Value: arr})
	return nil
}

func opALoad(ip *Interpreter) *pserror.Error {
	a, err := ip.operands.PopTyped(object.TArray, "aload")
	if err != nil {
		return err
	}
	arr := a.Value.(*object.Array)
	for _, el := range arr.Items() {
		ip.operands.Push(el)
	}
	ip.operands.Push(a)
	return nil
}

func opAStore(ip *Interpreter) *pserror.Error {
	a, err := ip.operands.PopTyped(object.TArray, "astore")
	if err != nil {
		return err
	}
	arr := a.Value.(*object.Array)
	items, err := ip.operands.PopN(arr.Length(), "astore")
	if err != nil {
		return err
	}
	for i, it := range items {
		if perr := arr.Set(i, it, "astore"); perr != nil {
			return perr
		}
	}
	ip.operands.Push(a)
	return nil
}

// opLength dispatches over array/dict/string/name, per PLRM's overloaded
// `length`.
func opLength(ip *Interpreter) *pserror.Error {
	a, err := ip.operands.PopTyped(object.TArray|object.TDictionary|object.TString|object.TName, "length")
	if err != nil {
		return err
	}
	switch a.Type {
	case object.TArray:
		ip.operands.Push(object.Integer(int64(a.Value.(*object.Array).Length())))
	case object.TDictionary:
		ip.operands.Push(object.Integer(int64(a.Value.(*object.Dict).Size())))
	case object.TString:
		ip.operands.Push(object.Integer(int64(a.Value.(*object.PSString).Length())))
	case object.TName:
		ip.operands.Push(object.Integer(int64(len(a.AsName()))))
	}
	return nil
}

// opGet dispatches array/string/dict indexing, per PLRM's overloaded `get`.
func opGet(ip *Interpreter) *pserror.Error {
	key, err := ip.operands.Pop("get")
	if err != nil {
		return err
	}
	container, err := ip.operands.PopTyped(object.TArray|object.TDictionary|object.TString, "get")
	if err != nil {
		return err
	}
	switch container.Type {
	case object.TArray:
		idx, ok := asIndex(key)
		if !ok {
			return pserror.New(pserror.TypeCheck, "get", "array index must be an integer")
		}
		v, perr := container.Value.(*object.Array).Get(idx, "get")
		if perr != nil {
			return perr
		}
		ip.operands.Push(v)
	case object.TString:
		idx, ok := asIndex(key)
		if !ok {
			return pserror.New(pserror.TypeCheck, "get", "string index must be an integer")
		}
		b, perr := container.Value.(*object.PSString).Get(idx, "get")
		if perr != nil {
			return perr
		}
		ip.operands.Push(object.Integer(int64(b)))
	case object.TDictionary:
		v, ok := container.Value.(*object.Dict).Get(key)
		if !ok {
			return pserror.New(pserror.Undefined, "get", "key not found")
		}
		ip.operands.Push(v)
	}
	return nil
}

// opPut dispatches array/string/dict assignment, per PLRM's overloaded
// `put`.
func opPut(ip *Interpreter) *pserror.Error {
	value, err := ip.operands.Pop("put")
	if err != nil {
		return err
	}
	key, err := ip.operands.Pop("put")
	if err != nil {
		return err
	}
	container, err := ip.operands.PopTyped(object.TArray|object.TDictionary|object.TString, "put")
	if err != nil {
		return err
	}
	switch container.Type {
	case object.TArray:
		idx, ok := asIndex(key)
		if !ok {
			return pserror.New(pserror.TypeCheck, "put", "array index must be an integer")
		}
		return container.Value.(*object.Array).Set(idx, value, "put")
	case object.TString:
		idx, ok := asIndex(key)
		if !ok {
			return pserror.New(pserror.TypeCheck, "put", "string index must be an integer")
		}
		if value.Type != object.TInteger {
			return pserror.New(pserror.TypeCheck, "put", "string element must be an integer")
		}
		return container.Value.(*object.PSString).Set(idx, value.AsInt64(), "put")
	case object.TDictionary:
		return container.Value.(*object.Dict).Set(key, value, "put")
	}
	return nil
}

func opGetInterval(ip *Interpreter) *pserror.Error {
	count, err := ip.operands.PopTyped(object.TInteger, "getinterval")
	if err != nil {
		return err
	}
	from, err := ip.operands.PopTyped(object.TInteger, "getinterval")
	if err != nil {
		return err
	}
	container, err := ip.operands.PopTyped(object.TArray|object.TString, "getinterval")
	if err != nil {
		return err
	}
	switch container.Type {
	case object.TArray:
		sub, perr := container.Value.(*object.Array).Slice(int(from.AsInt64()), int(count.AsInt64()), "getinterval")
		if perr != nil {
			return perr
		}
		ip.operands.Push(object.Object{Type: object.TArray, Exec: object.Literal, Acc: sub.Access(), Value: sub})
	case object.TString:
		sub, perr := container.Value.(*object.PSString).SubString(int(from.AsInt64()), int(count.AsInt64()), "getinterval")
		if perr != nil {
			return perr
		}
		ip.operands.Push(object.Object{Type: object.TString, Exec: object.Literal, Acc: sub.Access(), Value: sub})
	}
	return nil
}

func opPutInterval(ip *Interpreter) *pserror.Error {
	src, err := ip.operands.Pop("putinterval")
	if err != nil {
		return err
	}
	at, err := ip.operands.PopTyped(object.TInteger, "putinterval")
	if err != nil {
		return err
	}
	dst, err := ip.operands.PopTyped(object.TArray|object.TString, "putinterval")
	if err != nil {
		return err
	}
	switch dst.Type {
	case object.TArray:
		srcArr, ok := src.Value.(*object.Array)
		if !ok {
			return pserror.New(pserror.TypeCheck, "putinterval", "source must be an array")
		}
		return dst.Value.(*object.Array).PutInterval(int(at.AsInt64()), srcArr.Items(), "putinterval")
	case object.TString:
		srcStr, ok := src.Value.(*object.PSString)
		if !ok {
			return pserror.New(pserror.TypeCheck, "putinterval", "source must be a string")
		}
		return dst.Value.(*object.PSString).PutInterval(int(at.AsInt64()), srcStr.Bytes(), "putinterval")
	}
	return nil
}

// opForall dispatches array/dict/string forall onto the matching
// exec.Context loop type (spec.md §4.5), pushing it rather than iterating
// in Go so a `stop`/`exit` inside proc unwinds correctly.
func opForall(ip *Interpreter) *pserror.Error {
	procObj, err := ip.operands.PopTyped(object.TArray, "forall")
	if err != nil {
		return err
	}
	if !procObj.IsProcedure() {
		return pserror.New(pserror.TypeCheck, "forall", "forall requires a procedure")
	}
	proc := procObj.Value.(*object.Array)

	container, err := ip.operands.PopTyped(object.TArray|object.TDictionary|object.TString, "forall")
	if err != nil {
		return err
	}
	switch container.Type {
	case object.TArray:
		ip.execStack.PushFrame(exec.NewArrayForAllLoopContext(proc, container.Value.(*object.Array).Items()))
	case object.TDictionary:
		ip.execStack.PushFrame(exec.NewDictionaryForAllLoopContext(proc, container.Value.(*object.Dict).Entries()))
	case object.TString:
		ip.execStack.PushFrame(exec.NewStringForAllLoopContext(proc, container.Value.(*object.PSString).Bytes()))
	}
	return nil
}

func asIndex(o object.Object) (int, bool) {
	if o.Type != object.TInteger {
		return 0, false
	}
	return int(o.AsInt64()), true
}

// opCopyComposite implements `copy`'s array/dict/string form (spec.md
// §4.7): pops destination (top) then source, copies source's contents into
// the first src.Length() slots of destination, and pushes the written
// sub-view (array/string) or destination itself (dict).
func opCopyComposite(ip *Interpreter) *pserror.Error {
	dst, err := ip.operands.Pop("copy")
	if err != nil {
		return err
	}
	src, err := ip.operands.Pop("copy")
	if err != nil {
		return err
	}
	if dst.Type != src.Type {
		return pserror.New(pserror.TypeCheck, "copy", "source and destination must be the same composite type")
	}
	switch dst.Type {
	case object.TArray:
		sub, perr := dst.Value.(*object.Array).Copy(src.Value.(*object.Array), "copy")
		if perr != nil {
			return perr
		}
		ip.operands.Push(object.Object{Type: object.TArray, Exec: object.Literal, Acc: sub.Access(), Value: sub})
	case object.TString:
		sub, perr := dst.Value.(*object.PSString).Copy(src.Value.(*object.PSString), "copy")
		if perr != nil {
			return perr
		}
		ip.operands.Push(object.Object{Type: object.TString, Exec: object.Literal, Acc: sub.Access(), Value: sub})
	case object.TDictionary:
		if perr := dst.Value.(*object.Dict).Copy(src.Value.(*object.Dict), "copy"); perr != nil {
			return perr
		}
		ip.operands.Push(dst)
	default:
		return pserror.New(pserror.TypeCheck, "copy", "operand is not a composite object")
	}
	return nil
}
