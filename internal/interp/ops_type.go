package interp

import (
	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
)

// registerTypeOps installs PLRM's type/attribute inspection operators
// (spec.md §4.7/§9): type, xcheck, rcheck, wcheck, cvlit, cvx, readonly,
// executeonly, noaccess, null.
func (ip *Interpreter) registerTypeOps() {
	ip.register("type", opType)
	ip.register("xcheck", opXCheck)
	ip.register("rcheck", opRCheck)
	ip.register("wcheck", opWCheck)
	ip.register("cvlit", opCvlit)
	ip.register("cvx", opCvx)
	ip.register("readonly", opReadonly)
	ip.register("executeonly", opExecuteonly)
	ip.register("noaccess", opNoaccess)
}

func opType(ip *Interpreter) *pserror.Error {
	v, err := ip.operands.Pop("type")
	if err != nil {
		return err
	}
	ip.operands.Push(object.Name(v.Type.String(), object.Literal))
	return nil
}

func opXCheck(ip *Interpreter) *pserror.Error {
	v, err := ip.operands.Pop("xcheck")
	if err != nil {
		return err
	}
	ip.operands.Push(object.Boolean(v.Exec == object.Executable))
	return nil
}

// accessOf reads the per-value Access field for the composite types that
// carry one; everything else reports Unlimited (PLRM: access control only
// applies to array/dict/string/file).
func accessOf(v object.Object) object.Access {
	switch a := v.Value.(type) {
	case *object.Array:
		return a.Access()
	case *object.Dict:
		return a.Access()
	case *object.PSString:
		return a.Access()
	default:
		return object.Unlimited
	}
}

func opRCheck(ip *Interpreter) *pserror.Error {
	v, err := ip.operands.Pop("rcheck")
	if err != nil {
		return err
	}
	a := accessOf(v)
	ip.operands.Push(object.Boolean(a == object.Unlimited || a == object.ReadOnly))
	return nil
}

func opWCheck(ip *Interpreter) *pserror.Error {
	v, err := ip.operands.Pop("wcheck")
	if err != nil {
		return err
	}
	ip.operands.Push(object.Boolean(accessOf(v) == object.Unlimited))
	return nil
}

func opCvlit(ip *Interpreter) *pserror.Error {
	v, err := ip.operands.Pop("cvlit")
	if err != nil {
		return err
	}
	v.Exec = object.Literal
	ip.operands.Push(v)
	return nil
}

func opCvx(ip *Interpreter) *pserror.Error {
	v, err := ip.operands.Pop("cvx")
	if err != nil {
		return err
	}
	v.Exec = object.Executable
	ip.operands.Push(v)
	return nil
}

func setAccess(v object.Object, acc object.Access) {
	switch a := v.Value.(type) {
	case *object.Array:
		a.SetAccess(acc)
	case *object.Dict:
		a.SetAccess(acc)
	case *object.PSString:
		a.SetAccess(acc)
	}
}

func opReadonly(ip *Interpreter) *pserror.Error {
	v, err := ip.operands.Pop("readonly")
	if err != nil {
		return err
	}
	setAccess(v, object.ReadOnly)
	ip.operands.Push(v)
	return nil
}

func opExecuteonly(ip *Interpreter) *pserror.Error {
	v, err := ip.operands.Pop("executeonly")
	if err != nil {
		return err
	}
	setAccess(v, object.ExecuteOnly)
	ip.operands.Push(v)
	return nil
}

func opNoaccess(ip *Interpreter) *pserror.Error {
	v, err := ip.operands.Pop("noaccess")
	if err != nil {
		return err
	}
	setAccess(v, object.NoAccess)
	ip.operands.Push(v)
	return nil
}
