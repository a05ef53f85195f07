package interp

import (
	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
)

// registerBooleanOps installs PLRM's boolean, bitwise, and relational
// operators (spec.md §4.7). `and`/`or`/`xor`/`not` are overloaded over
// Boolean and Integer (bitwise); `eq`/`ne`/`gt`/`ge`/`lt`/`le` compare
// numbers or strings; `==`/`eq` semantics for other types fall back to
// identity, matching PLRM's equal/exec-equal distinction.
func (ip *Interpreter) registerBooleanOps() {
	ip.register("and", opAnd)
	ip.register("or", opOr)
	ip.register("xor", opXor)
	ip.register("not", opNot)
	ip.register("bitshift", opBitshift)
	ip.register("eq", opEq)
	ip.register("ne", opNe)
	ip.register("gt", opGt)
	ip.register("ge", opGe)
	ip.register("lt", opLt)
	ip.register("le", opLe)
}

func opAnd(ip *Interpreter) *pserror.Error {
	b, err := ip.operands.PopTyped(object.TBoolean|object.TInteger, "and")
	if err != nil {
		return err
	}
	a, err := ip.operands.PopTyped(object.TBoolean|object.TInteger, "and")
	if err != nil {
		return err
	}
	if a.Type != b.Type {
		return pserror.New(pserror.TypeCheck, "and", "operands must both be boolean or both integer")
	}
	if a.Type == object.TBoolean {
		ip.operands.Push(object.Boolean(a.AsBool() && b.AsBool()))
	} else {
		ip.operands.Push(object.Integer(a.AsInt64() & b.AsInt64()))
	}
	return nil
}

func opOr(ip *Interpreter) *pserror.Error {
	b, err := ip.operands.PopTyped(object.TBoolean|object.TInteger, "or")
	if err != nil {
		return err
	}
	a, err := ip.operands.PopTyped(object.TBoolean|object.TInteger, "or")
	if err != nil {
		return err
	}
	if a.Type != b.Type {
		return pserror.New(pserror.TypeCheck, "or", "operands must both be boolean or both integer")
	}
	if a.Type == object.TBoolean {
		ip.operands.Push(object.Boolean(a.AsBool() || b.AsBool()))
	} else {
		ip.operands.Push(object.Integer(a.AsInt64() | b.AsInt64()))
	}
	return nil
}

func opXor(ip *Interpreter) *pserror.Error {
	b, err := ip.operands.PopTyped(object.TBoolean|object.TInteger, "xor")
	if err != nil {
		return err
	}
	a, err := ip.operands.PopTyped(object.TBoolean|object.TInteger, "xor")
	if err != nil {
		return err
	}
	if a.Type != b.Type {
		return pserror.New(pserror.TypeCheck, "xor", "operands must both be boolean or both integer")
	}
	if a.Type == object.TBoolean {
		ip.operands.Push(object.Boolean(a.AsBool() != b.AsBool()))
	} else {
		ip.operands.Push(object.Integer(a.AsInt64() ^ b.AsInt64()))
	}
	return nil
}

func opNot(ip *Interpreter) *pserror.Error {
	a, err := ip.operands.PopTyped(object.TBoolean|object.TInteger, "not")
	if err != nil {
		return err
	}
	if a.Type == object.TBoolean {
		ip.operands.Push(object.Boolean(!a.AsBool()))
	} else {
		ip.operands.Push(object.Integer(^a.AsInt64()))
	}
	return nil
}

// bitshift: positive shift is left, negative is right, per PLRM.
func opBitshift(ip *Interpreter) *pserror.Error {
	shift, err := ip.operands.PopTyped(object.TInteger, "bitshift")
	if err != nil {
		return err
	}
	a, err := ip.operands.PopTyped(object.TInteger, "bitshift")
	if err != nil {
		return err
	}
	n := shift.AsInt64()
	v := a.AsInt64()
	if n >= 0 {
		ip.operands.Push(object.Integer(v << uint(n)))
	} else {
		ip.operands.Push(object.Integer(v >> uint(-n)))
	}
	return nil
}

// equalValues implements PLRM's `eq`: numbers compare by value across
// Integer/Real, strings by content, everything else by Go equality of the
// underlying payload (adequate for Boolean/Name/Mark/Null; container types
// compare by reference identity, matching PLRM's "eq never descends into
// composite objects").
func equalValues(a, b object.Object) bool {
	if a.Type.Has(object.TNumber) && b.Type.Has(object.TNumber) {
		return a.Number() == b.Number()
	}
	if ka, ok := a.NameKey(); ok {
		if kb, ok := b.NameKey(); ok {
			return ka == kb
		}
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case object.TBoolean:
		return a.AsBool() == b.AsBool()
	case object.TNull, object.TMark:
		return true
	default:
		return a.Value == b.Value
	}
}

func opEq(ip *Interpreter) *pserror.Error {
	b, err := ip.operands.Pop("eq")
	if err != nil {
		return err
	}
	a, err := ip.operands.Pop("eq")
	if err != nil {
		return err
	}
	ip.operands.Push(object.Boolean(equalValues(a, b)))
	return nil
}

func opNe(ip *Interpreter) *pserror.Error {
	b, err := ip.operands.Pop("ne")
	if err != nil {
		return err
	}
	a, err := ip.operands.Pop("ne")
	if err != nil {
		return err
	}
	ip.operands.Push(object.Boolean(!equalValues(a, b)))
	return nil
}

// compare implements PLRM's gt/ge/lt/le: numbers compare by value, strings
// lexicographically by byte content.
func compare(op string, a, b object.Object) (int, *pserror.Error) {
	if a.Type.Has(object.TNumber) && b.Type.Has(object.TNumber) {
		switch {
		case a.Number() < b.Number():
			return -1, nil
		case a.Number() > b.Number():
			return 1, nil
		default:
			return 0, nil
		}
	}
	as, aok := a.Value.(*object.PSString)
	bs, bok := b.Value.(*object.PSString)
	if aok && bok {
		switch {
		case as.AsString() < bs.AsString():
			return -1, nil
		case as.AsString() > bs.AsString():
			return 1, nil
		default:
			return 0, nil
		}
	}
	return 0, pserror.New(pserror.TypeCheck, op, "operands must both be numbers or both strings")
}

func relOp(op string, ok func(c int) bool) OperatorFunc {
	return func(ip *Interpreter) *pserror.Error {
		b, err := ip.operands.Pop(op)
		if err != nil {
			return err
		}
		a, err := ip.operands.Pop(op)
		if err != nil {
			return err
		}
		c, perr := compare(op, a, b)
		if perr != nil {
			return perr
		}
		ip.operands.Push(object.Boolean(ok(c)))
		return nil
	}
}

func opGt(ip *Interpreter) *pserror.Error { return relOp("gt", func(c int) bool { return c > 0 })(ip) }
func opGe(ip *Interpreter) *pserror.Error { return relOp("ge", func(c int) bool { return c >= 0 })(ip) }
func opLt(ip *Interpreter) *pserror.Error { return relOp("lt", func(c int) bool { return c < 0 })(ip) }
func opLe(ip *Interpreter) *pserror.Error { return relOp("le", func(c int) bool { return c <= 0 })(ip) }
