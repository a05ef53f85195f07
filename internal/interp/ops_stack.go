package interp

import (
	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
)

// registerStackOps installs PLRM's operand-stack manipulation operators
// (spec.md §4.7): pop, exch, dup, copy, index, roll, clear, count, mark,
// cleartomark, counttomark.
func (ip *Interpreter) registerStackOps() {
	ip.register("pop", opPop)
	ip.register("exch", opExch)
	ip.register("dup", opDup)
	ip.register("copy", opCopy)
	ip.register("index", opIndex)
	ip.register("roll", opRoll)
	ip.register("clear", opClear)
	ip.register("count", opCount)
	ip.register("mark", opMark)
	ip.register("cleartomark", opClearToMark)
	ip.register("counttomark", opCountToMark)
}

func opPop(ip *Interpreter) *pserror.Error {
	_, err := ip.operands.Pop("pop")
	return err
}

func opExch(ip *Interpreter) *pserror.Error {
	b, err := ip.operands.Pop("exch")
	if err != nil {
		return err
	}
	a, err := ip.operands.Pop("exch")
	if err != nil {
		return err
	}
	ip.operands.Push(b)
	ip.operands.Push(a)
	return nil
}

func opDup(ip *Interpreter) *pserror.Error {
	top, err := ip.operands.Top("dup")
	if err != nil {
		return err
	}
	ip.operands.Push(top)
	return nil
}

// opCopy implements the overloaded `copy`: an Integer operand duplicates
// the top n stack elements in place; any other single-operand form copies a
// composite object's contents and is handled by the array/dict/string
// family files, which re-register over this name is never needed since
// PLRM dispatches `copy` on the operand's runtime type at a single call
// site here.
func opCopy(ip *Interpreter) *pserror.Error {
	top, err := ip.operands.Top("copy")
	if err != nil {
		return err
	}
	if top.Type == object.TInteger {
		n, _ := ip.operands.Pop("copy")
		count := int(n.AsInt64())
		if count < 0 {
			return pserror.New(pserror.RangeCheck, "copy", "copy count must be non-negative")
		}
		items, err := ip.operands.PopN(count, "copy")
		if err != nil {
			return err
		}
		for _, it := range items {
			ip.operands.Push(it)
		}
		for _, it := range items {
			ip.operands.Push(it)
		}
		return nil
	}
	return opCopyComposite(ip)
}

func opIndex(ip *Interpreter) *pserror.Error {
	n, err := ip.operands.PopTyped(object.TInteger, "index")
	if err != nil {
		return err
	}
	depth := int(n.AsInt64())
	if depth < 0 {
		return pserror.New(pserror.RangeCheck, "index", "index must be non-negative")
	}
	v, err := ip.operands.Index(depth, "index")
	if err != nil {
		return err
	}
	ip.operands.Push(v)
	return nil
}

func opRoll(ip *Interpreter) *pserror.Error {
	j, err := ip.operands.PopTyped(object.TInteger, "roll")
	if err != nil {
		return err
	}
	n, err := ip.operands.PopTyped(object.TInteger, "roll")
	if err != nil {
		return err
	}
	return ip.operands.Roll(int(n.AsInt64()), int(j.AsInt64()), "roll")
}

func opClear(ip *Interpreter) *pserror.Error {
	ip.operands.Clear()
	return nil
}

func opCount(ip *Interpreter) *pserror.Error {
	ip.operands.Push(object.Integer(int64(ip.operands.Len())))
	return nil
}

func opMark(ip *Interpreter) *pserror.Error {
	ip.operands.PushMark()
	return nil
}

func opClearToMark(ip *Interpreter) *pserror.Error {
	return ip.operands.ClearToMark("cleartomark")
}

func opCountToMark(ip *Interpreter) *pserror.Error {
	n, err := ip.operands.CountToMark("counttomark")
	if err != nil {
		return err
	}
	ip.operands.Push(object.Integer(int64(n)))
	return nil
}
