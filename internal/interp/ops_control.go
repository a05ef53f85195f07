package interp

import (
	"github.com/cwbudde/go-postscript/internal/exec"
	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
)

// registerControlOps installs PLRM's control-flow operators (spec.md
// §4.5/§4.7): exec, if, ifelse, for, repeat, loop, exit, stop, stopped,
// quit, bind.
func (ip *Interpreter) registerControlOps() {
	ip.register("exec", opExec)
	ip.register("if", opIf)
	ip.register("ifelse", opIfElse)
	ip.register("for", opFor)
	ip.register("repeat", opRepeat)
	ip.register("loop", opLoop)
	ip.register("exit", opExit)
	ip.register("stop", opStop)
	ip.register("stopped", opStopped)
	ip.register("quit", opQuit)
	ip.register("bind", opBind)
	ip.register("countexecstack", opCountExecStack)
}

// opExec pushes any Object back through the dispatch loop as if it had
// just been scanned, per PLRM's `exec`: a literal array runs as a
// procedure, an operator invokes, anything else pushes as data.
func opExec(ip *Interpreter) *pserror.Error {
	v, err := ip.operands.Pop("exec")
	if err != nil {
		return err
	}
	return ip.dispatch(execForm(v))
}

// execForm flips a literal-but-procedure-shaped array executable so `exec`
// runs it as PLRM requires (`exec` always treats a procedure array as code,
// regardless of its own Exec attribute), while leaving every other type's
// attributes untouched.
func execForm(v object.Object) object.Object {
	if v.Type == object.TArray && v.Exec == object.Literal {
		v.Exec = object.Executable
	}
	return v
}

func procArrayOperand(ip *Interpreter, op string) (*object.Array, *pserror.Error) {
	v, err := ip.operands.PopTyped(object.TArray, op)
	if err != nil {
		return nil, err
	}
	return v.Value.(*object.Array), nil
}

func opIf(ip *Interpreter) *pserror.Error {
	proc, err := procArrayOperand(ip, "if")
	if err != nil {
		return err
	}
	cond, err := ip.operands.PopTyped(object.TBoolean, "if")
	if err != nil {
		return err
	}
	if cond.AsBool() {
		ip.execStack.PushFrame(exec.NewProcedureContext(proc))
	}
	return nil
}

func opIfElse(ip *Interpreter) *pserror.Error {
	elseProc, err := procArrayOperand(ip, "ifelse")
	if err != nil {
		return err
	}
	thenProc, err := procArrayOperand(ip, "ifelse")
	if err != nil {
		return err
	}
	cond, err := ip.operands.PopTyped(object.TBoolean, "ifelse")
	if err != nil {
		return err
	}
	if cond.AsBool() {
		ip.execStack.PushFrame(exec.NewProcedureContext(thenProc))
	} else {
		ip.execStack.PushFrame(exec.NewProcedureContext(elseProc))
	}
	return nil
}

func opFor(ip *Interpreter) *pserror.Error {
	proc, err := procArrayOperand(ip, "for")
	if err != nil {
		return err
	}
	limit, err := ip.operands.PopTyped(object.TNumber, "for")
	if err != nil {
		return err
	}
	increment, err := ip.operands.PopTyped(object.TNumber, "for")
	if err != nil {
		return err
	}
	initial, err := ip.operands.PopTyped(object.TNumber, "for")
	if err != nil {
		return err
	}
	allInt := initial.Type == object.TInteger && increment.Type == object.TInteger && limit.Type == object.TInteger
	if increment.Number() == 0 {
		return nil // PLRM: zero increment never iterates
	}
	ip.execStack.PushFrame(exec.NewForLoopContext(proc, initial.Number(), increment.Number(), limit.Number(), allInt))
	return nil
}

func opRepeat(ip *Interpreter) *pserror.Error {
	proc, err := procArrayOperand(ip, "repeat")
	if err != nil {
		return err
	}
	n, err := ip.operands.PopTyped(object.TInteger, "repeat")
	if err != nil {
		return err
	}
	count := n.AsInt64()
	if count < 0 {
		return pserror.New(pserror.RangeCheck, "repeat", "repeat count must be non-negative")
	}
	ip.execStack.PushFrame(exec.NewRepeatLoopContext(proc, count))
	return nil
}

func opLoop(ip *Interpreter) *pserror.Error {
	proc, err := procArrayOperand(ip, "loop")
	if err != nil {
		return err
	}
	ip.execStack.PushFrame(exec.NewInfiniteLoopContext(proc))
	return nil
}

func opExit(ip *Interpreter) *pserror.Error {
	if !ip.unwindToLoop() {
		return pserror.New(pserror.InvalidExit, "exit", "no enclosing loop")
	}
	return nil
}

// stopSignal is the sentinel opStop raises. It is never shown to
// PostScript code: Execute/drainExecStack route it through
// unwindToStopped, and if no `stopped` encloses the call, recognize this
// exact pointer and end execution quietly rather than surfacing it as a
// runtime error (spec.md §4.5 "bare stop with no enclosing stopped
// terminates gracefully").
var stopSignal = &pserror.Error{ErrorName: "", Op: "stop"}

func opStop(ip *Interpreter) *pserror.Error {
	return stopSignal
}

func opStopped(ip *Interpreter) *pserror.Error {
	proc, err := procArrayOperand(ip, "stopped")
	if err != nil {
		return err
	}
	ip.execStack.PushFrame(exec.NewStoppedContext())
	ip.execStack.PushFrame(exec.NewProcedureContext(proc))
	return nil
}

func opQuit(ip *Interpreter) *pserror.Error {
	ip.stopFlag = true
	return nil
}

// opCountExecStack implements PLRM's `countexecstack`: the number of frames
// (Objects and Contexts alike) currently on the execution stack.
func opCountExecStack(ip *Interpreter) *pserror.Error {
	ip.operands.Push(object.Integer(int64(ip.execStack.Len())))
	return nil
}

// opBind implements PLRM's `bind`: walks a procedure's own elements
// (recursing into nested literal procedures, per PLRM) replacing each
// executable-Name that currently resolves to an Operator with the Operator
// Object itself, so later rebinding of that name in a dictionary can't
// change the procedure's behavior.
func opBind(ip *Interpreter) *pserror.Error {
	v, err := ip.operands.PopTyped(object.TArray, "bind")
	if err != nil {
		return err
	}
	arr := v.Value.(*object.Array)
	bindArray(ip, arr)
	ip.operands.Push(v)
	return nil
}

func bindArray(ip *Interpreter, arr *object.Array) {
	items := arr.Items()
	for i, el := range items {
		if el.Type == object.TName && el.Exec == object.Executable {
			if resolved, ok := ip.dicts.Lookup(el); ok && resolved.Type == object.TOperator {
				arr.Set(i, resolved, "bind")
				continue
			}
		}
		if el.IsProcedure() {
			bindArray(ip, el.Value.(*object.Array))
		}
	}
}
