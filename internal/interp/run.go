package interp

import (
	"fmt"

	"github.com/cwbudde/go-postscript/internal/exec"
	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
	"github.com/cwbudde/go-postscript/internal/psfile"
)

// Run scans src into a sequence of Objects via a fresh psscan.Scanner and
// executes them one at a time through the fetch-decode-execute loop (spec.md
// §4.5), the same way `run`/top-level program execution feeds the
// interpreter in PLRM. It returns the first uncaught error, if any.
func (ip *Interpreter) Run(src string) *pserror.Error {
	sc := ip.NewScanner(src)
	for {
		obj, ok, err := sc.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if perr := ip.Execute(obj); perr != nil {
			return perr
		}
		if ip.stopFlag {
			return nil
		}
	}
}

// Execute feeds a single top-level Object through the fetch-decode-execute
// loop, draining the execution stack it may push, and returns the first
// uncaught *pserror.Error (quit/stop-without-stopped both end quietly with a
// nil return, per spec.md §4.5's "natural termination" rule).
func (ip *Interpreter) Execute(obj object.Object) *pserror.Error {
	if obj.IsProcedure() {
		// A procedure met directly in the program text is data.
		ip.operands.Push(obj)
	} else if perr := ip.dispatch(obj); perr != nil {
		if cont, out := ip.routeError(perr); !cont {
			return out
		}
	}
	return ip.drainExecStack()
}

// routeError is the single place a Context/operator error passes through:
// it first tries unwindToStopped (spec.md §4.5 `stop`/`stopped`), then
// recognizes the bare-stop sentinel (graceful termination, §4.5), and
// otherwise reports the error as uncaught.
func (ip *Interpreter) routeError(perr *pserror.Error) (handled bool, out *pserror.Error) {
	if ip.unwindToStopped(perr) {
		return true, nil
	}
	if perr == stopSignal {
		ip.stopFlag = true
		return true, nil
	}
	return false, perr
}

// drainExecStack runs the fetch-decode-execute loop (spec.md §4.5) until the
// execution stack is empty, the step budget is exhausted, or the quit flag
// is set. Every Context.Step error is routed through unwindToStopped before
// being surfaced, so a `stop` inside a nested procedure/loop unwinds only as
// far as the nearest enclosing `stopped`.
func (ip *Interpreter) drainExecStack() *pserror.Error {
	for {
		if ip.stopFlag {
			return nil
		}
		top, ok := ip.execStack.Top()
		if !ok {
			return nil
		}
		ip.steps++
		if ip.steps > ip.maxSteps {
			return pserror.New(pserror.Timeout, "", "execution step budget exceeded")
		}

		switch v := top.(type) {
		case object.Object:
			ip.execStack.Pop()
			if v.IsProcedure() {
				// A procedure met while stepping a body or a file is data.
				ip.operands.Push(v)
				continue
			}
			if perr := ip.dispatch(v); perr != nil {
				if cont, out := ip.routeError(perr); !cont {
					return out
				}
			}
			if ip.execStack.Overflowed() {
				return pserror.New(pserror.ExecStackOverflow, "", "execution stack overflow")
			}
		case exec.Context:
			if ip.tracer != nil {
				fmt.Fprintf(ip.tracer, "step %d: %s\n", ip.steps, v.Kind())
			}
			if v.Finished() {
				ip.execStack.RemoveTop()
				v.Exit(ip)
				continue
			}
			if perr := v.Step(ip); perr != nil {
				if cont, out := ip.routeError(perr); !cont {
					return out
				}
			}
		default:
			ip.execStack.Pop()
		}
	}
}

// dispatch classifies a single Object per spec.md §4.5 step 4: a literal
// object is pushed to the operand stack; an executable Name is looked up and
// the result is resolved (operators invoke immediately, executable arrays
// push a ProcedureContext, everything else pushes as operand data); an
// executable array runs as a procedure (Execute and drainExecStack push a
// procedure met as data before it gets here, so this case serves `exec`);
// an Operator reached directly invokes immediately; an executable String
// or File is scanned through a FileContext; any other executable object
// (e.g. a FontID) is pushed to the operand stack.
func (ip *Interpreter) dispatch(obj object.Object) *pserror.Error {
	if obj.Exec == object.Literal {
		ip.operands.Push(obj)
		return nil
	}

	switch obj.Type {
	case object.TName:
		name := obj.AsName()
		resolved, ok := ip.dicts.Lookup(object.Name(name, object.Literal))
		if !ok {
			return pserror.New(pserror.Undefined, name, "name not found on dictionary stack")
		}
		return ip.invoke(resolved)
	case object.TArray:
		// An executable array *not* reached via a name (e.g. `{ ... } exec`,
		// or the scanner's own ProcOpen production if ever dispatched
		// directly) runs as a procedure.
		arr, _ := obj.Value.(*object.Array)
		ip.execStack.PushFrame(exec.NewProcedureContext(arr))
		return nil
	case object.TOperator:
		return ip.callOperator(obj)
	case object.TString:
		s := obj.Value.(*object.PSString)
		mf := psfile.NewMemoryFile("%string", s.Bytes(), psfile.ModeRead, ip.lookupForScan)
		ip.execStack.PushFrame(exec.NewFileContext(mf))
		return nil
	case object.TFile:
		h, ok := obj.AsFile()
		if !ok {
			return pserror.New(pserror.TypeCheck, "exec", "malformed file operand")
		}
		ip.execStack.PushFrame(exec.NewFileContext(h))
		return nil
	default:
		ip.operands.Push(obj)
		return nil
	}
}

// invoke resolves a name-lookup result: operators run immediately,
// executable procedures push a context, anything else (a literal value
// bound to a name, e.g. `/x 10 def x`) is pushed as operand data regardless
// of the Object's own Exec flag, since the *name reference* that produced it
// was executable but the bound value's own literalness governs from here.
func (ip *Interpreter) invoke(resolved object.Object) *pserror.Error {
	switch {
	case resolved.Type == object.TOperator:
		return ip.callOperator(resolved)
	case resolved.IsProcedure():
		arr, _ := resolved.Value.(*object.Array)
		ip.execStack.PushFrame(exec.NewProcedureContext(arr))
		return nil
	default:
		ip.operands.Push(resolved)
		return nil
	}
}

func (ip *Interpreter) callOperator(obj object.Object) *pserror.Error {
	ref, ok := obj.Value.(object.OperatorRef)
	if !ok {
		return pserror.New(pserror.Unregistered, "", "malformed operator object")
	}
	fn, ok := ip.operators[ref.Name]
	if !ok {
		return pserror.New(pserror.Unregistered, ref.Name, "operator not bound in this interpreter")
	}
	if ip.tracer != nil {
		fmt.Fprintf(ip.tracer, "op %s\n", ref.Name)
	}
	return fn(ip)
}

// unwindToStopped implements `stop`'s (and any propagating error's) search
// for the nearest enclosing `stopped` context (spec.md §4.5/§4.7 `stop`):
// search the execution stack top-down for the nearest *exec.StoppedContext,
// truncate the stack down to and including that frame, and push `true` to
// signal the guarded body did not complete normally. Returns false (leaving
// the stack untouched) when no StoppedContext is found, so the caller
// surfaces the error to its own caller.
func (ip *Interpreter) unwindToStopped(perr *pserror.Error) bool {
	idx, found := ip.execStack.FindTopDown(func(v any) bool {
		_, ok := v.(*exec.StoppedContext)
		return ok
	})
	if !found {
		return false
	}
	ip.execStack.TruncateToDepthFromTop(idx, true)
	ip.operands.Push(object.Boolean(true))
	return true
}

// unwindToLoop implements `exit` (spec.md §4.7): search for the nearest
// loop-type context, truncate inclusive of it, and push nothing. Returns
// false (invalidexit) if no loop context encloses the exit.
func (ip *Interpreter) unwindToLoop() bool {
	idx, found := ip.execStack.FindTopDown(func(v any) bool {
		ctx, ok := v.(exec.Context)
		if !ok {
			return false
		}
		switch ctx.(type) {
		case *exec.ForLoopContext, *exec.RepeatLoopContext, *exec.InfiniteLoopContext,
			*exec.ArrayForAllLoopContext, *exec.DictionaryForAllLoopContext,
			*exec.StringForAllLoopContext, *exec.StringKShowLoopContext:
			return true
		default:
			return false
		}
	})
	if !found {
		return false
	}
	ip.execStack.TruncateToDepthFromTop(idx, true)
	return true
}
