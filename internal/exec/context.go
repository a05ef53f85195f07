// Package exec implements the reified Execution Contexts of spec.md §4.5:
// deferred-work frames placed on the execution stack alongside plain
// Objects. Each Context variant knows how to take one step — push its next
// bit of work onto the operand/execution stacks — and whether it is done.
package exec

import (
	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
	"github.com/cwbudde/go-postscript/internal/stacks"
)

// Machine is the slice of interpreter state a Context needs to take a step:
// the operand stack to push control values onto, and the execution stack to
// push nested frames onto. Defined here (not in package stacks, to avoid a
// stacks->exec cycle) and satisfied by *interp.Interpreter.
type Machine interface {
	Operands() *stacks.OperandStack
	ExecStack() *stacks.ExecStack
}

// Context is a stepped execution-stack frame: spec.md §4.5's "reified frames".
type Context interface {
	stacks.Frame
	// Step performs one unit of work. It is only called when Finished()
	// is false.
	Step(m Machine) *pserror.Error
	// Exit runs once, when the interpreter loop notices Finished() just
	// became true and is about to splice this frame off the stack.
	Exit(m Machine)
	// Kind names the context for countexecstack/execstack debugging.
	Kind() string
}

// ProcedureContext iterates an executable Array's elements, pushing each in
// turn onto the execution stack for the interpreter to dispatch. Per
// spec.md §9 "Execution contexts vs. call stack", the array itself is never
// copied or mutated by iteration — only this context's index advances.
type ProcedureContext struct {
	Proc  *object.Array
	Index int
}

func NewProcedureContext(proc *object.Array) *ProcedureContext {
	return &ProcedureContext{Proc: proc}
}

func (c *ProcedureContext) Finished() bool { return c.Index >= c.Proc.Length() }

func (c *ProcedureContext) Step(m Machine) *pserror.Error {
	el, err := c.Proc.Get(c.Index, "exec")
	if err != nil {
		return err
	}
	c.Index++
	m.ExecStack().PushObject(el)
	return nil
}

func (c *ProcedureContext) Exit(Machine) {}
func (c *ProcedureContext) Kind() string { return "procedure" }

// numKind tracks whether a for-loop's three control numbers are all
// Integer (control variable pushed as Integer) or any is Real (pushed as
// Real), per spec.md §4.5.
type numKind int

const (
	kindInteger numKind = iota
	kindReal
)

// ForLoopContext implements PLRM's `for`: spec.md §4.5.
type ForLoopContext struct {
	Proc      *object.Array
	Current   float64
	Increment float64
	Limit     float64
	NumKind   numKind
}

// NewForLoopContext builds a for-loop context. allInteger must be true only
// when initial, increment, and limit were all Integer operands.
func NewForLoopContext(proc *object.Array, initial, increment, limit float64, allInteger bool) *ForLoopContext {
	k := kindReal
	if allInteger {
		k = kindInteger
	}
	return &ForLoopContext{Proc: proc, Current: initial, Increment: increment, Limit: limit, NumKind: k}
}

func (c *ForLoopContext) Finished() bool {
	if c.Increment >= 0 {
		return c.Current > c.Limit
	}
	return c.Current < c.Limit
}

func (c *ForLoopContext) Step(m Machine) *pserror.Error {
	if c.NumKind == kindInteger {
		m.Operands().Push(object.Integer(int64(c.Current)))
	} else {
		m.Operands().Push(object.Real(c.Current))
	}
	m.ExecStack().PushFrame(NewProcedureContext(c.Proc))
	c.Current += c.Increment
	return nil
}

func (c *ForLoopContext) Exit(Machine)  {}
func (c *ForLoopContext) Kind() string { return "for" }

// RepeatLoopContext implements PLRM's `repeat`.
type RepeatLoopContext struct {
	Proc    *object.Array
	Count   int64
	Counter int64
}

func NewRepeatLoopContext(proc *object.Array, n int64) *RepeatLoopContext {
	return &RepeatLoopContext{Proc: proc, Count: n}
}

func (c *RepeatLoopContext) Finished() bool { return c.Counter >= c.Count }

func (c *RepeatLoopContext) Step(m Machine) *pserror.Error {
	m.ExecStack().PushFrame(NewProcedureContext(c.Proc))
	c.Counter++
	return nil
}

func (c *RepeatLoopContext) Exit(Machine)  {}
func (c *RepeatLoopContext) Kind() string { return "repeat" }

// InfiniteLoopContext implements PLRM's `loop`; only `exit`/`stop` end it.
type InfiniteLoopContext struct {
	Proc *object.Array
}

func NewInfiniteLoopContext(proc *object.Array) *InfiniteLoopContext {
	return &InfiniteLoopContext{Proc: proc}
}

func (c *InfiniteLoopContext) Finished() bool { return false }

func (c *InfiniteLoopContext) Step(m Machine) *pserror.Error {
	m.ExecStack().PushFrame(NewProcedureContext(c.Proc))
	return nil
}

func (c *InfiniteLoopContext) Exit(Machine)  {}
func (c *InfiniteLoopContext) Kind() string { return "loop" }

// ArrayForAllLoopContext implements PLRM's array `forall`.
type ArrayForAllLoopContext struct {
	Proc  *object.Array
	Items []object.Object
	Index int
}

func NewArrayForAllLoopContext(proc *object.Array, items []object.Object) *ArrayForAllLoopContext {
	return &ArrayForAllLoopContext{Proc: proc, Items: items}
}

func (c *ArrayForAllLoopContext) Finished() bool { return c.Index >= len(c.Items) }

func (c *ArrayForAllLoopContext) Step(m Machine) *pserror.Error {
	m.Operands().Push(c.Items[c.Index])
	c.Index++
	m.ExecStack().PushFrame(NewProcedureContext(c.Proc))
	return nil
}

func (c *ArrayForAllLoopContext) Exit(Machine)  {}
func (c *ArrayForAllLoopContext) Kind() string { return "forall(array)" }

// DictionaryForAllLoopContext implements PLRM's dict `forall`, pushing key
// then value before each iteration of proc.
type DictionaryForAllLoopContext struct {
	Proc    *object.Array
	Entries [][2]object.Object
	Index   int
}

func NewDictionaryForAllLoopContext(proc *object.Array, entries [][2]object.Object) *DictionaryForAllLoopContext {
	return &DictionaryForAllLoopContext{Proc: proc, Entries: entries}
}

func (c *DictionaryForAllLoopContext) Finished() bool { return c.Index >= len(c.Entries) }

func (c *DictionaryForAllLoopContext) Step(m Machine) *pserror.Error {
	pair := c.Entries[c.Index]
	m.Operands().Push(pair[0])
	m.Operands().Push(pair[1])
	c.Index++
	m.ExecStack().PushFrame(NewProcedureContext(c.Proc))
	return nil
}

func (c *DictionaryForAllLoopContext) Exit(Machine)  {}
func (c *DictionaryForAllLoopContext) Kind() string { return "forall(dict)" }

// StringForAllLoopContext implements PLRM's string `forall`, pushing each
// byte as an Integer.
type StringForAllLoopContext struct {
	Proc  *object.Array
	Bytes []byte
	Index int
}

func NewStringForAllLoopContext(proc *object.Array, bytes []byte) *StringForAllLoopContext {
	return &StringForAllLoopContext{Proc: proc, Bytes: bytes}
}

func (c *StringForAllLoopContext) Finished() bool { return c.Index >= len(c.Bytes) }

func (c *StringForAllLoopContext) Step(m Machine) *pserror.Error {
	m.Operands().Push(object.Integer(int64(c.Bytes[c.Index])))
	c.Index++
	m.ExecStack().PushFrame(NewProcedureContext(c.Proc))
	return nil
}

func (c *StringForAllLoopContext) Exit(Machine)  {}
func (c *StringForAllLoopContext) Kind() string { return "forall(string)" }

// GlyphRenderer draws one glyph of a kshow string and advances the current
// point; supplied by the interpreter, which alone has access to the font
// registry and graphics context.
type GlyphRenderer func(index int) *pserror.Error

// StringKShowLoopContext implements PLRM's `kshow`: renders one glyph, then
// (between glyphs only, not after the last) invokes proc.
type StringKShowLoopContext struct {
	Proc   *object.Array
	Length int
	Index  int
	Render GlyphRenderer
}

func NewStringKShowLoopContext(proc *object.Array, length int, render GlyphRenderer) *StringKShowLoopContext {
	return &StringKShowLoopContext{Proc: proc, Length: length, Render: render}
}

func (c *StringKShowLoopContext) Finished() bool { return c.Index >= c.Length }

func (c *StringKShowLoopContext) Step(m Machine) *pserror.Error {
	if err := c.Render(c.Index); err != nil {
		return err
	}
	c.Index++
	if c.Index < c.Length {
		m.ExecStack().PushFrame(NewProcedureContext(c.Proc))
	}
	return nil
}

func (c *StringKShowLoopContext) Exit(Machine)  {}
func (c *StringKShowLoopContext) Kind() string { return "kshow" }

// FileContext re-lexes a File object's remaining content one Object at a
// time (spec.md §4.5 step 2: "File objects on that stack are re-lexed/
// re-scanned lazily"), the execution-stack counterpart of `run`/`exec` on a
// readable file. Each Step pulls exactly one token-derived Object from the
// file via its own Token method and pushes it back onto the execution stack
// for ordinary dispatch, so a procedure encountered mid-file still gets its
// own ProcedureContext rather than being inlined here.
type FileContext struct {
	File object.FileHandle
}

func NewFileContext(f object.FileHandle) *FileContext { return &FileContext{File: f} }

func (c *FileContext) Finished() bool { return c.File.IsAtEOF() }

func (c *FileContext) Step(m Machine) *pserror.Error {
	obj, ok, err := c.File.Token()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	m.ExecStack().PushObject(obj)
	return nil
}

func (c *FileContext) Exit(Machine)  {}
func (c *FileContext) Kind() string { return "file" }

// StoppedContext is the `stopped` sentinel (spec.md §4.5). It carries no
// work of its own: `stopped` pushes one directly below a ProcedureContext
// for the guarded procedure. Once that procedure finishes normally, the
// interpreter loop finds this frame Finished (always true) and calls Exit,
// which pushes `false` — "didn't stop". A `stop` elsewhere unwinds the
// execution stack down to the nearest StoppedContext directly (see
// package interp), pushing `true` without ever calling Exit here.
type StoppedContext struct{}

func NewStoppedContext() *StoppedContext { return &StoppedContext{} }

func (c *StoppedContext) Finished() bool { return true }

func (c *StoppedContext) Step(Machine) *pserror.Error { return nil }

func (c *StoppedContext) Exit(m Machine) {
	m.Operands().Push(object.Boolean(false))
}

func (c *StoppedContext) Kind() string { return "stopped" }
