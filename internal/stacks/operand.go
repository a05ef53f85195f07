// Package stacks implements the Operand, Dictionary, and Execution stacks
// of spec.md §4.4: LIFO object storage with typed-pop helpers, mark-aware
// group operators, and dictionary-stack name resolution.
package stacks

import (
	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
)

// OperandStack is the LIFO operand stack. Typed-pop helpers fail with
// typecheck on a type mismatch and stackunderflow on a shortage, matching
// spec.md §4.4 and the "Overload resolution" note in §9: underflow on an
// empty/short stack is never reported as typecheck.
type OperandStack struct {
	data []object.Object
}

func NewOperandStack() *OperandStack { return &OperandStack{} }

func (s *OperandStack) Push(o object.Object) { s.data = append(s.data, o) }

func (s *OperandStack) Len() int { return len(s.data) }

func (s *OperandStack) Clear() { s.data = s.data[:0] }

// Pop removes and returns the top operand, or stackunderflow if empty.
func (s *OperandStack) Pop(op string) (object.Object, *pserror.Error) {
	if len(s.data) == 0 {
		return object.Object{}, pserror.New(pserror.StackUnderflow, op, "operand stack empty")
	}
	top := s.data[len(s.data)-1]
	s.data = s.data[:len(s.data)-1]
	return top, nil
}

// Top returns the top operand without removing it.
func (s *OperandStack) Top(op string) (object.Object, *pserror.Error) {
	if len(s.data) == 0 {
		return object.Object{}, pserror.New(pserror.StackUnderflow, op, "operand stack empty")
	}
	return s.data[len(s.data)-1], nil
}

// PopTyped pops the top operand and checks its type against mask, per the
// type-bitmask union protocol (spec.md §3/§9).
func (s *OperandStack) PopTyped(mask object.Type, op string) (object.Object, *pserror.Error) {
	v, err := s.Pop(op)
	if err != nil {
		return object.Object{}, err
	}
	if !v.Type.Has(mask) {
		return object.Object{}, pserror.New(pserror.TypeCheck, op, "operand type mismatch")
	}
	return v, nil
}

// PopN pops n operands in push order (data[0] was pushed first, i.e. it is
// the deepest of the n), failing with stackunderflow if fewer than n exist.
func (s *OperandStack) PopN(n int, op string) ([]object.Object, *pserror.Error) {
	if len(s.data) < n {
		return nil, pserror.New(pserror.StackUnderflow, op, "operand stack too shallow")
	}
	out := make([]object.Object, n)
	copy(out, s.data[len(s.data)-n:])
	s.data = s.data[:len(s.data)-n]
	return out, nil
}

// Index returns the operand n below the top (0 = top), without removing it.
func (s *OperandStack) Index(n int, op string) (object.Object, *pserror.Error) {
	if n < 0 || n >= len(s.data) {
		return object.Object{}, pserror.New(pserror.StackUnderflow, op, "index beyond stack depth")
	}
	return s.data[len(s.data)-1-n], nil
}

// PushMark pushes a Mark object, the sentinel `[`/`<<`/mark use to delimit
// a group for `]`/`>>`/`counttomark`/`cleartomark`.
func (s *OperandStack) PushMark() { s.Push(object.Mark()) }

// CountToMark returns the number of operands above the topmost Mark,
// failing with unmatchedmark if none exists.
func (s *OperandStack) CountToMark(op string) (int, *pserror.Error) {
	for i := len(s.data) - 1; i >= 0; i-- {
		if s.data[i].Type == object.TMark {
			return len(s.data) - 1 - i, nil
		}
	}
	return 0, pserror.New(pserror.UnmatchedMark, op, "no mark on operand stack")
}

// PopToMark pops and returns (in stack order, deepest first) everything
// above the topmost Mark, then removes the Mark itself.
func (s *OperandStack) PopToMark(op string) ([]object.Object, *pserror.Error) {
	n, err := s.CountToMark(op)
	if err != nil {
		return nil, err
	}
	out, _ := s.PopN(n, op)
	_, _ = s.Pop(op) // discard the mark
	return out, nil
}

// ClearToMark discards everything down to and including the topmost Mark.
func (s *OperandStack) ClearToMark(op string) *pserror.Error {
	_, err := s.PopToMark(op)
	return err
}

// Roll rotates the top n elements by j positions: positive j rotates
// toward the top ("up"), negative rotates toward the bottom ("down"),
// matching PLRM's `roll` (spec.md §4.7, §8 property 5).
func (s *OperandStack) Roll(n, j int, op string) *pserror.Error {
	if n < 0 {
		return pserror.New(pserror.RangeCheck, op, "roll count must be non-negative")
	}
	if n == 0 {
		return nil
	}
	if len(s.data) < n {
		return pserror.New(pserror.StackUnderflow, op, "operand stack too shallow for roll")
	}
	seg := s.data[len(s.data)-n:]
	shift := ((j % n) + n) % n // normalize to [0,n)
	rotated := make([]object.Object, n)
	for i := 0; i < n; i++ {
		rotated[(i+shift)%n] = seg[i]
	}
	copy(seg, rotated)
	return nil
}

// Items returns a copy of the full stack, bottom to top (for `stack`/
// `pstack`/`==`-style debugging operators).
func (s *OperandStack) Items() []object.Object {
	out := make([]object.Object, len(s.data))
	copy(out, s.data)
	return out
}
