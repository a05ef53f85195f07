package exec

import (
	"testing"

	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
	"github.com/cwbudde/go-postscript/internal/stacks"
)

// fakeMachine satisfies Machine for tests without pulling in the interpreter.
type fakeMachine struct {
	ops  *stacks.OperandStack
	exec *stacks.ExecStack
}

func newFakeMachine() *fakeMachine {
	return &fakeMachine{ops: stacks.NewOperandStack(), exec: stacks.NewExecStack()}
}

func (m *fakeMachine) Operands() *stacks.OperandStack { return m.ops }
func (m *fakeMachine) ExecStack() *stacks.ExecStack   { return m.exec }

func procOf(elems ...object.Object) *object.Array {
	return object.NewArrayFrom(elems)
}

func TestProcedureContextSteps(t *testing.T) {
	m := newFakeMachine()
	proc := procOf(object.Integer(1), object.Integer(2))
	c := NewProcedureContext(proc)
	for !c.Finished() {
		if err := c.Step(m); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if m.exec.Len() != 2 {
		t.Fatalf("expected 2 pushed objects, got %d", m.exec.Len())
	}
}

func TestForLoopContextIntegerControlVar(t *testing.T) {
	m := newFakeMachine()
	proc := procOf()
	c := NewForLoopContext(proc, 1, 1, 3, true)
	var seen []int64
	for !c.Finished() {
		if err := c.Step(m); err != nil {
			t.Fatalf("step: %v", err)
		}
		v, _ := m.ops.Pop("for")
		if v.Type != object.TInteger {
			t.Fatalf("expected Integer control var, got %v", v.Type)
		}
		seen = append(seen, v.AsInt64())
		m.exec.Pop() // discard the pushed ProcedureContext frame
	}
	want := []int64{1, 2, 3}
	if len(seen) != len(want) {
		t.Fatalf("got %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("got %v, want %v", seen, want)
		}
	}
}

func TestForLoopContextRealControlVar(t *testing.T) {
	m := newFakeMachine()
	c := NewForLoopContext(procOf(), 0.5, 0.5, 1.5, false)
	if err := c.Step(m); err != nil {
		t.Fatalf("step: %v", err)
	}
	v, _ := m.ops.Pop("for")
	if v.Type != object.TReal {
		t.Fatalf("expected Real control var, got %v", v.Type)
	}
}

func TestForLoopContextDescending(t *testing.T) {
	m := newFakeMachine()
	c := NewForLoopContext(procOf(), 3, -1, 1, true)
	count := 0
	for !c.Finished() {
		if err := c.Step(m); err != nil {
			t.Fatalf("step: %v", err)
		}
		m.ops.Pop("for")
		m.exec.Pop()
		count++
		if count > 10 {
			t.Fatal("loop did not terminate")
		}
	}
	if count != 3 {
		t.Fatalf("expected 3 iterations, got %d", count)
	}
}

func TestRepeatLoopContext(t *testing.T) {
	m := newFakeMachine()
	c := NewRepeatLoopContext(procOf(), 4)
	count := 0
	for !c.Finished() {
		if err := c.Step(m); err != nil {
			t.Fatalf("step: %v", err)
		}
		m.exec.Pop()
		count++
	}
	if count != 4 {
		t.Fatalf("expected 4 iterations, got %d", count)
	}
}

func TestInfiniteLoopContextNeverFinishes(t *testing.T) {
	c := NewInfiniteLoopContext(procOf())
	for i := 0; i < 100; i++ {
		if c.Finished() {
			t.Fatal("infinite loop reported finished")
		}
	}
}

func TestArrayForAllLoopContext(t *testing.T) {
	m := newFakeMachine()
	items := []object.Object{object.Integer(10), object.Integer(20)}
	c := NewArrayForAllLoopContext(procOf(), items)
	var got []int64
	for !c.Finished() {
		if err := c.Step(m); err != nil {
			t.Fatalf("step: %v", err)
		}
		v, _ := m.ops.Pop("forall")
		got = append(got, v.AsInt64())
		m.exec.Pop()
	}
	if len(got) != 2 || got[0] != 10 || got[1] != 20 {
		t.Fatalf("got %v", got)
	}
}

func TestDictionaryForAllLoopContextPushesKeyThenValue(t *testing.T) {
	m := newFakeMachine()
	entries := [][2]object.Object{
		{object.Name("a", object.Literal), object.Integer(1)},
	}
	c := NewDictionaryForAllLoopContext(procOf(), entries)
	if err := c.Step(m); err != nil {
		t.Fatalf("step: %v", err)
	}
	val, _ := m.ops.Pop("forall")
	key, _ := m.ops.Pop("forall")
	if key.AsName() != "a" || val.AsInt64() != 1 {
		t.Fatalf("got key=%v val=%v", key, val)
	}
}

func TestStringForAllLoopContext(t *testing.T) {
	m := newFakeMachine()
	c := NewStringForAllLoopContext(procOf(), []byte("hi"))
	var got []int64
	for !c.Finished() {
		if err := c.Step(m); err != nil {
			t.Fatalf("step: %v", err)
		}
		v, _ := m.ops.Pop("forall")
		got = append(got, v.AsInt64())
		m.exec.Pop()
	}
	if len(got) != 2 || got[0] != 'h' || got[1] != 'i' {
		t.Fatalf("got %v", got)
	}
}

func TestStringKShowLoopContextSkipsProcAfterLastGlyph(t *testing.T) {
	m := newFakeMachine()
	rendered := 0
	c := NewStringKShowLoopContext(procOf(), 3, func(i int) *pserror.Error {
		rendered++
		return nil
	})
	for !c.Finished() {
		if err := c.Step(m); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if rendered != 3 {
		t.Fatalf("expected 3 glyphs rendered, got %d", rendered)
	}
	// proc pushed between glyphs only: 2 times for 3 glyphs.
	if m.exec.Len() != 2 {
		t.Fatalf("expected 2 proc invocations between glyphs, got %d", m.exec.Len())
	}
}

func TestStoppedContextAlwaysFinishedAndExitPushesFalse(t *testing.T) {
	m := newFakeMachine()
	c := NewStoppedContext()
	if !c.Finished() {
		t.Fatal("StoppedContext should always report finished")
	}
	c.Exit(m)
	v, err := m.ops.Pop("stopped")
	if err != nil || v.Type != object.TBoolean || v.AsBool() != false {
		t.Fatalf("expected false pushed, got %v, %v", v, err)
	}
}
