package stacks

import (
	"testing"

	"github.com/cwbudde/go-postscript/internal/object"
)

func TestRollPositiveAndNegative(t *testing.T) {
	s := NewOperandStack()
	s.Push(object.Integer(1))
	s.Push(object.Integer(2))
	s.Push(object.Integer(3))
	if err := s.Roll(3, 1, "roll"); err != nil {
		t.Fatalf("roll: %v", err)
	}
	items := s.Items()
	want := []int64{3, 1, 2}
	for i, w := range want {
		if items[i].AsInt64() != w {
			t.Fatalf("after roll 3 1: got %v, want %v", items, want)
		}
	}

	s2 := NewOperandStack()
	s2.Push(object.Integer(1))
	s2.Push(object.Integer(2))
	s2.Push(object.Integer(3))
	if err := s2.Roll(3, -1, "roll"); err != nil {
		t.Fatalf("roll: %v", err)
	}
	items2 := s2.Items()
	want2 := []int64{2, 3, 1}
	for i, w := range want2 {
		if items2[i].AsInt64() != w {
			t.Fatalf("after roll 3 -1: got %v, want %v", items2, want2)
		}
	}
}

func TestMarkAndCountToMark(t *testing.T) {
	s := NewOperandStack()
	s.PushMark()
	s.Push(object.Integer(1))
	s.Push(object.Integer(2))
	n, err := s.CountToMark("counttomark")
	if err != nil || n != 2 {
		t.Fatalf("CountToMark = %d, %v, want 2, nil", n, err)
	}
}

func TestUnmatchedMark(t *testing.T) {
	s := NewOperandStack()
	s.Push(object.Integer(1))
	if _, err := s.CountToMark("counttomark"); err == nil || err.ErrorName != "unmatchedmark" {
		t.Fatalf("expected unmatchedmark, got %v", err)
	}
}

func TestStackUnderflowVsTypecheck(t *testing.T) {
	s := NewOperandStack()
	if _, err := s.Pop("pop"); err == nil || err.ErrorName != "stackunderflow" {
		t.Fatalf("expected stackunderflow on empty pop, got %v", err)
	}
	s.Push(object.Boolean(true))
	if _, err := s.PopTyped(object.TInteger, "add"); err == nil || err.ErrorName != "typecheck" {
		t.Fatalf("expected typecheck, got %v", err)
	}
}

func TestDictStackLookupTopmostWins(t *testing.T) {
	sys := object.NewDict(4)
	sys.ForceSet(object.Name("x", object.Literal), object.Integer(1))
	usr := object.NewDict(4)
	ds := NewDictStack(wrap(sys), wrap(usr))

	v, ok := ds.Lookup(object.Name("x", object.Executable))
	if !ok || v.AsInt64() != 1 {
		t.Fatalf("lookup from sysdict failed: %v %v", v, ok)
	}

	usr.ForceSet(object.Name("x", object.Literal), object.Integer(99))
	v, ok = ds.Lookup(object.Name("x", object.Executable))
	if !ok || v.AsInt64() != 99 {
		t.Fatalf("topmost dict should win: %v %v", v, ok)
	}
}

func TestDictStackEndUnderflow(t *testing.T) {
	sys := object.NewDict(1)
	usr := object.NewDict(1)
	ds := NewDictStack(wrap(sys), wrap(usr))
	if err := ds.End("end"); err == nil || err.ErrorName != "dictstackunderflow" {
		t.Fatalf("expected dictstackunderflow, got %v", err)
	}
}

func wrap(d *object.Dict) object.Object {
	return object.Object{Type: object.TDictionary, Exec: object.Literal, Acc: object.Unlimited, Value: d}
}
