package charstream

import "testing"

func TestPeekAndAdvance(t *testing.T) {
	s := NewFromString("abc")

	b, ok := s.Peek(0)
	if !ok || b != 'a' {
		t.Fatalf("Peek(0) = %q, %v, want 'a', true", b, ok)
	}
	if b, ok := s.Peek(2); !ok || b != 'c' {
		t.Fatalf("Peek(2) = %q, %v, want 'c', true", b, ok)
	}
	if _, ok := s.Peek(3); ok {
		t.Fatalf("Peek(3) should be out of range")
	}

	s.Advance(1)
	if b, _ := s.Current(); b != 'b' {
		t.Fatalf("Current() = %q, want 'b'", b)
	}
}

func TestNextConsumesUntilEnd(t *testing.T) {
	s := NewFromString("xy")

	b, ok := s.Next()
	if !ok || b != 'x' {
		t.Fatalf("first Next() = %q, %v", b, ok)
	}
	b, ok = s.Next()
	if !ok || b != 'y' {
		t.Fatalf("second Next() = %q, %v", b, ok)
	}
	if _, ok := s.Next(); ok {
		t.Fatalf("Next() at end should report ok=false")
	}
	if !s.AtEnd() {
		t.Fatalf("expected AtEnd() after consuming all input")
	}
}

func TestCollectWhileAndUntil(t *testing.T) {
	s := NewFromString("123 abc")

	digits := s.CollectWhile(func(b byte) bool { return b >= '0' && b <= '9' })
	if string(digits) != "123" {
		t.Fatalf("CollectWhile digits = %q", digits)
	}

	rest := s.CollectUntil(func(b byte) bool { return b == 'a' })
	if rest[0] != ' ' {
		t.Fatalf("CollectUntil should stop right before 'a', got %q", rest)
	}

	b, _ := s.Current()
	if b != 'a' {
		t.Fatalf("cursor should sit on 'a', got %q", b)
	}
}

func TestAdvanceNeverRetreats(t *testing.T) {
	s := NewFromString("abc")
	s.Advance(2)
	if s.Pos() != 2 {
		t.Fatalf("Pos() = %d, want 2", s.Pos())
	}
	s.Advance(-5)
	if s.Pos() != 2 {
		t.Fatalf("negative Advance should be a no-op, got Pos()=%d", s.Pos())
	}
}

func TestSlice(t *testing.T) {
	s := NewFromString("hello world")
	if got := string(s.Slice(6, 11)); got != "world" {
		t.Fatalf("Slice(6,11) = %q", got)
	}
	if got := s.Slice(5, 5); got != nil {
		t.Fatalf("empty slice should be nil, got %q", got)
	}
}
