package object

import "testing"

func TestArraySharedStorage(t *testing.T) {
	a := NewArray(5)
	for i := 0; i < 5; i++ {
		_ = a.Set(i, Integer(int64(i)), "put")
	}
	view, err := a.Slice(1, 3, "getinterval")
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if err := view.Set(0, Integer(99), "put"); err != nil {
		t.Fatalf("Set on view: %v", err)
	}
	got, _ := a.Get(1, "get")
	if got.AsInt64() != 99 {
		t.Fatalf("mutation through view not observed by parent: got %v", got)
	}
}

func TestArrayIndexOutOfRange(t *testing.T) {
	a := NewArray(2)
	if _, err := a.Get(5, "get"); err == nil || err.ErrorName != "rangecheck" {
		t.Fatalf("expected rangecheck, got %v", err)
	}
}

func TestArrayReadOnly(t *testing.T) {
	a := NewArray(1)
	a.SetAccess(ReadOnly)
	if err := a.Set(0, Integer(1), "put"); err == nil || err.ErrorName != "invalidaccess" {
		t.Fatalf("expected invalidaccess, got %v", err)
	}
}

func TestDictCapacity(t *testing.T) {
	d := NewDict(2)
	if err := d.Set(Name("a", Literal), Integer(1), "def"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := d.Set(Name("b", Literal), Integer(2), "def"); err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if err := d.Set(Name("c", Literal), Integer(3), "def"); err == nil || err.ErrorName != "dictfull" {
		t.Fatalf("expected dictfull on 3rd new key, got %v", err)
	}
	// Overwriting an existing key must succeed regardless of capacity.
	if err := d.Set(Name("a", Literal), Integer(100), "def"); err != nil {
		t.Fatalf("overwrite should succeed: %v", err)
	}
}

func TestDictNameStringKeyEquivalence(t *testing.T) {
	d := NewDict(4)
	_ = d.Set(Name("x", Literal), Integer(10), "def")
	v, ok := d.Get(File_testString("x"))
	if !ok || v.AsInt64() != 10 {
		t.Fatalf("String key 'x' should hit the same entry as Name /x, got %v %v", v, ok)
	}
}

func File_testString(s string) Object {
	return Object{Type: TString, Exec: Literal, Acc: Unlimited, Value: NewStringFromBytes([]byte(s))}
}

func TestStringSharedSubview(t *testing.T) {
	s := NewString(5)
	for i, b := range []byte("hello") {
		_ = s.Set(i, int64(b), "put")
	}
	sub, err := s.SubString(0, 5, "getinterval")
	if err != nil {
		t.Fatalf("SubString: %v", err)
	}
	_ = sub.Set(0, int64('H'), "put")
	if got, _ := s.Get(0, "get"); got != 'H' {
		t.Fatalf("mutation via subview not observed: %v", got)
	}
}

func TestStringAnchorSearch(t *testing.T) {
	s := NewStringFromBytes([]byte("hello world"))
	post, match, ok := s.AnchorSearch([]byte("hello"))
	if !ok || match.AsString() != "hello" || post.AsString() != " world" {
		t.Fatalf("AnchorSearch mismatch: ok=%v match=%v post=%v", ok, match, post)
	}
	_, _, ok = s.AnchorSearch([]byte("world"))
	if ok {
		t.Fatalf("AnchorSearch should only match a prefix")
	}
}

func TestStringSearch(t *testing.T) {
	s := NewStringFromBytes([]byte("hello world"))
	pre, match, post, ok := s.Search([]byte("wor"))
	if !ok || pre.AsString() != "hello " || match.AsString() != "wor" || post.AsString() != "ld" {
		t.Fatalf("Search mismatch: pre=%v match=%v post=%v ok=%v", pre, match, post, ok)
	}
}

func TestTypeWideningHelpers(t *testing.T) {
	i := Integer(3)
	r := Real(2.5)
	if i.Number() != 3 || r.Number() != 2.5 {
		t.Fatalf("Number() mismatch")
	}
}
