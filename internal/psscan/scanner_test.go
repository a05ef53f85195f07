package psscan

import (
	"testing"

	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
)

func scanOne(t *testing.T, src string, lookup LookupFunc) object.Object {
	t.Helper()
	s := New(src, lookup)
	obj, ok, err := s.Next()
	if err != nil {
		t.Fatalf("Next(%q): %v", src, err)
	}
	if !ok {
		t.Fatalf("Next(%q): no object produced", src)
	}
	return obj
}

func TestScanNumberKinds(t *testing.T) {
	cases := []struct {
		src      string
		wantType object.Type
	}{
		{"42", object.TInteger},
		{"-17", object.TInteger},
		{"3.14", object.TReal},
		{"8#17", object.TInteger}, // radix form is always Integer
		{"1.0e3", object.TReal},
	}
	for _, c := range cases {
		obj := scanOne(t, c.src, nil)
		if obj.Type != c.wantType {
			t.Errorf("scan(%q).Type = %v, want %v", c.src, obj.Type, c.wantType)
		}
	}
}

func TestScanLiteralAndExecutableName(t *testing.T) {
	lit := scanOne(t, "/foo", nil)
	if lit.Type != object.TName || lit.Exec != object.Literal {
		t.Fatalf("/foo scanned as %v/%v, want TName/Literal", lit.Type, lit.Exec)
	}

	exec := scanOne(t, "foo", nil)
	if exec.Type != object.TName || exec.Exec != object.Executable {
		t.Fatalf("foo scanned as %v/%v, want TName/Executable", exec.Type, exec.Exec)
	}
}

func TestScanImmediateNameResolvesAtScanTime(t *testing.T) {
	lookup := func(name string) (object.Object, bool) {
		if name == "bound" {
			return object.Integer(99), true
		}
		return object.Object{}, false
	}
	obj := scanOne(t, "//bound", lookup)
	if obj.Type != object.TInteger || obj.AsInt64() != 99 {
		t.Fatalf("//bound resolved to %+v, want Integer(99)", obj)
	}
}

func TestScanImmediateNameUndefinedWithoutLookup(t *testing.T) {
	s := New("//bound", nil)
	_, _, err := s.Next()
	if err == nil || err.ErrorName != pserror.Undefined {
		t.Fatalf("expected undefined error scanning //bound with no lookup, got %v", err)
	}
}

func TestScanProcedureFoldsToExecutableArray(t *testing.T) {
	obj := scanOne(t, "{ 1 2 add }", nil)
	if !obj.IsProcedure() {
		t.Fatalf("{ 1 2 add } did not fold to a procedure: %+v", obj)
	}
	arr := obj.Value.(*object.Array)
	if arr.Length() != 3 {
		t.Fatalf("procedure body length = %d, want 3", arr.Length())
	}
}

func TestScanNestedProcedure(t *testing.T) {
	obj := scanOne(t, "{ { 1 } }", nil)
	arr := obj.Value.(*object.Array)
	if arr.Length() != 1 {
		t.Fatalf("outer procedure length = %d, want 1", arr.Length())
	}
	inner, err := arr.Get(0, "get")
	if err != nil {
		t.Fatalf("Get(0): %v", err)
	}
	if !inner.IsProcedure() {
		t.Fatalf("inner element is not a procedure: %+v", inner)
	}
}

func TestScanUnterminatedProcedureIsSyntaxError(t *testing.T) {
	s := New("{ 1 2", nil)
	_, _, err := s.Next()
	if err == nil || err.ErrorName != pserror.SyntaxError {
		t.Fatalf("expected syntaxerror for unterminated procedure, got %v", err)
	}
}

func TestScanStringLiteral(t *testing.T) {
	obj := scanOne(t, "(hello)", nil)
	if obj.Type != object.TString {
		t.Fatalf("(hello) scanned as %v, want TString", obj.Type)
	}
	str := obj.Value.(*object.PSString)
	if str.AsString() != "hello" {
		t.Fatalf("decoded string = %q, want %q", str.AsString(), "hello")
	}
}

func TestScanSkipsComments(t *testing.T) {
	obj := scanOne(t, "% a comment\n42", nil)
	if obj.Type != object.TInteger || obj.AsInt64() != 42 {
		t.Fatalf("expected Integer(42) after skipping comment, got %+v", obj)
	}
}

func TestScanEOFReturnsNotOK(t *testing.T) {
	s := New("", nil)
	_, ok, err := s.Next()
	if err != nil {
		t.Fatalf("Next on empty source: %v", err)
	}
	if ok {
		t.Fatalf("Next on empty source reported ok=true")
	}
}
