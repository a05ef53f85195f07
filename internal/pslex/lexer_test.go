package pslex

import "testing"

func tokens(src string) []Token {
	l := New(src)
	var out []Token
	for {
		tok := l.Next()
		out = append(out, tok)
		if tok.Kind == EOF {
			return out
		}
	}
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		src  string
		kind Kind
	}{
		{"42", Number},
		{"-17", Number},
		{"+3", Number},
		{"3.14", Number},
		{".5", Number},
		{"5.", Number},
		{"1.5e10", Number},
		{"1.5e-10", Number},
		{"16#FF", Number},
		{"2#1010", Number},
		{"foo", Name},
	}
	for _, c := range cases {
		toks := tokens(c.src)
		if len(toks) != 2 || toks[0].Kind != c.kind {
			t.Errorf("%q: got kind %v, want %v", c.src, toks[0].Kind, c.kind)
		}
	}
}

func TestNamesAndDelimiters(t *testing.T) {
	toks := tokens("/foo //bar baz")
	want := []Kind{LiteralName, ImmediateName, Name, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: kind %v, want %v", i, toks[i].Kind, k)
		}
	}
	if toks[0].Content != "foo" || toks[1].Content != "bar" {
		t.Errorf("unexpected content: %+v %+v", toks[0], toks[1])
	}
}

func TestProcedureAndArrayDelimiters(t *testing.T) {
	toks := tokens("{ [ << >> ] }")
	want := []Kind{ProcOpen, ArrayOpen, DictOpen, DictClose, ArrayClose, ProcClose, EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: kind %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestLiteralStringEscapes(t *testing.T) {
	toks := tokens(`(hello\nworld \(nested\) \101)`)
	if toks[0].Kind != String {
		t.Fatalf("expected String token, got %v", toks[0].Kind)
	}
	want := "hello\nworld (nested) A"
	if toks[0].Content != want {
		t.Errorf("content = %q, want %q", toks[0].Content, want)
	}
}

func TestLiteralStringBalancedParens(t *testing.T) {
	toks := tokens("(a (b) c)")
	if toks[0].Content != "a (b) c" {
		t.Errorf("content = %q", toks[0].Content)
	}
}

func TestUnterminatedStringIsIllegal(t *testing.T) {
	toks := tokens("(abc")
	if toks[0].Kind != Illegal {
		t.Fatalf("expected Illegal, got %v", toks[0].Kind)
	}
}

func TestHexString(t *testing.T) {
	toks := tokens("<68656c6c6f>")
	if toks[0].Kind != String || toks[0].Content != "hello" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestHexStringOddDigitsPadded(t *testing.T) {
	toks := tokens("<1>")
	if toks[0].Kind != String {
		t.Fatalf("expected String, got %v", toks[0].Kind)
	}
	if len(toks[0].Content) != 1 || toks[0].Content[0] != 0x10 {
		t.Fatalf("odd hex digit should pad with trailing 0, got %v", []byte(toks[0].Content))
	}
}

func TestComment(t *testing.T) {
	toks := tokens("% a comment\n42")
	if len(toks) != 3 {
		t.Fatalf("expected Comment, Number, EOF from Next(), got %d tokens", len(toks))
	}
	if toks[0].Kind != Comment || toks[1].Kind != Number {
		t.Fatalf("expected Comment then Number, got %v then %v", toks[0].Kind, toks[1].Kind)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := New("1 2 3")
	first := l.Peek(0)
	second := l.Peek(0)
	if first != second {
		t.Fatalf("Peek(0) should be stable across calls")
	}
	if l.Next().Content != "1" {
		t.Fatalf("Next() should still return the first token")
	}
	if l.Next().Content != "2" {
		t.Fatalf("Next() should return the second token after consuming the first")
	}
}

func TestASCII85Literal(t *testing.T) {
	toks := tokens("<~9jqo^~>")
	if toks[0].Kind != String {
		t.Fatalf("got %+v", toks[0])
	}
	if toks[0].Content != "<~9jqo^~>" {
		t.Errorf("content = %q", toks[0].Content)
	}
}

func TestPositionTracking(t *testing.T) {
	toks := tokens("1\n22 3")
	// "22" starts on line 2, column 1
	tok22 := toks[1]
	if tok22.Span.From.Line != 2 || tok22.Span.From.Column != 1 {
		t.Errorf("pos = %+v, want line 2 col 1", tok22.Span.From)
	}
}
