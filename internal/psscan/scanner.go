// Package psscan lifts the Lexer's token stream into typed Objects
// (spec.md §4.2): numbers and strings become literal Objects, `{...}` folds
// into an executable Array (a procedure literal), and `//name` performs a
// dictionary-stack lookup at scan time. The Scanner never executes
// anything; folding the resulting Object stream into motion is the
// Interpreter's job (§4.5).
package psscan

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
	"github.com/cwbudde/go-postscript/internal/pslex"
)

// LookupFunc resolves a name against the current dictionary stack, for
// ImmediateName (`//name`) objects, which PLRM defines to look up *at scan
// time* rather than at execution time (spec.md §4.2).
type LookupFunc func(name string) (object.Object, bool)

// Scanner wraps a Lexer and folds its tokens into Objects.
type Scanner struct {
	lex    *pslex.Lexer
	lookup LookupFunc
}

// New creates a Scanner over src. lookup may be nil if the source is never
// expected to contain an ImmediateName (e.g. scanning a procedure body
// whose `//name` forms, if any, are resolved against the caller's own
// dictionary stack at the time the body text was produced).
func New(src string, lookup LookupFunc) *Scanner {
	return &Scanner{lex: pslex.New(src), lookup: lookup}
}

// ByteOffset reports how many bytes of the source the scanner's lexer has
// consumed so far — used by psfile.MemoryFile.Token to advance its own
// read cursor by exactly the amount a single Next() call consumed.
func (s *Scanner) ByteOffset() int { return s.lex.ByteOffset() }

// Next scans and returns the next Object, folding nested `{...}` bodies
// recursively. ok is false at end of input; err is non-nil on a malformed
// token (unterminated string, bad hex, etc.) per spec.md §4.1's syntaxerror.
func (s *Scanner) Next() (obj object.Object, ok bool, err *pserror.Error) {
	tok := s.lex.Next()
	return s.fold(tok)
}

func (s *Scanner) fold(tok pslex.Token) (object.Object, bool, *pserror.Error) {
	switch tok.Kind {
	case pslex.EOF:
		return object.Object{}, false, nil

	case pslex.Illegal:
		return object.Object{}, false, pslex.ErrFor(tok, "scan")

	case pslex.Comment:
		// Comments carry no runtime Object; skip to the next real token.
		return s.Next()

	case pslex.Number:
		return s.foldNumber(tok), true, nil

	case pslex.Name:
		o := object.Name(tok.Content, object.Executable)
		o.Line, o.Col = tok.Span.From.Line, tok.Span.From.Column
		return o, true, nil

	case pslex.LiteralName:
		o := object.Name(tok.Content, object.Literal)
		o.Line, o.Col = tok.Span.From.Line, tok.Span.From.Column
		return o, true, nil

	case pslex.ImmediateName:
		if s.lookup == nil {
			return object.Object{}, false, pserror.New(pserror.Undefined, "scan", tok.Content).
				WithSpan(tok.Span.From.Line, tok.Span.From.Column)
		}
		v, found := s.lookup(tok.Content)
		if !found {
			return object.Object{}, false, pserror.New(pserror.Undefined, "scan", tok.Content).
				WithSpan(tok.Span.From.Line, tok.Span.From.Column)
		}
		return v, true, nil

	case pslex.String:
		str := decodeStringToken(tok.Content)
		o := object.Object{Type: object.TString, Exec: object.Literal, Acc: object.Unlimited, Value: str}
		o.Line, o.Col = tok.Span.From.Line, tok.Span.From.Column
		return o, true, nil

	case pslex.ProcOpen:
		return s.foldProcedure(tok)

	case pslex.ArrayOpen:
		o := object.Name("[", object.Executable)
		o.Line, o.Col = tok.Span.From.Line, tok.Span.From.Column
		return o, true, nil
	case pslex.ArrayClose:
		o := object.Name("]", object.Executable)
		o.Line, o.Col = tok.Span.From.Line, tok.Span.From.Column
		return o, true, nil
	case pslex.DictOpen:
		o := object.Name("<<", object.Executable)
		o.Line, o.Col = tok.Span.From.Line, tok.Span.From.Column
		return o, true, nil
	case pslex.DictClose:
		o := object.Name(">>", object.Executable)
		o.Line, o.Col = tok.Span.From.Line, tok.Span.From.Column
		return o, true, nil

	case pslex.ProcClose:
		// A stray `}` with no matching `{` — the caller that started the
		// procedure fold consumes ProcClose itself; seeing one here means
		// it's unbalanced.
		return object.Object{}, false, pserror.New(pserror.SyntaxError, "scan", "unmatched }").
			WithSpan(tok.Span.From.Line, tok.Span.From.Column)

	default:
		return object.Object{}, false, pserror.New(pserror.SyntaxError, "scan", "unrecognized token").
			WithSpan(tok.Span.From.Line, tok.Span.From.Column)
	}
}

// foldProcedure recursively scans Objects until the matching ProcClose,
// producing an executable Array (spec.md §4.2: "a procedure literal").
func (s *Scanner) foldProcedure(open pslex.Token) (object.Object, bool, *pserror.Error) {
	var elems []object.Object
	for {
		tok := s.lex.Next()
		if tok.Kind == pslex.EOF {
			return object.Object{}, false, pserror.New(pserror.SyntaxError, "scan", "unterminated procedure").
				WithSpan(open.Span.From.Line, open.Span.From.Column)
		}
		if tok.Kind == pslex.ProcClose {
			break
		}
		if tok.Kind == pslex.ProcOpen {
			el, ok, err := s.foldProcedure(tok)
			if err != nil {
				return object.Object{}, false, err
			}
			if ok {
				elems = append(elems, el)
			}
			continue
		}
		el, ok, err := s.fold(tok)
		if err != nil {
			return object.Object{}, false, err
		}
		if ok {
			elems = append(elems, el)
		}
	}
	arr := object.NewArrayFrom(elems)
	o := object.Object{Type: object.TArray, Exec: object.Executable, Acc: object.Unlimited, Value: arr}
	o.Line, o.Col = open.Span.From.Line, open.Span.From.Column
	return o, true, nil
}

// foldNumber parses a Number token per spec.md §4.1/§4.2: a bare radix
// form (`base#digits`) always yields an Integer; otherwise an integral
// literal yields Integer and anything with a fraction/exponent yields Real.
func (s *Scanner) foldNumber(tok pslex.Token) object.Object {
	content := tok.Content
	var result object.Object
	if hashIdx := strings.IndexByte(content, '#'); hashIdx >= 0 {
		base, err1 := strconv.ParseInt(content[:hashIdx], 10, 64)
		n, err2 := strconv.ParseInt(content[hashIdx+1:], int(base), 64)
		if err1 != nil || err2 != nil {
			result = object.Integer(0)
		} else {
			result = object.Integer(n)
		}
	} else if looksIntegral(content) {
		n, err := strconv.ParseInt(content, 10, 64)
		if err != nil {
			// Overflows int64 range or otherwise malformed: PLRM would
			// treat an out-of-range integer literal as a Real.
			f, _ := strconv.ParseFloat(content, 64)
			result = object.Real(f)
		} else {
			result = object.Integer(n)
		}
	} else {
		f, _ := strconv.ParseFloat(content, 64)
		result = object.Real(f)
	}
	result.Line, result.Col = tok.Span.From.Line, tok.Span.From.Column
	return result
}

func looksIntegral(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if i >= len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// decodeStringToken converts a String token's Content into raw bytes. Plain
// `(...)` and `<...>` tokens already carry decoded bytes as the token's
// Content (the Lexer decoded escapes/hex); an ASCII85 `<~...~>` token
// carries its raw delimited spelling and is decoded here via psfile's
// filter logic, duplicated minimally to avoid a scan<->file import cycle.
func decodeStringToken(content string) *object.PSString {
	if strings.HasPrefix(content, "<~") && strings.HasSuffix(content, "~>") {
		payload := content[2 : len(content)-2]
		decoded := decodeASCII85(payload)
		return object.NewStringFromBytes(decoded)
	}
	return object.NewStringFromBytes([]byte(content))
}
