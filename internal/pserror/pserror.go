// Package pserror defines the PostScript named-error taxonomy (PLRM §7) and
// the Error type the interpreter and its operators raise instead of Go panics.
package pserror

// Name is one of PLRM's standard error names, as returned by the PostScript
// $error dictionary's /errorname key.
type Name string

// The full taxonomy from spec.md §7.
const (
	ConfigurationError Name = "configurationerror"
	DictFull            Name = "dictfull"
	DictStackOverflow   Name = "dictstackoverflow"
	DictStackUnderflow  Name = "dictstackunderflow"
	ExecStackOverflow   Name = "execstackoverflow"
	Interrupt           Name = "interrupt"
	InvalidAccess       Name = "invalidaccess"
	InvalidExit         Name = "invalidexit"
	InvalidFileAccess   Name = "invalidfileaccess"
	InvalidFont         Name = "invalidfont"
	InvalidRestore      Name = "invalidrestore"
	IOError             Name = "ioerror"
	LimitCheck          Name = "limitcheck"
	NoCurrentPoint      Name = "nocurrentpoint"
	RangeCheck          Name = "rangecheck"
	StackOverflow       Name = "stackoverflow"
	StackUnderflow      Name = "stackunderflow"
	SyntaxError         Name = "syntaxerror"
	Timeout             Name = "timeout"
	TypeCheck           Name = "typecheck"
	Undefined           Name = "undefined"
	UndefinedFilename   Name = "undefinedfilename"
	UndefinedResource   Name = "undefinedresource"
	UndefinedResult     Name = "undefinedresult"
	UnmatchedMark       Name = "unmatchedmark"
	Unregistered        Name = "unregistered"
	VMError             Name = "VMerror"
)

// Span is the optional source location a token carried when the faulting
// object was scanned. It is deliberately untyped w.r.t. any particular
// lexer/scanner representation so this package has no import on pslex.
type Span struct {
	Line, Column int
	Valid        bool
}

// Error is a PostScript runtime fault. It is the only error type operators,
// the scanner, and the interpreter loop raise; Go-level panics never leak
// across an operator call.
type Error struct {
	ErrorName Name
	Op        string // the operator or operation that raised it, e.g. "add"
	Detail    string // human-readable elaboration, never shown to PostScript code
	At        Span
}

func (e *Error) Error() string {
	if e.Op != "" && e.Detail != "" {
		return string(e.ErrorName) + " in " + e.Op + ": " + e.Detail
	}
	if e.Op != "" {
		return string(e.ErrorName) + " in " + e.Op
	}
	return string(e.ErrorName)
}

// New creates an Error with no source span; the interpreter attaches one
// (via WithSpan) if the faulting object carried a token.
func New(name Name, op, detail string) *Error {
	return &Error{ErrorName: name, Op: op, Detail: detail}
}

// WithSpan returns a copy of e with the given source location attached.
func (e *Error) WithSpan(line, column int) *Error {
	cp := *e
	cp.At = Span{Line: line, Column: column, Valid: true}
	return &cp
}

// Is supports errors.Is against a Named sentinel, so callers can write
// errors.Is(err, pserror.Named(pserror.TypeCheck)); a target with an empty
// name matches any *Error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.ErrorName == "" || t.ErrorName == e.ErrorName
}

// Named constructs a sentinel used only for errors.Is comparisons, e.g.
// errors.Is(err, pserror.Named(pserror.TypeCheck)).
func Named(name Name) *Error {
	return &Error{ErrorName: name}
}
