package object

import "github.com/cwbudde/go-postscript/internal/pserror"

// FileHandle is the capability interface a File Object's Value holds
// (spec.md §4.6). It is declared here, not in the psfile package that
// implements it, so the Object model has no import on file/filter
// implementations — the usual dependency-inversion a reference-object
// payload needs.
type FileHandle interface {
	Name() string
	Mode() string

	IsAtEOF() bool
	ReadByte() (b byte, ok bool)
	PeekByte() (b byte, ok bool)

	// ReadString fills buf from the file and returns the filled prefix view
	// plus ok=false when end of file was reached before buf was filled.
	ReadString(buf *PSString) (*PSString, bool)
	// ReadLine fills buf, stopping at CR/LF/CRLF (consumed, not stored).
	ReadLine(buf *PSString) (*PSString, bool)
	// ReadHexString fills buf from hex digits, skipping non-hex bytes.
	ReadHexString(buf *PSString) (*PSString, bool)

	// Token scans and returns the next Object from the file's remaining
	// content, as the `token` operator and the interpreter's re-lexing of
	// File objects on the execution stack both need (spec.md §4.5 step 2).
	Token() (Object, bool, *pserror.Error)

	WriteByte(b byte) *pserror.Error
	WriteString(p []byte) *pserror.Error
	WriteHexString(p []byte) *pserror.Error

	CanRead() bool
	CanWrite() bool
}

func File(h FileHandle) Object {
	return Object{Type: TFile, Exec: Literal, Acc: Unlimited, Value: h}
}

func (o Object) AsFile() (FileHandle, bool) {
	h, ok := o.Value.(FileHandle)
	return h, ok
}

// GState holds an opaque graphics-state snapshot for the (rarely used)
// PLRM gstate object type; the graphics backend decides what, if anything,
// to capture in it.
type GStateSnapshot struct {
	Backend any
}

func GState(s *GStateSnapshot) Object {
	return Object{Type: TGState, Exec: Literal, Acc: Unlimited, Value: s}
}
