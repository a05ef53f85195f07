package psfile

import (
	"io"

	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
)

// StdoutFile implements the `%stdout` file identity (spec.md §4.6, §6):
// write-only, forwarding every write to an injected io.Writer (the
// teacher's embeddable-engine convention of taking an io.Writer for
// program output, generalized to PostScript's notion of a named file
// rather than a bare output stream) while also retaining a copy so the
// host can inspect buffered content after `run` completes.
type StdoutFile struct {
	w       io.Writer
	history []byte
}

func NewStdoutFile(w io.Writer) *StdoutFile { return &StdoutFile{w: w} }

func (f *StdoutFile) Name() string   { return "%stdout" }
func (f *StdoutFile) Mode() string   { return ModeWrite }
func (f *StdoutFile) CanRead() bool  { return false }
func (f *StdoutFile) CanWrite() bool { return true }

func (f *StdoutFile) IsAtEOF() bool              { return true }
func (f *StdoutFile) ReadByte() (byte, bool)      { return 0, false }
func (f *StdoutFile) PeekByte() (byte, bool)      { return 0, false }
func (f *StdoutFile) ReadString(buf *object.PSString) (*object.PSString, bool) {
	return buf, false
}
func (f *StdoutFile) ReadLine(buf *object.PSString) (*object.PSString, bool) {
	return buf, false
}
func (f *StdoutFile) ReadHexString(buf *object.PSString) (*object.PSString, bool) {
	return buf, false
}
func (f *StdoutFile) Token() (object.Object, bool, *pserror.Error) {
	return object.Object{}, false, pserror.New(pserror.InvalidFileAccess, "token", "%stdout is write-only")
}

func (f *StdoutFile) WriteByte(b byte) *pserror.Error {
	f.history = append(f.history, b)
	_, err := f.w.Write([]byte{b})
	if err != nil {
		return pserror.New(pserror.IOError, "write", err.Error())
	}
	return nil
}

func (f *StdoutFile) WriteString(p []byte) *pserror.Error {
	f.history = append(f.history, p...)
	if _, err := f.w.Write(p); err != nil {
		return pserror.New(pserror.IOError, "writestring", err.Error())
	}
	return nil
}

func (f *StdoutFile) WriteHexString(p []byte) *pserror.Error {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, 0, len(p)*2)
	for _, b := range p {
		out = append(out, hexDigits[b>>4], hexDigits[b&0xF])
	}
	return f.WriteString(out)
}

// History returns everything ever written to this file, for the CLI/host
// to display after the interpreter loop finishes (spec.md §6).
func (f *StdoutFile) History() []byte { return append([]byte(nil), f.history...) }

// StdinFile implements `%stdin`: read-only over pre-supplied bytes (the
// host decides what %stdin contains; there is no live terminal read in
// this core, matching spec.md's Non-goal on networked/live I/O).
type StdinFile struct {
	*MemoryFile
}

func NewStdinFile(content []byte) *StdinFile {
	return &StdinFile{MemoryFile: NewMemoryFile("%stdin", content, ModeRead, nil)}
}

var (
	_ object.FileHandle = (*StdoutFile)(nil)
	_ object.FileHandle = (*StdinFile)(nil)
)
