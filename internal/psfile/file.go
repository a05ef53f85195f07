// Package psfile implements spec.md §4.6's File capability: named
// in-memory files, the ASCII85Decode filter, and the standard-input/output
// file identities (%stdin/%stdout). The teacher has no direct analogue for
// an in-memory virtual filesystem; this package is grounded on spec.md
// §4.6 directly, with buffered-reader technique cross-checked against
// ScriptRock-pdf's read.go.
package psfile

import (
	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
	"github.com/cwbudde/go-postscript/internal/psscan"
)

// accessModes enumerates PLRM's file access modes (spec.md §4.6).
const (
	ModeRead       = "r"
	ModeWrite      = "w"
	ModeAppend     = "a"
	ModeReadWrite  = "r+"
	ModeWriteRead  = "w+"
	ModeAppendRead = "a+"
)

func canRead(mode string) bool {
	switch mode {
	case ModeRead, ModeReadWrite, ModeWriteRead, ModeAppendRead:
		return true
	}
	return false
}

func canWrite(mode string) bool {
	switch mode {
	case ModeWrite, ModeAppend, ModeReadWrite, ModeWriteRead, ModeAppendRead:
		return true
	}
	return false
}

// MemoryFile is a CharStream-backed in-memory file: the byte content of a
// named file or a literal run of source text, with a single read/write
// cursor and a lazily-instantiated Scanner for the `token` operator and the
// interpreter's re-lexing of File objects on the execution stack
// (spec.md §4.5 step 2).
type MemoryFile struct {
	name string
	mode string
	buf  []byte
	pos  int // read cursor; writes always append regardless of pos

	scanner    *psscan.Scanner
	lookup     psscan.LookupFunc
	scannerPos int // buf index the scanner's internal cursor corresponds to
}

// NewMemoryFile creates a read-only file over content (a named file loaded
// from the FileSystem, or the top-level program source for `%stdin`-style
// consumption). lookup resolves `//name` immediate names encountered by
// `token`/re-lexing; it may be nil for files that never contain one.
func NewMemoryFile(name string, content []byte, mode string, lookup psscan.LookupFunc) *MemoryFile {
	return &MemoryFile{name: name, mode: mode, buf: append([]byte(nil), content...), lookup: lookup}
}

// NewWritableMemoryFile creates an empty file open for writing (w/a/w+/a+).
func NewWritableMemoryFile(name, mode string, lookup psscan.LookupFunc) *MemoryFile {
	return &MemoryFile{name: name, mode: mode, lookup: lookup}
}

func (f *MemoryFile) Name() string { return f.name }
func (f *MemoryFile) Mode() string { return f.mode }
func (f *MemoryFile) CanRead() bool  { return canRead(f.mode) }
func (f *MemoryFile) CanWrite() bool { return canWrite(f.mode) }

// Contents exposes the file's current byte buffer, e.g. for the CLI to
// print a %stdout file's captured output after `run` completes
// (spec.md §6 "side-channel log").
func (f *MemoryFile) Contents() []byte { return append([]byte(nil), f.buf...) }

func (f *MemoryFile) IsAtEOF() bool { return f.pos >= len(f.buf) }

func (f *MemoryFile) ReadByte() (byte, bool) {
	if f.pos >= len(f.buf) {
		return 0, false
	}
	b := f.buf[f.pos]
	f.pos++
	return b, true
}

func (f *MemoryFile) PeekByte() (byte, bool) {
	if f.pos >= len(f.buf) {
		return 0, false
	}
	return f.buf[f.pos], true
}

// ReadString fills buf from the file, returning the filled prefix view. It
// reports ok=false when end of file was reached before buf was filled,
// matching PLRM `readstring`'s two-result contract.
func (f *MemoryFile) ReadString(buf *object.PSString) (*object.PSString, bool) {
	n := buf.Length()
	avail := len(f.buf) - f.pos
	if avail <= 0 {
		return buf, false
	}
	if n > avail {
		n = avail
	}
	for i := 0; i < n; i++ {
		_ = buf.Set(i, int64(f.buf[f.pos+i]), "readstring")
	}
	f.pos += n
	if n == buf.Length() {
		return buf, true
	}
	sub, _ := buf.SubString(0, n, "readstring")
	return sub, false
}

// ReadLine fills buf, stopping at CR, LF, or CRLF (the terminator is
// consumed but not stored), per spec.md §4.6.
func (f *MemoryFile) ReadLine(buf *object.PSString) (*object.PSString, bool) {
	if f.pos >= len(f.buf) {
		return buf, false
	}
	start := f.pos
	n := 0
	for f.pos < len(f.buf) && n < buf.Length() {
		b := f.buf[f.pos]
		if b == '\n' {
			f.pos++
			break
		}
		if b == '\r' {
			f.pos++
			if f.pos < len(f.buf) && f.buf[f.pos] == '\n' {
				f.pos++
			}
			break
		}
		_ = buf.Set(n, int64(b), "readline")
		n++
		f.pos++
	}
	_ = start
	sub, _ := buf.SubString(0, n, "readline")
	return sub, true
}

// ReadHexString fills buf from hex digit pairs, skipping non-hex bytes in
// the source (spec.md §4.6).
func (f *MemoryFile) ReadHexString(buf *object.PSString) (*object.PSString, bool) {
	n := 0
	haveHigh := false
	var high byte
	for f.pos < len(f.buf) && n < buf.Length() {
		b := f.buf[f.pos]
		f.pos++
		v, ok := hexDigit(b)
		if !ok {
			continue
		}
		if !haveHigh {
			high = v
			haveHigh = true
			continue
		}
		_ = buf.Set(n, int64(high<<4|v), "readhexstring")
		n++
		haveHigh = false
	}
	if haveHigh {
		_ = buf.Set(n, int64(high<<4), "readhexstring")
		n++
	}
	sub, _ := buf.SubString(0, n, "readhexstring")
	return sub, n > 0
}

func hexDigit(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

// Token scans and returns the next Object from the file's remaining
// content via psscan, advancing the read cursor by exactly what the
// scanner consumed (spec.md §4.5 step 2, §4.6).
func (f *MemoryFile) Token() (object.Object, bool, *pserror.Error) {
	if f.scanner == nil || f.scannerPos != f.pos {
		f.scanner = psscan.New(string(f.buf[f.pos:]), f.lookup)
		f.scannerPos = f.pos
	}
	obj, ok, err := f.scanner.Next()
	consumed := f.scanner.ByteOffset()
	f.pos = f.scannerPos + consumed
	if err != nil {
		return object.Object{}, false, err
	}
	return obj, ok, nil
}

func (f *MemoryFile) WriteByte(b byte) *pserror.Error {
	if !f.CanWrite() {
		return pserror.New(pserror.InvalidFileAccess, "write", "file not open for writing")
	}
	f.buf = append(f.buf, b)
	return nil
}

func (f *MemoryFile) WriteString(p []byte) *pserror.Error {
	if !f.CanWrite() {
		return pserror.New(pserror.InvalidFileAccess, "writestring", "file not open for writing")
	}
	f.buf = append(f.buf, p...)
	return nil
}

func (f *MemoryFile) WriteHexString(p []byte) *pserror.Error {
	if !f.CanWrite() {
		return pserror.New(pserror.InvalidFileAccess, "writehexstring", "file not open for writing")
	}
	const hexDigits = "0123456789abcdef"
	for _, b := range p {
		f.buf = append(f.buf, hexDigits[b>>4], hexDigits[b&0xF])
	}
	return nil
}

var _ object.FileHandle = (*MemoryFile)(nil)
