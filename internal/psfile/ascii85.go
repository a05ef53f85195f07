package psfile

import (
	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
)

// ASCII85Filter wraps another FileHandle, decoding groups of 5 base-85
// digits into 4 bytes as the wrapped file is read (spec.md §4.6): `z`
// expands to four zero bytes, and `~>` terminates the stream early even if
// more bytes follow in the underlying file (PLRM allows a filter file to
// be a prefix of a longer stream). Read-only; writes fail invalidaccess.
type ASCII85Filter struct {
	src     object.FileHandle
	pending []byte // decoded bytes not yet delivered to a read call
	done    bool
}

func NewASCII85Filter(src object.FileHandle) *ASCII85Filter {
	return &ASCII85Filter{src: src}
}

func (f *ASCII85Filter) Name() string   { return "ASCII85Decode(" + f.src.Name() + ")" }
func (f *ASCII85Filter) Mode() string   { return ModeRead }
func (f *ASCII85Filter) CanRead() bool  { return true }
func (f *ASCII85Filter) CanWrite() bool { return false }

// fill decodes ahead until at least n bytes are pending or the stream is
// exhausted/terminated.
func (f *ASCII85Filter) fill(n int) {
	var group [5]byte
	gi := 0
	for len(f.pending) < n && !f.done {
		b, ok := f.src.ReadByte()
		if !ok {
			f.done = true
			break
		}
		switch {
		case b == '~':
			// `~>` terminator; consume the '>' if present and stop.
			if nb, ok := f.src.ReadByte(); ok && nb != '>' {
				// not a real terminator in this position; PLRM streams
				// shouldn't hit this, but don't lose the byte's intent.
				_ = nb
			}
			f.done = true
		case b == 'z' && gi == 0:
			f.pending = append(f.pending, 0, 0, 0, 0)
		case isAscii85Digit(b):
			group[gi] = b
			gi++
			if gi == 5 {
				f.pending = append(f.pending, decodeGroup(group, 5)...)
				gi = 0
			}
		default:
			// whitespace inside the encoded stream is ignored.
		}
	}
	if f.done && gi > 0 {
		f.pending = append(f.pending, decodeGroup(group, gi)...)
		gi = 0
	}
}

func isAscii85Digit(b byte) bool { return b >= '!' && b <= 'u' }

func decodeGroup(group [5]byte, count int) []byte {
	full := group
	for i := count; i < 5; i++ {
		full[i] = 'u'
	}
	var v uint32
	for i := 0; i < 5; i++ {
		v = v*85 + uint32(full[i]-'!')
	}
	b := [4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
	return b[:count-1]
}

func (f *ASCII85Filter) IsAtEOF() bool {
	f.fill(1)
	return len(f.pending) == 0
}

func (f *ASCII85Filter) ReadByte() (byte, bool) {
	f.fill(1)
	if len(f.pending) == 0 {
		return 0, false
	}
	b := f.pending[0]
	f.pending = f.pending[1:]
	return b, true
}

func (f *ASCII85Filter) PeekByte() (byte, bool) {
	f.fill(1)
	if len(f.pending) == 0 {
		return 0, false
	}
	return f.pending[0], true
}

func (f *ASCII85Filter) ReadString(buf *object.PSString) (*object.PSString, bool) {
	n := buf.Length()
	f.fill(n)
	if len(f.pending) == 0 {
		return buf, false
	}
	if n > len(f.pending) {
		n = len(f.pending)
	}
	for i := 0; i < n; i++ {
		_ = buf.Set(i, int64(f.pending[i]), "readstring")
	}
	f.pending = f.pending[n:]
	if n == buf.Length() {
		return buf, true
	}
	sub, _ := buf.SubString(0, n, "readstring")
	return sub, false
}

func (f *ASCII85Filter) ReadLine(buf *object.PSString) (*object.PSString, bool) {
	n := 0
	for n < buf.Length() {
		b, ok := f.ReadByte()
		if !ok {
			break
		}
		if b == '\n' {
			break
		}
		if b == '\r' {
			if nb, ok := f.PeekByte(); ok && nb == '\n' {
				f.ReadByte()
			}
			break
		}
		_ = buf.Set(n, int64(b), "readline")
		n++
	}
	sub, _ := buf.SubString(0, n, "readline")
	return sub, true
}

func (f *ASCII85Filter) ReadHexString(buf *object.PSString) (*object.PSString, bool) {
	n := 0
	haveHigh := false
	var high byte
	for n < buf.Length() {
		b, ok := f.ReadByte()
		if !ok {
			break
		}
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
	sub, _ := buf.SubString(0, n, "readhexstring")
	return sub, n > 0
}

func (f *ASCII85Filter) Token() (object.Object, bool, *pserror.Error) {
	return object.Object{}, false, pserror.New(pserror.InvalidFileAccess, "token", "filter file does not support token")
}

func (f *ASCII85Filter) WriteByte(byte) *pserror.Error {
	return pserror.New(pserror.InvalidAccess, "write", "ASCII85Decode filter is read-only")
}
func (f *ASCII85Filter) WriteString([]byte) *pserror.Error {
	return pserror.New(pserror.InvalidAccess, "writestring", "ASCII85Decode filter is read-only")
}
func (f *ASCII85Filter) WriteHexString([]byte) *pserror.Error {
	return pserror.New(pserror.InvalidAccess, "writehexstring", "ASCII85Decode filter is read-only")
}

var _ object.FileHandle = (*ASCII85Filter)(nil)
