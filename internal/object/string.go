package object

import "github.com/cwbudde/go-postscript/internal/pserror"

// stringStore is the shared backing byte buffer for one or more PSString
// views, mirroring arrayStore (spec.md §4.3: "subString returns a shared
// view").
type stringStore struct {
	bytes []byte
}

// PSString is a fixed-length, mutable byte buffer view. Named PSString (not
// String) to avoid colliding with Go's builtin string type at call sites.
type PSString struct {
	store *stringStore
	off   int
	len   int
	acc   Access
}

// NewString allocates a zero-initialized string of length n.
func NewString(n int) *PSString {
	return &PSString{store: &stringStore{bytes: make([]byte, n)}, len: n}
}

// NewStringFromBytes wraps a copy of b as a fresh, fully-owned string.
func NewStringFromBytes(b []byte) *PSString {
	cp := make([]byte, len(b))
	copy(cp, b)
	return &PSString{store: &stringStore{bytes: cp}, len: len(cp)}
}

func (s *PSString) Length() int    { return s.len }
func (s *PSString) Access() Access { return s.acc }
func (s *PSString) SetAccess(acc Access) { s.acc = acc }

// Bytes returns the raw byte content of this view (a copy, so callers can't
// bypass access control by mutating the result).
func (s *PSString) Bytes() []byte {
	out := make([]byte, s.len)
	copy(out, s.store.bytes[s.off:s.off+s.len])
	return out
}

func (s *PSString) Get(i int, op string) (byte, *pserror.Error) {
	if i < 0 || i >= s.len {
		return 0, pserror.New(pserror.RangeCheck, op, "string index out of range")
	}
	return s.store.bytes[s.off+i], nil
}

// Set validates 0<=value<=255 and 0<=i<length per spec.md §4.3.
func (s *PSString) Set(i int, value int64, op string) *pserror.Error {
	if s.acc == ReadOnly || s.acc == NoAccess {
		return pserror.New(pserror.InvalidAccess, op, "string is read-only")
	}
	if i < 0 || i >= s.len {
		return pserror.New(pserror.RangeCheck, op, "string index out of range")
	}
	if value < 0 || value > 255 {
		return pserror.New(pserror.RangeCheck, op, "string element out of byte range")
	}
	s.store.bytes[s.off+i] = byte(value)
	return nil
}

// SubString returns a shared view over [from,from+count).
func (s *PSString) SubString(from, count int, op string) (*PSString, *pserror.Error) {
	if from < 0 || count < 0 || from+count > s.len {
		return nil, pserror.New(pserror.RangeCheck, op, "getinterval out of range")
	}
	return &PSString{store: s.store, off: s.off + from, len: count, acc: s.acc}, nil
}

// PutInterval overwrites [at,at+len(src)) in place. Bounds check resolved
// per spec.md §9: target.length >= source.length + index is the natural
// (correct) PLRM check; the distilled source's reversed check was a bug.
func (s *PSString) PutInterval(at int, src []byte, op string) *pserror.Error {
	if s.acc == ReadOnly || s.acc == NoAccess {
		return pserror.New(pserror.InvalidAccess, op, "string is read-only")
	}
	if at < 0 || s.len < len(src)+at {
		return pserror.New(pserror.RangeCheck, op, "putinterval out of range")
	}
	copy(s.store.bytes[s.off+at:], src)
	return nil
}

// Copy duplicates src's bytes into the first src.Length() slots of s.
func (s *PSString) Copy(src *PSString, op string) (*PSString, *pserror.Error) {
	if s.acc == ReadOnly || s.acc == NoAccess {
		return nil, pserror.New(pserror.InvalidAccess, op, "string is read-only")
	}
	if s.len < src.len {
		return nil, pserror.New(pserror.RangeCheck, op, "copy destination too small")
	}
	copy(s.store.bytes[s.off:s.off+src.len], src.store.bytes[src.off:src.off+src.len])
	return &PSString{store: s.store, off: s.off, len: src.len, acc: s.acc}, nil
}

// AnchorSearch implements PLRM's anchorsearch: succeeds only if seek is a
// prefix of s. On success returns (post, match, true) where match is the
// matched prefix view and post is the remainder; on failure returns
// (s, nil, false).
func (s *PSString) AnchorSearch(seek []byte) (post, match *PSString, ok bool) {
	if len(seek) > s.len {
		return s, nil, false
	}
	for i, b := range seek {
		if s.store.bytes[s.off+i] != b {
			return s, nil, false
		}
	}
	match = &PSString{store: s.store, off: s.off, len: len(seek), acc: s.acc}
	post = &PSString{store: s.store, off: s.off + len(seek), len: s.len - len(seek), acc: s.acc}
	return post, match, true
}

// Search implements PLRM's search: finds the first occurrence of seek
// anywhere in s. On success returns (pre, match, post, true); on failure
// returns (s, nil, nil, false).
func (s *PSString) Search(seek []byte) (pre, match, post *PSString, ok bool) {
	if len(seek) == 0 {
		return nil, nil, nil, false
	}
	content := s.store.bytes[s.off : s.off+s.len]
	for start := 0; start+len(seek) <= len(content); start++ {
		if bytesEqual(content[start:start+len(seek)], seek) {
			pre = &PSString{store: s.store, off: s.off, len: start, acc: s.acc}
			match = &PSString{store: s.store, off: s.off + start, len: len(seek), acc: s.acc}
			post = &PSString{store: s.store, off: s.off + start + len(seek), len: s.len - start - len(seek), acc: s.acc}
			return pre, match, post, true
		}
	}
	return s, nil, nil, false
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// AsString returns the string's bytes unchanged as a Go string (spec.md
// §4.3's asString()); bytes above 0x7F are not converted to Latin-1 runes.
func (s *PSString) AsString() string { return string(s.Bytes()) }
