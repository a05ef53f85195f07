// Package charstream implements the position-tracked byte stream the lexer
// scans from (spec.md §4.1). PostScript source is treated as a byte stream
// rather than decoded UTF-8: strings and names are 8-bit clean per PLRM, and
// the lexer's delimiter/whitespace tables are defined over byte values.
package charstream

// Stream is an append-only, position-tracked cursor over a byte slice.
// Position never retreats: once advanced past a byte, the Stream cannot be
// rewound. Callers that need lookahead use Peek before Advance.
type Stream struct {
	data []byte
	pos  int
}

// New creates a Stream over src. The Stream does not copy src; callers must
// not mutate it while the Stream is in use.
func New(src []byte) *Stream {
	return &Stream{data: src}
}

// NewFromString is a convenience constructor for string sources.
func NewFromString(src string) *Stream {
	return &Stream{data: []byte(src)}
}

// Pos returns the current byte offset.
func (s *Stream) Pos() int { return s.pos }

// Len returns the total length of the underlying source.
func (s *Stream) Len() int { return len(s.data) }

// AtEnd reports whether the cursor has consumed the entire source.
func (s *Stream) AtEnd() bool { return s.pos >= len(s.data) }

// Peek returns the byte `offset` positions ahead of the cursor (offset=0 is
// the next unread byte), and ok=false if that position is past the end.
func (s *Stream) Peek(offset int) (b byte, ok bool) {
	i := s.pos + offset
	if i < 0 || i >= len(s.data) {
		return 0, false
	}
	return s.data[i], true
}

// Current is equivalent to Peek(0).
func (s *Stream) Current() (byte, bool) { return s.Peek(0) }

// Advance moves the cursor forward by n bytes, clamped to the end of the
// source. It never moves backward.
func (s *Stream) Advance(n int) {
	if n < 0 {
		return
	}
	s.pos += n
	if s.pos > len(s.data) {
		s.pos = len(s.data)
	}
}

// Next consumes and returns the next byte, or ok=false at end of stream.
func (s *Stream) Next() (b byte, ok bool) {
	b, ok = s.Current()
	if ok {
		s.Advance(1)
	}
	return b, ok
}

// Predicate classifies a single byte during CollectWhile/CollectUntil.
type Predicate func(b byte) bool

// CollectWhile advances the cursor while pred matches the current byte,
// returning the consumed slice (a view into the source, not a copy).
func (s *Stream) CollectWhile(pred Predicate) []byte {
	start := s.pos
	for {
		b, ok := s.Current()
		if !ok || !pred(b) {
			break
		}
		s.Advance(1)
	}
	return s.data[start:s.pos]
}

// CollectUntil advances the cursor until pred matches the current byte (or
// end of stream), returning the consumed slice. The matching byte itself is
// left unconsumed.
func (s *Stream) CollectUntil(pred Predicate) []byte {
	return s.CollectWhile(func(b byte) bool { return !pred(b) })
}

// Slice returns a read-only view of the source between two byte offsets.
func (s *Stream) Slice(from, to int) []byte {
	if from < 0 {
		from = 0
	}
	if to > len(s.data) {
		to = len(s.data)
	}
	if from >= to {
		return nil
	}
	return s.data[from:to]
}
