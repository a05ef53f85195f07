// Package sfnt parses the sfnt (TrueType/OpenType) container embedded in a
// PostScript font dictionary's `/sfnts` entry (spec.md §4.8): the table
// directory, `head`/`maxp`/`loca`/`glyf`/`hhea`/`hmtx` tables, and simple
// and composite glyph outlines. Written independently per spec.md's
// CORE-component requirement; golang-image's font/sfnt.go (retrieved under
// other_examples/) was read as a table-layout technique reference only —
// its big-endian accessor and F2Dot14 handling informed this package's
// shape, but no code from it is imported or copied.
package sfnt

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/image/math/fixed"
)

// ErrKind distinguishes the sfnt-specific faults spec.md §4.8 calls out;
// the interp package maps these to the PLRM invalidfont error.
type ErrKind int

const (
	ErrBadMagic ErrKind = iota
	ErrUnsupportedVersion
	ErrMissingTable
	ErrMalformed
)

// Error is an sfnt parsing fault.
type Error struct {
	Kind ErrKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newErr(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// requiredSfntVersion is the only sfntVersion this parser accepts
// (TrueType outlines), per spec.md §4.8's closing paragraph.
const requiredSfntVersion = 0x00010000

// requiredHeadMagic is the `head` table's magic number check.
const requiredHeadMagic = 0x5F0F3CF5

// Font is a parsed sfnt font: enough of head/maxp/loca/glyf/hhea/hmtx to
// resolve glyph outlines and advance widths.
type Font struct {
	UnitsPerEm      uint16
	IndexToLocFmt   int16
	NumGlyphs       uint16
	NumberOfHMetric uint16

	loca []uint32 // numGlyphs+1 offsets into glyf, in bytes
	glyf []byte
	hmtx []byte

	cache map[uint16]*Glyph // memoizes resolved (including composite) glyphs
}

type tableRecord struct {
	tag            string
	offset, length uint32
}

// Parse reads an sfnt container from data (the concatenated bytes of a
// PostScript font dictionary's `/sfnts` array, per spec.md §4.8).
func Parse(data []byte) (*Font, error) {
	if len(data) < 12 {
		return nil, newErr(ErrMalformed, "sfnt data too short for table directory")
	}
	version := binary.BigEndian.Uint32(data[0:4])
	if version != requiredSfntVersion {
		return nil, newErr(ErrUnsupportedVersion, "unsupported sfntVersion %#x", version)
	}
	numTables := binary.BigEndian.Uint16(data[4:6])

	tables := make(map[string]tableRecord, numTables)
	const recordSize = 16
	base := 12
	for i := 0; i < int(numTables); i++ {
		off := base + i*recordSize
		if off+recordSize > len(data) {
			return nil, newErr(ErrMalformed, "truncated table directory")
		}
		tag := string(data[off : off+4])
		tables[tag] = tableRecord{
			tag:    tag,
			offset: binary.BigEndian.Uint32(data[off+8 : off+12]),
			length: binary.BigEndian.Uint32(data[off+12 : off+16]),
		}
	}

	head, ok := tables["head"]
	if !ok {
		return nil, newErr(ErrMissingTable, "missing required table: head")
	}
	maxp, ok := tables["maxp"]
	if !ok {
		return nil, newErr(ErrMissingTable, "missing required table: maxp")
	}
	loca, ok := tables["loca"]
	if !ok {
		return nil, newErr(ErrMissingTable, "missing required table: loca")
	}
	glyf, ok := tables["glyf"]
	if !ok {
		return nil, newErr(ErrMissingTable, "missing required table: glyf")
	}
	hhea, ok := tables["hhea"]
	if !ok {
		return nil, newErr(ErrMissingTable, "missing required table: hhea")
	}
	hmtx, ok := tables["hmtx"]
	if !ok {
		return nil, newErr(ErrMissingTable, "missing required table: hmtx")
	}

	f := &Font{cache: make(map[uint16]*Glyph)}

	headBytes, err := slice(data, head)
	if err != nil {
		return nil, err
	}
	if len(headBytes) < 54 {
		return nil, newErr(ErrMalformed, "head table too short")
	}
	magic := binary.BigEndian.Uint32(headBytes[12:16])
	if magic != requiredHeadMagic {
		return nil, newErr(ErrBadMagic, "head magicNumber mismatch: %#x", magic)
	}
	f.UnitsPerEm = binary.BigEndian.Uint16(headBytes[18:20])
	f.IndexToLocFmt = int16(binary.BigEndian.Uint16(headBytes[50:52]))

	maxpBytes, err := slice(data, maxp)
	if err != nil {
		return nil, err
	}
	if len(maxpBytes) < 6 {
		return nil, newErr(ErrMalformed, "maxp table too short")
	}
	f.NumGlyphs = binary.BigEndian.Uint16(maxpBytes[4:6])

	hheaBytes, err := slice(data, hhea)
	if err != nil {
		return nil, err
	}
	if len(hheaBytes) < 36 {
		return nil, newErr(ErrMalformed, "hhea table too short")
	}
	f.NumberOfHMetric = binary.BigEndian.Uint16(hheaBytes[34:36])

	locaBytes, err := slice(data, loca)
	if err != nil {
		return nil, err
	}
	f.loca, err = parseLoca(locaBytes, f.IndexToLocFmt, int(f.NumGlyphs))
	if err != nil {
		return nil, err
	}

	f.glyf, err = slice(data, glyf)
	if err != nil {
		return nil, err
	}
	f.hmtx, err = slice(data, hmtx)
	if err != nil {
		return nil, err
	}

	return f, nil
}

func slice(data []byte, t tableRecord) ([]byte, error) {
	end := uint64(t.offset) + uint64(t.length)
	if end > uint64(len(data)) {
		return nil, newErr(ErrMalformed, "table %q out of bounds", t.tag)
	}
	return data[t.offset:end], nil
}

// parseLoca reads numGlyphs+1 offsets into glyf, short format doubling
// each entry (spec.md §4.8).
func parseLoca(data []byte, format int16, numGlyphs int) ([]uint32, error) {
	n := numGlyphs + 1
	out := make([]uint32, n)
	if format == 0 {
		if len(data) < n*2 {
			return nil, newErr(ErrMalformed, "loca table (short) too short")
		}
		for i := 0; i < n; i++ {
			out[i] = uint32(binary.BigEndian.Uint16(data[i*2:i*2+2])) * 2
		}
		return out, nil
	}
	if len(data) < n*4 {
		return nil, newErr(ErrMalformed, "loca table (long) too short")
	}
	for i := 0; i < n; i++ {
		out[i] = binary.BigEndian.Uint32(data[i*4 : i*4+4])
	}
	return out, nil
}

// AdvanceWidth returns glyph index gi's horizontal advance width, per
// spec.md §4.8's hmtx layout: numberOfHMetrics long metrics followed by
// leftSideBearings for any remaining glyphs (which share the last
// advance width).
func (f *Font) AdvanceWidth(gi uint16) uint16 {
	n := int(f.NumberOfHMetric)
	if n == 0 {
		return 0
	}
	idx := int(gi)
	if idx >= n {
		idx = n - 1
	}
	off := idx * 4
	if off+2 > len(f.hmtx) {
		return 0
	}
	return binary.BigEndian.Uint16(f.hmtx[off : off+2])
}

// Point is one glyph outline point (spec.md §4.8).
type Point struct {
	X, Y    int16
	OnCurve bool
}

// Contour is a sequence of points forming one closed outline loop.
type Contour struct {
	Points []Point
}

// Glyph is a fully resolved (composite components merged) glyph outline.
type Glyph struct {
	Contours []Contour
	Advance  uint16
}

// Glyph resolves glyph index gi to its outline, recursively merging
// composite components with memoization (spec.md §4.8).
func (f *Font) Glyph(gi uint16) (*Glyph, error) {
	if g, ok := f.cache[gi]; ok {
		return g, nil
	}
	g, err := f.parseGlyph(gi, 0)
	if err != nil {
		return nil, err
	}
	g.Advance = f.AdvanceWidth(gi)
	f.cache[gi] = g
	return g, nil
}

const maxCompositeDepth = 8

func (f *Font) parseGlyph(gi uint16, depth int) (*Glyph, error) {
	if depth > maxCompositeDepth {
		return nil, newErr(ErrMalformed, "composite glyph nesting too deep")
	}
	if int(gi)+1 >= len(f.loca) {
		return nil, newErr(ErrMalformed, "glyph index out of range: %d", gi)
	}
	start, end := f.loca[gi], f.loca[gi+1]
	if start == end {
		return &Glyph{}, nil // empty glyph (e.g. space)
	}
	if uint64(end) > uint64(len(f.glyf)) || start > end {
		return nil, newErr(ErrMalformed, "glyph %d data out of range", gi)
	}
	data := f.glyf[start:end]
	if len(data) < 10 {
		return nil, newErr(ErrMalformed, "glyph %d record too short", gi)
	}
	numberOfContours := int16(binary.BigEndian.Uint16(data[0:2]))
	if numberOfContours >= 0 {
		return parseSimpleGlyph(data, int(numberOfContours))
	}
	return f.parseCompositeGlyph(data, depth)
}

func parseSimpleGlyph(data []byte, numberOfContours int) (*Glyph, error) {
	pos := 10
	endPts := make([]int, numberOfContours)
	for i := 0; i < numberOfContours; i++ {
		if pos+2 > len(data) {
			return nil, newErr(ErrMalformed, "truncated endPtsOfContours")
		}
		endPts[i] = int(binary.BigEndian.Uint16(data[pos : pos+2]))
		pos += 2
	}
	numPoints := 0
	if numberOfContours > 0 {
		numPoints = endPts[numberOfContours-1] + 1
	}

	if pos+2 > len(data) {
		return nil, newErr(ErrMalformed, "truncated instructions length")
	}
	instrLen := int(binary.BigEndian.Uint16(data[pos : pos+2]))
	pos += 2 + instrLen

	const (
		flagOnCurve      = 1 << 0
		flagXShort       = 1 << 1
		flagYShort       = 1 << 2
		flagRepeat       = 1 << 3
		flagXSameOrPos   = 1 << 4
		flagYSameOrPos   = 1 << 5
	)

	flags := make([]byte, 0, numPoints)
	for len(flags) < numPoints {
		if pos >= len(data) {
			return nil, newErr(ErrMalformed, "truncated flags array")
		}
		fl := data[pos]
		pos++
		flags = append(flags, fl)
		if fl&flagRepeat != 0 {
			if pos >= len(data) {
				return nil, newErr(ErrMalformed, "truncated flag repeat count")
			}
			repeat := int(data[pos])
			pos++
			for r := 0; r < repeat && len(flags) < numPoints; r++ {
				flags = append(flags, fl)
			}
		}
	}

	xs := make([]int16, numPoints)
	x := int16(0)
	for i := 0; i < numPoints; i++ {
		fl := flags[i]
		switch {
		case fl&flagXShort != 0:
			if pos >= len(data) {
				return nil, newErr(ErrMalformed, "truncated x coordinates")
			}
			d := int16(data[pos])
			pos++
			if fl&flagXSameOrPos == 0 {
				d = -d
			}
			x += d
		case fl&flagXSameOrPos != 0:
			// same as previous, no data consumed
		default:
			if pos+2 > len(data) {
				return nil, newErr(ErrMalformed, "truncated x coordinates")
			}
			x += int16(binary.BigEndian.Uint16(data[pos : pos+2]))
			pos += 2
		}
		xs[i] = x
	}

	ys := make([]int16, numPoints)
	y := int16(0)
	for i := 0; i < numPoints; i++ {
		fl := flags[i]
		switch {
		case fl&flagYShort != 0:
			if pos >= len(data) {
				return nil, newErr(ErrMalformed, "truncated y coordinates")
			}
			d := int16(data[pos])
			pos++
			if fl&flagYSameOrPos == 0 {
				d = -d
			}
			y += d
		case fl&flagYSameOrPos != 0:
		default:
			if pos+2 > len(data) {
				return nil, newErr(ErrMalformed, "truncated y coordinates")
			}
			y += int16(binary.BigEndian.Uint16(data[pos : pos+2]))
			pos += 2
		}
		ys[i] = y
	}

	g := &Glyph{}
	start := 0
	for _, end := range endPts {
		var c Contour
		for i := start; i <= end; i++ {
			c.Points = append(c.Points, Point{X: xs[i], Y: ys[i], OnCurve: flags[i]&flagOnCurve != 0})
		}
		g.Contours = append(g.Contours, c)
		start = end + 1
	}
	return g, nil
}

const (
	compArgsAreWords    = 1 << 0
	compArgsAreXYValues = 1 << 1
	compScaledComponent = 1 << 11
	compMoreComponents  = 1 << 5
	compHasScale        = 1 << 3
	compHasXYScale      = 1 << 6
	compHas2x2          = 1 << 7
)

func (f *Font) parseCompositeGlyph(data []byte, depth int) (*Glyph, error) {
	pos := 10
	g := &Glyph{}
	for {
		if pos+4 > len(data) {
			return nil, newErr(ErrMalformed, "truncated composite component header")
		}
		flags := binary.BigEndian.Uint16(data[pos : pos+2])
		childIndex := binary.BigEndian.Uint16(data[pos+2 : pos+4])
		pos += 4

		var arg1, arg2 int16
		if flags&compArgsAreWords != 0 {
			if pos+4 > len(data) {
				return nil, newErr(ErrMalformed, "truncated composite args (words)")
			}
			arg1 = int16(binary.BigEndian.Uint16(data[pos : pos+2]))
			arg2 = int16(binary.BigEndian.Uint16(data[pos+2 : pos+4]))
			pos += 4
		} else {
			if pos+2 > len(data) {
				return nil, newErr(ErrMalformed, "truncated composite args (bytes)")
			}
			arg1 = int16(int8(data[pos]))
			arg2 = int16(int8(data[pos+1]))
			pos += 2
		}

		m := [4]fixed.Int26_6{fixed.I(1), 0, 0, fixed.I(1)}
		switch {
		case flags&compHas2x2 != 0:
			if pos+8 > len(data) {
				return nil, newErr(ErrMalformed, "truncated 2x2 transform")
			}
			m[0] = f2dot14(data[pos : pos+2])
			m[1] = f2dot14(data[pos+2 : pos+4])
			m[2] = f2dot14(data[pos+4 : pos+6])
			m[3] = f2dot14(data[pos+6 : pos+8])
			pos += 8
		case flags&compHasXYScale != 0:
			if pos+4 > len(data) {
				return nil, newErr(ErrMalformed, "truncated xy scale")
			}
			m[0] = f2dot14(data[pos : pos+2])
			m[3] = f2dot14(data[pos+2 : pos+4])
			pos += 4
		case flags&compHasScale != 0:
			if pos+2 > len(data) {
				return nil, newErr(ErrMalformed, "truncated scale")
			}
			s := f2dot14(data[pos : pos+2])
			m[0], m[3] = s, s
			pos += 2
		}

		child, err := f.parseGlyph(childIndex, depth+1)
		if err != nil {
			return nil, err
		}

		var dx, dy fixed.Int26_6
		if flags&compArgsAreXYValues != 0 {
			dx, dy = fixed.I(int(arg1)), fixed.I(int(arg2))
			if flags&compScaledComponent != 0 {
				dx = applyMatrix(m, dx, 0)
				dy = applyMatrix2(m, 0, dy)
			}
		}
		// Point-matching anchors (ARGS_ARE_XY_VALUES unset) are rare in
		// practice for rasterized EPS glyph data; treat them as a zero
		// offset rather than resolving anchor points, matching the
		// "offsets are point anchors or XY offsets" note in spec.md §4.8
		// for the common XY-offset case this parser targets.

		for _, c := range child.Contours {
			var nc Contour
			for _, p := range c.Points {
				tx, ty := transformPoint(m, p.X, p.Y)
				nc.Points = append(nc.Points, Point{
					X:       int16(tx.Round()) + int16(dx.Round()),
					Y:       int16(ty.Round()) + int16(dy.Round()),
					OnCurve: p.OnCurve,
				})
			}
			g.Contours = append(g.Contours, nc)
		}

		if flags&compMoreComponents == 0 {
			break
		}
	}
	return g, nil
}

func f2dot14(b []byte) fixed.Int26_6 {
	raw := int16(binary.BigEndian.Uint16(b))
	// F2Dot14 -> float -> Int26_6, good enough precision for glyph transforms.
	v := float64(raw) / 16384.0
	return fixed.Int26_6(v * 64)
}

func applyMatrix(m [4]fixed.Int26_6, x, y fixed.Int26_6) fixed.Int26_6 {
	return fixed.Int26_6((int64(m[0])*int64(x) + int64(m[2])*int64(y)) / 64)
}

func applyMatrix2(m [4]fixed.Int26_6, x, y fixed.Int26_6) fixed.Int26_6 {
	return fixed.Int26_6((int64(m[1])*int64(x) + int64(m[3])*int64(y)) / 64)
}

func transformPoint(m [4]fixed.Int26_6, x, y int16) (fixed.Int26_6, fixed.Int26_6) {
	fx, fy := fixed.I(int(x)), fixed.I(int(y))
	tx := applyMatrix(m, fx, fy)
	ty := applyMatrix2(m, fx, fy)
	return tx, ty
}
