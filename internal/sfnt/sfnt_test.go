package sfnt

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// buildTestFont assembles a minimal sfnt container by hand: one simple
// glyph with exactly 3 on-curve points forming a single contour (spec.md
// §8 testable property 10), plus the head/maxp/loca/glyf/hhea/hmtx tables
// Parse requires.
func buildTestFont(t *testing.T) []byte {
	t.Helper()

	// Glyph 0: numberOfContours=1, bbox (unused by this parser), one
	// endPtsOfContours entry at index 2 (3 points), no instructions, then
	// flags/x/y for 3 points: (0,0) -> (10,0) -> (5,10), all on-curve.
	glyf := []byte{
		0x00, 0x01, // numberOfContours = 1
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // xMin/yMin/xMax/yMax
		0x00, 0x02, // endPtsOfContours[0] = 2
		0x00, 0x00, // instructionLength = 0
		55, 55, 39, // flags: onCurve|xShort|xSameOrPos|yShort|ySameOrPos (x3,x2), onCurve|xShort|yShort|ySameOrPos
		0, 10, 5, // x deltas: +0, +10, -5 (sign from flag 39's cleared xSameOrPos bit)
		0, 0, 10, // y deltas: +0, +0, +10
		0x00, // pad to an even length
	}
	if len(glyf)%2 != 0 {
		t.Fatalf("test glyf data must have even length, got %d", len(glyf))
	}

	head := make([]byte, 54)
	binary.BigEndian.PutUint32(head[12:16], requiredHeadMagic)
	binary.BigEndian.PutUint16(head[18:20], 1000) // unitsPerEm
	binary.BigEndian.PutUint16(head[50:52], 0)     // indexToLocFormat: short

	maxp := make([]byte, 6)
	binary.BigEndian.PutUint16(maxp[4:6], 1) // numGlyphs = 1

	hhea := make([]byte, 36)
	binary.BigEndian.PutUint16(hhea[34:36], 1) // numberOfHMetrics = 1

	hmtx := make([]byte, 4)
	binary.BigEndian.PutUint16(hmtx[0:2], 500) // advanceWidth
	binary.BigEndian.PutUint16(hmtx[2:4], 0)   // lsb

	loca := make([]byte, 4) // short format: 2 entries, doubled on read
	binary.BigEndian.PutUint16(loca[0:2], 0)
	binary.BigEndian.PutUint16(loca[2:4], uint16(len(glyf)/2))

	type table struct {
		tag  string
		data []byte
	}
	tables := []table{
		{"head", head},
		{"hhea", hhea},
		{"hmtx", hmtx},
		{"maxp", maxp},
		{"loca", loca},
		{"glyf", glyf},
	}

	const dirEntrySize = 16
	headerSize := 12 + len(tables)*dirEntrySize

	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(requiredSfntVersion))
	binary.Write(&buf, binary.BigEndian, uint16(len(tables)))
	binary.Write(&buf, binary.BigEndian, uint16(0)) // searchRange
	binary.Write(&buf, binary.BigEndian, uint16(0)) // entrySelector
	binary.Write(&buf, binary.BigEndian, uint16(0)) // rangeShift

	offset := headerSize
	for _, tb := range tables {
		var rec [16]byte
		copy(rec[0:4], tb.tag)
		binary.BigEndian.PutUint32(rec[4:8], 0) // checksum, unchecked by Parse
		binary.BigEndian.PutUint32(rec[8:12], uint32(offset))
		binary.BigEndian.PutUint32(rec[12:16], uint32(len(tb.data)))
		buf.Write(rec[:])
		offset += len(tb.data)
	}
	for _, tb := range tables {
		buf.Write(tb.data)
	}
	return buf.Bytes()
}

func TestParseSimpleGlyphThreePoints(t *testing.T) {
	font, err := Parse(buildTestFont(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if font.UnitsPerEm != 1000 {
		t.Fatalf("UnitsPerEm = %d, want 1000", font.UnitsPerEm)
	}
	if font.NumGlyphs != 1 {
		t.Fatalf("NumGlyphs = %d, want 1", font.NumGlyphs)
	}

	g, err := font.Glyph(0)
	if err != nil {
		t.Fatalf("Glyph(0): %v", err)
	}

	want := &Glyph{
		Contours: []Contour{{Points: []Point{
			{X: 0, Y: 0, OnCurve: true},
			{X: 10, Y: 0, OnCurve: true},
			{X: 5, Y: 10, OnCurve: true},
		}}},
		Advance: 500,
	}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Fatalf("Glyph(0) mismatch (-want +got):\n%s", diff)
	}
	if len(g.Contours) != 1 || len(g.Contours[0].Points) != 3 {
		t.Fatalf("expected 1 contour of 3 points, got %d contours", len(g.Contours))
	}
}

// buildCompositeTestFont assembles a two-glyph sfnt container: glyph 0 is
// the same 3-point simple glyph as buildTestFont, and glyph 1 is a
// composite referencing glyph 0 once with an identity transform and a
// (20, 30) XY offset — enough to catch a composite parser that re-scales
// already-scaled fixed-point coordinates (spec.md §4.8).
func buildCompositeTestFont(t *testing.T) []byte {
	t.Helper()

	glyph0 := []byte{
		0x00, 0x01, // numberOfContours = 1
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // xMin/yMin/xMax/yMax
		0x00, 0x02, // endPtsOfContours[0] = 2
		0x00, 0x00, // instructionLength = 0
		55, 55, 39,
		0, 10, 5,
		0, 0, 10,
		0x00,
	}
	glyph1 := []byte{
		0xFF, 0xFF, // numberOfContours = -1 (composite)
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // bbox, unused
		0x00, 0x02, // flags: ARGS_ARE_XY_VALUES only (byte args, identity, single component)
		0x00, 0x00, // glyphIndex = 0
		20, 30, // arg1, arg2 (dx, dy as signed bytes)
	}
	glyf := append(append([]byte{}, glyph0...), glyph1...)

	head := make([]byte, 54)
	binary.BigEndian.PutUint32(head[12:16], requiredHeadMagic)
	binary.BigEndian.PutUint16(head[18:20], 1000) // unitsPerEm
	binary.BigEndian.PutUint16(head[50:52], 0)     // indexToLocFormat: short

	maxp := make([]byte, 6)
	binary.BigEndian.PutUint16(maxp[4:6], 2) // numGlyphs = 2

	hhea := make([]byte, 36)
	binary.BigEndian.PutUint16(hhea[34:36], 2) // numberOfHMetrics = 2

	hmtx := make([]byte, 8)
	binary.BigEndian.PutUint16(hmtx[0:2], 500) // glyph 0 advanceWidth
	binary.BigEndian.PutUint16(hmtx[2:4], 0)   // glyph 0 lsb
	binary.BigEndian.PutUint16(hmtx[4:6], 600) // glyph 1 advanceWidth
	binary.BigEndian.PutUint16(hmtx[6:8], 0)   // glyph 1 lsb

	loca := make([]byte, 6) // short format: 3 entries, doubled on read
	binary.BigEndian.PutUint16(loca[0:2], 0)
	binary.BigEndian.PutUint16(loca[2:4], uint16(len(glyph0)/2))
	binary.BigEndian.PutUint16(loca[4:6], uint16((len(glyph0)+len(glyph1))/2))

	type table struct {
		tag  string
		data []byte
	}
	tables := []table{
		{"head", head},
		{"hhea", hhea},
		{"hmtx", hmtx},
		{"maxp", maxp},
		{"loca", loca},
		{"glyf", glyf},
	}

	const dirEntrySize = 16
	headerSize := 12 + len(tables)*dirEntrySize

	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(requiredSfntVersion))
	binary.Write(&buf, binary.BigEndian, uint16(len(tables)))
	binary.Write(&buf, binary.BigEndian, uint16(0)) // searchRange
	binary.Write(&buf, binary.BigEndian, uint16(0)) // entrySelector
	binary.Write(&buf, binary.BigEndian, uint16(0)) // rangeShift

	offset := headerSize
	for _, tb := range tables {
		var rec [16]byte
		copy(rec[0:4], tb.tag)
		binary.BigEndian.PutUint32(rec[4:8], 0) // checksum, unchecked by Parse
		binary.BigEndian.PutUint32(rec[8:12], uint32(offset))
		binary.BigEndian.PutUint32(rec[12:16], uint32(len(tb.data)))
		buf.Write(rec[:])
		offset += len(tb.data)
	}
	for _, tb := range tables {
		buf.Write(tb.data)
	}
	return buf.Bytes()
}

func TestParseCompositeGlyphAppliesOffsetOnce(t *testing.T) {
	font, err := Parse(buildCompositeTestFont(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	base, err := font.Glyph(0)
	if err != nil {
		t.Fatalf("Glyph(0): %v", err)
	}
	composite, err := font.Glyph(1)
	if err != nil {
		t.Fatalf("Glyph(1): %v", err)
	}

	if len(composite.Contours) != 1 || len(composite.Contours[0].Points) != 3 {
		t.Fatalf("expected 1 contour of 3 points, got %d contours", len(composite.Contours))
	}

	var want []Point
	for _, p := range base.Contours[0].Points {
		want = append(want, Point{X: p.X + 20, Y: p.Y + 30, OnCurve: p.OnCurve})
	}
	if diff := cmp.Diff(want, composite.Contours[0].Points); diff != "" {
		t.Fatalf("composite glyph points mismatch (-want +got):\n%s", diff)
	}
	if composite.Advance != 600 {
		t.Fatalf("Advance = %d, want 600", composite.Advance)
	}
}

func TestParseRejectsBadMagic(t *testing.T) {
	data := buildTestFont(t)
	// head table starts right after the 6*16+12 = 108-byte directory;
	// corrupt its magic number.
	binary.BigEndian.PutUint32(data[108+12:108+16], 0)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected an error for a bad head magic number")
	} else if sfntErr, ok := err.(*Error); !ok || sfntErr.Kind != ErrBadMagic {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestParseRejectsUnsupportedVersion(t *testing.T) {
	data := buildTestFont(t)
	binary.BigEndian.PutUint32(data[0:4], 0x4F54544F) // 'OTTO' (CFF outlines)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected an error for an unsupported sfntVersion")
	} else if sfntErr, ok := err.(*Error); !ok || sfntErr.Kind != ErrUnsupportedVersion {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}
