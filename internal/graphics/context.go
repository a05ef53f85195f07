// Package graphics declares the abstract Graphics Context capability set
// (spec.md §4.11). The core never inspects raster pixels; it calls these
// methods in response to painting/path/text operators and trusts an
// external backend to rasterize. Only the contract is specified here.
package graphics

// Matrix is a 2D affine transform [a b c d tx ty], the CTM (GLOSSARY).
type Matrix [6]float64

// Identity is the identity transform.
var Identity = Matrix{1, 0, 0, 1, 0, 0}

// Multiply returns m concatenated with n (m applied first, n second),
// matching PLRM's `concat` semantics.
func (m Matrix) Multiply(n Matrix) Matrix {
	return Matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

// Apply transforms a point by m.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Point is a 2D device- or user-space coordinate.
type Point struct{ X, Y float64 }

// RGB is a color in the DeviceRGB space (spec.md Non-goals exclude CMYK).
type RGB struct{ R, G, B float64 }

// LineCap/LineJoin mirror PLRM's setlinecap/setlinejoin integer codes.
type LineCap int

const (
	ButtCap LineCap = iota
	RoundCap
	SquareCap
)

type LineJoin int

const (
	MiterJoin LineJoin = iota
	RoundJoin
	BevelJoin
)

// Context is the abstract capability set a rendering backend supplies. The
// interpreter core invokes these in response to PostScript operators and
// never touches raster memory directly (spec.md §4.11).
type Context interface {
	Save()
	Restore()

	GetMatrix() Matrix
	SetMatrix(m Matrix)
	Concat(m Matrix)

	GetLineWidth() float64
	SetLineWidth(w float64)
	GetLineCap() LineCap
	SetLineCap(c LineCap)
	GetLineJoin() LineJoin
	SetLineJoin(j LineJoin)
	GetMiterLimit() float64
	SetMiterLimit(m float64)
	SetDash(pattern []float64, phase float64)
	GetDash() (pattern []float64, phase float64)

	SetRGBColor(r, g, b float64)
	CurrentRGBColor() RGB

	NewPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	BezierCurveTo(x1, y1, x2, y2, x3, y3 float64)
	Arc(x, y, r, startAngleDeg, endAngleDeg float64, counterclockwise bool)
	ClosePath()

	Stroke()
	Fill(evenOdd bool)
	StrokeRect(x, y, w, h float64)
	FillRect(x, y, w, h float64)
	Clip(evenOdd bool)
	RectClip(x, y, w, h float64)

	// HasCurrentPoint/CurrentPoint back `currentpoint` and the
	// nocurrentpoint error for path operators invoked with no open subpath.
	HasCurrentPoint() bool
	CurrentPoint() (Point, bool)

	// Text rendering delegates glyph outlines to the font subsystem
	// (spec.md §4.8); the backend only needs to know how to paint a glyph
	// path or measure advance widths.
	SetFont(font Font)
	FillText(text []byte, at Point)
	CharPath(text []byte, at Point)
	StringWidth(text []byte) (w, h float64)
}

// Font is the minimal view of a selected font the graphics backend needs:
// glyph outlines keyed by character code, scaled into user space.
type Font interface {
	// GlyphPath returns the outline for character code c as a sequence of
	// path segments already scaled by the font's matrix, or ok=false if the
	// code has no glyph.
	GlyphPath(c byte) (segments []PathSegment, advance float64, ok bool)
}

// PathSegment is one drawing instruction of a glyph outline, produced by
// walking a parsed TrueType glyph (spec.md §4.8's closing paragraph).
type PathSegment struct {
	Op             SegmentOp
	X, Y           float64 // MoveTo/LineTo endpoint, or QuadTo end
	CtrlX, CtrlY   float64 // QuadTo control point
}

type SegmentOp int

const (
	SegMoveTo SegmentOp = iota
	SegLineTo
	SegQuadTo
	SegClose
)
