package sfnt

import "github.com/cwbudde/go-postscript/internal/graphics"

// Outline walks g's contours into a sequence of graphics.PathSegment,
// scaling from font units (unitsPerEm) into user space by scale, per
// spec.md §4.8's closing paragraph: each contour starts at the first
// on-curve point (or a synthesized midpoint when the contour has none);
// straight edges run between consecutive on-curve points; a quadratic
// curve is emitted whenever an on-curve point is followed by an off-curve
// control point, ending at the next on-curve point or a synthesized
// midpoint virtual end when two off-curve points are adjacent.
func (g *Glyph) Outline(unitsPerEm uint16, scale float64) []graphics.PathSegment {
	if unitsPerEm == 0 {
		unitsPerEm = 1000
	}
	unit := scale / float64(unitsPerEm)

	var segs []graphics.PathSegment
	for _, c := range g.Contours {
		segs = append(segs, contourSegments(c, unit)...)
	}
	return segs
}

func contourSegments(c Contour, unit float64) []graphics.PathSegment {
	n := len(c.Points)
	if n == 0 {
		return nil
	}

	pt := func(i int) (float64, float64) {
		p := c.Points[((i%n)+n)%n]
		return float64(p.X) * unit, float64(p.Y) * unit
	}
	onCurve := func(i int) bool { return c.Points[((i%n)+n)%n].OnCurve }
	mid := func(i, j int) (float64, float64) {
		xi, yi := pt(i)
		xj, yj := pt(j)
		return (xi + xj) / 2, (yi + yj) / 2
	}

	// Find a starting on-curve point, or synthesize the midpoint of the
	// first two points if the contour is all off-curve (a valid but rare
	// TrueType encoding, e.g. a circle built entirely from control points).
	start := -1
	for i := 0; i < n; i++ {
		if onCurve(i) {
			start = i
			break
		}
	}

	var segs []graphics.PathSegment
	var startX, startY float64
	if start == -1 {
		startX, startY = mid(0, 1)
		start = 0
	} else {
		startX, startY = pt(start)
	}
	segs = append(segs, graphics.PathSegment{Op: graphics.SegMoveTo, X: startX, Y: startY})

	i := start
	for count := 0; count < n; {
		next := i + 1
		if onCurve(next) {
			x, y := pt(next)
			segs = append(segs, graphics.PathSegment{Op: graphics.SegLineTo, X: x, Y: y})
			i = next
			count++
			continue
		}
		// next is off-curve: it's a quadratic control point.
		cx, cy := pt(next)
		afterNext := next + 1
		var ex, ey float64
		if onCurve(afterNext) {
			ex, ey = pt(afterNext)
			i = afterNext
			count += 2
		} else {
			ex, ey = mid(next, afterNext)
			i = next
			count++
		}
		segs = append(segs, graphics.PathSegment{Op: graphics.SegQuadTo, CtrlX: cx, CtrlY: cy, X: ex, Y: ey})
	}
	segs = append(segs, graphics.PathSegment{Op: graphics.SegClose})
	return segs
}
