package interp

import (
	"math"

	"github.com/cwbudde/go-postscript/internal/graphics"
	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
)

// registerPaintingOps installs PLRM's path-construction and painting
// operators (spec.md §4.11), all delegated to the abstract graphics.Context
// the host supplies; the interpreter core never touches raster memory.
func (ip *Interpreter) registerPaintingOps() {
	ip.register("newpath", opNewPath)
	ip.register("moveto", opMoveTo)
	ip.register("lineto", opLineTo)
	ip.register("rlineto", opRLineTo)
	ip.register("rmoveto", opRMoveTo)
	ip.register("curveto", opCurveTo)
	ip.register("rcurveto", opRCurveTo)
	ip.register("arc", opArc)
	ip.register("arcn", opArcN)
	ip.register("arct", opArcT)
	ip.register("closepath", opClosePath)
	ip.register("stroke", opStroke)
	ip.register("fill", opFill)
	ip.register("eofill", opEOFill)
	ip.register("clip", opClip)
	ip.register("eoclip", opEOClip)
	ip.register("rectstroke", opRectStroke)
	ip.register("rectfill", opRectFill)
	ip.register("rectclip", opRectClip)
	ip.register("currentpoint", opCurrentPoint)
}

func (ip *Interpreter) gfx(op string) (graphics.Context, *pserror.Error) {
	if ip.graphics == nil {
		return nil, pserror.New(pserror.ConfigurationError, op, "no graphics backend configured")
	}
	return ip.graphics, nil
}

func pop2Numbers(ip *Interpreter, op string) (x, y float64, err *pserror.Error) {
	b, err := ip.operands.PopTyped(object.TNumber, op)
	if err != nil {
		return 0, 0, err
	}
	a, err := ip.operands.PopTyped(object.TNumber, op)
	if err != nil {
		return 0, 0, err
	}
	return a.Number(), b.Number(), nil
}

func opNewPath(ip *Interpreter) *pserror.Error {
	g, err := ip.gfx("newpath")
	if err != nil {
		return err
	}
	g.NewPath()
	return nil
}

func opMoveTo(ip *Interpreter) *pserror.Error {
	x, y, err := pop2Numbers(ip, "moveto")
	if err != nil {
		return err
	}
	g, err := ip.gfx("moveto")
	if err != nil {
		return err
	}
	g.MoveTo(x, y)
	return nil
}

func opLineTo(ip *Interpreter) *pserror.Error {
	x, y, err := pop2Numbers(ip, "lineto")
	if err != nil {
		return err
	}
	g, err := ip.gfx("lineto")
	if err != nil {
		return err
	}
	if !g.HasCurrentPoint() {
		return pserror.New(pserror.NoCurrentPoint, "lineto", "no current point")
	}
	g.LineTo(x, y)
	return nil
}

func opRLineTo(ip *Interpreter) *pserror.Error {
	dx, dy, err := pop2Numbers(ip, "rlineto")
	if err != nil {
		return err
	}
	g, err := ip.gfx("rlineto")
	if err != nil {
		return err
	}
	cp, ok := g.CurrentPoint()
	if !ok {
		return pserror.New(pserror.NoCurrentPoint, "rlineto", "no current point")
	}
	g.LineTo(cp.X+dx, cp.Y+dy)
	return nil
}

func opRMoveTo(ip *Interpreter) *pserror.Error {
	dx, dy, err := pop2Numbers(ip, "rmoveto")
	if err != nil {
		return err
	}
	g, err := ip.gfx("rmoveto")
	if err != nil {
		return err
	}
	cp, ok := g.CurrentPoint()
	if !ok {
		return pserror.New(pserror.NoCurrentPoint, "rmoveto", "no current point")
	}
	g.MoveTo(cp.X+dx, cp.Y+dy)
	return nil
}

func opCurveTo(ip *Interpreter) *pserror.Error {
	nums := make([]float64, 6)
	for i := 5; i >= 0; i-- {
		v, err := ip.operands.PopTyped(object.TNumber, "curveto")
		if err != nil {
			return err
		}
		nums[i] = v.Number()
	}
	g, err := ip.gfx("curveto")
	if err != nil {
		return err
	}
	if !g.HasCurrentPoint() {
		return pserror.New(pserror.NoCurrentPoint, "curveto", "no current point")
	}
	g.BezierCurveTo(nums[0], nums[1], nums[2], nums[3], nums[4], nums[5])
	return nil
}

// opRCurveTo implements PLRM's `rcurveto`: all three points are relative to
// the current point at the time of the call, not chained to each other.
func opRCurveTo(ip *Interpreter) *pserror.Error {
	nums := make([]float64, 6)
	for i := 5; i >= 0; i-- {
		v, err := ip.operands.PopTyped(object.TNumber, "rcurveto")
		if err != nil {
			return err
		}
		nums[i] = v.Number()
	}
	g, err := ip.gfx("rcurveto")
	if err != nil {
		return err
	}
	cp, ok := g.CurrentPoint()
	if !ok {
		return pserror.New(pserror.NoCurrentPoint, "rcurveto", "no current point")
	}
	g.BezierCurveTo(cp.X+nums[0], cp.Y+nums[1], cp.X+nums[2], cp.Y+nums[3], cp.X+nums[4], cp.Y+nums[5])
	return nil
}

func popArcOperands(ip *Interpreter, op string) (x, y, r, a1, a2 float64, err *pserror.Error) {
	vals := make([]float64, 5)
	for i := 4; i >= 0; i-- {
		v, e := ip.operands.PopTyped(object.TNumber, op)
		if e != nil {
			return 0, 0, 0, 0, 0, e
		}
		vals[i] = v.Number()
	}
	return vals[0], vals[1], vals[2], vals[3], vals[4], nil
}

func opArc(ip *Interpreter) *pserror.Error {
	x, y, r, a1, a2, err := popArcOperands(ip, "arc")
	if err != nil {
		return err
	}
	g, err := ip.gfx("arc")
	if err != nil {
		return err
	}
	g.Arc(x, y, r, a1, a2, false)
	return nil
}

func opArcN(ip *Interpreter) *pserror.Error {
	x, y, r, a1, a2, err := popArcOperands(ip, "arcn")
	if err != nil {
		return err
	}
	g, err := ip.gfx("arcn")
	if err != nil {
		return err
	}
	g.Arc(x, y, r, a1, a2, true)
	return nil
}

// opArcT implements PLRM's `arct`: x1 y1 x2 y2 r arct -, the tangent-line
// construction used to round a corner. It appends a straight line from the
// current point to the tangent point on the line (currentpoint)-(x1,y1),
// then an arc of radius r tangent to both that line and (x1,y1)-(x2,y2),
// leaving the new current point at the tangent point on the second line.
func opArcT(ip *Interpreter) *pserror.Error {
	nums := make([]float64, 5)
	for i := 4; i >= 0; i-- {
		v, err := ip.operands.PopTyped(object.TNumber, "arct")
		if err != nil {
			return err
		}
		nums[i] = v.Number()
	}
	x1, y1, x2, y2, r := nums[0], nums[1], nums[2], nums[3], nums[4]

	g, err := ip.gfx("arct")
	if err != nil {
		return err
	}
	p0, ok := g.CurrentPoint()
	if !ok {
		return pserror.New(pserror.NoCurrentPoint, "arct", "no current point")
	}

	v1x, v1y := p0.X-x1, p0.Y-y1
	v2x, v2y := x2-x1, y2-y1
	len1 := math.Hypot(v1x, v1y)
	len2 := math.Hypot(v2x, v2y)
	if len1 == 0 || len2 == 0 || r == 0 {
		g.LineTo(x1, y1)
		return nil
	}
	v1x, v1y = v1x/len1, v1y/len1
	v2x, v2y = v2x/len2, v2y/len2

	cosAngle := v1x*v2x + v1y*v2y
	cosAngle = math.Max(-1, math.Min(1, cosAngle))
	angle := math.Acos(cosAngle)
	if angle == 0 || angle == math.Pi {
		g.LineTo(x1, y1)
		return nil
	}
	half := angle / 2
	tanHalf := math.Tan(half)
	if tanHalf == 0 {
		g.LineTo(x1, y1)
		return nil
	}
	dist := r / tanHalf
	if dist > len1 {
		dist = len1
	}
	if dist > len2 {
		dist = len2
	}

	t1x, t1y := x1+v1x*dist, y1+v1y*dist
	t2x, t2y := x1+v2x*dist, y1+v2y*dist

	bx, by := v1x+v2x, v1y+v2y
	blen := math.Hypot(bx, by)
	if blen == 0 {
		g.LineTo(x1, y1)
		return nil
	}
	bx, by = bx/blen, by/blen
	centerDist := r / math.Sin(half)
	cx, cy := x1+bx*centerDist, y1+by*centerDist

	startAngle := math.Atan2(t1y-cy, t1x-cx) * 180 / math.Pi
	endAngle := math.Atan2(t2y-cy, t2x-cx) * 180 / math.Pi

	// Orientation of the sweep follows which side of line v1 the vertex's
	// bisector falls on, so the arc bulges away from the corner.
	cross := v1x*v2y - v1y*v2x
	ccw := cross > 0

	g.LineTo(t1x, t1y)
	g.Arc(cx, cy, r, startAngle, endAngle, ccw)
	return nil
}

func opClosePath(ip *Interpreter) *pserror.Error {
	g, err := ip.gfx("closepath")
	if err != nil {
		return err
	}
	g.ClosePath()
	return nil
}

func opStroke(ip *Interpreter) *pserror.Error {
	g, err := ip.gfx("stroke")
	if err != nil {
		return err
	}
	g.Stroke()
	return nil
}

func opFill(ip *Interpreter) *pserror.Error {
	g, err := ip.gfx("fill")
	if err != nil {
		return err
	}
	g.Fill(false)
	return nil
}

func opEOFill(ip *Interpreter) *pserror.Error {
	g, err := ip.gfx("eofill")
	if err != nil {
		return err
	}
	g.Fill(true)
	return nil
}

func opClip(ip *Interpreter) *pserror.Error {
	g, err := ip.gfx("clip")
	if err != nil {
		return err
	}
	g.Clip(false)
	return nil
}

func opEOClip(ip *Interpreter) *pserror.Error {
	g, err := ip.gfx("eoclip")
	if err != nil {
		return err
	}
	g.Clip(true)
	return nil
}

func pop4Numbers(ip *Interpreter, op string) (x, y, w, h float64, err *pserror.Error) {
	vals := make([]float64, 4)
	for i := 3; i >= 0; i-- {
		v, e := ip.operands.PopTyped(object.TNumber, op)
		if e != nil {
			return 0, 0, 0, 0, e
		}
		vals[i] = v.Number()
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}

func opRectStroke(ip *Interpreter) *pserror.Error {
	x, y, w, h, err := pop4Numbers(ip, "rectstroke")
	if err != nil {
		return err
	}
	g, err := ip.gfx("rectstroke")
	if err != nil {
		return err
	}
	g.StrokeRect(x, y, w, h)
	return nil
}

func opRectFill(ip *Interpreter) *pserror.Error {
	x, y, w, h, err := pop4Numbers(ip, "rectfill")
	if err != nil {
		return err
	}
	g, err := ip.gfx("rectfill")
	if err != nil {
		return err
	}
	g.FillRect(x, y, w, h)
	return nil
}

func opRectClip(ip *Interpreter) *pserror.Error {
	x, y, w, h, err := pop4Numbers(ip, "rectclip")
	if err != nil {
		return err
	}
	g, err := ip.gfx("rectclip")
	if err != nil {
		return err
	}
	g.RectClip(x, y, w, h)
	return nil
}

func opCurrentPoint(ip *Interpreter) *pserror.Error {
	g, err := ip.gfx("currentpoint")
	if err != nil {
		return err
	}
	cp, ok := g.CurrentPoint()
	if !ok {
		return pserror.New(pserror.NoCurrentPoint, "currentpoint", "no current point")
	}
	ip.operands.Push(object.Real(cp.X))
	ip.operands.Push(object.Real(cp.Y))
	return nil
}
