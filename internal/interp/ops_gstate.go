package interp

import (
	"github.com/cwbudde/go-postscript/internal/graphics"
	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
)

// registerGStateOps installs PLRM's graphics-state operators (spec.md
// §4.11): gsave/grestore, line style, and color.
func (ip *Interpreter) registerGStateOps() {
	ip.register("gsave", opGSave)
	ip.register("grestore", opGRestore)
	ip.register("setlinewidth", opSetLineWidth)
	ip.register("currentlinewidth", opCurrentLineWidth)
	ip.register("setlinecap", opSetLineCap)
	ip.register("currentlinecap", opCurrentLineCap)
	ip.register("setlinejoin", opSetLineJoin)
	ip.register("currentlinejoin", opCurrentLineJoin)
	ip.register("setmiterlimit", opSetMiterLimit)
	ip.register("currentmiterlimit", opCurrentMiterLimit)
	ip.register("setdash", opSetDash)
	ip.register("currentdash", opCurrentDash)
	ip.register("setgray", opSetGray)
	ip.register("setrgbcolor", opSetRGBColor)
	ip.register("currentrgbcolor", opCurrentRGBColor)
	ip.register("setcolorspace", opSetColorSpace)
}

func opGSave(ip *Interpreter) *pserror.Error {
	g, err := ip.gfx("gsave")
	if err != nil {
		return err
	}
	g.Save()
	return nil
}

func opGRestore(ip *Interpreter) *pserror.Error {
	g, err := ip.gfx("grestore")
	if err != nil {
		return err
	}
	g.Restore()
	return nil
}

func opSetLineWidth(ip *Interpreter) *pserror.Error {
	w, err := ip.operands.PopTyped(object.TNumber, "setlinewidth")
	if err != nil {
		return err
	}
	g, err := ip.gfx("setlinewidth")
	if err != nil {
		return err
	}
	g.SetLineWidth(w.Number())
	return nil
}

func opCurrentLineWidth(ip *Interpreter) *pserror.Error {
	g, err := ip.gfx("currentlinewidth")
	if err != nil {
		return err
	}
	ip.operands.Push(object.Real(g.GetLineWidth()))
	return nil
}

func opSetLineCap(ip *Interpreter) *pserror.Error {
	n, err := ip.operands.PopTyped(object.TInteger, "setlinecap")
	if err != nil {
		return err
	}
	g, err := ip.gfx("setlinecap")
	if err != nil {
		return err
	}
	g.SetLineCap(graphics.LineCap(n.AsInt64()))
	return nil
}

func opCurrentLineCap(ip *Interpreter) *pserror.Error {
	g, err := ip.gfx("currentlinecap")
	if err != nil {
		return err
	}
	ip.operands.Push(object.Integer(int64(g.GetLineCap())))
	return nil
}

func opSetLineJoin(ip *Interpreter) *pserror.Error {
	n, err := ip.operands.PopTyped(object.TInteger, "setlinejoin")
	if err != nil {
		return err
	}
	g, err := ip.gfx("setlinejoin")
	if err != nil {
		return err
	}
	g.SetLineJoin(graphics.LineJoin(n.AsInt64()))
	return nil
}

func opCurrentLineJoin(ip *Interpreter) *pserror.Error {
	g, err := ip.gfx("currentlinejoin")
	if err != nil {
		return err
	}
	ip.operands.Push(object.Integer(int64(g.GetLineJoin())))
	return nil
}

func opSetMiterLimit(ip *Interpreter) *pserror.Error {
	m, err := ip.operands.PopTyped(object.TNumber, "setmiterlimit")
	if err != nil {
		return err
	}
	g, err := ip.gfx("setmiterlimit")
	if err != nil {
		return err
	}
	g.SetMiterLimit(m.Number())
	return nil
}

func opCurrentMiterLimit(ip *Interpreter) *pserror.Error {
	g, err := ip.gfx("currentmiterlimit")
	if err != nil {
		return err
	}
	ip.operands.Push(object.Real(g.GetMiterLimit()))
	return nil
}

func opSetDash(ip *Interpreter) *pserror.Error {
	phase, err := ip.operands.PopTyped(object.TNumber, "setdash")
	if err != nil {
		return err
	}
	arr, err := ip.operands.PopTyped(object.TArray, "setdash")
	if err != nil {
		return err
	}
	g, err := ip.gfx("setdash")
	if err != nil {
		return err
	}
	items := arr.Value.(*object.Array).Items()
	pattern := make([]float64, len(items))
	for i, it := range items {
		if !it.Type.Has(object.TNumber) {
			return pserror.New(pserror.TypeCheck, "setdash", "dash pattern elements must be numbers")
		}
		pattern[i] = it.Number()
	}
	g.SetDash(pattern, phase.Number())
	return nil
}

func opCurrentDash(ip *Interpreter) *pserror.Error {
	g, err := ip.gfx("currentdash")
	if err != nil {
		return err
	}
	pattern, phase := g.GetDash()
	elems := make([]object.Object, len(pattern))
	for i, p := range pattern {
		elems[i] = object.Real(p)
	}
	arr := object.NewArrayFrom(elems)
	ip.operands.Push(object.Object{Type: object.TArray, Exec: object.Literal, Acc: object.Unlimited, Value: arr})
	ip.operands.Push(object.Real(phase))
	return nil
}

func opSetGray(ip *Interpreter) *pserror.Error {
	gray, err := ip.operands.PopTyped(object.TNumber, "setgray")
	if err != nil {
		return err
	}
	g, err := ip.gfx("setgray")
	if err != nil {
		return err
	}
	v := gray.Number()
	g.SetRGBColor(v, v, v)
	return nil
}

func opSetRGBColor(ip *Interpreter) *pserror.Error {
	b, err := ip.operands.PopTyped(object.TNumber, "setrgbcolor")
	if err != nil {
		return err
	}
	gr, err := ip.operands.PopTyped(object.TNumber, "setrgbcolor")
	if err != nil {
		return err
	}
	r, err := ip.operands.PopTyped(object.TNumber, "setrgbcolor")
	if err != nil {
		return err
	}
	g, err := ip.gfx("setrgbcolor")
	if err != nil {
		return err
	}
	g.SetRGBColor(r.Number(), gr.Number(), b.Number())
	return nil
}

// opSetColorSpace accepts only the two device color spaces this core
// actually paints in (spec.md Non-goals exclude CMYK/pattern/indexed color
// spaces): DeviceGray and DeviceRGB. Anything else fails with rangecheck
// rather than silently succeeding, since no painting operator here could
// honor it.
func opSetColorSpace(ip *Interpreter) *pserror.Error {
	v, err := ip.operands.PopTyped(object.TName|object.TArray, "setcolorspace")
	if err != nil {
		return err
	}
	name := v.AsName()
	if v.Type == object.TArray {
		items := v.Value.(*object.Array).Items()
		if len(items) > 0 && items[0].Type == object.TName {
			name = items[0].AsName()
		}
	}
	switch name {
	case "DeviceGray", "DeviceRGB":
		return nil
	default:
		return pserror.New(pserror.RangeCheck, "setcolorspace", "unsupported color space: "+name)
	}
}

func opCurrentRGBColor(ip *Interpreter) *pserror.Error {
	g, err := ip.gfx("currentrgbcolor")
	if err != nil {
		return err
	}
	c := g.CurrentRGBColor()
	ip.operands.Push(object.Real(c.R))
	ip.operands.Push(object.Real(c.G))
	ip.operands.Push(object.Real(c.B))
	return nil
}
