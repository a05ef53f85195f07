package interp

import (
	"github.com/cwbudde/go-postscript/internal/exec"
	"github.com/cwbudde/go-postscript/internal/graphics"
	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
	"github.com/cwbudde/go-postscript/internal/sfnt"
)

// registerFontOps installs PLRM's font and text-showing operators (spec.md
// §4.8/§4.9): findfont, scalefont, makefont, definefont, setfont,
// selectfont, show, ashow, widthshow, awidthshow, charpath, kshow,
// stringwidth. Only FontType 42 (sfnt/TrueType) is parsed, per SPEC_FULL's
// supplemented font-dictionary rule: a font dictionary whose `/sfnts` entry
// fails to parse as sfnt data surfaces invalidfont lazily, the first time a
// glyph from it is actually needed.
func (ip *Interpreter) registerFontOps() {
	ip.register("definefont", opDefineFont)
	ip.register("findfont", opFindFont)
	ip.register("scalefont", opScaleFont)
	ip.register("makefont", opMakeFont)
	ip.register("setfont", opSetFont)
	ip.register("selectfont", opSelectFont)
	ip.register("show", opShow)
	ip.register("ashow", opAShow)
	ip.register("widthshow", opWidthShow)
	ip.register("awidthshow", opAWidthShow)
	ip.register("charpath", opCharPath)
	ip.register("kshow", opKShow)
	ip.register("stringwidth", opStringWidth)
}

// fontDirectory lazily installs and returns SystemDict's /FontDirectory, a
// plain Dict mapping font name Objects to FontID Objects populated by
// definefont (spec.md §4.9).
func (ip *Interpreter) fontDirectory() *object.Dict {
	sys := ip.systemDict.Value.(*object.Dict)
	key := object.Name("FontDirectory", object.Literal)
	if v, ok := sys.Get(key); ok {
		return v.Value.(*object.Dict)
	}
	d := object.NewDict(256)
	sys.ForceSet(key, object.Object{Type: object.TDictionary, Exec: object.Literal, Acc: object.Unlimited, Value: d})
	return d
}

func fontMatrixFromDict(d *object.Dict) graphics.Matrix {
	key := object.Name("FontMatrix", object.Literal)
	v, ok := d.Get(key)
	if !ok || v.Type != object.TArray {
		return graphics.Matrix{0.001, 0, 0, 0.001, 0, 0} // PLRM's default 1000-unit em square
	}
	m, err := matrixArrayToGraphics(v.Value.(*object.Array), "findfont")
	if err != nil {
		return graphics.Matrix{0.001, 0, 0, 0.001, 0, 0}
	}
	return m
}

// parseFontGlyphs extracts and parses the raw sfnt bytes from a font
// dictionary's `/sfnts` entry (a one-element array holding a String, the
// Type-42 convention), ok=false if absent or unparseable.
func parseFontGlyphs(d *object.Dict) (*sfnt.Font, bool) {
	v, ok := d.Get(object.Name("sfnts", object.Literal))
	if !ok || v.Type != object.TArray {
		return nil, false
	}
	items := v.Value.(*object.Array).Items()
	if len(items) == 0 || items[0].Type != object.TString {
		return nil, false
	}
	data := items[0].Value.(*object.PSString).Bytes()
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, false
	}
	return f, true
}

func (ip *Interpreter) newFontEntry(dict *object.Dict, matrix graphics.Matrix) *fontEntry {
	parsed, _ := parseFontGlyphs(dict)
	return &fontEntry{dict: dict, parsed: parsed, matrix: matrix}
}

func (ip *Interpreter) installFont(fe *fontEntry) object.Object {
	id := ip.nextFontID
	ip.nextFontID++
	ip.fonts[id] = fe
	return object.FontID(id)
}

func opDefineFont(ip *Interpreter) *pserror.Error {
	fontDict, err := ip.operands.PopTyped(object.TDictionary, "definefont")
	if err != nil {
		return err
	}
	key, err := ip.operands.Pop("definefont")
	if err != nil {
		return err
	}
	d := fontDict.Value.(*object.Dict)
	if !d.IsFontDict() {
		return pserror.New(pserror.InvalidFont, "definefont", "not a font dictionary")
	}
	fe := ip.newFontEntry(d, fontMatrixFromDict(d))
	fontObj := ip.installFont(fe)
	if perr := ip.fontDirectory().Set(key, fontObj, "definefont"); perr != nil {
		return perr
	}
	ip.operands.Push(fontObj)
	return nil
}

func opFindFont(ip *Interpreter) *pserror.Error {
	key, err := ip.operands.Pop("findfont")
	if err != nil {
		return err
	}
	v, ok := ip.fontDirectory().Get(key)
	if !ok {
		return pserror.New(pserror.InvalidFont, "findfont", "font not found in FontDirectory")
	}
	ip.operands.Push(v)
	return nil
}

func (ip *Interpreter) resolveFont(v object.Object, op string) (*fontEntry, *pserror.Error) {
	if v.Type != object.TFontID {
		return nil, pserror.New(pserror.TypeCheck, op, "expected a font object")
	}
	id, _ := v.Value.(int)
	fe, ok := ip.fonts[id]
	if !ok {
		return nil, pserror.New(pserror.InvalidFont, op, "stale font reference")
	}
	return fe, nil
}

func opScaleFont(ip *Interpreter) *pserror.Error {
	scale, err := ip.operands.PopTyped(object.TNumber, "scalefont")
	if err != nil {
		return err
	}
	fontObj, err := ip.operands.PopTyped(object.TFontID, "scalefont")
	if err != nil {
		return err
	}
	fe, perr := ip.resolveFont(fontObj, "scalefont")
	if perr != nil {
		return perr
	}
	s := scale.Number()
	scaled := fe.matrix.Multiply(graphics.Matrix{s, 0, 0, s, 0, 0})
	newFe := &fontEntry{dict: fe.dict, parsed: fe.parsed, matrix: scaled}
	ip.operands.Push(ip.installFont(newFe))
	return nil
}

func opMakeFont(ip *Interpreter) *pserror.Error {
	matArr, err := ip.operands.PopTyped(object.TArray, "makefont")
	if err != nil {
		return err
	}
	fontObj, err := ip.operands.PopTyped(object.TFontID, "makefont")
	if err != nil {
		return err
	}
	fe, perr := ip.resolveFont(fontObj, "makefont")
	if perr != nil {
		return perr
	}
	m, perr := matrixArrayToGraphics(matArr.Value.(*object.Array), "makefont")
	if perr != nil {
		return perr
	}
	newFe := &fontEntry{dict: fe.dict, parsed: fe.parsed, matrix: fe.matrix.Multiply(m)}
	ip.operands.Push(ip.installFont(newFe))
	return nil
}

func opSetFont(ip *Interpreter) *pserror.Error {
	fontObj, err := ip.operands.PopTyped(object.TFontID, "setfont")
	if err != nil {
		return err
	}
	fe, perr := ip.resolveFont(fontObj, "setfont")
	if perr != nil {
		return perr
	}
	ip.curFont = fe
	g, gerr := ip.gfx("setfont")
	if gerr != nil {
		return gerr
	}
	g.SetFont(&fontAdapter{fe: fe})
	return nil
}

// opSelectFont is PLRM's convenience combination of findfont/scalefont/
// setfont, operating directly on a name key rather than a font object.
func opSelectFont(ip *Interpreter) *pserror.Error {
	scale, err := ip.operands.PopTyped(object.TNumber, "selectfont")
	if err != nil {
		return err
	}
	key, err := ip.operands.Pop("selectfont")
	if err != nil {
		return err
	}
	v, ok := ip.fontDirectory().Get(key)
	if !ok {
		return pserror.New(pserror.InvalidFont, "selectfont", "font not found in FontDirectory")
	}
	fe, perr := ip.resolveFont(v, "selectfont")
	if perr != nil {
		return perr
	}
	s := scale.Number()
	scaled := &fontEntry{dict: fe.dict, parsed: fe.parsed, matrix: fe.matrix.Multiply(graphics.Matrix{s, 0, 0, s, 0, 0})}
	ip.curFont = scaled
	g, gerr := ip.gfx("selectfont")
	if gerr != nil {
		return gerr
	}
	g.SetFont(&fontAdapter{fe: scaled})
	return nil
}

// fontAdapter bridges a parsed sfnt.Font + FontMatrix to the abstract
// graphics.Font contract (spec.md §4.11): glyph index equals character
// code, since this interpreter carries no PLRM Encoding vector.
type fontAdapter struct {
	fe *fontEntry
}

func (f *fontAdapter) GlyphPath(c byte) ([]graphics.PathSegment, float64, bool) {
	if f.fe == nil || f.fe.parsed == nil {
		return nil, 0, false
	}
	g, err := f.fe.parsed.Glyph(uint16(c))
	if err != nil {
		return nil, 0, false
	}
	scale := f.fe.matrix[0]
	segs := g.Outline(f.fe.parsed.UnitsPerEm, scale)
	advance := float64(f.fe.parsed.AdvanceWidth(uint16(c))) * scale
	return segs, advance, true
}

func (ip *Interpreter) requireCurrentFont(op string) (*fontEntry, *pserror.Error) {
	if ip.curFont == nil {
		return nil, pserror.New(pserror.InvalidFont, op, "no font is current")
	}
	if ip.curFont.parsed == nil && ip.curFont.dict.Has(object.Name("sfnts", object.Literal)) {
		return nil, pserror.New(pserror.InvalidFont, op, "font's /sfnts data is not a parseable sfnt")
	}
	return ip.curFont, nil
}

func popShowString(ip *Interpreter, op string) ([]byte, *pserror.Error) {
	s, err := ip.operands.PopTyped(object.TString, op)
	if err != nil {
		return nil, err
	}
	return s.Value.(*object.PSString).Bytes(), nil
}

func opShow(ip *Interpreter) *pserror.Error {
	if _, err := ip.requireCurrentFont("show"); err != nil {
		return err
	}
	text, err := popShowString(ip, "show")
	if err != nil {
		return err
	}
	g, gerr := ip.gfx("show")
	if gerr != nil {
		return gerr
	}
	cp, ok := g.CurrentPoint()
	if !ok {
		return pserror.New(pserror.NoCurrentPoint, "show", "no current point")
	}
	g.FillText(text, cp)
	return nil
}

// showWithExtra implements ashow/widthshow/awidthshow's shared shape: walk
// text byte by byte, painting each glyph individually so extra spacing can
// be injected, since the abstract Context only exposes whole-string
// FillText (spec.md §4.11 keeps the backend contract minimal).
func showWithExtra(ip *Interpreter, op string, text []byte, ax, ay float64, matchChar byte, hasMatch bool, cx, cy float64) *pserror.Error {
	fe, err := ip.requireCurrentFont(op)
	if err != nil {
		return err
	}
	g, gerr := ip.gfx(op)
	if gerr != nil {
		return gerr
	}
	cp, ok := g.CurrentPoint()
	if !ok {
		return pserror.New(pserror.NoCurrentPoint, op, "no current point")
	}
	adapter := &fontAdapter{fe: fe}
	for _, c := range text {
		_, advance, okGlyph := adapter.GlyphPath(c)
		g.FillText([]byte{c}, cp)
		dx, dy := ax, ay
		if hasMatch && c == matchChar {
			dx += cx
			dy += cy
		}
		if okGlyph {
			cp.X += advance + dx
		} else {
			cp.X += dx
		}
		cp.Y += dy
	}
	g.MoveTo(cp.X, cp.Y)
	return nil
}

func opAShow(ip *Interpreter) *pserror.Error {
	text, err := popShowString(ip, "ashow")
	if err != nil {
		return err
	}
	ay, err := ip.operands.PopTyped(object.TNumber, "ashow")
	if err != nil {
		return err
	}
	ax, err := ip.operands.PopTyped(object.TNumber, "ashow")
	if err != nil {
		return err
	}
	return showWithExtra(ip, "ashow", text, ax.Number(), ay.Number(), 0, false, 0, 0)
}

func opWidthShow(ip *Interpreter) *pserror.Error {
	text, err := popShowString(ip, "widthshow")
	if err != nil {
		return err
	}
	char, err := ip.operands.PopTyped(object.TInteger, "widthshow")
	if err != nil {
		return err
	}
	cy, err := ip.operands.PopTyped(object.TNumber, "widthshow")
	if err != nil {
		return err
	}
	cx, err := ip.operands.PopTyped(object.TNumber, "widthshow")
	if err != nil {
		return err
	}
	return showWithExtra(ip, "widthshow", text, 0, 0, byte(char.AsInt64()), true, cx.Number(), cy.Number())
}

func opAWidthShow(ip *Interpreter) *pserror.Error {
	text, err := popShowString(ip, "awidthshow")
	if err != nil {
		return err
	}
	char, err := ip.operands.PopTyped(object.TInteger, "awidthshow")
	if err != nil {
		return err
	}
	cy, err := ip.operands.PopTyped(object.TNumber, "awidthshow")
	if err != nil {
		return err
	}
	cx, err := ip.operands.PopTyped(object.TNumber, "awidthshow")
	if err != nil {
		return err
	}
	ay, err := ip.operands.PopTyped(object.TNumber, "awidthshow")
	if err != nil {
		return err
	}
	ax, err := ip.operands.PopTyped(object.TNumber, "awidthshow")
	if err != nil {
		return err
	}
	return showWithExtra(ip, "awidthshow", text, ax.Number(), ay.Number(), byte(char.AsInt64()), true, cx.Number(), cy.Number())
}

func opCharPath(ip *Interpreter) *pserror.Error {
	_, err := ip.operands.PopTyped(object.TBoolean, "charpath") // `bool` fill-vs-stroke hint, unused by this backend contract
	if err != nil {
		return err
	}
	fe, err := ip.requireCurrentFont("charpath")
	if err != nil {
		return err
	}
	text, err := popShowString(ip, "charpath")
	if err != nil {
		return err
	}
	g, gerr := ip.gfx("charpath")
	if gerr != nil {
		return gerr
	}
	cp, ok := g.CurrentPoint()
	if !ok {
		return pserror.New(pserror.NoCurrentPoint, "charpath", "no current point")
	}
	adapter := &fontAdapter{fe: fe}
	for _, c := range text {
		_, advance, okGlyph := adapter.GlyphPath(c)
		g.CharPath([]byte{c}, cp)
		if okGlyph {
			cp.X += advance
		}
	}
	g.MoveTo(cp.X, cp.Y)
	return nil
}

func opKShow(ip *Interpreter) *pserror.Error {
	proc, err := procArrayOperand(ip, "kshow")
	if err != nil {
		return err
	}
	fe, err := ip.requireCurrentFont("kshow")
	if err != nil {
		return err
	}
	text, err := popShowString(ip, "kshow")
	if err != nil {
		return err
	}
	g, gerr := ip.gfx("kshow")
	if gerr != nil {
		return gerr
	}
	adapter := &fontAdapter{fe: fe}
	render := func(i int) *pserror.Error {
		cp, ok := g.CurrentPoint()
		if !ok {
			return pserror.New(pserror.NoCurrentPoint, "kshow", "no current point")
		}
		c := text[i]
		_, advance, okGlyph := adapter.GlyphPath(c)
		g.FillText([]byte{c}, cp)
		if okGlyph {
			g.MoveTo(cp.X+advance, cp.Y)
		}
		return nil
	}
	ip.execStack.PushFrame(exec.NewStringKShowLoopContext(proc, len(text), render))
	return nil
}

func opStringWidth(ip *Interpreter) *pserror.Error {
	if _, err := ip.requireCurrentFont("stringwidth"); err != nil {
		return err
	}
	text, err := popShowString(ip, "stringwidth")
	if err != nil {
		return err
	}
	g, gerr := ip.gfx("stringwidth")
	if gerr != nil {
		return gerr
	}
	w, h := g.StringWidth(text)
	ip.operands.Push(object.Real(w))
	ip.operands.Push(object.Real(h))
	return nil
}
