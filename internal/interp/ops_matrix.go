package interp

import (
	"math"

	"github.com/cwbudde/go-postscript/internal/graphics"
	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
)

// registerMatrixOps installs PLRM's coordinate-system operators (spec.md
// §4.11): matrix construction/access and the CTM manipulation family.
func (ip *Interpreter) registerMatrixOps() {
	ip.register("matrix", opMatrixIdentity)
	ip.register("identmatrix", opIdentMatrix)
	ip.register("translate", opTranslate)
	ip.register("scale", opScale)
	ip.register("rotate", opRotate)
	ip.register("concat", opConcat)
	ip.register("concatmatrix", opConcatMatrix)
	ip.register("setmatrix", opSetMatrix)
	ip.register("currentmatrix", opCurrentMatrix)
	ip.register("defaultmatrix", opCurrentMatrix) // spec.md: no device/default split, CTM doubles as both
	ip.register("transform", opTransform)
	ip.register("itransform", opITransform)
	ip.register("dtransform", opDTransform)
	ip.register("idtransform", opIDTransform)
	ip.register("invertmatrix", opInvertMatrix)
}

// matrixArrayToGraphics reads a 6-element Array as a graphics.Matrix.
func matrixArrayToGraphics(a *object.Array, op string) (graphics.Matrix, *pserror.Error) {
	if a.Length() != 6 {
		return graphics.Matrix{}, pserror.New(pserror.RangeCheck, op, "matrix array must have 6 elements")
	}
	var m graphics.Matrix
	for i := 0; i < 6; i++ {
		v, err := a.Get(i, op)
		if err != nil {
			return graphics.Matrix{}, err
		}
		if !v.Type.Has(object.TNumber) {
			return graphics.Matrix{}, pserror.New(pserror.TypeCheck, op, "matrix elements must be numbers")
		}
		m[i] = v.Number()
	}
	return m, nil
}

func graphicsMatrixToArray(m graphics.Matrix) *object.Array {
	elems := make([]object.Object, 6)
	for i, v := range m {
		elems[i] = object.Real(v)
	}
	return object.NewArrayFrom(elems)
}

func pushMatrixArray(ip *Interpreter, m graphics.Matrix) {
	arr := graphicsMatrixToArray(m)
	ip.operands.Push(object.Object{Type: object.TArray, Exec: object.Literal, Acc: object.Unlimited, Value: arr})
}

// opMatrixIdentity implements PLRM's `matrix`: allocates a fresh array and
// fills it with the identity matrix.
func opMatrixIdentity(ip *Interpreter) *pserror.Error {
	pushMatrixArray(ip, graphics.Identity)
	return nil
}

// opIdentMatrix implements `identmatrix`: overwrites the given array with
// the identity and leaves it on the stack (PLRM's in-place variant).
func opIdentMatrix(ip *Interpreter) *pserror.Error {
	a, err := ip.operands.PopTyped(object.TArray, "identmatrix")
	if err != nil {
		return err
	}
	arr := a.Value.(*object.Array)
	if arr.Length() != 6 {
		return pserror.New(pserror.RangeCheck, "identmatrix", "matrix array must have 6 elements")
	}
	for i, v := range graphics.Identity {
		if perr := arr.Set(i, object.Real(v), "identmatrix"); perr != nil {
			return perr
		}
	}
	ip.operands.Push(a)
	return nil
}

func opTranslate(ip *Interpreter) *pserror.Error {
	tx, ty, err := pop2Numbers(ip, "translate")
	if err != nil {
		return err
	}
	g, err := ip.gfx("translate")
	if err != nil {
		return err
	}
	g.Concat(graphics.Matrix{1, 0, 0, 1, tx, ty})
	return nil
}

func opScale(ip *Interpreter) *pserror.Error {
	sx, sy, err := pop2Numbers(ip, "scale")
	if err != nil {
		return err
	}
	g, err := ip.gfx("scale")
	if err != nil {
		return err
	}
	g.Concat(graphics.Matrix{sx, 0, 0, sy, 0, 0})
	return nil
}

func opRotate(ip *Interpreter) *pserror.Error {
	deg, err := ip.operands.PopTyped(object.TNumber, "rotate")
	if err != nil {
		return err
	}
	g, err := ip.gfx("rotate")
	if err != nil {
		return err
	}
	rad := deg.Number() * math.Pi / 180
	s, c := math.Sin(rad), math.Cos(rad)
	g.Concat(graphics.Matrix{c, s, -s, c, 0, 0})
	return nil
}

func opConcat(ip *Interpreter) *pserror.Error {
	a, err := ip.operands.PopTyped(object.TArray, "concat")
	if err != nil {
		return err
	}
	m, perr := matrixArrayToGraphics(a.Value.(*object.Array), "concat")
	if perr != nil {
		return perr
	}
	g, err := ip.gfx("concat")
	if err != nil {
		return err
	}
	g.Concat(m)
	return nil
}

func opConcatMatrix(ip *Interpreter) *pserror.Error {
	dst, err := ip.operands.PopTyped(object.TArray, "concatmatrix")
	if err != nil {
		return err
	}
	b, err := ip.operands.PopTyped(object.TArray, "concatmatrix")
	if err != nil {
		return err
	}
	a, err := ip.operands.PopTyped(object.TArray, "concatmatrix")
	if err != nil {
		return err
	}
	ma, perr := matrixArrayToGraphics(a.Value.(*object.Array), "concatmatrix")
	if perr != nil {
		return perr
	}
	mb, perr := matrixArrayToGraphics(b.Value.(*object.Array), "concatmatrix")
	if perr != nil {
		return perr
	}
	result := ma.Multiply(mb)
	dstArr := dst.Value.(*object.Array)
	if dstArr.Length() != 6 {
		return pserror.New(pserror.RangeCheck, "concatmatrix", "matrix array must have 6 elements")
	}
	for i, v := range result {
		if perr := dstArr.Set(i, object.Real(v), "concatmatrix"); perr != nil {
			return perr
		}
	}
	ip.operands.Push(dst)
	return nil
}

func opSetMatrix(ip *Interpreter) *pserror.Error {
	a, err := ip.operands.PopTyped(object.TArray, "setmatrix")
	if err != nil {
		return err
	}
	m, perr := matrixArrayToGraphics(a.Value.(*object.Array), "setmatrix")
	if perr != nil {
		return perr
	}
	g, err := ip.gfx("setmatrix")
	if err != nil {
		return err
	}
	g.SetMatrix(m)
	return nil
}

func opCurrentMatrix(ip *Interpreter) *pserror.Error {
	a, err := ip.operands.PopTyped(object.TArray, "currentmatrix")
	if err != nil {
		return err
	}
	g, err := ip.gfx("currentmatrix")
	if err != nil {
		return err
	}
	m := g.GetMatrix()
	arr := a.Value.(*object.Array)
	if arr.Length() != 6 {
		return pserror.New(pserror.RangeCheck, "currentmatrix", "matrix array must have 6 elements")
	}
	for i, v := range m {
		if perr := arr.Set(i, object.Real(v), "currentmatrix"); perr != nil {
			return perr
		}
	}
	ip.operands.Push(a)
	return nil
}

func opTransform(ip *Interpreter) *pserror.Error {
	x, y, m, err := popXYOptMatrix(ip, "transform")
	if err != nil {
		return err
	}
	dx, dy := m.Apply(x, y)
	ip.operands.Push(object.Real(dx))
	ip.operands.Push(object.Real(dy))
	return nil
}

func opITransform(ip *Interpreter) *pserror.Error {
	x, y, m, err := popXYOptMatrix(ip, "itransform")
	if err != nil {
		return err
	}
	inv, ok := invert(m)
	if !ok {
		return pserror.New(pserror.UndefinedResult, "itransform", "matrix is not invertible")
	}
	ux, uy := inv.Apply(x, y)
	ip.operands.Push(object.Real(ux))
	ip.operands.Push(object.Real(uy))
	return nil
}

// dtransform/idtransform behave like transform/itransform but ignore the
// translation component, per PLRM (they map vectors, not points).
func opDTransform(ip *Interpreter) *pserror.Error {
	x, y, m, err := popXYOptMatrix(ip, "dtransform")
	if err != nil {
		return err
	}
	m[4], m[5] = 0, 0
	dx, dy := m.Apply(x, y)
	ip.operands.Push(object.Real(dx))
	ip.operands.Push(object.Real(dy))
	return nil
}

func opIDTransform(ip *Interpreter) *pserror.Error {
	x, y, m, err := popXYOptMatrix(ip, "idtransform")
	if err != nil {
		return err
	}
	m[4], m[5] = 0, 0
	inv, ok := invert(m)
	if !ok {
		return pserror.New(pserror.UndefinedResult, "idtransform", "matrix is not invertible")
	}
	ux, uy := inv.Apply(x, y)
	ip.operands.Push(object.Real(ux))
	ip.operands.Push(object.Real(uy))
	return nil
}

// popXYOptMatrix handles the `x y [matrix] transform`-family overload: an
// optional trailing matrix array, defaulting to the current CTM.
func popXYOptMatrix(ip *Interpreter, op string) (x, y float64, m graphics.Matrix, err *pserror.Error) {
	top, err := ip.operands.Top(op)
	if err != nil {
		return 0, 0, graphics.Matrix{}, err
	}
	if top.Type == object.TArray {
		ip.operands.Pop(op)
		m, perr := matrixArrayToGraphics(top.Value.(*object.Array), op)
		if perr != nil {
			return 0, 0, graphics.Matrix{}, perr
		}
		yv, err := ip.operands.PopTyped(object.TNumber, op)
		if err != nil {
			return 0, 0, graphics.Matrix{}, err
		}
		xv, err := ip.operands.PopTyped(object.TNumber, op)
		if err != nil {
			return 0, 0, graphics.Matrix{}, err
		}
		return xv.Number(), yv.Number(), m, nil
	}
	g, gerr := ip.gfx(op)
	if gerr != nil {
		return 0, 0, graphics.Matrix{}, gerr
	}
	yv, err := ip.operands.PopTyped(object.TNumber, op)
	if err != nil {
		return 0, 0, graphics.Matrix{}, err
	}
	xv, err := ip.operands.PopTyped(object.TNumber, op)
	if err != nil {
		return 0, 0, graphics.Matrix{}, err
	}
	return xv.Number(), yv.Number(), g.GetMatrix(), nil
}

// invert computes the inverse of an affine 2x3 matrix, ok=false if
// singular.
func invert(m graphics.Matrix) (graphics.Matrix, bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 {
		return graphics.Matrix{}, false
	}
	inv := 1 / det
	a, b, c, d := m[3]*inv, -m[1]*inv, -m[2]*inv, m[0]*inv
	tx := -(m[4]*a + m[5]*c)
	ty := -(m[4]*b + m[5]*d)
	return graphics.Matrix{a, b, c, d, tx, ty}, true
}

func opInvertMatrix(ip *Interpreter) *pserror.Error {
	dst, err := ip.operands.PopTyped(object.TArray, "invertmatrix")
	if err != nil {
		return err
	}
	src, err := ip.operands.PopTyped(object.TArray, "invertmatrix")
	if err != nil {
		return err
	}
	m, perr := matrixArrayToGraphics(src.Value.(*object.Array), "invertmatrix")
	if perr != nil {
		return perr
	}
	inv, ok := invert(m)
	if !ok {
		return pserror.New(pserror.UndefinedResult, "invertmatrix", "matrix is not invertible")
	}
	dstArr := dst.Value.(*object.Array)
	if dstArr.Length() != 6 {
		return pserror.New(pserror.RangeCheck, "invertmatrix", "matrix array must have 6 elements")
	}
	for i, v := range inv {
		if perr := dstArr.Set(i, object.Real(v), "invertmatrix"); perr != nil {
			return perr
		}
	}
	ip.operands.Push(dst)
	return nil
}
