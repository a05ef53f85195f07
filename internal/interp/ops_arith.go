package interp

import (
	"math"

	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
)

// registerArithmeticOps installs PLRM's numeric operators (spec.md §4.7).
// Two-operand arithmetic widens to Real if either operand is Real and
// stays Integer when both are, matching PLRM's "numeric result type"
// table; div/idiv/mod are the three exceptions with their own type rule.
func (ip *Interpreter) registerArithmeticOps() {
	ip.register("add", numBinOp("add", func(a, b float64) float64 { return a + b }))
	ip.register("sub", numBinOp("sub", func(a, b float64) float64 { return a - b }))
	ip.register("mul", numBinOp("mul", func(a, b float64) float64 { return a * b }))
	ip.register("div", opDiv)
	ip.register("idiv", opIDiv)
	ip.register("mod", opMod)
	ip.register("neg", opNeg)
	ip.register("abs", opAbs)
	ip.register("ceiling", opCeiling)
	ip.register("floor", opFloor)
	ip.register("round", opRound)
	ip.register("truncate", opTruncate)
	ip.register("sqrt", opSqrt)
	ip.register("sin", opSin)
	ip.register("cos", opCos)
	ip.register("atan", opAtan)
	ip.register("exp", opExp)
	ip.register("ln", opLn)
	ip.register("log", opLog)
	ip.register("cvi", opCvi)
	ip.register("cvr", opCvr)
	ip.register("cvrs", opCvrs)
}

func bothInteger(a, b object.Object) bool { return a.Type == object.TInteger && b.Type == object.TInteger }

func numBinOp(op string, f func(a, b float64) float64) OperatorFunc {
	return func(ip *Interpreter) *pserror.Error {
		b, err := ip.operands.PopTyped(object.TNumber, op)
		if err != nil {
			return err
		}
		a, err := ip.operands.PopTyped(object.TNumber, op)
		if err != nil {
			return err
		}
		r := f(a.Number(), b.Number())
		if bothInteger(a, b) && r == math.Trunc(r) && !math.IsInf(r, 0) {
			ip.operands.Push(object.Integer(int64(r)))
		} else {
			ip.operands.Push(object.Real(r))
		}
		return nil
	}
}

func opDiv(ip *Interpreter) *pserror.Error {
	b, err := ip.operands.PopTyped(object.TNumber, "div")
	if err != nil {
		return err
	}
	a, err := ip.operands.PopTyped(object.TNumber, "div")
	if err != nil {
		return err
	}
	if b.Number() == 0 {
		return pserror.New(pserror.UndefinedResult, "div", "division by zero")
	}
	ip.operands.Push(object.Real(a.Number() / b.Number()))
	return nil
}

func opIDiv(ip *Interpreter) *pserror.Error {
	b, err := ip.operands.PopTyped(object.TInteger, "idiv")
	if err != nil {
		return err
	}
	a, err := ip.operands.PopTyped(object.TInteger, "idiv")
	if err != nil {
		return err
	}
	if b.AsInt64() == 0 {
		return pserror.New(pserror.UndefinedResult, "idiv", "division by zero")
	}
	ip.operands.Push(object.Integer(a.AsInt64() / b.AsInt64()))
	return nil
}

func opMod(ip *Interpreter) *pserror.Error {
	b, err := ip.operands.PopTyped(object.TInteger, "mod")
	if err != nil {
		return err
	}
	a, err := ip.operands.PopTyped(object.TInteger, "mod")
	if err != nil {
		return err
	}
	if b.AsInt64() == 0 {
		return pserror.New(pserror.UndefinedResult, "mod", "modulo by zero")
	}
	ip.operands.Push(object.Integer(a.AsInt64() % b.AsInt64()))
	return nil
}

func numUnaryOp(op string, f func(float64) float64, resultInteger func(a object.Object, r float64) bool) OperatorFunc {
	return func(ip *Interpreter) *pserror.Error {
		a, err := ip.operands.PopTyped(object.TNumber, op)
		if err != nil {
			return err
		}
		r := f(a.Number())
		if resultInteger(a, r) {
			ip.operands.Push(object.Integer(int64(r)))
		} else {
			ip.operands.Push(object.Real(r))
		}
		return nil
	}
}

func sameTypeAsOperand(a object.Object, r float64) bool {
	return a.Type == object.TInteger && r == math.Trunc(r) && !math.IsInf(r, 0)
}

func opNeg(ip *Interpreter) *pserror.Error {
	return numUnaryOp("neg", func(v float64) float64 { return -v }, sameTypeAsOperand)(ip)
}

func opAbs(ip *Interpreter) *pserror.Error {
	return numUnaryOp("abs", math.Abs, sameTypeAsOperand)(ip)
}

// ceiling/floor/round/truncate always return the same numeric type as their
// operand (PLRM: an Integer operand yields an Integer result unchanged).
func opCeiling(ip *Interpreter) *pserror.Error {
	return numUnaryOp("ceiling", math.Ceil, func(a object.Object, _ float64) bool { return a.Type == object.TInteger })(ip)
}

func opFloor(ip *Interpreter) *pserror.Error {
	return numUnaryOp("floor", math.Floor, func(a object.Object, _ float64) bool { return a.Type == object.TInteger })(ip)
}

func opRound(ip *Interpreter) *pserror.Error {
	return numUnaryOp("round", math.Round, func(a object.Object, _ float64) bool { return a.Type == object.TInteger })(ip)
}

func opTruncate(ip *Interpreter) *pserror.Error {
	return numUnaryOp("truncate", math.Trunc, func(a object.Object, _ float64) bool { return a.Type == object.TInteger })(ip)
}

func opSqrt(ip *Interpreter) *pserror.Error {
	a, err := ip.operands.PopTyped(object.TNumber, "sqrt")
	if err != nil {
		return err
	}
	if a.Number() < 0 {
		return pserror.New(pserror.RangeCheck, "sqrt", "negative operand")
	}
	ip.operands.Push(object.Real(math.Sqrt(a.Number())))
	return nil
}

// sin/cos take degrees, per PLRM.
func opSin(ip *Interpreter) *pserror.Error {
	a, err := ip.operands.PopTyped(object.TNumber, "sin")
	if err != nil {
		return err
	}
	ip.operands.Push(object.Real(math.Sin(a.Number() * math.Pi / 180)))
	return nil
}

func opCos(ip *Interpreter) *pserror.Error {
	a, err := ip.operands.PopTyped(object.TNumber, "cos")
	if err != nil {
		return err
	}
	ip.operands.Push(object.Real(math.Cos(a.Number() * math.Pi / 180)))
	return nil
}

// atan returns degrees in [0,360), per PLRM.
func opAtan(ip *Interpreter) *pserror.Error {
	den, err := ip.operands.PopTyped(object.TNumber, "atan")
	if err != nil {
		return err
	}
	num, err := ip.operands.PopTyped(object.TNumber, "atan")
	if err != nil {
		return err
	}
	deg := math.Atan2(num.Number(), den.Number()) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	ip.operands.Push(object.Real(deg))
	return nil
}

func opExp(ip *Interpreter) *pserror.Error {
	exp, err := ip.operands.PopTyped(object.TNumber, "exp")
	if err != nil {
		return err
	}
	base, err := ip.operands.PopTyped(object.TNumber, "exp")
	if err != nil {
		return err
	}
	ip.operands.Push(object.Real(math.Pow(base.Number(), exp.Number())))
	return nil
}

func opLn(ip *Interpreter) *pserror.Error {
	a, err := ip.operands.PopTyped(object.TNumber, "ln")
	if err != nil {
		return err
	}
	if a.Number() <= 0 {
		return pserror.New(pserror.RangeCheck, "ln", "non-positive operand")
	}
	ip.operands.Push(object.Real(math.Log(a.Number())))
	return nil
}

func opLog(ip *Interpreter) *pserror.Error {
	a, err := ip.operands.PopTyped(object.TNumber, "log")
	if err != nil {
		return err
	}
	if a.Number() <= 0 {
		return pserror.New(pserror.RangeCheck, "log", "non-positive operand")
	}
	ip.operands.Push(object.Real(math.Log10(a.Number())))
	return nil
}

func opCvi(ip *Interpreter) *pserror.Error {
	a, err := ip.operands.PopTyped(object.TNumber|object.TString, "cvi")
	if err != nil {
		return err
	}
	if a.Type == object.TString {
		n, perr := parseNumberFromString(a, "cvi")
		if perr != nil {
			return perr
		}
		a = n
	}
	ip.operands.Push(object.Integer(a.AsInt64()))
	return nil
}

func opCvr(ip *Interpreter) *pserror.Error {
	a, err := ip.operands.PopTyped(object.TNumber|object.TString, "cvr")
	if err != nil {
		return err
	}
	if a.Type == object.TString {
		n, perr := parseNumberFromString(a, "cvr")
		if perr != nil {
			return perr
		}
		a = n
	}
	ip.operands.Push(object.Real(a.Number()))
	return nil
}
