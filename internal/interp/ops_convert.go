package interp

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
)

// parseNumberFromString backs cvi/cvr's String-operand form: PLRM requires
// the string to scan as a single PostScript number token.
func parseNumberFromString(s object.Object, op string) (object.Object, *pserror.Error) {
	ps, ok := s.Value.(*object.PSString)
	if !ok {
		return object.Object{}, pserror.New(pserror.TypeCheck, op, "expected a string")
	}
	text := strings.TrimSpace(ps.AsString())
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return object.Integer(i), nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return object.Real(f), nil
	}
	return object.Object{}, pserror.New(pserror.RangeCheck, op, "operand string is not a number")
}

// opCvrs implements PLRM's `cvrs`: num radix string cvrs substring, writing
// num's value in the given radix (2..36) as digit characters into the
// destination string.
func opCvrs(ip *Interpreter) *pserror.Error {
	dst, err := ip.operands.PopTyped(object.TString, "cvrs")
	if err != nil {
		return err
	}
	radix, err := ip.operands.PopTyped(object.TInteger, "cvrs")
	if err != nil {
		return err
	}
	num, err := ip.operands.PopTyped(object.TNumber, "cvrs")
	if err != nil {
		return err
	}
	base := radix.AsInt64()
	if base < 2 || base > 36 {
		return pserror.New(pserror.RangeCheck, "cvrs", "radix must be between 2 and 36")
	}
	text := strings.ToUpper(strconv.FormatInt(num.AsInt64(), int(base)))
	s := dst.Value.(*object.PSString)
	if s.Length() < len(text) {
		return pserror.New(pserror.RangeCheck, "cvrs", "destination string too small")
	}
	if perr := s.PutInterval(0, []byte(text), "cvrs"); perr != nil {
		return perr
	}
	sub, perr := s.SubString(0, len(text), "cvrs")
	if perr != nil {
		return perr
	}
	ip.operands.Push(object.Object{Type: object.TString, Exec: object.Literal, Acc: sub.Access(), Value: sub})
	return nil
}
