package interp

import (
	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
)

// registerRandomOps installs PLRM's random-number operators (spec.md §4.9):
// a 31-bit generator seeded from ip.randState. srand/rrand are the spec's
// stubbed forms — srand reseeds deterministically, rrand always answers -1
// rather than exposing the true generator state.
func (ip *Interpreter) registerRandomOps() {
	ip.register("rand", opRand)
	ip.register("srand", opSRand)
	ip.register("rrand", opRRand)
}

// nextRand advances ip.randState with a linear congruential step (Numerical
// Recipes' constants) and returns the low 31 bits, matching PLRM's
// 0..2^31-1 range for `rand`.
func (ip *Interpreter) nextRand() int64 {
	ip.randState = ip.randState*1664525 + 1013904223
	return int64(ip.randState & 0x7fffffff)
}

func opRand(ip *Interpreter) *pserror.Error {
	ip.operands.Push(object.Integer(ip.nextRand()))
	return nil
}

func opSRand(ip *Interpreter) *pserror.Error {
	n, err := ip.operands.PopTyped(object.TInteger, "srand")
	if err != nil {
		return err
	}
	ip.randState = uint32(n.AsInt64())
	return nil
}

// opRRand is spec.md §4.9's stubbed form: it never exposes the generator's
// true internal state, always answering -1.
func opRRand(ip *Interpreter) *pserror.Error {
	ip.operands.Push(object.Integer(-1))
	return nil
}
