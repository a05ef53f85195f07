package interp

import (
	"fmt"
	"strconv"

	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
)

// registerStringOps installs string-specific operators (spec.md §4.7):
// string, cvs, cvn, anchorsearch, search. length/get/put/getinterval/
// putinterval/copy/forall are shared dispatch points already registered by
// registerArrayOps/registerStackOps.
func (ip *Interpreter) registerStringOps() {
	ip.register("string", opString)
	ip.register("cvs", opCvs)
	ip.register("cvn", opCvn)
	ip.register("anchorsearch", opAnchorSearch)
	ip.register("search", opSearch)
}

func opString(ip *Interpreter) *pserror.Error {
	n, err := ip.operands.PopTyped(object.TInteger, "string")
	if err != nil {
		return err
	}
	count := int(n.AsInt64())
	if count < 0 {
		return pserror.New(pserror.RangeCheck, "string", "string length must be non-negative")
	}
	s := object.NewString(count)
	ip.operands.Push(object.Object{Type: object.TString, Exec: object.Literal, Acc: object.Unlimited, Value: s})
	return nil
}

// opCvs renders any Object as characters into the destination string
// (PLRM's `cvs`), returning the sub-view actually written.
func opCvs(ip *Interpreter) *pserror.Error {
	dst, err := ip.operands.PopTyped(object.TString, "cvs")
	if err != nil {
		return err
	}
	v, err := ip.operands.Pop("cvs")
	if err != nil {
		return err
	}
	text := cvsText(v)
	s := dst.Value.(*object.PSString)
	if s.Length() < len(text) {
		return pserror.New(pserror.RangeCheck, "cvs", "destination string too small")
	}
	if perr := s.PutInterval(0, []byte(text), "cvs"); perr != nil {
		return perr
	}
	sub, perr := s.SubString(0, len(text), "cvs")
	if perr != nil {
		return perr
	}
	ip.operands.Push(object.Object{Type: object.TString, Exec: object.Literal, Acc: sub.Access(), Value: sub})
	return nil
}

func cvsText(v object.Object) string {
	switch v.Type {
	case object.TInteger:
		return strconv.FormatInt(v.AsInt64(), 10)
	case object.TReal:
		return formatPSReal(v.Number())
	case object.TBoolean:
		return strconv.FormatBool(v.AsBool())
	case object.TName:
		return v.AsName()
	case object.TString:
		return v.Value.(*object.PSString).AsString()
	case object.TNull:
		return "-null-"
	case object.TOperator:
		return v.Value.(object.OperatorRef).Name
	default:
		return fmt.Sprintf("-%s-", v.Type.String())
	}
}

// formatPSReal matches PLRM's convention: shortest decimal form that
// round-trips, never exponential notation for ordinary magnitudes.
func formatPSReal(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	return s
}

func opCvn(ip *Interpreter) *pserror.Error {
	s, err := ip.operands.PopTyped(object.TString, "cvn")
	if err != nil {
		return err
	}
	ip.operands.Push(object.Name(s.Value.(*object.PSString).AsString(), object.Literal))
	return nil
}

func opAnchorSearch(ip *Interpreter) *pserror.Error {
	seek, err := ip.operands.PopTyped(object.TString, "anchorsearch")
	if err != nil {
		return err
	}
	s, err := ip.operands.PopTyped(object.TString, "anchorsearch")
	if err != nil {
		return err
	}
	post, match, ok := s.Value.(*object.PSString).AnchorSearch(seek.Value.(*object.PSString).Bytes())
	if !ok {
		ip.operands.Push(s)
		ip.operands.Push(object.Boolean(false))
		return nil
	}
	ip.operands.Push(object.Object{Type: object.TString, Exec: object.Literal, Acc: post.Access(), Value: post})
	ip.operands.Push(object.Object{Type: object.TString, Exec: object.Literal, Acc: match.Access(), Value: match})
	ip.operands.Push(object.Boolean(true))
	return nil
}

func opSearch(ip *Interpreter) *pserror.Error {
	seek, err := ip.operands.PopTyped(object.TString, "search")
	if err != nil {
		return err
	}
	s, err := ip.operands.PopTyped(object.TString, "search")
	if err != nil {
		return err
	}
	pre, match, post, ok := s.Value.(*object.PSString).Search(seek.Value.(*object.PSString).Bytes())
	if !ok {
		ip.operands.Push(s)
		ip.operands.Push(object.Boolean(false))
		return nil
	}
	ip.operands.Push(object.Object{Type: object.TString, Exec: object.Literal, Acc: post.Access(), Value: post})
	ip.operands.Push(object.Object{Type: object.TString, Exec: object.Literal, Acc: match.Access(), Value: match})
	ip.operands.Push(object.Object{Type: object.TString, Exec: object.Literal, Acc: pre.Access(), Value: pre})
	ip.operands.Push(object.Boolean(true))
	return nil
}
