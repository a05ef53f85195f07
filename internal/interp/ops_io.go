package interp

import (
	"github.com/cwbudde/go-postscript/internal/exec"
	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
	"github.com/cwbudde/go-postscript/internal/psfile"
)

// registerIOOps installs PLRM's I/O operators (spec.md §4.6/§4.7): output to
// %stdout (`=`/`==`/`stack`/`pstack`/`print`), File-capability operators
// (readstring/readline/readhexstring/write/writestring/writehexstring),
// `filter`, `currentfile`, `run`, `file`, and `token` over both File and
// String operands.
func (ip *Interpreter) registerIOOps() {
	ip.register("=", opEquals)
	ip.register("==", opEqualsEquals)
	ip.register("stack", opStackShow)
	ip.register("pstack", opPStack)
	ip.register("print", opPrint)
	ip.register("readstring", opReadString)
	ip.register("readline", opReadLine)
	ip.register("readhexstring", opReadHexString)
	ip.register("write", opWrite)
	ip.register("writestring", opWriteString)
	ip.register("writehexstring", opWriteHexString)
	ip.register("filter", opFilter)
	ip.register("currentfile", opCurrentFile)
	ip.register("run", opRun)
	ip.register("file", opFile)
	ip.register("token", opToken)
}

func opEquals(ip *Interpreter) *pserror.Error {
	v, err := ip.operands.Pop("=")
	if err != nil {
		return err
	}
	return ip.stdout.WriteString([]byte(cvsText(v) + "\n"))
}

func opEqualsEquals(ip *Interpreter) *pserror.Error {
	v, err := ip.operands.Pop("==")
	if err != nil {
		return err
	}
	return ip.stdout.WriteString([]byte(psSyntax(v) + "\n"))
}

// opStackShow implements PLRM's `stack`: prints every operand, top first,
// in `=`'s display form, without disturbing the stack.
func opStackShow(ip *Interpreter) *pserror.Error {
	items := ip.operands.Items()
	for i := len(items) - 1; i >= 0; i-- {
		if perr := ip.stdout.WriteString([]byte(cvsText(items[i]) + "\n")); perr != nil {
			return perr
		}
	}
	return nil
}

// opPStack is `stack`'s `==`-syntax counterpart.
func opPStack(ip *Interpreter) *pserror.Error {
	items := ip.operands.Items()
	for i := len(items) - 1; i >= 0; i-- {
		if perr := ip.stdout.WriteString([]byte(psSyntax(items[i]) + "\n")); perr != nil {
			return perr
		}
	}
	return nil
}

// opPrint writes a string's raw bytes to %stdout with no trailing newline
// and no quoting, unlike `=`.
func opPrint(ip *Interpreter) *pserror.Error {
	s, err := ip.operands.PopTyped(object.TString, "print")
	if err != nil {
		return err
	}
	return ip.stdout.WriteString(s.Value.(*object.PSString).Bytes())
}

// psSyntax renders v the way `==` does: PostScript source syntax rather
// than `=`'s plain display form, recursing into array/procedure elements.
func psSyntax(v object.Object) string {
	switch v.Type {
	case object.TString:
		return "(" + v.Value.(*object.PSString).AsString() + ")"
	case object.TName:
		if v.Exec == object.Literal {
			return "/" + v.AsName()
		}
		return v.AsName()
	case object.TMark:
		return "-mark-"
	case object.TNull:
		return "null"
	case object.TDictionary:
		return "-dict-"
	case object.TOperator:
		return "--" + v.Value.(object.OperatorRef).Name + "--"
	case object.TFile:
		h, _ := v.AsFile()
		if h != nil {
			return "-" + h.Name() + "-"
		}
		return "-file-"
	case object.TFontID:
		return "-fontid-"
	case object.TSave:
		return "-save-"
	case object.TGState:
		return "-gstate-"
	case object.TArray:
		arr := v.Value.(*object.Array)
		items := arr.Items()
		open, close := "[", "]"
		if v.Exec == object.Executable {
			open, close = "{", "}"
		}
		out := open
		for i, el := range items {
			if i > 0 {
				out += " "
			}
			out += psSyntax(el)
		}
		return out + close
	default:
		return cvsText(v)
	}
}

func fileOperand(ip *Interpreter, op string) (object.FileHandle, *pserror.Error) {
	v, err := ip.operands.PopTyped(object.TFile, op)
	if err != nil {
		return nil, err
	}
	h, ok := v.AsFile()
	if !ok {
		return nil, pserror.New(pserror.TypeCheck, op, "malformed file operand")
	}
	return h, nil
}

func opReadString(ip *Interpreter) *pserror.Error {
	dst, err := ip.operands.PopTyped(object.TString, "readstring")
	if err != nil {
		return err
	}
	f, err := fileOperand(ip, "readstring")
	if err != nil {
		return err
	}
	if !f.CanRead() {
		return pserror.New(pserror.InvalidFileAccess, "readstring", "file not open for reading")
	}
	sub, ok := f.ReadString(dst.Value.(*object.PSString))
	ip.operands.Push(object.Object{Type: object.TString, Exec: object.Literal, Acc: sub.Access(), Value: sub})
	ip.operands.Push(object.Boolean(ok))
	return nil
}

func opReadLine(ip *Interpreter) *pserror.Error {
	dst, err := ip.operands.PopTyped(object.TString, "readline")
	if err != nil {
		return err
	}
	f, err := fileOperand(ip, "readline")
	if err != nil {
		return err
	}
	if !f.CanRead() {
		return pserror.New(pserror.InvalidFileAccess, "readline", "file not open for reading")
	}
	sub, ok := f.ReadLine(dst.Value.(*object.PSString))
	ip.operands.Push(object.Object{Type: object.TString, Exec: object.Literal, Acc: sub.Access(), Value: sub})
	ip.operands.Push(object.Boolean(ok))
	return nil
}

func opReadHexString(ip *Interpreter) *pserror.Error {
	dst, err := ip.operands.PopTyped(object.TString, "readhexstring")
	if err != nil {
		return err
	}
	f, err := fileOperand(ip, "readhexstring")
	if err != nil {
		return err
	}
	if !f.CanRead() {
		return pserror.New(pserror.InvalidFileAccess, "readhexstring", "file not open for reading")
	}
	sub, ok := f.ReadHexString(dst.Value.(*object.PSString))
	ip.operands.Push(object.Object{Type: object.TString, Exec: object.Literal, Acc: sub.Access(), Value: sub})
	ip.operands.Push(object.Boolean(ok))
	return nil
}

// opWrite implements PLRM's `write`: file int write -, writing a single
// byte to the file.
func opWrite(ip *Interpreter) *pserror.Error {
	n, err := ip.operands.PopTyped(object.TInteger, "write")
	if err != nil {
		return err
	}
	f, err := fileOperand(ip, "write")
	if err != nil {
		return err
	}
	if !f.CanWrite() {
		return pserror.New(pserror.InvalidFileAccess, "write", "file not open for writing")
	}
	v := n.AsInt64()
	if v < 0 || v > 255 {
		return pserror.New(pserror.RangeCheck, "write", "byte value out of range")
	}
	return f.WriteByte(byte(v))
}

func opWriteString(ip *Interpreter) *pserror.Error {
	s, err := ip.operands.PopTyped(object.TString, "writestring")
	if err != nil {
		return err
	}
	f, err := fileOperand(ip, "writestring")
	if err != nil {
		return err
	}
	if !f.CanWrite() {
		return pserror.New(pserror.InvalidFileAccess, "writestring", "file not open for writing")
	}
	return f.WriteString(s.Value.(*object.PSString).Bytes())
}

func opWriteHexString(ip *Interpreter) *pserror.Error {
	s, err := ip.operands.PopTyped(object.TString, "writehexstring")
	if err != nil {
		return err
	}
	f, err := fileOperand(ip, "writehexstring")
	if err != nil {
		return err
	}
	if !f.CanWrite() {
		return pserror.New(pserror.InvalidFileAccess, "writehexstring", "file not open for writing")
	}
	return f.WriteHexString(s.Value.(*object.PSString).Bytes())
}

// opFilter implements PLRM's `filter`: currently only `ASCII85Decode` is
// supported, the one PostScript core filter spec.md §4.6 names.
func opFilter(ip *Interpreter) *pserror.Error {
	name, err := ip.operands.PopTyped(object.TName, "filter")
	if err != nil {
		return err
	}
	src, err := fileOperand(ip, "filter")
	if err != nil {
		return err
	}
	if name.AsName() != "ASCII85Decode" {
		return pserror.New(pserror.RangeCheck, "filter", "unsupported filter: "+name.AsName())
	}
	filtered := psfile.NewASCII85Filter(src)
	ip.operands.Push(object.File(filtered))
	return nil
}

// opCurrentFile implements PLRM's `currentfile`: the File currently being
// re-lexed by the execution stack's nearest exec.FileContext, or %stdin at
// top level (spec.md §4.5 step 2, §4.6).
func opCurrentFile(ip *Interpreter) *pserror.Error {
	items := ip.execStack.Items()
	for i := len(items) - 1; i >= 0; i-- {
		if fc, ok := items[i].(*exec.FileContext); ok {
			ip.operands.Push(object.File(fc.File))
			return nil
		}
	}
	ip.operands.Push(object.File(ip.stdin))
	return nil
}

// opRun implements PLRM's `run`: filename run -, opening a registered file
// and pushing an exec.FileContext so its content is re-lexed lazily through
// the ordinary fetch-decode-execute loop, rather than recursing into a
// nested Run call (spec.md §4.5 step 2, §9 "Execution contexts vs. call
// stack").
func opRun(ip *Interpreter) *pserror.Error {
	name, err := ip.operands.PopTyped(object.TString, "run")
	if err != nil {
		return err
	}
	filename := name.Value.(*object.PSString).AsString()
	content, ok := ip.fs.GetFile(filename)
	if !ok {
		return pserror.New(pserror.UndefinedFilename, "run", filename)
	}
	mf := psfile.NewMemoryFile(filename, content, psfile.ModeRead, ip.lookupForScan)
	ip.execStack.PushFrame(exec.NewFileContext(mf))
	return nil
}

// opFile implements PLRM's `file`: filename accessmode file file, resolving
// `%stdin`/`%stdout` to their fixed identities and anything else to the
// FileSystem (spec.md §4.6).
func opFile(ip *Interpreter) *pserror.Error {
	mode, err := ip.operands.PopTyped(object.TString, "file")
	if err != nil {
		return err
	}
	name, err := ip.operands.PopTyped(object.TString, "file")
	if err != nil {
		return err
	}
	filename := name.Value.(*object.PSString).AsString()
	accessMode := mode.Value.(*object.PSString).AsString()

	switch filename {
	case "%stdin":
		ip.operands.Push(object.File(ip.stdin))
		return nil
	case "%stdout":
		ip.operands.Push(object.File(ip.stdout))
		return nil
	}

	if isWriteMode(accessMode) {
		mf := psfile.NewWritableMemoryFile(filename, accessMode, ip.lookupForScan)
		ip.operands.Push(object.File(mf))
		return nil
	}
	content, ok := ip.fs.GetFile(filename)
	if !ok {
		return pserror.New(pserror.UndefinedFilename, "file", filename)
	}
	mf := psfile.NewMemoryFile(filename, content, accessMode, ip.lookupForScan)
	ip.operands.Push(object.File(mf))
	return nil
}

func isWriteMode(mode string) bool {
	switch mode {
	case psfile.ModeWrite, psfile.ModeAppend, psfile.ModeReadWrite, psfile.ModeWriteRead, psfile.ModeAppendRead:
		return true
	}
	return false
}

// opToken implements PLRM's `token` over a File operand (file token any
// true, or file token false at end of file) and, through tokenFromString,
// over a String operand.
func opToken(ip *Interpreter) *pserror.Error {
	v, err := ip.operands.Pop("token")
	if err != nil {
		return err
	}
	switch v.Type {
	case object.TFile:
		h, ok := v.AsFile()
		if !ok {
			return pserror.New(pserror.TypeCheck, "token", "malformed file operand")
		}
		obj, ok, perr := h.Token()
		if perr != nil {
			return perr
		}
		if !ok {
			ip.operands.Push(object.Boolean(false))
			return nil
		}
		ip.operands.Push(obj)
		ip.operands.Push(object.Boolean(true))
		return nil
	case object.TString:
		return tokenFromString(ip, v)
	default:
		return pserror.New(pserror.TypeCheck, "token", "expected a file or string")
	}
}

// tokenFromString backs `token`'s string overload: string token post any
// true, or string token false, scanning exactly one Object from the front
// of s and returning the unconsumed remainder as a live view (spec.md §4.6).
func tokenFromString(ip *Interpreter, v object.Object) *pserror.Error {
	s := v.Value.(*object.PSString)
	sc := ip.NewScanner(s.AsString())
	obj, ok, perr := sc.Next()
	if perr != nil {
		return perr
	}
	if !ok {
		ip.operands.Push(object.Boolean(false))
		return nil
	}
	consumed := sc.ByteOffset()
	rest, rerr := s.SubString(consumed, s.Length()-consumed, "token")
	if rerr != nil {
		return rerr
	}
	ip.operands.Push(object.Object{Type: object.TString, Exec: object.Literal, Acc: rest.Access(), Value: rest})
	ip.operands.Push(obj)
	ip.operands.Push(object.Boolean(true))
	return nil
}
