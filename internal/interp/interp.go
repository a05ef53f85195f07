// Package interp implements the fetch-decode-execute loop of spec.md §4.5
// and §4.7's ~200-operator library, restructured from the teacher's
// internal/interp `Eval` dispatch (a single big type switch over AST nodes
// plus a call stack) around PostScript's operand/dictionary/execution
// stack trio and its reified execution contexts (internal/exec) instead of
// recursive Go calls.
package interp

import (
	"io"

	"github.com/cwbudde/go-postscript/internal/graphics"
	"github.com/cwbudde/go-postscript/internal/object"
	"github.com/cwbudde/go-postscript/internal/pserror"
	"github.com/cwbudde/go-postscript/internal/psfile"
	"github.com/cwbudde/go-postscript/internal/psscan"
	"github.com/cwbudde/go-postscript/internal/sfnt"
	"github.com/cwbudde/go-postscript/internal/stacks"
)

// MaxSteps is spec.md §5's default fetch-loop step budget; exceeding it
// raises timeout.
const MaxSteps = 100000

// OperatorFunc is the Go function an Operator Object's OperatorRef
// resolves to at invocation time (spec.md §9 "Operator binding without
// storing closures in Objects").
type OperatorFunc func(ip *Interpreter) *pserror.Error

// Interpreter is the per-run owner of all interpreter state: the three
// stacks, the font registry, the file system, and the graphics backend
// (spec.md §5: "single-threaded... all state... owned by one interpreter
// instance").
type Interpreter struct {
	operands  *stacks.OperandStack
	dicts     *stacks.DictStack
	execStack *stacks.ExecStack

	systemDict object.Object
	userDict   object.Object

	operators map[string]OperatorFunc

	fs     *psfile.FileSystem
	stdout *psfile.StdoutFile
	stdin  *psfile.StdinFile

	graphics graphics.Context

	fonts      map[int]*fontEntry
	nextFontID int
	curFont    *fontEntry

	randState uint32

	saveGen     int
	openSaves   map[int]*object.SaveMarker

	steps    int
	maxSteps int
	stopFlag bool

	tracer io.Writer // teacher's run.go --trace equivalent (spec.md SPEC_FULL ambient stack)
}

// fontEntry binds a PostScript font dictionary to its parsed sfnt.Font (if
// any) and the effective font matrix after scalefont/makefont.
type fontEntry struct {
	dict   *object.Dict
	parsed *sfnt.Font
	matrix graphics.Matrix
}

// New constructs an Interpreter with SystemDict/UserDict bootstrapped per
// spec.md §4.4 and every operator from §4.7 installed into SystemDict.
func New(gfx graphics.Context, stdout io.Writer) *Interpreter {
	sys := object.NewDict(4096)
	sysObj := object.Object{Type: object.TDictionary, Exec: object.Literal, Acc: object.ReadOnly, Value: sys}

	usr := object.NewDict(object.MaxDictCapacity)
	usrObj := object.Object{Type: object.TDictionary, Exec: object.Literal, Acc: object.Unlimited, Value: usr}

	ip := &Interpreter{
		operands:   stacks.NewOperandStack(),
		dicts:      stacks.NewDictStack(sysObj, usrObj),
		execStack:  stacks.NewExecStack(),
		systemDict: sysObj,
		userDict:   usrObj,
		operators:  make(map[string]OperatorFunc),
		fs:         psfile.NewFileSystem(),
		stdout:     psfile.NewStdoutFile(stdout),
		stdin:      psfile.NewStdinFile(nil),
		fonts:      make(map[int]*fontEntry),
		openSaves:  make(map[int]*object.SaveMarker),
		maxSteps:   MaxSteps,
		randState:  1,
		graphics:   gfx,
	}
	ip.registerOperators()
	ip.installOperators()
	ip.installConstants()
	for _, name := range psfile.StandardFiles {
		if src, ok := ip.fs.GetFile(name); ok {
			_ = ip.Run(string(src))
		}
	}
	ip.steps = 0
	return ip
}

// SetGraphics swaps the graphics backend after construction (the CLI may
// construct the interpreter before a canvas of the EPS's bounding-box size
// is known).
func (ip *Interpreter) SetGraphics(gfx graphics.Context) { ip.graphics = gfx }

// SetTracer installs an execution tracer (the teacher's `--trace` flag
// model, spec.md ambient Logging/tracing): one line for each
// execution-context step and one for each operator call.
func (ip *Interpreter) SetTracer(w io.Writer) { ip.tracer = w }

// SetMaxSteps overrides the default step budget (mostly for tests that
// want a tight timeout).
func (ip *Interpreter) SetMaxSteps(n int) { ip.maxSteps = n }

// SetStdin installs the byte content `%stdin` reads from. There is no live
// terminal read in this core (spec.md Non-goals); the host decides what
// %stdin contains before Run starts.
func (ip *Interpreter) SetStdin(content []byte) { ip.stdin = psfile.NewStdinFile(content) }

// Operands/ExecStack satisfy exec.Machine, so Context.Step implementations
// can push/pop through the Interpreter directly.
func (ip *Interpreter) Operands() *stacks.OperandStack { return ip.operands }
func (ip *Interpreter) ExecStack() *stacks.ExecStack   { return ip.execStack }

// StdoutHistory returns everything ever written to %stdout, for a host to
// display after Run completes (spec.md §6 "side-channel log").
func (ip *Interpreter) StdoutHistory() []byte { return ip.stdout.History() }

func (ip *Interpreter) installOperators() {
	sys := ip.systemDict.Value.(*object.Dict)
	for name := range ip.operators {
		sys.ForceSet(object.Name(name, object.Literal), object.Operator(name))
	}
	// `[`, `]`, `<<`, `>>` are ordinary entries of this table too
	// (registered by ops_array.go and ops_dict.go), so dispatch needs no
	// special case for them.
}

func (ip *Interpreter) installConstants() {
	sys := ip.systemDict.Value.(*object.Dict)
	sys.ForceSet(object.Name("true", object.Literal), object.Boolean(true))
	sys.ForceSet(object.Name("false", object.Literal), object.Boolean(false))
	sys.ForceSet(object.Name("null", object.Literal), object.Null())
	sys.ForceSet(object.Name("systemdict", object.Literal), ip.systemDict)
	sys.ForceSet(object.Name("userdict", object.Literal), ip.userDict)
	sys.ForceSet(object.Name("statusdict", object.Literal), ip.userDict)
}

// register installs fn under name in the operator table; called from each
// ops_*.go file's init-style registerXxxOps method (spec.md §9 "Decorator-
// driven operator binding": a table, not decorators/reflection).
func (ip *Interpreter) register(name string, fn OperatorFunc) {
	ip.operators[name] = fn
}

func (ip *Interpreter) registerOperators() {
	ip.registerStackOps()
	ip.registerArithmeticOps()
	ip.registerBooleanOps()
	ip.registerArrayOps()
	ip.registerDictOps()
	ip.registerStringOps()
	ip.registerControlOps()
	ip.registerPaintingOps()
	ip.registerGStateOps()
	ip.registerMatrixOps()
	ip.registerTypeOps()
	ip.registerFontOps()
	ip.registerResourceOps()
	ip.registerIOOps()
	ip.registerRandomOps()
	ip.registerVMOps()
}

// lookupForScan adapts the dictionary stack's name resolution to
// psscan.LookupFunc, for `//name` immediate-name folding (spec.md §4.2)
// wherever a Scanner is constructed against live interpreter state (as
// opposed to a standalone pre-parse of a procedure body with no enclosing
// dictionary stack to consult).
func (ip *Interpreter) lookupForScan(name string) (object.Object, bool) {
	return ip.dicts.Lookup(object.Name(name, object.Literal))
}

// NewScanner creates a psscan.Scanner bound to this interpreter's
// dictionary stack, for operators (`run`, `file`+`token`) that need to
// turn source text into an Object stream.
func (ip *Interpreter) NewScanner(src string) *psscan.Scanner {
	return psscan.New(src, ip.lookupForScan)
}
