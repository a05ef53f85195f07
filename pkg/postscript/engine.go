// Package postscript is the embeddable public API wrapping internal/interp,
// the same "inject output, construct once, run many times" shape as the
// teacher's pkg/dwscript engine (Option functional options over an
// unexported Engine, New(opts...) as the only constructor).
package postscript

import (
	"bytes"
	"io"

	"github.com/cwbudde/go-postscript/internal/graphics"
	"github.com/cwbudde/go-postscript/internal/interp"
	"github.com/cwbudde/go-postscript/internal/psscan"
)

// BoundingBox is the EPS DSC bounding box (spec.md §4.10), re-exported here
// so host programs never need to import internal/psscan directly.
type BoundingBox = psscan.BoundingBox

// Matrix and Context re-export the graphics package's public shape so a
// host supplying a rendering backend only needs to import this package.
type Matrix = graphics.Matrix
type Context = graphics.Context

// Engine owns one interpreter instance. Per spec.md §5 it is
// single-threaded and not safe for concurrent Run calls.
type Engine struct {
	ip *interp.Interpreter
}

// config accumulates Option values before the single interp.New call, so
// option order (e.g. WithOutput then WithGraphics, or the reverse) never
// matters the way it would if each Option mutated a live *Engine in place.
type config struct {
	out      io.Writer
	gfx      graphics.Context
	maxSteps int
	trace    io.Writer
	stdin    []byte
}

// Option configures an Engine at construction time, the teacher's
// WithOutput/WithXxx functional-option convention.
type Option func(*config)

// WithGraphics installs the rendering backend painting operators delegate
// to (spec.md §4.11). Without one, painting operators raise
// configurationerror — an Engine is still useful for pure data/text
// programs (arithmetic, dictionaries, `=`/`==`) with no backend at all.
func WithGraphics(gfx graphics.Context) Option {
	return func(c *config) { c.gfx = gfx }
}

// WithOutput redirects %stdout (the side-channel log of spec.md §6) to w
// instead of the Engine's internal buffer. Output() still returns
// everything ever written, regardless of this option.
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.out = w }
}

// WithMaxSteps overrides the default fetch-loop step budget (spec.md §5
// MAX_STEPS), e.g. to give an untrusted script a tighter timeout.
func WithMaxSteps(n int) Option {
	return func(c *config) { c.maxSteps = n }
}

// WithTrace installs an execution tracer: one line for each
// execution-context step and one for each operator call, mirroring the
// teacher's `--trace` flag.
func WithTrace(w io.Writer) Option {
	return func(c *config) { c.trace = w }
}

// WithStdin supplies the bytes `%stdin` reads (spec.md §6); there is no
// live terminal read in this core.
func WithStdin(content []byte) Option {
	return func(c *config) { c.stdin = content }
}

// New constructs an Engine with SystemDict/UserDict bootstrapped and every
// operator installed (internal/interp.New), applying opts in order.
func New(opts ...Option) *Engine {
	cfg := config{out: &bytes.Buffer{}, maxSteps: interp.MaxSteps}
	for _, opt := range opts {
		opt(&cfg)
	}

	ip := interp.New(cfg.gfx, cfg.out)
	ip.SetMaxSteps(cfg.maxSteps)
	if cfg.trace != nil {
		ip.SetTracer(cfg.trace)
	}
	if cfg.stdin != nil {
		ip.SetStdin(cfg.stdin)
	}
	return &Engine{ip: ip}
}

// Result is what Run returns on (and after) a completed program.
type Result struct {
	// Output is everything ever written to %stdout during this Run call,
	// via `=`, `==`, `print`, `write`, etc.
	Output []byte
	// BoundingBox is the EPS bounding box extracted from the leading DSC
	// comment block, if present (spec.md §4.10).
	BoundingBox    BoundingBox
	HasBoundingBox bool
}

// Run scans and executes src to completion (normal termination, step
// exhaustion, `quit`, or an uncaught `stop`) and returns the %stdout output
// this call produced. A non-nil error is always an *Error wrapping the
// originating *pserror.Error with src attached for source-line context.
func (e *Engine) Run(src string) (*Result, error) {
	md := psscan.ScanMetadata(src)
	before := len(e.ip.StdoutHistory())
	perr := e.ip.Run(src)

	res := &Result{
		Output:         e.ip.StdoutHistory()[before:],
		BoundingBox:    md.BoundingBox,
		HasBoundingBox: md.HasBoundingBox,
	}
	if perr != nil {
		return res, &Error{Err: perr, Source: src}
	}
	return res, nil
}

// BoundingBoxOf extracts the EPS bounding box from src without executing
// it, for a host that wants to size a device surface before calling Run.
func BoundingBoxOf(src string) (BoundingBox, bool) {
	md := psscan.ScanMetadata(src)
	return md.BoundingBox, md.HasBoundingBox
}

// SetGraphics swaps the rendering backend after construction, e.g. once an
// EPS's bounding box is known and a correctly sized canvas exists.
func (e *Engine) SetGraphics(gfx graphics.Context) { e.ip.SetGraphics(gfx) }

// Output returns everything written to %stdout across every Run call so
// far on this Engine.
func (e *Engine) Output() []byte { return e.ip.StdoutHistory() }
