package stacks

import "github.com/cwbudde/go-postscript/internal/object"

// Frame is anything that can sit on the Execution Stack besides a plain
// Object: a reified deferred-work context (spec.md §4.5). The stacks
// package only needs to move Frames around; it doesn't know the concrete
// context types (ProcedureContext, ForLoopContext, ...) — those live in
// package exec and are matched by the interpreter via type assertion when
// `exit`/`stop` need to unwind to a specific kind of frame.
type Frame interface {
	// Finished reports whether this frame has no more work; a finished
	// frame is spliced off the stack by the interpreter loop rather than
	// stepped again.
	Finished() bool
}

// ExecStack is the mixed Object/Frame execution stack (spec.md §4.4),
// bounded by MaxExecutionStackSize.
type ExecStack struct {
	data []any // each element is an object.Object or a Frame
	max  int
}

// MaxExecutionStackSize is spec.md §4.4's default bound; overflow raises
// execstackoverflow.
const MaxExecutionStackSize = 20000

func NewExecStack() *ExecStack {
	return &ExecStack{max: MaxExecutionStackSize}
}

func (es *ExecStack) Len() int { return len(es.data) }

func (es *ExecStack) Overflowed() bool { return len(es.data) > es.max }

func (es *ExecStack) PushObject(o object.Object) { es.data = append(es.data, o) }

func (es *ExecStack) PushFrame(f Frame) { es.data = append(es.data, f) }

// Pop removes and returns the top item, ok=false if the stack is empty.
func (es *ExecStack) Pop() (any, bool) {
	if len(es.data) == 0 {
		return nil, false
	}
	top := es.data[len(es.data)-1]
	es.data = es.data[:len(es.data)-1]
	return top, true
}

// Top returns the top item without removing it.
func (es *ExecStack) Top() (any, bool) {
	if len(es.data) == 0 {
		return nil, false
	}
	return es.data[len(es.data)-1], true
}

// RemoveTop discards the top item.
func (es *ExecStack) RemoveTop() {
	if len(es.data) > 0 {
		es.data = es.data[:len(es.data)-1]
	}
}

// FindTopDown scans from the top downward, returning the index (from the
// top, 0-based) of the first item matching pred, or ok=false.
func (es *ExecStack) FindTopDown(pred func(any) bool) (depthFromTop int, ok bool) {
	for i := len(es.data) - 1; i >= 0; i-- {
		if pred(es.data[i]) {
			return len(es.data) - 1 - i, true
		}
	}
	return 0, false
}

// TruncateToDepthFromTop removes every item above (and, if inclusive, at)
// the frame found at depthFromTop by FindTopDown.
func (es *ExecStack) TruncateToDepthFromTop(depthFromTop int, inclusive bool) {
	cut := len(es.data) - 1 - depthFromTop
	if inclusive {
		es.data = es.data[:cut]
	} else {
		es.data = es.data[:cut+1]
	}
}

// Items exposes the raw stack, bottom to top, for countexecstack/execstack
// debugging operators.
func (es *ExecStack) Items() []any {
	out := make([]any, len(es.data))
	copy(out, es.data)
	return out
}
