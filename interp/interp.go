package interp

import (
	"io"
)

type Action int

const (
	ACTION_KEEP Action = iota
	ACTION_STOP
)

// Result is the continuation token a trace callback hands back to the host.
// Value, when non-nil, overrides the host's pending evaluation result.
// Err, when non-nil, asks the host to stop tracing and unwind; a quit
// cancellation arrives this way.
type Result struct {
	Action Action
	Value  any
	Err    error
}

type TraceFunc = func(frame Frame, event *Event) Result

type TraceHook interface {
	io.Closer
}

type Interpreter interface {
	io.Closer
	Lang() Lang
	AddTrace(fn TraceFunc) (TraceHook, error)
	Evaluator
	MainFile() string
}

// Evaluator evaluates a source expression in a frame's variable context.
type Evaluator interface {
	Eval(frame Frame, expr string) (any, error)
}
