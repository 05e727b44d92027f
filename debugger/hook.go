package debugger

import (
	"io"

	"github.com/wnxd/symdbg/interp"
)

type HookResult int

const (
	HookResult_Done HookResult = -1
	HookResult_Next HookResult = 0
)

// StopCallback runs after the debugger decides to stop and before the
// command loop. HookResult_Done suppresses the loop for this stop.
type StopCallback = func(proc Processor, event *interp.Event, data any) HookResult

// TraceCallback runs for every event that passes the trace filters,
// whether or not the debugger stops on it.
type TraceCallback = func(frame interp.Frame, event *interp.Event, data any)

type HookManager interface {
	AddStopHook(callback StopCallback, data any) (HookHandler, error)
	AddTraceHook(callback TraceCallback, data any) (HookHandler, error)
}

type HookHandler interface {
	io.Closer
	Kind() HookKind
}

type HookKind int

const (
	HookKind_Stop HookKind = iota
	HookKind_Trace
)
