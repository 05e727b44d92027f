package debugger

import (
	"sync"

	"github.com/wnxd/symdbg/debugger"
	"github.com/wnxd/symdbg/interp"
)

type hookManager struct {
	stops  sync.Map
	traces sync.Map
}

type hookHandler[T any] struct {
	kind    debugger.HookKind
	fn      T
	data    any
	release func()
}

func (h *hookHandler[T]) Close() error {
	if h.release != nil {
		h.release()
		h.release = nil
	}
	return nil
}

func (h *hookHandler[T]) Kind() debugger.HookKind {
	return h.kind
}

func (hm *hookManager) ctor() {
}

func (hm *hookManager) dtor() {
	hm.stops.Clear()
	hm.traces.Clear()
}

func (hm *hookManager) AddStopHook(callback debugger.StopCallback, data any) (debugger.HookHandler, error) {
	if callback == nil {
		return nil, debugger.ErrHookInvalid
	}
	handler := &hookHandler[debugger.StopCallback]{kind: debugger.HookKind_Stop, fn: callback, data: data}
	handler.release = func() { hm.stops.Delete(handler) }
	hm.stops.Store(handler, nil)
	return handler, nil
}

func (hm *hookManager) AddTraceHook(callback debugger.TraceCallback, data any) (debugger.HookHandler, error) {
	if callback == nil {
		return nil, debugger.ErrHookInvalid
	}
	handler := &hookHandler[debugger.TraceCallback]{kind: debugger.HookKind_Trace, fn: callback, data: data}
	handler.release = func() { hm.traces.Delete(handler) }
	hm.traces.Store(handler, nil)
	return handler, nil
}

// runStopHooks notifies stop subscribers. Any subscriber answering
// HookResult_Done suppresses the interactive command loop for this stop.
func (hm *hookManager) runStopHooks(proc debugger.Processor, event *interp.Event) debugger.HookResult {
	result := debugger.HookResult_Next
	for h := range hm.stops.Range {
		handler := h.(*hookHandler[debugger.StopCallback])
		if handler.fn(proc, event, handler.data) == debugger.HookResult_Done {
			result = debugger.HookResult_Done
		}
	}
	return result
}

func (hm *hookManager) runTraceHooks(frame interp.Frame, event *interp.Event) {
	for h := range hm.traces.Range {
		handler := h.(*hookHandler[debugger.TraceCallback])
		handler.fn(frame, event, handler.data)
	}
}
