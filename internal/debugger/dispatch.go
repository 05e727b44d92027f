package debugger

import (
	"slices"

	"go.uber.org/zap"

	"github.com/wnxd/symdbg/debugger"
	"github.com/wnxd/symdbg/interp"
)

// Dispatch is the trace callback registered with the host interpreter. It
// funnels every event through the configured filters, asks the breakpoint
// table and then the stop engine whether to suspend, and hands stopping
// events to the command processor. The returned result tells the host how
// to continue, carrying an evaluation override or a session-ending error.
func (dbg *Dbg) Dispatch(frame interp.Frame, event *interp.Event) interp.Result {
	task := dbg.taskManager.taskOf(event.Thread)
	if !task.enterTrace() {
		return interp.Result{}
	}
	defer task.leaveTrace()
	if err := task.Err(); err != nil {
		return interp.Result{Action: interp.ACTION_STOP, Err: err}
	}
	if frame != nil && dbg.filterManager.ignoredFunc(frame.FuncName()) {
		return interp.Result{}
	}
	settings := dbg.Settings()
	if settings.Bool(debugger.SettingTrace) &&
		slices.Contains(settings.Events(debugger.SettingPrintSet), event.Kind) {
		dbg.proc.tracePrint(task, frame, event)
	}
	if cond := dbg.filterManager.untilCondition(); cond != "" {
		val, err := dbg.in.Eval(frame, cond)
		if err != nil || !dbg.impl.Truthy(val) {
			return interp.Result{}
		}
	}
	if !slices.Contains(settings.Events(debugger.SettingEvents), event.Kind) {
		return interp.Result{}
	}
	if event.Kind.IsCustom() && !dbg.passCustom(frame, event) {
		return interp.Result{}
	}
	dbg.hookManager.runTraceHooks(frame, event)
	if event.Kind == interp.EVENT_GET {
		if load, ok := event.Arg.(*interp.FileLoad); ok {
			dbg.moduleManager.addFile(dbg.Canonic(load.Path))
		}
	}

	stopEvent := *event
	if _, reason, ok := dbg.breakManager.isBreakHere(frame, event.Kind); ok {
		stopEvent.Kind = interp.EVENT_BRKPT
		dbg.stopManager.setReason(reason)
	} else if !dbg.stopManager.isStopHere(frame, event.Kind) {
		return interp.Result{}
	}
	return dbg.proc.entry(task, frame, &stopEvent)
}

// passCustom applies the per-kind name filter to a domain event. Evaluation
// events also consult the ignored code set and the host's trivial-evaluation
// predicate. An event whose payload the flavor cannot name passes only while
// no filter needs the name.
func (dbg *Dbg) passCustom(frame interp.Frame, event *interp.Event) bool {
	flt := &dbg.filterManager
	switch event.Kind {
	case interp.EVENT_EVALUATE_ENTRY, interp.EVENT_EVALUATE_RESULT:
		if frame != nil && flt.ignoredCode(frame.Code()) {
			return false
		}
	}
	filter := flt.EventFilter(event.Kind)
	name, ok := dbg.impl.EventName(event, filter)
	if !ok {
		if len(filter) == 0 {
			return true
		}
		dbg.reportUnhandled(event.Kind)
		return false
	}
	if len(filter) != 0 && !slices.Contains(filter, name) {
		return false
	}
	if ev, ok := event.Arg.(*interp.Evaluation); ok && dbg.impl.SkipTrivial(ev) {
		return false
	}
	return true
}

func (dbg *Dbg) reportUnhandled(kind interp.EventKind) {
	if _, loaded := dbg.unhandled.LoadOrStore(kind, struct{}{}); !loaded {
		dbg.log.Warn("unhandled trace event", zap.Stringer("event", kind))
	}
}
