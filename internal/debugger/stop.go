package debugger

import (
	"slices"
	"sync"

	"github.com/wnxd/symdbg/interp"
)

// stopManager decides whether a dispatched event halts the program. It keeps
// the stepping counters and the depth gate used by next and finish, plus the
// last seen line so "set different" can skip repeat stops on one line.
type stopManager struct {
	dbg           Debugger
	mu            sync.Mutex
	stepIgnore    int
	stepEvents    []interp.EventKind
	differentLine bool
	stopLevel     int
	stopOnFinish  bool
	lastLine      int
	lastFile      string
	lastFrame     interp.Frame
	lastLevel     int
	stopReason    string
}

func (st *stopManager) ctor(dbg Debugger, stepIgnore int) {
	st.dbg = dbg
	st.stepIgnore = stepIgnore
	st.stopLevel = -1
}

func (st *stopManager) dtor() {
	st.lastFrame = nil
	st.stepEvents = nil
}

func (st *stopManager) isStopHere(frame interp.Frame, kind interp.EventKind) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	line := frame.Line()
	file := frame.File()
	if st.differentLine && kind == interp.EVENT_LINE &&
		st.lastLine == line && st.lastFile == file {
		return false
	}
	st.lastLine = line
	st.lastFile = file

	if st.stopLevel >= 0 {
		if frame != st.lastFrame {
			st.lastLevel = countFrames(frame)
			st.lastFrame = frame
		}
		if st.lastLevel > st.stopLevel {
			return false
		}
		if st.lastLevel == st.stopLevel && st.stopOnFinish && kind.IsReturn() {
			st.stopLevel = -1
			st.stopOnFinish = false
			st.stopReason = "in return for 'finish' command"
			return true
		}
	}

	if st.isStepNextStop(kind) {
		st.stopReason = "at a stepping statement"
		return true
	}
	return false
}

func (st *stopManager) isStepNextStop(kind interp.EventKind) bool {
	if len(st.stepEvents) != 0 && !slices.Contains(st.stepEvents, kind) {
		return false
	}
	if st.stepIgnore == 0 {
		return true
	} else if st.stepIgnore > 0 {
		st.stepIgnore--
	}
	return false
}

func (st *stopManager) setStep(ignore int, events []interp.EventKind, different bool) {
	st.mu.Lock()
	st.stepIgnore = ignore
	if events != nil {
		st.stepEvents = slices.Clone(events)
	}
	st.differentLine = different
	st.stopLevel = -1
	st.stopOnFinish = false
	st.mu.Unlock()
}

func (st *stopManager) setStepEvents(events []interp.EventKind) {
	st.mu.Lock()
	st.stepEvents = slices.Clone(events)
	st.mu.Unlock()
}

// setNext gates stopping at the depth of frame, so events in deeper calls
// trace through without a prompt.
func (st *stopManager) setNext(frame interp.Frame, ignore int, different bool) {
	st.mu.Lock()
	st.stepIgnore = ignore
	st.differentLine = different
	st.stopLevel = countFrames(frame)
	st.lastFrame = frame
	st.lastLevel = st.stopLevel
	st.stopOnFinish = false
	st.mu.Unlock()
}

// setFinish arms a stop on the return event leaving frame. Plain stepping is
// disabled until then.
func (st *stopManager) setFinish(frame interp.Frame) {
	st.mu.Lock()
	st.stepIgnore = -1
	st.stopLevel = countFrames(frame)
	st.lastFrame = frame
	st.lastLevel = st.stopLevel
	st.stopOnFinish = true
	st.mu.Unlock()
}

func (st *stopManager) setContinue() {
	st.mu.Lock()
	st.stepIgnore = -1
	st.stopLevel = -1
	st.stopOnFinish = false
	st.mu.Unlock()
}

func (st *stopManager) reason() string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.stopReason
}

func (st *stopManager) setReason(reason string) {
	st.mu.Lock()
	st.stopReason = reason
	st.mu.Unlock()
}

func (st *stopManager) stepState() (int, []interp.EventKind) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.stepIgnore, slices.Clone(st.stepEvents)
}
