package debugger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wnxd/symdbg/debugger"
	"github.com/wnxd/symdbg/interp"
)

type fakeInterp struct {
	lang     interp.Lang
	mainFile string
	evalFn   func(frame interp.Frame, expr string) (any, error)
	evals    []string
	traceFn  interp.TraceFunc
	closed   bool
}

func newFakeInterp() *fakeInterp {
	return &fakeInterp{lang: interp.LANG_MATHICS}
}

func (f *fakeInterp) Close() error {
	f.closed = true
	return nil
}

func (f *fakeInterp) Lang() interp.Lang {
	return f.lang
}

func (f *fakeInterp) AddTrace(fn interp.TraceFunc) (interp.TraceHook, error) {
	f.traceFn = fn
	return fakeHook{}, nil
}

func (f *fakeInterp) Eval(frame interp.Frame, expr string) (any, error) {
	f.evals = append(f.evals, expr)
	if f.evalFn != nil {
		return f.evalFn(frame, expr)
	}
	return nil, errors.New("no evaluator")
}

func (f *fakeInterp) MainFile() string {
	return f.mainFile
}

type fakeHook struct{}

func (fakeHook) Close() error { return nil }

type fakeFrame struct {
	file    string
	line    int
	fn      string
	caller  interp.Frame
	locals  map[string]any
	globals map[string]any
	offset  int
	code    any
}

func newFrame(file string, line int, fn string, caller interp.Frame) *fakeFrame {
	return &fakeFrame{file: file, line: line, fn: fn, caller: caller}
}

func (f *fakeFrame) File() string            { return f.file }
func (f *fakeFrame) Line() int               { return f.line }
func (f *fakeFrame) FuncName() string        { return f.fn }
func (f *fakeFrame) Caller() interp.Frame    { return f.caller }
func (f *fakeFrame) Locals() map[string]any  { return f.locals }
func (f *fakeFrame) Globals() map[string]any { return f.globals }
func (f *fakeFrame) LastOffset() int         { return f.offset }
func (f *fakeFrame) Code() any               { return f.code }

type fakeExpr struct {
	name  string
	short string
	text  string
	file  string
	line  int
}

func (e *fakeExpr) Name() string      { return e.name }
func (e *fakeExpr) ShortName() string { return e.short }
func (e *fakeExpr) String() string    { return e.text }

func (e *fakeExpr) Location() (string, int, bool) {
	return e.file, e.line, e.file != ""
}

// testDbg is the minimal language flavor the tests drive the session core
// with. Hooks for event naming and trivial-evaluation skipping are left nil
// unless a test sets them.
type testDbg struct {
	Dbg
	eventName  func(event *interp.Event, filter []string) (string, bool)
	eventShort map[interp.EventKind]string
	skip       func(ev *interp.Evaluation) bool
}

func (d *testDbg) Lang() interp.Lang {
	return interp.LANG_MATHICS
}

func (d *testDbg) DefaultPrompt() string {
	return "testdbg"
}

func (d *testDbg) EventName(event *interp.Event, filter []string) (string, bool) {
	if d.eventName != nil {
		return d.eventName(event, filter)
	}
	return "", false
}

func (d *testDbg) EventShort(kind interp.EventKind) (string, bool) {
	short, ok := d.eventShort[kind]
	return short, ok
}

func (d *testDbg) SkipTrivial(ev *interp.Evaluation) bool {
	if d.skip != nil {
		return d.skip(ev)
	}
	return false
}

func (d *testDbg) Truthy(val any) bool {
	return Truthy(val)
}

type testEnv struct {
	t   *testing.T
	dbg *testDbg
	in  *fakeInterp
	out *bytes.Buffer
}

// newTestEnv builds a session reading commands from input and writing to an
// in-memory buffer. Options given here are applied after the interface
// default, so tests may override it.
func newTestEnv(t *testing.T, input string, opts ...debugger.Option) *testEnv {
	t.Helper()
	env := &testEnv{t: t, in: newFakeInterp(), out: new(bytes.Buffer)}
	intf := debugger.NewUserInterface(strings.NewReader(input), env.out, true)
	opts = append([]debugger.Option{debugger.WithInterface(intf)}, opts...)
	env.dbg = new(testDbg)
	require.NoError(t, env.dbg.Init(env.dbg, env.in, debugger.NewOptions(opts...)))
	t.Cleanup(func() { env.dbg.Close() })
	return env
}

func (env *testEnv) start() {
	env.t.Helper()
	require.NoError(env.t, env.dbg.Start())
}

func (env *testEnv) output() string {
	return env.out.String()
}

// runAt queues cmds and dispatches one event, so the command loop consumes
// the queue at the resulting stop. With no resuming command queued the loop
// ends by reaching end of input, which quits the session.
func (env *testEnv) runAt(frame interp.Frame, event *interp.Event, cmds ...string) interp.Result {
	env.dbg.QueueCommands(cmds...)
	return env.dbg.Dispatch(frame, event)
}

type stopRecord struct {
	kind   interp.EventKind
	reason string
}

// recordStops registers a stop hook that suppresses the command loop and
// records each stop instead.
func (env *testEnv) recordStops() *[]stopRecord {
	env.t.Helper()
	stops := new([]stopRecord)
	_, err := env.dbg.AddStopHook(func(proc debugger.Processor, event *interp.Event, data any) debugger.HookResult {
		*stops = append(*stops, stopRecord{kind: event.Kind, reason: proc.StopReason()})
		return debugger.HookResult_Done
	}, nil)
	require.NoError(env.t, err)
	return stops
}

func lineEvent() *interp.Event {
	return &interp.Event{Kind: interp.EVENT_LINE}
}

func callEvent() *interp.Event {
	return &interp.Event{Kind: interp.EVENT_CALL}
}

func returnEvent() *interp.Event {
	return &interp.Event{Kind: interp.EVENT_RETURN}
}
