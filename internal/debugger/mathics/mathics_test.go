package mathics

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wnxd/symdbg/debugger"
	"github.com/wnxd/symdbg/interp"
)

type fakeExpr struct {
	name  string
	short string
	text  string
}

func (e *fakeExpr) Name() string                  { return e.name }
func (e *fakeExpr) ShortName() string             { return e.short }
func (e *fakeExpr) String() string                { return e.text }
func (e *fakeExpr) Location() (string, int, bool) { return "", 0, false }

type fakeInterp struct{}

func (fakeInterp) Close() error       { return nil }
func (fakeInterp) Lang() interp.Lang  { return interp.LANG_MATHICS }
func (fakeInterp) MainFile() string   { return "" }
func (fakeInterp) AddTrace(fn interp.TraceFunc) (interp.TraceHook, error) {
	return fakeHook{}, nil
}
func (fakeInterp) Eval(interp.Frame, string) (any, error) {
	return nil, errors.New("no evaluator")
}

type fakeHook struct{}

func (fakeHook) Close() error { return nil }

func TestFlavorIdentity(t *testing.T) {
	dbg := new(MathicsDbg)
	assert.Equal(t, interp.LANG_MATHICS, dbg.Lang())
	assert.Equal(t, "Mathics3 Debug", dbg.DefaultPrompt())
}

func TestEventShorts(t *testing.T) {
	dbg := new(MathicsDbg)
	want := map[interp.EventKind]string{
		interp.EVENT_EVALUATE_ENTRY:  "@e",
		interp.EVENT_EVALUATE_RESULT: "e@",
		interp.EVENT_SYMPY:           "SP",
		interp.EVENT_MPMATH:          "mp",
		interp.EVENT_GET:             "<<",
		interp.EVENT_APPLY:           "@@",
		interp.EVENT_EVAL_METHOD:     "@m",
		interp.EVENT_EVAL_FUNCTION:   "@f",
	}
	for kind, short := range want {
		got, ok := dbg.EventShort(kind)
		require.True(t, ok, kind.String())
		assert.Equal(t, short, got)
	}
	_, ok := dbg.EventShort(interp.EVENT_CALL)
	assert.False(t, ok, "core events keep their core codes")
}

func TestEventName(t *testing.T) {
	dbg := new(MathicsDbg)

	t.Run("library calls", func(t *testing.T) {
		name, ok := dbg.EventName(&interp.Event{
			Kind: interp.EVENT_SYMPY, Arg: &interp.LibCall{Name: "Gamma"},
		}, nil)
		require.True(t, ok)
		assert.Equal(t, "Gamma", name)

		name, ok = dbg.EventName(&interp.Event{
			Kind: interp.EVENT_MPMATH, Arg: &interp.LibCall{Name: "mpf"},
		}, nil)
		require.True(t, ok)
		assert.Equal(t, "mpf", name)

		_, ok = dbg.EventName(&interp.Event{
			Kind: interp.EVENT_SYMPY, Arg: &interp.LibCall{},
		}, nil)
		assert.False(t, ok, "anonymous calls cannot be named")
	})

	t.Run("definition loads", func(t *testing.T) {
		name, ok := dbg.EventName(&interp.Event{
			Kind: interp.EVENT_GET, Arg: &interp.FileLoad{Path: "/defs/init.m"},
		}, nil)
		require.True(t, ok)
		assert.Equal(t, "/defs/init.m", name)
	})

	t.Run("evaluation entry uses the head", func(t *testing.T) {
		name, ok := dbg.EventName(&interp.Event{
			Kind: interp.EVENT_EVALUATE_ENTRY,
			Arg:  &interp.Evaluation{Expr: &fakeExpr{name: "System`Plus"}},
		}, nil)
		require.True(t, ok)
		assert.Equal(t, "System`Plus", name)

		_, ok = dbg.EventName(&interp.Event{
			Kind: interp.EVENT_EVALUATE_ENTRY, Arg: &interp.Evaluation{},
		}, nil)
		assert.False(t, ok)
	})

	t.Run("result names follow the filter style", func(t *testing.T) {
		event := &interp.Event{
			Kind: interp.EVENT_EVALUATE_RESULT,
			Arg: &interp.Evaluation{
				OrigExpr: &fakeExpr{name: "System`Factorial", short: "Factorial"},
			},
		}
		name, ok := dbg.EventName(event, []string{"Factorial"})
		require.True(t, ok)
		assert.Equal(t, "Factorial", name, "context-free filters match short names")

		name, ok = dbg.EventName(event, []string{"System`Factorial"})
		require.True(t, ok)
		assert.Equal(t, "System`Factorial", name)

		name, ok = dbg.EventName(event, nil)
		require.True(t, ok)
		assert.Equal(t, "Factorial", name)
	})

	t.Run("apply events", func(t *testing.T) {
		name, ok := dbg.EventName(&interp.Event{
			Kind: interp.EVENT_APPLY, Arg: &fakeExpr{name: "System`Map"},
		}, nil)
		require.True(t, ok)
		assert.Equal(t, "System`Map", name)

		name, ok = dbg.EventName(&interp.Event{
			Kind: interp.EVENT_EVAL_METHOD, Arg: &interp.LibCall{Name: "eval_N"},
		}, nil)
		require.True(t, ok)
		assert.Equal(t, "eval_N", name)
	})

	t.Run("unnameable events", func(t *testing.T) {
		_, ok := dbg.EventName(&interp.Event{Kind: interp.EVENT_LINE}, nil)
		assert.False(t, ok)
		_, ok = dbg.EventName(&interp.Event{Kind: interp.EVENT_SYMPY, Arg: 42}, nil)
		assert.False(t, ok)
	})
}

func TestSkipTrivialDefaults(t *testing.T) {
	dbg := new(MathicsDbg)

	assert.True(t, dbg.SkipTrivial(&interp.Evaluation{}), "no expression, nothing to show")
	assert.True(t, dbg.SkipTrivial(&interp.Evaluation{
		Expr:     &fakeExpr{name: "System`Plus", text: "2"},
		Status:   "Returning",
		OrigExpr: &fakeExpr{name: "System`Plus", text: "2"},
	}), "results identical to their input are noise")
	assert.False(t, dbg.SkipTrivial(&interp.Evaluation{
		Expr:     &fakeExpr{name: "System`Plus", text: "4"},
		Status:   "Returning",
		OrigExpr: &fakeExpr{name: "System`Plus", text: "2 + 2"},
	}))
	assert.True(t, dbg.SkipTrivial(&interp.Evaluation{
		Expr: &fakeExpr{name: "System`Integer", text: "3"},
	}))
	assert.True(t, dbg.SkipTrivial(&interp.Evaluation{
		Expr: &fakeExpr{name: "System`Symbol", text: "x"},
	}))
	assert.False(t, dbg.SkipTrivial(&interp.Evaluation{
		Expr: &fakeExpr{name: "System`Plus", text: "2 + 2"},
	}))
}

func TestSkipTrivialOverride(t *testing.T) {
	var seen *interp.Evaluation
	dbg, err := NewMathicsDebugger(fakeInterp{}, debugger.NewOptions(
		debugger.WithInterface(debugger.NewUserInterface(strings.NewReader(""), nil, false)),
		debugger.WithSkipTrivial(func(ev *interp.Evaluation) bool {
			seen = ev
			return false
		}),
	))
	require.NoError(t, err)
	t.Cleanup(func() { dbg.Close() })

	mdbg := dbg.(*MathicsDbg)
	ev := &interp.Evaluation{}
	assert.False(t, mdbg.SkipTrivial(ev), "the configured policy replaces the default")
	assert.Same(t, ev, seen)
}

func TestTruthy(t *testing.T) {
	dbg := new(MathicsDbg)

	assert.True(t, dbg.Truthy(&fakeExpr{name: "System`True"}))
	assert.False(t, dbg.Truthy(&fakeExpr{name: "System`False"}))
	assert.False(t, dbg.Truthy(&fakeExpr{name: "System`Null"}))
	assert.True(t, dbg.Truthy(&fakeExpr{name: "System`Plus"}), "other expressions fall back to host rules")

	assert.True(t, dbg.Truthy("System`True"))
	assert.True(t, dbg.Truthy("True"))
	assert.False(t, dbg.Truthy("System`False"))
	assert.False(t, dbg.Truthy("False"))
	assert.False(t, dbg.Truthy("Null"))
	assert.True(t, dbg.Truthy("anything else"))

	assert.False(t, dbg.Truthy(nil))
	assert.False(t, dbg.Truthy(0))
	assert.True(t, dbg.Truthy(3))
}
