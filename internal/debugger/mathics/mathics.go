package mathics

import (
	"strings"

	"github.com/wnxd/symdbg/debugger"
	internal "github.com/wnxd/symdbg/internal/debugger"
	"github.com/wnxd/symdbg/interp"
)

// MathicsDbg flavors the session core for the Mathics3 interpreter. It
// names the interpreter's evaluation and library call events so event
// filters can match them, and knows the symbols the interpreter uses for
// truth values.
type MathicsDbg struct {
	internal.Dbg
	skipTrivial func(ev *interp.Evaluation) bool
}

func NewMathicsDebugger(in interp.Interpreter, opts *debugger.Options) (debugger.Debugger, error) {
	dbg := new(MathicsDbg)
	err := dbg.Init(dbg, in, opts)
	if err != nil {
		return nil, err
	}
	return dbg, nil
}

func (dbg *MathicsDbg) Init(impl internal.Debugger, in interp.Interpreter, opts *debugger.Options) error {
	dbg.skipTrivial = opts.SkipTrivial
	return dbg.Dbg.Init(impl, in, opts)
}

func (dbg *MathicsDbg) Close() error {
	return dbg.Dbg.Close()
}

func (dbg *MathicsDbg) Lang() interp.Lang {
	return interp.LANG_MATHICS
}

func (dbg *MathicsDbg) DefaultPrompt() string {
	return "Mathics3 Debug"
}

// EventName extracts the filterable name an event is known by: the library
// function for SymPy and mpmath calls, the path for definition file loads,
// and the head symbol for evaluation events. Result events honor the
// context-free form when every filter entry is written without a context
// mark.
func (dbg *MathicsDbg) EventName(event *interp.Event, filter []string) (string, bool) {
	switch event.Kind {
	case interp.EVENT_SYMPY, interp.EVENT_MPMATH:
		if lc, ok := event.Arg.(*interp.LibCall); ok && lc.Name != "" {
			return lc.Name, true
		}
	case interp.EVENT_GET:
		if load, ok := event.Arg.(*interp.FileLoad); ok {
			return load.Path, true
		}
	case interp.EVENT_EVALUATE_ENTRY:
		if ev, ok := event.Arg.(*interp.Evaluation); ok && ev.Expr != nil {
			return ev.Expr.Name(), true
		}
	case interp.EVENT_EVALUATE_RESULT:
		if ev, ok := event.Arg.(*interp.Evaluation); ok && ev.OrigExpr != nil {
			if shortNames(filter) {
				return ev.OrigExpr.ShortName(), true
			}
			return ev.OrigExpr.Name(), true
		}
	case interp.EVENT_APPLY, interp.EVENT_EVAL_METHOD, interp.EVENT_EVAL_FUNCTION:
		switch arg := event.Arg.(type) {
		case *interp.LibCall:
			if arg.Name != "" {
				return arg.Name, true
			}
		case interp.Expr:
			return arg.Name(), true
		}
	}
	return "", false
}

func shortNames(filter []string) bool {
	for _, name := range filter {
		if strings.ContainsRune(name, '`') {
			return false
		}
	}
	return true
}

var eventShorts = map[interp.EventKind]string{
	interp.EVENT_EVALUATE_ENTRY:  "@e",
	interp.EVENT_EVALUATE_RESULT: "e@",
	interp.EVENT_SYMPY:           "SP",
	interp.EVENT_MPMATH:          "mp",
	interp.EVENT_GET:             "<<",
	interp.EVENT_APPLY:           "@@",
	interp.EVENT_EVAL_METHOD:     "@m",
	interp.EVENT_EVAL_FUNCTION:   "@f",
}

func (dbg *MathicsDbg) EventShort(kind interp.EventKind) (string, bool) {
	short, ok := eventShorts[kind]
	return short, ok
}

func (dbg *MathicsDbg) SkipTrivial(ev *interp.Evaluation) bool {
	if dbg.skipTrivial != nil {
		return dbg.skipTrivial(ev)
	}
	return skipTrivialEvaluation(ev)
}

// skipTrivialEvaluation drops evaluation events nobody wants a prompt for:
// atoms, and results identical to the expression that produced them.
func skipTrivialEvaluation(ev *interp.Evaluation) bool {
	if ev.Expr == nil {
		return true
	}
	if ev.Status == "Returning" && ev.OrigExpr != nil &&
		ev.Expr.String() == ev.OrigExpr.String() {
		return true
	}
	switch ev.Expr.Name() {
	case "System`Symbol", "System`Integer", "System`Real", "System`String",
		"System`Rational", "System`Complex", "System`ByteArray":
		return true
	}
	return false
}

func (dbg *MathicsDbg) Truthy(val any) bool {
	switch v := val.(type) {
	case interp.Expr:
		switch v.Name() {
		case "System`True":
			return true
		case "System`False", "System`Null":
			return false
		}
	case string:
		switch v {
		case "System`True", "True":
			return true
		case "System`False", "False", "System`Null", "Null":
			return false
		}
	}
	return internal.Truthy(val)
}
