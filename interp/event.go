package interp

type EventKind int

const (
	EVENT_UNKNOWN EventKind = iota
	EVENT_CALL
	EVENT_LINE
	EVENT_RETURN
	EVENT_EXCEPTION
	EVENT_C_CALL
	EVENT_C_RETURN
	EVENT_C_EXCEPTION
	EVENT_EVALUATE_ENTRY
	EVENT_EVALUATE_RESULT
	EVENT_SYMPY
	EVENT_MPMATH
	EVENT_GET
	EVENT_APPLY
	EVENT_EVAL_METHOD
	EVENT_EVAL_FUNCTION
	EVENT_SIGNAL
	EVENT_DEBUGGER
	EVENT_BRKPT
)

var eventNames = map[EventKind]string{
	EVENT_CALL:            "call",
	EVENT_LINE:            "line",
	EVENT_RETURN:          "return",
	EVENT_EXCEPTION:       "exception",
	EVENT_C_CALL:          "c_call",
	EVENT_C_RETURN:        "c_return",
	EVENT_C_EXCEPTION:     "c_exception",
	EVENT_EVALUATE_ENTRY:  "evaluate-entry",
	EVENT_EVALUATE_RESULT: "evaluate-result",
	EVENT_SYMPY:           "SymPy",
	EVENT_MPMATH:          "mpmath",
	EVENT_GET:             "Get",
	EVENT_APPLY:           "apply",
	EVENT_EVAL_METHOD:     "evalMethod",
	EVENT_EVAL_FUNCTION:   "evalFunction",
	EVENT_SIGNAL:          "signal",
	EVENT_DEBUGGER:        "debugger",
	EVENT_BRKPT:           "brkpt",
}

var eventKinds = func() map[string]EventKind {
	kinds := make(map[string]EventKind, len(eventNames))
	for kind, name := range eventNames {
		kinds[name] = kind
	}
	return kinds
}()

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

func (k EventKind) IsReturn() bool {
	return k == EVENT_RETURN || k == EVENT_C_RETURN
}

func (k EventKind) IsCustom() bool {
	switch k {
	case EVENT_EVALUATE_ENTRY, EVENT_EVALUATE_RESULT, EVENT_SYMPY, EVENT_MPMATH,
		EVENT_GET, EVENT_APPLY, EVENT_EVAL_METHOD, EVENT_EVAL_FUNCTION,
		EVENT_SIGNAL, EVENT_DEBUGGER:
		return true
	}
	return false
}

func EventKindOf(name string) EventKind {
	return eventKinds[name]
}

// Event is a single trace notification. Kind selects the variant of Arg:
// EVENT_EVALUATE_ENTRY and EVENT_EVALUATE_RESULT carry *Evaluation,
// EVENT_SYMPY and EVENT_MPMATH carry *LibCall, EVENT_GET carries *FileLoad.
// Thread names the host thread the event originated on; empty means main.
type Event struct {
	Kind   EventKind
	Arg    any
	Thread string
}

// Evaluation is the payload of expression evaluation events.
type Evaluation struct {
	Expr     Expr
	Status   string
	OrigExpr Expr
	Result   any
}

// LibCall is the payload of external library call events.
type LibCall struct {
	Name string
	Fn   any
	Args []any
}

// FileLoad is the payload of definition file load events.
type FileLoad struct {
	Path string
	Args []any
}

// Expr is a host expression. Name returns the fully qualified head symbol,
// ShortName the context-free form, String the rendered expression text.
type Expr interface {
	Name() string
	ShortName() string
	String() string
	Location() (file string, line int, ok bool)
}
