package debugger

import (
	"github.com/wnxd/symdbg/interp"
)

type Different int

const (
	Different_Unset Different = iota
	Different_No
	Different_Yes
)

// FrameLine pairs a stack frame with the line it was at when the stack was
// captured. The innermost frame carries the event line, outer frames the
// line of their pending call.
type FrameLine struct {
	Frame interp.Frame
	Line  int
}

// Processor is the surface a command runs against while the traced program
// is stopped. One processor exists per debugger; its frame selection and
// command queue persist between stops.
type Processor interface {
	Debugger() Debugger
	Settings() Settings
	TaskName() string
	Event() *interp.Event
	StopReason() string
	LastCommand() string
	CmdArgstr() string
	CurrentSource() string
	MessageContext
	StackContext
	EvalContext
	FlowContext
	QueueContext
	MacroContext
	AliasContext
	StorageContext
}

type MessageContext interface {
	Msg(format string, args ...any)
	MsgNocr(format string, args ...any)
	Errmsg(format string, args ...any)
	Confirm(prompt string, def bool) bool
}

type StackContext interface {
	StopFrame() interp.Frame
	Frame() interp.Frame
	CurIndex() int
	Stack() []FrameLine
	AdjustFrame(pos int, absolute bool) error
	PrintLocation()
	PrintStackEntry(pos int)
	PrintStackTrace(count int)
}

type EvalContext interface {
	Eval(expr string) (any, error)
	ReturnValue() (any, bool)
}

type FlowContext interface {
	SetStep(ignore int, diff Different)
	SetStepEvents(kinds []interp.EventKind)
	SetNext(ignore int)
	SetFinish()
	SetContinue()
}

type QueueContext interface {
	QueueCommands(lines ...string)
	QueueStartFile(path string)
}

type MacroContext interface {
	DefineMacro(name, body string) error
	RemoveMacro(name string) bool
	Macro(name string) (string, bool)
	Macros() []string
}

type AliasContext interface {
	DefineAlias(name, command string)
	RemoveAlias(name string) bool
	Alias(name string) (string, bool)
	Aliases() []string
}

type StorageContext interface {
	LocalStore(key, val any)
	LocalLoad(key any) (any, bool)
	LocalDelete(key any)
}
