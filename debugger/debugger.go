package debugger

import (
	"io"

	"github.com/wnxd/symdbg/interp"
	"github.com/wnxd/symdbg/source"
)

const (
	StatusPreExecution  = "Pre-execution"
	StatusRunning       = "Running"
	StatusPostExecution = "Post-execution"
	StatusNoProgram     = "No program"
	StatusQuit          = "Quit command"
)

type Debugger interface {
	io.Closer
	Interpreter() interp.Interpreter
	Start() error
	Stop() error
	ExecutionStatus() string
	Dispatch(frame interp.Frame, event *interp.Event) interp.Result
	Processor() Processor
	SourceMap() *source.Map
	PushInterface(intf Interface)
	QueueCommands(lines ...string)
	BreakManager
	FilterManager
	HookManager
	ModuleManager
	SettingsManager
	TaskManager
	FileManager
}

func New(in interp.Interpreter, opts ...Option) (Debugger, error) {
	if ctor, ok := dbgMap[in.Lang()]; ok {
		return ctor(in, NewOptions(opts...))
	}
	return nil, interp.ErrLangUnsupported
}
