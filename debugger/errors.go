package debugger

import (
	"errors"
	"fmt"

	"github.com/wnxd/symdbg/interp"
)

var (
	ErrDebuggerClosed     = errors.New("debugger closed")
	ErrNoStack            = errors.New("no execution stack")
	ErrBreakpointNotFound = errors.New("breakpoint not found")
	ErrFrameRange         = errors.New("frame position out of range")
	ErrCommandInvalid     = errors.New("command invalid")
	ErrHookInvalid        = errors.New("hook invalid")
	ErrMacroInvalid       = errors.New("macro invalid")
	ErrProfileInvalid     = errors.New("profile invalid")
	ErrSettingUnknown     = errors.New("setting unknown")
	ErrTaskInvalid        = errors.New("task invalid")
	ErrNotImplemented     = errors.New("not implemented")
)

type DebugException interface {
	error
	Location() (file string, line int, ok bool)
}

type debugException struct {
	file string
	line int
	fn   string
}

// QuitException unwinds through the command loop and the dispatcher without
// being swallowed, cancels every task and reaches the host as Result.Err.
type QuitException struct {
	code    int
	restart bool
}

type EvalException struct {
	debugException
	expr  string
	cause error
}

type PanicException struct {
	debugException
	v     any
	stack []byte
}

func (e *debugException) String() string {
	if e.fn == "" {
		return fmt.Sprintf("%s:%d", e.file, e.line)
	}
	return fmt.Sprintf("%s:%d (%s)", e.file, e.line, e.fn)
}

func (e *debugException) Location() (string, int, bool) {
	return e.file, e.line, e.file != ""
}

func (e *QuitException) Error() string {
	if e.restart {
		return "quit for restart"
	}
	return fmt.Sprintf("quit (exit code %d)", e.code)
}

func (e *QuitException) ExitCode() int {
	return e.code
}

func (e *QuitException) Restart() bool {
	return e.restart
}

func (e *EvalException) Error() string {
	return fmt.Sprintf("%T: %s", e.cause, e.expr)
}

func (e *EvalException) Expr() string {
	return e.expr
}

func (e *EvalException) Unwrap() error {
	return e.cause
}

func (e *PanicException) Error() string {
	return fmt.Sprintf("[Panic] %s, panic: %v", &e.debugException, e.v)
}

func (e *PanicException) Panic() any {
	return e.v
}

func (e *PanicException) Stack() []byte {
	return e.stack
}

func initException(frame interp.Frame) debugException {
	if frame == nil {
		return debugException{}
	}
	return debugException{
		file: frame.File(),
		line: frame.Line(),
		fn:   frame.FuncName(),
	}
}

func NewQuitException(code int, restart bool) *QuitException {
	return &QuitException{code: code, restart: restart}
}

func NewEvalException(frame interp.Frame, expr string, cause error) DebugException {
	return &EvalException{
		debugException: initException(frame),
		expr:           expr,
		cause:          cause,
	}
}

func NewPanicException(frame interp.Frame, v any, stack []byte) DebugException {
	return &PanicException{
		debugException: initException(frame),
		v:              v,
		stack:          stack,
	}
}

// IsQuit reports whether err is, or wraps, the session cancellation.
func IsQuit(err error) bool {
	var quit *QuitException
	return errors.As(err, &quit)
}
