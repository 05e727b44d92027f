package extend

import (
	"github.com/wnxd/symdbg/debugger"
	internal "github.com/wnxd/symdbg/internal/debugger"
	"github.com/wnxd/symdbg/interp"
)

type ExtendDebugger interface {
	internal.Debugger
	Init(internal.Debugger, interp.Interpreter, *debugger.Options) error
}
