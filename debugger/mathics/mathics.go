package mathics

import (
	"github.com/wnxd/symdbg/debugger"
	internal "github.com/wnxd/symdbg/internal/debugger/mathics"
	"github.com/wnxd/symdbg/interp"
)

var _ = debugger.Register(interp.LANG_MATHICS, internal.NewMathicsDebugger)
