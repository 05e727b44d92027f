package debugger

// Breakpoint is a stop request at a source line or on entry to a named
// function. Exactly one of File/Line or FuncName is set. Fields are owned by
// the manager that issued the breakpoint and are read while the traced
// program is stopped.
type Breakpoint struct {
	Number    int
	File      string
	Line      int
	FuncName  string
	Condition string
	Temporary bool
	Enabled   bool
	Hits      int
	Ignore    int
}

func (bp *Breakpoint) IsFunc() bool {
	return bp.FuncName != ""
}

func (bp *Breakpoint) Disp() string {
	if bp.Temporary {
		return "del "
	}
	return "keep"
}

type BreakManager interface {
	AddBreak(file string, line int, temporary bool, condition string) (*Breakpoint, error)
	AddFuncBreak(funcName string, temporary bool, condition string) (*Breakpoint, error)
	BreakByNumber(num int) (*Breakpoint, error)
	FindBreaks(file string, line int) []*Breakpoint
	DeleteBreak(num int) error
	DeleteAllBreaks() int
	EnableBreak(num int) error
	DisableBreak(num int) error
	SetBreakCondition(num int, condition string) error
	SetBreakIgnore(num int, count int) error
	Breaks() []*Breakpoint
}
