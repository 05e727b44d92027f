package command

import (
	"math"
	"strconv"
	"strings"

	"github.com/wnxd/symdbg/debugger"
)

var _ = debugger.RegisterCommands(
	&debugger.Command{
		Name:      "break",
		Aliases:   []string{"b"},
		Category:  debugger.CategoryBreakpoints,
		MaxArgs:   -1,
		NeedStack: true,
		Short:     "Set a breakpoint at a location",
		Help: `break [LOCATION] [if CONDITION]

Set a breakpoint at LOCATION. LOCATION is a line number in the current
file, FILE:LINE, or a function name triggered on call events; with no
location the current line is used. With "if", the breakpoint stops only
when CONDITION evaluates to true.`,
		Run: runBreak,
	},
	&debugger.Command{
		Name:      "tbreak",
		Category:  debugger.CategoryBreakpoints,
		MaxArgs:   -1,
		NeedStack: true,
		Short:     "Set a temporary breakpoint",
		Run:       runTBreak,
	},
	&debugger.Command{
		Name:     "delete",
		Category: debugger.CategoryBreakpoints,
		MaxArgs:  -1,
		Short:    "Delete some breakpoints",
		Help: `delete [NUM...]

Delete the numbered breakpoints. With no arguments, delete all
breakpoints after confirmation.`,
		Run: runDelete,
	},
	&debugger.Command{
		Name:     "enable",
		Category: debugger.CategoryBreakpoints,
		MinArgs:  1,
		MaxArgs:  -1,
		Short:    "Enable some breakpoints",
		Run:      runEnable,
	},
	&debugger.Command{
		Name:     "disable",
		Category: debugger.CategoryBreakpoints,
		MinArgs:  1,
		MaxArgs:  -1,
		Short:    "Disable some breakpoints",
		Run:      runDisable,
	},
	&debugger.Command{
		Name:     "condition",
		Category: debugger.CategoryBreakpoints,
		MinArgs:  1,
		MaxArgs:  -1,
		Short:    "Specify breakpoint number NUM to break only if COND is true",
		Help: `condition NUM [COND]

Stop on breakpoint NUM only when COND evaluates to true. With no
condition the breakpoint becomes unconditional.`,
		Run: runCondition,
	},
	&debugger.Command{
		Name:     "ignore",
		Category: debugger.CategoryBreakpoints,
		MinArgs:  1,
		MaxArgs:  2,
		Short:    "Set ignore count for breakpoint number NUM",
		Run:      runIgnore,
	},
)

func runBreak(proc debugger.Processor, args []string) (bool, error) {
	return setBreak(proc, args, false)
}

func runTBreak(proc debugger.Processor, args []string) (bool, error) {
	return setBreak(proc, args, true)
}

func setBreak(proc debugger.Processor, args []string, temporary bool) (bool, error) {
	loc, condition := splitCondition(args[1:])
	dbg := proc.Debugger()
	var bp *debugger.Breakpoint
	var err error
	switch {
	case len(loc) == 0:
		frame := proc.Frame()
		bp, err = dbg.AddBreak(frame.File(), frame.Line(), temporary, condition)
	case len(loc) > 1:
		proc.Errmsg("Invalid breakpoint location: %s.", strings.Join(loc, " "))
		return false, nil
	default:
		file, line, funcName, ok := parseLocation(proc, loc[0])
		if !ok {
			return false, nil
		}
		if funcName != "" {
			bp, err = dbg.AddFuncBreak(funcName, temporary, condition)
		} else {
			if file == "" {
				file = proc.Frame().File()
			}
			bp, err = dbg.AddBreak(file, line, temporary, condition)
		}
	}
	if err != nil {
		proc.Errmsg("%s", err)
		return false, nil
	}
	kind := "Breakpoint"
	if temporary {
		kind = "Temporary breakpoint"
	}
	if bp.IsFunc() {
		proc.Msg("%s %d set on calls to function %s", kind, bp.Number, bp.FuncName)
	} else {
		proc.Msg("%s %d set at line %d of file %s", kind, bp.Number, bp.Line, fileName(proc, bp.File))
	}
	return false, nil
}

// splitCondition separates a breakpoint location from a trailing
// "if CONDITION" clause.
func splitCondition(args []string) ([]string, string) {
	for i, arg := range args {
		if arg == "if" {
			return args[:i], strings.Join(args[i+1:], " ")
		}
	}
	return args, ""
}

// parseLocation understands FILE:LINE, a bare line number, and a function
// name. An empty file with a positive line means the current file.
func parseLocation(proc debugger.Processor, tok string) (string, int, string, bool) {
	if i := strings.LastIndexByte(tok, ':'); i >= 0 {
		line, ok := getAnInt(proc, tok[i+1:], 1, math.MaxInt)
		if !ok {
			return "", 0, "", false
		}
		return tok[:i], line, "", true
	}
	if _, err := strconv.Atoi(tok); err == nil {
		line, ok := getAnInt(proc, tok, 1, math.MaxInt)
		if !ok {
			return "", 0, "", false
		}
		return "", line, "", true
	}
	return "", 0, tok, true
}

func runDelete(proc debugger.Processor, args []string) (bool, error) {
	dbg := proc.Debugger()
	if len(args) == 1 {
		if !proc.Confirm("Delete all breakpoints?", true) {
			return false, nil
		}
		count := dbg.DeleteAllBreaks()
		proc.Msg("Deleted %d breakpoint%s.", count, plural(count))
		return false, nil
	}
	for _, arg := range args[1:] {
		num, ok := getAnInt(proc, arg, 1, math.MaxInt)
		if !ok {
			continue
		}
		if dbg.DeleteBreak(num) != nil {
			proc.Errmsg("No breakpoint number %d.", num)
			continue
		}
		proc.Msg("Deleted breakpoint %d.", num)
	}
	return false, nil
}

func runEnable(proc debugger.Processor, args []string) (bool, error) {
	dbg := proc.Debugger()
	for _, arg := range args[1:] {
		num, ok := getAnInt(proc, arg, 1, math.MaxInt)
		if !ok {
			continue
		}
		if dbg.EnableBreak(num) != nil {
			proc.Errmsg("No breakpoint number %d.", num)
			continue
		}
		proc.Msg("Breakpoint %d enabled.", num)
	}
	return false, nil
}

func runDisable(proc debugger.Processor, args []string) (bool, error) {
	dbg := proc.Debugger()
	for _, arg := range args[1:] {
		num, ok := getAnInt(proc, arg, 1, math.MaxInt)
		if !ok {
			continue
		}
		if dbg.DisableBreak(num) != nil {
			proc.Errmsg("No breakpoint number %d.", num)
			continue
		}
		proc.Msg("Breakpoint %d disabled.", num)
	}
	return false, nil
}

func runCondition(proc debugger.Processor, args []string) (bool, error) {
	num, ok := getAnInt(proc, args[1], 1, math.MaxInt)
	if !ok {
		return false, nil
	}
	condition := strings.Join(args[2:], " ")
	if proc.Debugger().SetBreakCondition(num, condition) != nil {
		proc.Errmsg("No breakpoint number %d.", num)
		return false, nil
	}
	if condition == "" {
		proc.Msg("Breakpoint %d is now unconditional.", num)
	}
	return false, nil
}

func runIgnore(proc debugger.Processor, args []string) (bool, error) {
	num, ok := getAnInt(proc, args[1], 1, math.MaxInt)
	if !ok {
		return false, nil
	}
	count := 0
	if len(args) > 2 {
		count, ok = getAnInt(proc, args[2], 0, math.MaxInt)
		if !ok {
			return false, nil
		}
	}
	if proc.Debugger().SetBreakIgnore(num, count) != nil {
		proc.Errmsg("No breakpoint number %d.", num)
		return false, nil
	}
	if count > 0 {
		proc.Msg("Will ignore next %d crossings of breakpoint %d.", count, num)
	} else {
		proc.Msg("Will stop next time breakpoint %d is reached.", num)
	}
	return false, nil
}
