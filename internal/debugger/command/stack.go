package command

import (
	"github.com/wnxd/symdbg/debugger"
)

var _ = debugger.RegisterCommands(
	&debugger.Command{
		Name:      "backtrace",
		Aliases:   []string{"bt", "where"},
		Category:  debugger.CategoryStack,
		MaxArgs:   1,
		NeedStack: true,
		Short:     "Print backtrace of all stack frames",
		Help: `backtrace [COUNT]

Print the stack, newest frame first. An arrow marks the selected frame.
With COUNT, show only the newest COUNT frames.`,
		Run: runBacktrace,
	},
	&debugger.Command{
		Name:      "frame",
		Aliases:   []string{"f"},
		Category:  debugger.CategoryStack,
		MaxArgs:   1,
		NeedStack: true,
		Short:     "Select and print a stack frame",
		Help: `frame [NUM]

Select frame NUM and print its location. Frame 0 is the newest frame;
negative numbers count from the oldest frame, so frame -1 is the
oldest.`,
		Run: runFrame,
	},
	&debugger.Command{
		Name:      "up",
		Category:  debugger.CategoryStack,
		MaxArgs:   1,
		NeedStack: true,
		Short:     "Move the selected frame up one or more older frames",
		Run:       runUp,
	},
	&debugger.Command{
		Name:      "down",
		Category:  debugger.CategoryStack,
		MaxArgs:   1,
		NeedStack: true,
		Short:     "Move the selected frame down one or more newer frames",
		Run:       runDown,
	},
)

func runBacktrace(proc debugger.Processor, args []string) (bool, error) {
	count, ok := getInt(proc, "backtrace", args[1:], -1)
	if !ok {
		return false, nil
	}
	proc.PrintStackTrace(count)
	return false, nil
}

func runFrame(proc debugger.Processor, args []string) (bool, error) {
	pos, ok := getInt(proc, "frame", args[1:], 0)
	if !ok {
		return false, nil
	}
	proc.AdjustFrame(pos, true)
	return false, nil
}

func runUp(proc debugger.Processor, args []string) (bool, error) {
	count, ok := getInt(proc, "up", args[1:], 1)
	if !ok {
		return false, nil
	}
	proc.AdjustFrame(-count, false)
	return false, nil
}

func runDown(proc debugger.Processor, args []string) (bool, error) {
	count, ok := getInt(proc, "down", args[1:], 1)
	if !ok {
		return false, nil
	}
	proc.AdjustFrame(count, false)
	return false, nil
}
