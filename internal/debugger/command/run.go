package command

import (
	"math"
	"strings"

	"github.com/wnxd/symdbg/debugger"
)

var _ = debugger.RegisterCommands(
	&debugger.Command{
		Name:         "continue",
		Aliases:      []string{"c"},
		Category:     debugger.CategoryRunning,
		NeedStack:    true,
		ExecutionSet: []string{debugger.StatusRunning},
		Short:        "Continue execution of debugged program",
		Run:          runContinue,
	},
	&debugger.Command{
		Name:         "step",
		Aliases:      []string{"s", "step+", "step-", "s+", "s-"},
		Category:     debugger.CategoryRunning,
		MaxArgs:      1,
		NeedStack:    true,
		ExecutionSet: []string{debugger.StatusRunning},
		Short:        "Step program (possibly entering called functions)",
		Help: `step [COUNT]

Execute until the program reaches a traced event COUNT times, default
once. A command suffix forces the line-change policy for this step:
"step+" requires a different line, "step-" accepts the same line.`,
		Run: runStep,
	},
	&debugger.Command{
		Name:         "next",
		Aliases:      []string{"n"},
		Category:     debugger.CategoryRunning,
		MaxArgs:      1,
		NeedStack:    true,
		ExecutionSet: []string{debugger.StatusRunning},
		Short:        "Step program, proceeding through subroutine calls",
		Run:          runNext,
	},
	&debugger.Command{
		Name:         "finish",
		Aliases:      []string{"fin"},
		Category:     debugger.CategoryRunning,
		NeedStack:    true,
		ExecutionSet: []string{debugger.StatusRunning},
		Short:        "Execute until selected stack frame returns",
		Run:          runFinish,
	},
	&debugger.Command{
		Name:     "quit",
		Aliases:  []string{"q", "quit!"},
		Category: debugger.CategorySupport,
		MaxArgs:  1,
		Short:    "Terminate the program - gently",
		Help: `quit [EXIT-CODE]

End the debug session. Every traced thread is cancelled and the host
interpreter is told to stop tracing; EXIT-CODE is reported to the host,
default 0.`,
		Run: runQuit,
	},
	&debugger.Command{
		Name:     "kill",
		Aliases:  []string{"kill!"},
		Category: debugger.CategoryRunning,
		Short:    "Kill execution of program being debugged",
		Run:      runKill,
	},
)

func runContinue(proc debugger.Processor, args []string) (bool, error) {
	proc.SetContinue()
	return true, nil
}

func runStep(proc debugger.Processor, args []string) (bool, error) {
	count, ok := getInt(proc, "step", args[1:], 1)
	if !ok {
		return false, nil
	}
	diff := debugger.Different_Unset
	switch {
	case strings.HasSuffix(args[0], "+"):
		diff = debugger.Different_Yes
	case strings.HasSuffix(args[0], "-"):
		diff = debugger.Different_No
	}
	proc.SetStep(count - 1, diff)
	return true, nil
}

func runNext(proc debugger.Processor, args []string) (bool, error) {
	count, ok := getInt(proc, "next", args[1:], 1)
	if !ok {
		return false, nil
	}
	proc.SetNext(count - 1)
	return true, nil
}

func runFinish(proc debugger.Processor, args []string) (bool, error) {
	proc.SetFinish()
	return true, nil
}

func runQuit(proc debugger.Processor, args []string) (bool, error) {
	code := 0
	if len(args) > 1 {
		n, ok := getAnInt(proc, args[1], 0, math.MaxInt)
		if !ok {
			return false, nil
		}
		code = n
	}
	return true, debugger.NewQuitException(code, false)
}

func runKill(proc debugger.Processor, args []string) (bool, error) {
	if !strings.HasSuffix(args[0], "!") && !proc.Confirm("Really do a hard kill?", false) {
		return false, nil
	}
	return true, debugger.NewQuitException(9, false)
}
