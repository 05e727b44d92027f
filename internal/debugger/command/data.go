package command

import (
	"errors"
	"strings"

	"github.com/wnxd/symdbg/debugger"
	"github.com/wnxd/symdbg/repr"
)

var _ = debugger.RegisterCommands(
	&debugger.Command{
		Name:      "eval",
		Aliases:   []string{"ev"},
		Category:  debugger.CategoryData,
		MaxArgs:   -1,
		NeedStack: true,
		Short:     "Run code in the current execution context",
		Help: `eval [EXPRESSION]

Evaluate EXPRESSION in the selected frame's variable context and print
the result. With no expression, evaluate the current source line.`,
		Run: runEval,
	},
	&debugger.Command{
		Name:     "set",
		Category: debugger.CategoryData,
		MinArgs:  2,
		MaxArgs:  -1,
		Short:    "Modify parts of the debugger environment",
		Help: `set SETTING VALUE

Change a debugger setting. Boolean settings accept on/off, the event
set settings accept a list of event names or "all". See "show" for the
settings and their current values.`,
		Run: runSet,
	},
	&debugger.Command{
		Name:     "show",
		Category: debugger.CategoryData,
		MaxArgs:  1,
		Short:    "Show parts of the debugger environment",
		Run:      runShow,
	},
)

func runEval(proc debugger.Processor, args []string) (bool, error) {
	expr := proc.CmdArgstr()
	if expr == "" {
		expr = proc.CurrentSource()
		if expr == "" {
			proc.Errmsg("Don't have program source text")
			return false, nil
		}
		proc.Msg("eval: %s", expr)
	}
	val, err := proc.Eval(expr)
	if err != nil {
		proc.Errmsg("%s", err)
		return false, nil
	}
	proc.Msg("%s", repr.StringN(val, proc.Settings().Int(debugger.SettingWidth)))
	return false, nil
}

func runSet(proc debugger.Processor, args []string) (bool, error) {
	key := strings.ToLower(args[1])
	value := strings.Join(args[2:], " ")
	if err := proc.Settings().Set(key, value); err != nil {
		if errors.Is(err, debugger.ErrSettingUnknown) {
			proc.Errmsg(`Unknown setting: "%s".`, key)
		} else {
			proc.Errmsg("%s", err)
		}
		return false, nil
	}
	showSetting(proc, key)
	return false, nil
}

func runShow(proc debugger.Processor, args []string) (bool, error) {
	if len(args) == 1 {
		for _, key := range proc.Settings().Keys() {
			showSetting(proc, key)
		}
		return false, nil
	}
	key := strings.ToLower(args[1])
	if _, ok := proc.Settings().Get(key); !ok {
		proc.Errmsg(`Unknown setting: "%s".`, key)
		return false, nil
	}
	showSetting(proc, key)
	return false, nil
}
