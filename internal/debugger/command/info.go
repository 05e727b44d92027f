package command

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/wnxd/symdbg/debugger"
	"github.com/wnxd/symdbg/repr"
)

var _ = debugger.RegisterCommand(&debugger.Command{
	Name:     "info",
	Aliases:  []string{"i"},
	Category: debugger.CategoryStatus,
	MaxArgs:  -1,
	Short:    "Print information about the program being debugged",
	Help: `info SUBCOMMAND

Print information about the program being debugged. Run "info" with no
arguments for the list of subcommands.`,
	Run: runInfo,
})

var infoSubs = []struct {
	name string
	run  func(proc debugger.Processor, args []string)
}{
	{"breakpoints", infoBreakpoints},
	{"files", infoFiles},
	{"locals", infoLocals},
	{"macros", infoMacros},
	{"program", infoProgram},
}

func runInfo(proc debugger.Processor, args []string) (bool, error) {
	if len(args) == 1 {
		names := make([]string, len(infoSubs))
		for i, sub := range infoSubs {
			names[i] = sub.name
		}
		proc.Msg("Info subcommands: %s", strings.Join(names, ", "))
		return false, nil
	}
	word := strings.ToLower(args[1])
	var matches []int
	for i, sub := range infoSubs {
		if sub.name == word {
			matches = []int{i}
			break
		}
		if strings.HasPrefix(sub.name, word) {
			matches = append(matches, i)
		}
	}
	if len(matches) != 1 {
		proc.Errmsg(`Unknown "info" subcommand: "%s".`, args[1])
		return false, nil
	}
	infoSubs[matches[0]].run(proc, args[2:])
	return false, nil
}

func infoBreakpoints(proc debugger.Processor, args []string) {
	breaks := proc.Debugger().Breaks()
	if len(breaks) == 0 {
		proc.Msg("No breakpoints.")
		return
	}
	proc.Msg("Num Type          Disp Enb   Where")
	for _, bp := range breaks {
		enb := "n"
		if bp.Enabled {
			enb = "y"
		}
		var where string
		if bp.IsFunc() {
			where = "on calls to " + bp.FuncName
		} else {
			where = fmt.Sprintf("at %s:%d", fileName(proc, bp.File), bp.Line)
		}
		proc.Msg("%-4d%-14s%-5s%-6s%s", bp.Number, "breakpoint", bp.Disp(), enb, where)
		if bp.Condition != "" {
			proc.Msg("\tstop only if %s", bp.Condition)
		}
		if bp.Ignore > 0 {
			proc.Msg("\tignore next %d hits", bp.Ignore)
		}
		if bp.Hits > 0 {
			proc.Msg("\tbreakpoint already hit %d time%s", bp.Hits, plural(bp.Hits))
		}
	}
}

func infoFiles(proc debugger.Processor, args []string) {
	files := proc.Debugger().LoadedFiles()
	if len(files) == 0 {
		proc.Msg("No definition files have been read in.")
		return
	}
	proc.Msg("Definition files read in:")
	for _, file := range files {
		proc.Msg("\t%s", file)
	}
}

func infoLocals(proc debugger.Processor, args []string) {
	frame := proc.Frame()
	if frame == nil {
		proc.Errmsg("No stack.")
		return
	}
	locals := frame.Locals()
	if len(locals) == 0 {
		proc.Msg("No local variables.")
		return
	}
	width := proc.Settings().Int(debugger.SettingWidth)
	for _, name := range slices.Sorted(maps.Keys(locals)) {
		proc.Msg("%s = %s", name, repr.StringN(locals[name], width))
	}
}

func infoMacros(proc debugger.Processor, args []string) {
	names := proc.Macros()
	if len(names) == 0 {
		proc.Msg("No macros defined.")
		return
	}
	for _, name := range names {
		if body, ok := proc.Macro(name); ok {
			proc.Msg("%s: %s", name, body)
		}
	}
}

func infoProgram(proc debugger.Processor, args []string) {
	dbg := proc.Debugger()
	proc.Msg("Execution status: %s", dbg.ExecutionStatus())
	if event := proc.Event(); event != nil {
		proc.Msg("Program stopped at a %s event.", event.Kind)
	}
	if reason := proc.StopReason(); reason != "" {
		proc.Msg("It is stopped %s.", reason)
	}
}
