package command

import (
	"maps"
	"slices"
	"strings"

	"github.com/wnxd/symdbg/debugger"
	"github.com/wnxd/symdbg/source"
)

var _ = debugger.RegisterCommands(
	&debugger.Command{
		Name:     "source",
		Category: debugger.CategorySupport,
		MinArgs:  1,
		MaxArgs:  1,
		Short:    "Read and run debugger commands from a file",
		Run:      runSource,
	},
	&debugger.Command{
		Name:     "macro",
		Category: debugger.CategorySupport,
		MinArgs:  2,
		MaxArgs:  -1,
		Short:    "Define a macro as a Lua function",
		Help: `macro NAME FUNCTION

Define NAME as a macro expanding through a Lua function, for example:

    macro fin10 function() return {"finish", "step 10"} end

When NAME starts a command line the function is applied to the rest of
the line's words. It must return a string, which replaces the command,
or a list of strings, where the first element replaces the command and
the rest join the command queue.`,
		Run: runMacro,
	},
	&debugger.Command{
		Name:     "alias",
		Category: debugger.CategorySupport,
		MaxArgs:  2,
		Short:    "Add an alias for a debugger command",
		Run:      runAlias,
	},
	&debugger.Command{
		Name:     "unalias",
		Category: debugger.CategorySupport,
		MinArgs:  1,
		MaxArgs:  1,
		Short:    "Remove an alias for a debugger command",
		Run:      runUnalias,
	},
	&debugger.Command{
		Name:     "help",
		Aliases:  []string{"?"},
		Category: debugger.CategorySupport,
		MaxArgs:  -1,
		Short:    "Print a list of commands, or help on a command",
		Run:      runHelp,
	},
)

func runSource(proc debugger.Processor, args []string) (bool, error) {
	path := source.ExpandUser(args[1])
	exists, canRead := source.Readable(path)
	if !exists {
		proc.Errmsg("source file '%s' doesn't exist", args[1])
		return false, nil
	}
	if !canRead {
		proc.Errmsg("source file '%s' is not readable", args[1])
		return false, nil
	}
	intf, err := debugger.NewScriptInterface(path, nil)
	if err != nil {
		proc.Errmsg("%s", err)
		return false, nil
	}
	proc.Debugger().PushInterface(intf)
	return false, nil
}

func runMacro(proc debugger.Processor, args []string) (bool, error) {
	name := args[1]
	body := strings.TrimLeft(strings.TrimPrefix(proc.CmdArgstr(), name), " \t")
	if err := proc.DefineMacro(name, body); err != nil {
		proc.Errmsg("Error defining macro %s: %s", name, err)
	}
	return false, nil
}

func runAlias(proc debugger.Processor, args []string) (bool, error) {
	switch len(args) {
	case 1:
		names := proc.Aliases()
		if len(names) == 0 {
			proc.Msg("No aliases defined.")
			return false, nil
		}
		for _, name := range names {
			if target, ok := proc.Alias(name); ok {
				proc.Msg("%s: %s", name, target)
			}
		}
	case 2:
		if target, ok := proc.Alias(args[1]); ok {
			proc.Msg("%s: %s", args[1], target)
		} else {
			proc.Msg("%s is not an alias.", args[1])
		}
	default:
		proc.DefineAlias(args[1], args[2])
	}
	return false, nil
}

func runUnalias(proc debugger.Processor, args []string) (bool, error) {
	if proc.RemoveAlias(args[1]) {
		proc.Msg("Alias for %s removed.", args[1])
	} else {
		proc.Errmsg("No alias found for %s.", args[1])
	}
	return false, nil
}

func runHelp(proc debugger.Processor, args []string) (bool, error) {
	if len(args) > 1 {
		word := strings.ToLower(args[1])
		name := word
		if target, ok := proc.Alias(word); ok {
			name = strings.ToLower(target)
		}
		cmd, ok := debugger.LookupCommand(name)
		if !ok {
			proc.Errmsg(`Undefined command: "%s". Try "help".`, args[1])
			return false, nil
		}
		if cmd.Help != "" {
			proc.Msg("%s", cmd.Help)
		} else {
			proc.Msg("%s", cmd.Short)
		}
		if len(cmd.Aliases) != 0 {
			proc.Msg("Aliases: %s", strings.Join(cmd.Aliases, ", "))
		}
		return false, nil
	}
	byCat := make(map[string][]string)
	for _, cmd := range debugger.Commands() {
		byCat[cmd.Category] = append(byCat[cmd.Category], cmd.Name)
	}
	for _, cat := range slices.Sorted(maps.Keys(byCat)) {
		proc.Msg("%s: %s", cat, strings.Join(byCat[cat], ", "))
	}
	return false, nil
}
