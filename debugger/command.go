package debugger

import (
	"slices"
	"sync"
)

const (
	CategoryBreakpoints = "breakpoints"
	CategoryData        = "data"
	CategoryFiles       = "files"
	CategoryRunning     = "running"
	CategoryStack       = "stack"
	CategoryStatus      = "status"
	CategorySupport     = "support"
)

// Command describes one debugger command. Run returns true when the command
// loop should end and the traced program resume. A returned *QuitException
// unwinds past the loop instead of being reported. MaxArgs below zero
// accepts any number of arguments; an empty ExecutionSet accepts any
// execution status.
type Command struct {
	Name         string
	Aliases      []string
	Category     string
	MinArgs      int
	MaxArgs      int
	NeedStack    bool
	ExecutionSet []string
	Short        string
	Help         string
	Run          func(proc Processor, args []string) (bool, error)
}

var (
	cmdMu  sync.RWMutex
	cmdMap = make(map[string]*Command)
)

func RegisterCommand(cmd *Command) bool {
	cmdMu.Lock()
	defer cmdMu.Unlock()
	if _, ok := cmdMap[cmd.Name]; ok {
		return false
	}
	cmdMap[cmd.Name] = cmd
	return true
}

func RegisterCommands(cmds ...*Command) bool {
	ok := true
	for _, cmd := range cmds {
		ok = RegisterCommand(cmd) && ok
	}
	return ok
}

func LookupCommand(name string) (*Command, bool) {
	cmdMu.RLock()
	defer cmdMu.RUnlock()
	cmd, ok := cmdMap[name]
	return cmd, ok
}

func Commands() []*Command {
	cmdMu.RLock()
	cmds := make([]*Command, 0, len(cmdMap))
	for _, cmd := range cmdMap {
		cmds = append(cmds, cmd)
	}
	cmdMu.RUnlock()
	slices.SortFunc(cmds, func(a, b *Command) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return cmds
}
