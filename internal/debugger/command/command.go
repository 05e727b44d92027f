// Package command holds the builtin debugger commands. Each file registers
// one category of commands against the public registry; the session package
// imports this one for its side effects.
package command

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wnxd/symdbg/debugger"
	"github.com/wnxd/symdbg/interp"
)

// getAnInt parses arg as an integer, falling back to evaluating it in the
// selected frame. Parse failures and bound violations are reported through
// proc and ok comes back false.
func getAnInt(proc debugger.Processor, arg string, minValue, maxValue int) (int, bool) {
	n, ok := intArg(proc, arg)
	if !ok {
		proc.Errmsg("Expecting an integer, got: %s.", arg)
		return 0, false
	}
	if n < minValue {
		proc.Errmsg("Expecting integer value to be at least %d, got: %d.", minValue, n)
		return 0, false
	}
	if n > maxValue {
		proc.Errmsg("Expecting integer value to be at most %d, got: %d.", maxValue, n)
		return 0, false
	}
	return n, true
}

// getInt reads an optional leading integer argument, defaulting when args is
// empty.
func getInt(proc debugger.Processor, cmdname string, args []string, def int) (int, bool) {
	if len(args) == 0 {
		return def, true
	}
	n, ok := intArg(proc, args[0])
	if !ok {
		proc.Errmsg("Command '%s' expects an integer; got: %s.", cmdname, args[0])
		return 0, false
	}
	return n, true
}

func intArg(proc debugger.Processor, arg string) (int, bool) {
	if n, err := strconv.Atoi(arg); err == nil {
		return n, true
	}
	val, err := proc.Eval(arg)
	if err != nil {
		return 0, false
	}
	return intOf(val)
}

func intOf(val any) (int, bool) {
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
	}
	return 0, false
}

// fileName applies the basename setting to a canonic path.
func fileName(proc debugger.Processor, file string) string {
	if proc.Settings().Bool(debugger.SettingBaseName) {
		return filepath.Base(file)
	}
	return file
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func showSetting(proc debugger.Processor, key string) {
	val, ok := proc.Settings().Get(key)
	if !ok {
		proc.Errmsg(`Unknown setting: "%s".`, key)
		return
	}
	switch v := val.(type) {
	case bool:
		proc.Msg("%s is %s.", key, onOff(v))
	case []interp.EventKind:
		names := make([]string, len(v))
		for i, kind := range v {
			names[i] = kind.String()
		}
		proc.Msg("%s: %s", key, strings.Join(names, " "))
	default:
		proc.Msg("%s is %v.", key, v)
	}
}
