package debugger

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/wnxd/symdbg/debugger"
	"github.com/wnxd/symdbg/interp"
	"github.com/wnxd/symdbg/repr"
	"github.com/wnxd/symdbg/source"
)

const wrapEntryLen = 35

// countFrames returns the call depth of frame, with the outermost frame
// counting as one.
func countFrames(frame interp.Frame) int {
	count := 0
	for frame != nil {
		count++
		frame = frame.Caller()
	}
	return count
}

// getStack walks frame's caller chain into the ordered stack used for
// backtraces and frame switching, oldest first. The walk stops at the first
// frame whose function is on the ignore list. The returned index selects the
// newest entry.
func getStack(dbg Debugger, frame interp.Frame) ([]debugger.FrameLine, int) {
	flt := dbg.filterRef()
	var stack []debugger.FrameLine
	for frame != nil {
		if flt.ignoredFunc(frame.FuncName()) {
			break
		}
		stack = append(stack, debugger.FrameLine{Frame: frame, Line: frame.Line()})
		frame = frame.Caller()
	}
	slices.Reverse(stack)
	curindex := len(stack) - 1
	if curindex < 0 {
		curindex = 0
	}
	return stack, curindex
}

func frameFile(dbg Debugger, frame interp.Frame) string {
	name := dbg.Canonic(frame.File())
	if dbg.Settings().Bool(debugger.SettingBaseName) {
		return filepath.Base(name)
	}
	return name
}

// formatStackEntry formats one stack entry gdb-style, e.g.
//
//	fn(n=1) called from file '/tmp/fact.m' at line 12
func formatStackEntry(dbg Debugger, fl debugger.FrameLine, styles *styleSet) string {
	frame := fl.Frame
	settings := dbg.Settings()
	filename := frameFile(dbg, frame)
	funcname := frame.FuncName()
	if funcname == "" {
		funcname = "<lambda>"
	}
	s := styles.function.Render(funcname)
	isModule := funcname == "<module>"
	if !isModule {
		params := formatArgValues(frame.Locals())
		if max := settings.Int(debugger.SettingMaxArgSize); max > 0 && len(params) >= max {
			params = params[:max] + "...)"
		}
		s += params
	}
	if len(s) >= wrapEntryLen {
		s += "\n    "
	}
	if rv, ok := frame.Locals()["__return__"]; ok {
		s += "->" + repr.StringN(rv, settings.Int(debugger.SettingMaxString))
	}
	pseudo := source.IsPseudo(filename)
	if isModule {
		s += " file"
	} else if s == "?()" {
		s += " in file"
	} else if !pseudo {
		s += " called from file"
	}
	if !pseudo {
		filename = "'" + filename + "'"
	}
	s += fmt.Sprintf(" %s at line %s",
		styles.filename.Render(filename), styles.lineno.Render(strconv.Itoa(fl.Line)))
	return s
}

// formatArgValues renders a frame's visible variables as a parameter list,
// sorted by name. Internal names with a dunder prefix stay hidden.
func formatArgValues(locals map[string]any) string {
	keys := make([]string, 0, len(locals))
	for k := range locals {
		if strings.HasPrefix(k, "__") {
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)
	var sb strings.Builder
	sb.WriteByte('(')
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(repr.String(locals[k]))
	}
	sb.WriteByte(')')
	return sb.String()
}

// printStackEntry prints stack entry pos counted from the newest frame, with
// an arrow marking the selected frame.
func printStackEntry(proc *cmdProcessor, pos int, styles *styleSet) {
	fl := proc.stack[len(proc.stack)-pos-1]
	if fl.Frame == proc.curframe {
		proc.MsgNocr("%s", styles.arrow.Render("->"))
	} else {
		proc.MsgNocr("##")
	}
	proc.Msg("%d %s", pos, formatStackEntry(proc.dbg, fl, styles))
}

func printStackTrace(proc *cmdProcessor, count int, styles *styleSet) {
	n := len(proc.stack)
	if count >= 0 && count < n {
		n = count
	}
	for i := 0; i < n; i++ {
		printStackEntry(proc, i, styles)
	}
}
