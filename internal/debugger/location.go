package debugger

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wnxd/symdbg/debugger"
	"github.com/wnxd/symdbg/interp"
	"github.com/wnxd/symdbg/repr"
	"github.com/wnxd/symdbg/source"
)

// eventShorts maps core trace events to the two character code shown before
// a source line. Language flavors supply the codes for their own events.
var eventShorts = map[interp.EventKind]string{
	interp.EVENT_CALL:        "->",
	interp.EVENT_LINE:        "--",
	interp.EVENT_RETURN:      "<-",
	interp.EVENT_EXCEPTION:   "!!",
	interp.EVENT_C_CALL:      "C>",
	interp.EVENT_C_RETURN:    "C<",
	interp.EVENT_C_EXCEPTION: "C!",
	interp.EVENT_BRKPT:       "xx",
	interp.EVENT_SIGNAL:      "?!",
	interp.EVENT_DEBUGGER:    "$ ",
}

func eventShort(dbg Debugger, kind interp.EventKind) string {
	if short, ok := dbg.EventShort(kind); ok {
		return short
	}
	if short, ok := eventShorts[kind]; ok {
		return short
	}
	return "??"
}

// styleSet carries the terminal styles selected by the highlight setting.
// With highlight plain every style renders text unchanged.
type styleSet struct {
	function lipgloss.Style
	filename lipgloss.Style
	lineno   lipgloss.Style
	arrow    lipgloss.Style
	prompt   lipgloss.Style
}

func stylesFor(highlight string) *styleSet {
	styles := &styleSet{
		function: lipgloss.NewStyle(),
		filename: lipgloss.NewStyle(),
		lineno:   lipgloss.NewStyle(),
		arrow:    lipgloss.NewStyle(),
		prompt:   lipgloss.NewStyle(),
	}
	switch highlight {
	case debugger.HighlightLight:
		styles.function = styles.function.Foreground(lipgloss.Color("28")).Bold(true)
		styles.filename = styles.filename.Foreground(lipgloss.Color("19"))
		styles.lineno = styles.lineno.Foreground(lipgloss.Color("94"))
		styles.arrow = styles.arrow.Foreground(lipgloss.Color("124")).Bold(true)
		styles.prompt = styles.prompt.Underline(true)
	case debugger.HighlightDark:
		styles.function = styles.function.Foreground(lipgloss.Color("83")).Bold(true)
		styles.filename = styles.filename.Foreground(lipgloss.Color("75"))
		styles.lineno = styles.lineno.Foreground(lipgloss.Color("221"))
		styles.arrow = styles.arrow.Foreground(lipgloss.Color("203")).Bold(true)
		styles.prompt = styles.prompt.Underline(true)
	}
	return styles
}

func formatAsFileLine(file string, line int) string {
	return fmt.Sprintf("(%s:%d)", file, line)
}

func printSourceLocationInfo(proc *cmdProcessor, styles *styleSet, filename string, lineno int, fnName, remappedFile string, lastOffset int) {
	var mess string
	if remappedFile != "" {
		mess = fmt.Sprintf("(%s:%d remapped %s", styles.filename.Render(remappedFile), lineno, filename)
	} else {
		mess = fmt.Sprintf("(%s:%d", styles.filename.Render(filename), lineno)
	}
	if lastOffset != 0 && lastOffset != -1 {
		mess += fmt.Sprintf(" @%d", lastOffset)
	}
	mess += "):"
	if fnName != "" {
		mess += " " + styles.function.Render(fnName)
	}
	proc.Msg("%s", mess)
}

func printSourceLine(proc *cmdProcessor, lineno int, line, eventStr string) {
	proc.Msg("%s %d %s", eventStr, lineno, strings.TrimRight(line, "\n"))
}

// printEventLocation shows the expression an evaluation event is about.
func printEventLocation(proc *cmdProcessor) {
	event := proc.event
	if event == nil {
		return
	}
	switch event.Kind {
	case interp.EVENT_EVALUATE_ENTRY, interp.EVENT_EVALUATE_RESULT:
		if ev, ok := event.Arg.(*interp.Evaluation); ok && ev.Expr != nil {
			printEvaluate(proc, ev)
		}
	}
}

func printEvaluate(proc *cmdProcessor, ev *interp.Evaluation) {
	maxString := proc.dbg.Settings().Int(debugger.SettingMaxString)
	proc.Msg("%s: %s", ev.Status, repr.StringN(ev.Expr, maxString))
}

// printLocation shows where execution is suspended. Evaluation events carry
// their own source position and report that instead of the frame stack.
// Frames in pseudo files fall back to the next older frame so the report
// lands in a real file whenever one exists.
func printLocation(proc *cmdProcessor) bool {
	if proc.stack == nil {
		return false
	}
	dbg := proc.dbg
	settings := dbg.Settings()
	styles := stylesFor(settings.String(debugger.SettingHighlight))
	event := proc.event

	if event != nil {
		switch event.Kind {
		case interp.EVENT_EVALUATE_ENTRY, interp.EVENT_EVALUATE_RESULT:
			if ev, ok := event.Arg.(*interp.Evaluation); ok && ev.Expr != nil {
				if file, line, ok := ev.Expr.Location(); ok {
					proc.Msg("%s", formatAsFileLine(file, line))
					return true
				}
			}
		}
	}

	srcmap := dbg.SourceMap()
	files := dbg.fileRef()
	basename := settings.Bool(debugger.SettingBaseName)
	for iStack := proc.curindex; iStack >= 0 && iStack < len(proc.stack); iStack-- {
		fl := proc.stack[iStack]
		frame, lineno := fl.Frame, fl.Line
		if frame.FuncName() == "<module>" && lineno == 0 {
			lineno = 1
		}
		filename := frame.File()
		var remappedFile string
		if mapped, ok := srcmap.Mapped(filename); ok && mapped != filename {
			remappedFile = mapped
		}
		line, _ := files.lineAt(filename, lineno)

		display := filename
		if basename {
			display = filepath.Base(display)
		}
		printSourceLocationInfo(proc, styles, display, lineno,
			frame.FuncName(), remappedFile, frame.LastOffset())
		if event != nil && strings.TrimSpace(line) != "" {
			printSourceLine(proc, lineno, line, eventShort(dbg, event.Kind))
		}
		if !source.IsPseudo(filename) {
			break
		}
	}

	if event != nil {
		switch event.Kind {
		case interp.EVENT_RETURN, interp.EVENT_EXCEPTION:
			proc.Msg("R=> %s", proc.saferepr(event.Arg))
		case interp.EVENT_CALL:
			if proc.curframe != nil {
				if name, _ := proc.curframe.Locals()["__name__"].(string); name != "__main__" {
					printLocals(proc)
				}
			}
		}
	}
	return true
}

// printLocals lists the selected frame's variables, one per line.
func printLocals(proc *cmdProcessor) {
	if proc.curframe == nil {
		return
	}
	locals := proc.curframe.Locals()
	if len(locals) == 0 {
		proc.Msg("No local variables")
		return
	}
	for _, k := range slices.Sorted(maps.Keys(locals)) {
		proc.Msg("%s = %s", k, proc.saferepr(locals[k]))
	}
}
