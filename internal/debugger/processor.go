package debugger

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"runtime/debug"
	"slices"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/wnxd/symdbg/debugger"
	"github.com/wnxd/symdbg/interp"
	"github.com/wnxd/symdbg/repr"
	"github.com/wnxd/symdbg/source"
)

// cmdProcessor reads and runs debugger commands while the traced program is
// suspended. One processor exists per debugger. The interface stack, command
// queue, macros and aliases persist across stops; the frame selection lasts
// only until the program resumes.
type cmdProcessor struct {
	dbg        Debugger
	basePrompt string
	debugNest  int

	// loopMu serializes stops: the thread that reaches the prompt holds it
	// until its command loop ends.
	loopMu sync.Mutex

	intfMu sync.Mutex
	intf   []debugger.Interface

	queueMu  sync.Mutex
	cmdQueue []string

	macros  macroManager
	aliasMu sync.RWMutex
	aliases map[string]string
	store   sync.Map

	// state of the current stop, written under loopMu
	task       *dbgTask
	frame      interp.Frame
	event      *interp.Event
	taskName   string
	stack      []debugger.FrameLine
	curindex   int
	curframe   interp.Frame
	sourceText string
	returnVal  any
	hasReturn  bool
	prompt     string
	lastCmd    string
	current    string
	cmdArgstr  string
	nocr       string
}

func newCmdProcessor(dbg Debugger, opts *debugger.Options) *cmdProcessor {
	proc := &cmdProcessor{
		dbg:        dbg,
		basePrompt: opts.Prompt,
		debugNest:  1,
		aliases:    make(map[string]string),
	}
	if proc.basePrompt == "" {
		proc.basePrompt = dbg.DefaultPrompt()
	}
	intf := opts.Interface
	if intf == nil {
		intf = debugger.NewUserInterface(nil, nil, true)
	}
	proc.intf = []debugger.Interface{intf}
	proc.macros.ctor()
	for _, cmd := range debugger.Commands() {
		for _, alias := range cmd.Aliases {
			proc.aliases[alias] = cmd.Name
		}
	}
	return proc
}

func (proc *cmdProcessor) dtor() error {
	proc.intfMu.Lock()
	intf := proc.intf
	proc.intf = nil
	proc.intfMu.Unlock()
	var result *multierror.Error
	for i := len(intf) - 1; i >= 0; i-- {
		result = multierror.Append(result, intf[i].Close())
	}
	proc.macros.dtor()
	proc.store.Clear()
	return result.ErrorOrNil()
}

// entry suspends the calling thread in the interactive command loop. It is
// the stop side of Dispatch: one thread at a time owns the loop, and a
// session cancellation raced in while waiting unwinds before the prompt
// shows. The returned result carries the pending evaluation override and,
// on quit, the session-ending error.
func (proc *cmdProcessor) entry(task *dbgTask, frame interp.Frame, event *interp.Event) interp.Result {
	proc.loopMu.Lock()
	defer proc.loopMu.Unlock()
	if err := task.Err(); err != nil {
		return interp.Result{Action: interp.ACTION_STOP, Err: err}
	}
	task.setStatus(debugger.TaskStatus_Stopped)

	proc.begin(task, frame, event)
	if event.Kind == interp.EVENT_EVALUATE_RESULT {
		if ev, ok := event.Arg.(*interp.Evaluation); ok && ev.Expr != nil {
			proc.returnVal = ev.Expr
			proc.hasReturn = true
		}
	}
	proc.setPrompt()
	err := proc.processCommands()
	value := proc.returnVal
	proc.end()

	if err != nil {
		if debugger.IsQuit(err) {
			proc.dbg.setStatus(debugger.StatusQuit)
			proc.dbg.CancelAll(err)
		}
		return interp.Result{Action: interp.ACTION_STOP, Err: err}
	}
	task.setStatus(debugger.TaskStatus_Running)
	return interp.Result{Value: value}
}

// tracePrint echoes an event's location without stopping, for trace mode.
func (proc *cmdProcessor) tracePrint(task *dbgTask, frame interp.Frame, event *interp.Event) {
	proc.loopMu.Lock()
	defer proc.loopMu.Unlock()
	if task.Err() != nil {
		return
	}
	proc.begin(task, frame, event)
	proc.setup()
	printEventLocation(proc)
	printLocation(proc)
	proc.end()
}

func (proc *cmdProcessor) begin(task *dbgTask, frame interp.Frame, event *interp.Event) {
	proc.task = task
	proc.frame = frame
	proc.event = event
	proc.taskName = task.Name()
	proc.returnVal = nil
	proc.hasReturn = false
	if frame == nil {
		return
	}
	file, line := frame.File(), frame.Line()
	if ev, ok := event.Arg.(*interp.Evaluation); ok && ev.Expr != nil {
		// evaluation events carry their own source position
		if f, l, ok := ev.Expr.Location(); ok {
			file, line = f, l
		}
	}
	proc.sourceText, _ = proc.dbg.fileRef().lineAt(file, line)
}

func (proc *cmdProcessor) end() {
	if proc.frame != nil && proc.frame.File() == "<string>" {
		proc.dbg.SourceMap().RemoveRemap("<string>")
	}
	proc.forget()
	proc.task = nil
	proc.frame = nil
	proc.event = nil
	proc.taskName = ""
	proc.sourceText = ""
	proc.returnVal = nil
	proc.hasReturn = false
}

// setup captures the call stack for frame navigation, selecting the newest
// frame.
func (proc *cmdProcessor) setup() {
	proc.forget()
	if proc.frame == nil {
		return
	}
	proc.stack, proc.curindex = getStack(proc.dbg, proc.frame)
	if len(proc.stack) > 0 {
		proc.curframe = proc.stack[proc.curindex].Frame
	}
}

func (proc *cmdProcessor) forget() {
	proc.stack = nil
	proc.curindex = 0
	proc.curframe = nil
}

// setPrompt renders the prompt for the current stop, tagging threads other
// than the main one.
func (proc *cmdProcessor) setPrompt() {
	prompt := proc.basePrompt
	if proc.taskName != "" && proc.taskName != mainTaskName {
		prompt += ":" + proc.taskName
	}
	prompt = strings.Repeat("(", proc.debugNest) + prompt + strings.Repeat(")", proc.debugNest)
	highlight := proc.dbg.Settings().String(debugger.SettingHighlight)
	if highlight == debugger.HighlightLight || highlight == debugger.HighlightDark {
		prompt = stylesFor(highlight).prompt.Render(prompt)
	}
	proc.prompt = prompt + " "
}

// processCommands reports the stop location and runs the command loop until
// a command resumes execution. A quit unwinds as *QuitException; end of
// input on a stacked interface pops back to the one below, on the last
// interface it turns into a quit.
func (proc *cmdProcessor) processCommands() error {
	if proc.dbg.ExecutionStatus() != debugger.StatusNoProgram {
		proc.setup()
		printEventLocation(proc)
		printLocation(proc)
	}
	if proc.dbg.hookRef().runStopHooks(proc, proc.event) == debugger.HookResult_Done {
		return nil
	}
	for {
		leave, err := proc.processCommand()
		if err == nil {
			if leave {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			if proc.popInterface() {
				proc.lastCmd = ""
				continue
			}
			proc.Msg("Leaving")
			return debugger.NewQuitException(0, false)
		}
		return err
	}
}

// processCommand runs one input line, which ";;" may split into several
// commands. It reports whether the loop should end and the program resume.
func (proc *cmdProcessor) processCommand() (bool, error) {
	current, err := proc.nextCommand()
	if err != nil {
		return false, err
	}
	if current == "" {
		if proc.interactive() {
			proc.Errmsg("No previous command registered, so this is a no-op.")
		}
		return false, nil
	}
	if current[0] == '#' {
		return false, nil
	}
	if proc.dbg.Settings().Bool(debugger.SettingCmdTrace) {
		proc.Msg("+ %s", current)
	}
	argsList, err := argSplit(current)
	if err != nil {
		proc.Errmsg("bad parse %s: %s", current, err)
		return false, nil
	}
	for _, args := range argsList {
		if len(args) == 0 {
			continue
		}
		leave, err := proc.runCommand(strings.Join(args, " "), args)
		if leave || err != nil {
			return leave, err
		}
	}
	return false, nil
}

// nextCommand pops the queue or reads the top interface. An empty
// interactive reply repeats the last command.
func (proc *cmdProcessor) nextCommand() (string, error) {
	proc.queueMu.Lock()
	if len(proc.cmdQueue) > 0 {
		line := proc.cmdQueue[0]
		proc.cmdQueue = proc.cmdQueue[1:]
		proc.queueMu.Unlock()
		return strings.TrimSpace(line), nil
	}
	proc.queueMu.Unlock()
	intf := proc.curIntf()
	if intf == nil {
		return "", io.EOF
	}
	line, err := intf.ReadCommand(proc.prompt)
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" && intf.Interactive() {
		line = proc.lastCmd
	}
	return line, nil
}

// runCommand expands macros, resolves aliases and dispatches one argument
// vector. Macros expand repeatedly until the leading word is no macro; a
// macro returning a list runs its first command now and queues the rest.
func (proc *cmdProcessor) runCommand(current string, args []string) (bool, error) {
	for {
		if len(args) == 0 {
			return false, nil
		}
		name := args[0]
		if _, ok := proc.macros.lookup(name); !ok {
			break
		}
		expanded, err := proc.macros.expand(name, args[1:])
		if err != nil {
			proc.Errmsg("Error expanding macro %s", name)
			return false, nil
		}
		if proc.dbg.Settings().Bool(debugger.SettingDebugMacro) {
			proc.Msg("%s", repr.String(expanded))
		}
		switch exp := expanded.(type) {
		case string:
			current = exp
			args = strings.Fields(exp)
		case []any:
			lines := make([]string, 0, len(exp))
			for _, x := range exp {
				s, ok := x.(string)
				if !ok {
					proc.Errmsg("macro %s should return a List of Strings. Has %s of type %T",
						name, repr.String(x), x)
					return false, nil
				}
				lines = append(lines, s)
			}
			if len(lines) == 0 {
				return false, nil
			}
			current = lines[0]
			args = strings.Fields(current)
			proc.QueueCommands(lines[1:]...)
		default:
			proc.Errmsg("macro %s should return a List of Strings or a String. Got %s",
				name, repr.String(expanded))
			return false, nil
		}
	}

	word := args[0]
	proc.current = current
	proc.cmdArgstr = strings.TrimLeft(current[len(word):], " \t")
	name, ok := proc.resolveName(word)
	var cmd *debugger.Command
	if ok {
		cmd, ok = debugger.LookupCommand(name)
	}
	if !ok {
		if !proc.dbg.Settings().Bool(debugger.SettingAutoEval) {
			proc.Errmsg(`Undefined command: "%s". Try "help".`, current)
			return false, nil
		}
		if val, err := proc.Eval(current); err != nil {
			proc.Errmsg("%s", err)
		} else {
			proc.Msg("%s", proc.saferepr(val))
		}
		return false, nil
	}
	proc.lastCmd = current
	if !proc.okForRunning(cmd, name, len(args)-1) {
		return false, nil
	}
	leave, err := proc.invoke(cmd, args)
	switch {
	case err == nil:
		return leave, nil
	case debugger.IsQuit(err):
		return leave, err
	}
	var pe *debugger.PanicException
	if errors.As(err, &pe) {
		proc.Errmsg("INTERNAL ERROR: %s\n%s", pe, pe.Stack())
	} else {
		proc.Errmsg("INTERNAL ERROR: %s", err)
	}
	return false, nil
}

func (proc *cmdProcessor) invoke(cmd *debugger.Command, args []string) (leave bool, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = debugger.NewPanicException(proc.curframe, v, debug.Stack())
		}
	}()
	return cmd.Run(proc, args)
}

// okForRunning checks a resolved command against the execution status, the
// stack requirement and the argument count before it runs.
func (proc *cmdProcessor) okForRunning(cmd *debugger.Command, name string, nargs int) bool {
	if len(cmd.ExecutionSet) != 0 {
		status := proc.dbg.ExecutionStatus()
		if !slices.Contains(cmd.ExecutionSet, status) {
			part := fmt.Sprintf("Command '%s' is not available for execution status:", name)
			proc.Errmsg("%s", wrappedLines(part, status, proc.dbg.Settings().Int(debugger.SettingWidth)))
			return false
		}
	}
	if proc.frame == nil && cmd.NeedStack {
		proc.Errmsg("Command '%s' needs an execution stack.", name)
		return false
	}
	if nargs < cmd.MinArgs {
		proc.Errmsg("Command '%s' needs at least %d argument(s); got %d.", name, cmd.MinArgs, nargs)
		return false
	}
	if cmd.MaxArgs >= 0 && nargs > cmd.MaxArgs {
		proc.Errmsg("Command '%s' can take at most %d argument(s); got %d.", name, cmd.MaxArgs, nargs)
		return false
	}
	return true
}

// resolveName maps a typed word to a registered command name, through the
// alias table when needed. Command lookup ignores case, alias lookup does
// not.
func (proc *cmdProcessor) resolveName(word string) (string, bool) {
	name := strings.ToLower(word)
	if _, ok := debugger.LookupCommand(name); ok {
		return name, true
	}
	proc.aliasMu.RLock()
	target, ok := proc.aliases[word]
	proc.aliasMu.RUnlock()
	if !ok {
		return "", false
	}
	return strings.ToLower(target), true
}

func (proc *cmdProcessor) saferepr(val any) string {
	return repr.StringN(val, proc.dbg.Settings().Int(debugger.SettingWidth))
}

func (proc *cmdProcessor) curIntf() debugger.Interface {
	proc.intfMu.Lock()
	defer proc.intfMu.Unlock()
	if len(proc.intf) == 0 {
		return nil
	}
	return proc.intf[len(proc.intf)-1]
}

// pushInterface layers intf on top of the current conversation until it
// reaches end of input.
func (proc *cmdProcessor) pushInterface(intf debugger.Interface) {
	proc.intfMu.Lock()
	proc.intf = append(proc.intf, intf)
	proc.intfMu.Unlock()
}

// popInterface closes and removes the top interface, reporting whether one
// below remains. The bottom interface never pops.
func (proc *cmdProcessor) popInterface() bool {
	proc.intfMu.Lock()
	if len(proc.intf) <= 1 {
		proc.intfMu.Unlock()
		return false
	}
	intf := proc.intf[len(proc.intf)-1]
	proc.intf = proc.intf[:len(proc.intf)-1]
	proc.intfMu.Unlock()
	if err := intf.Close(); err != nil {
		proc.dbg.logger().Warn("close interface", zap.Error(err))
	}
	return true
}

func (proc *cmdProcessor) interactive() bool {
	if intf := proc.curIntf(); intf != nil {
		return intf.Interactive()
	}
	return false
}

func (proc *cmdProcessor) Debugger() debugger.Debugger {
	return proc.dbg
}

func (proc *cmdProcessor) Settings() debugger.Settings {
	return proc.dbg.Settings()
}

func (proc *cmdProcessor) TaskName() string {
	return proc.taskName
}

func (proc *cmdProcessor) Event() *interp.Event {
	return proc.event
}

func (proc *cmdProcessor) StopReason() string {
	return proc.dbg.stopRef().reason()
}

func (proc *cmdProcessor) LastCommand() string {
	return proc.lastCmd
}

func (proc *cmdProcessor) CmdArgstr() string {
	return proc.cmdArgstr
}

func (proc *cmdProcessor) CurrentSource() string {
	return proc.sourceText
}

func (proc *cmdProcessor) Msg(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	if proc.nocr != "" {
		text = proc.nocr + text
		proc.nocr = ""
	}
	if intf := proc.curIntf(); intf != nil {
		intf.Msg(text)
	}
}

// MsgNocr holds text until the Msg call completing the line.
func (proc *cmdProcessor) MsgNocr(format string, args ...any) {
	proc.nocr += fmt.Sprintf(format, args...)
}

func (proc *cmdProcessor) Errmsg(format string, args ...any) {
	if intf := proc.curIntf(); intf != nil {
		intf.Errmsg(fmt.Sprintf(format, args...))
	}
}

// Confirm asks before a destructive action. With the confirm setting off
// every question is answered yes.
func (proc *cmdProcessor) Confirm(prompt string, def bool) bool {
	if !proc.dbg.Settings().Bool(debugger.SettingConfirm) {
		return true
	}
	if intf := proc.curIntf(); intf != nil {
		return intf.Confirm(prompt, def)
	}
	return def
}

func (proc *cmdProcessor) StopFrame() interp.Frame {
	return proc.frame
}

func (proc *cmdProcessor) Frame() interp.Frame {
	return proc.curframe
}

func (proc *cmdProcessor) CurIndex() int {
	return proc.curindex
}

func (proc *cmdProcessor) Stack() []debugger.FrameLine {
	return proc.stack
}

// AdjustFrame moves the frame selection: relative moves pos steps through
// the stack, absolute selects position pos where 0 is the newest frame and
// negative positions count from the oldest. Range errors are reported to
// the user before returning.
func (proc *cmdProcessor) AdjustFrame(pos int, absolute bool) error {
	if proc.curframe == nil {
		proc.Errmsg("No stack.")
		return debugger.ErrNoStack
	}
	i := pos
	if absolute {
		if pos >= 0 {
			i = len(proc.stack) - pos - 1
		} else {
			i = -pos - 1
		}
	} else {
		i += proc.curindex
	}
	if i < 0 {
		proc.Errmsg("Adjusting would put us beyond the oldest frame.")
		return debugger.ErrFrameRange
	}
	if i >= len(proc.stack) {
		proc.Errmsg("Adjusting would put us beyond the newest frame.")
		return debugger.ErrFrameRange
	}
	proc.curindex = i
	proc.curframe = proc.stack[i].Frame
	proc.PrintLocation()
	return nil
}

func (proc *cmdProcessor) PrintLocation() {
	printLocation(proc)
}

func (proc *cmdProcessor) PrintStackEntry(pos int) {
	if len(proc.stack) == 0 {
		return
	}
	printStackEntry(proc, pos, stylesFor(proc.dbg.Settings().String(debugger.SettingHighlight)))
}

func (proc *cmdProcessor) PrintStackTrace(count int) {
	if len(proc.stack) == 0 {
		return
	}
	printStackTrace(proc, count, stylesFor(proc.dbg.Settings().String(debugger.SettingHighlight)))
}

// Eval evaluates expr through the host interpreter in the selected frame's
// variable context.
func (proc *cmdProcessor) Eval(expr string) (any, error) {
	frame := proc.curframe
	if frame == nil {
		frame = proc.frame
	}
	val, err := proc.dbg.Interpreter().Eval(frame, expr)
	if err != nil {
		return nil, debugger.NewEvalException(frame, expr, err)
	}
	return val, nil
}

// ReturnValue is the pending evaluation result at a result event, which the
// host picks up again when the program resumes.
func (proc *cmdProcessor) ReturnValue() (any, bool) {
	return proc.returnVal, proc.hasReturn
}

func (proc *cmdProcessor) SetStep(ignore int, diff debugger.Different) {
	proc.dbg.stopRef().setStep(ignore, nil, proc.differentLine(diff))
}

func (proc *cmdProcessor) SetStepEvents(kinds []interp.EventKind) {
	proc.dbg.stopRef().setStepEvents(kinds)
}

func (proc *cmdProcessor) SetNext(ignore int) {
	proc.dbg.stopRef().setNext(proc.frame, ignore, proc.differentLine(debugger.Different_Unset))
}

func (proc *cmdProcessor) SetFinish() {
	frame := proc.curframe
	if frame == nil {
		frame = proc.frame
	}
	proc.dbg.stopRef().setFinish(frame)
}

func (proc *cmdProcessor) SetContinue() {
	proc.dbg.stopRef().setContinue()
}

func (proc *cmdProcessor) differentLine(diff debugger.Different) bool {
	switch diff {
	case debugger.Different_Yes:
		return true
	case debugger.Different_No:
		return false
	}
	return proc.dbg.Settings().Bool(debugger.SettingDifferent)
}

// QueueCommands appends lines to run before the interface is read again.
func (proc *cmdProcessor) QueueCommands(lines ...string) {
	proc.queueMu.Lock()
	proc.cmdQueue = append(proc.cmdQueue, lines...)
	proc.queueMu.Unlock()
}

// QueueStartFile arranges for a file of debugger commands to be read by the
// command loop.
func (proc *cmdProcessor) QueueStartFile(path string) {
	expanded := source.ExpandUser(path)
	exists, canRead := source.Readable(expanded)
	switch {
	case !exists:
		proc.Errmsg("source file '%s' doesn't exist", expanded)
	case !canRead:
		proc.Errmsg("source file '%s' is not readable", expanded)
	default:
		proc.QueueCommands("source " + expanded)
	}
}

func (proc *cmdProcessor) DefineMacro(name, body string) error {
	return proc.macros.define(name, body)
}

func (proc *cmdProcessor) RemoveMacro(name string) bool {
	return proc.macros.remove(name)
}

func (proc *cmdProcessor) Macro(name string) (string, bool) {
	return proc.macros.lookup(name)
}

func (proc *cmdProcessor) Macros() []string {
	return proc.macros.names()
}

func (proc *cmdProcessor) DefineAlias(name, command string) {
	proc.aliasMu.Lock()
	proc.aliases[name] = command
	proc.aliasMu.Unlock()
}

func (proc *cmdProcessor) RemoveAlias(name string) bool {
	proc.aliasMu.Lock()
	defer proc.aliasMu.Unlock()
	if _, ok := proc.aliases[name]; !ok {
		return false
	}
	delete(proc.aliases, name)
	return true
}

func (proc *cmdProcessor) Alias(name string) (string, bool) {
	proc.aliasMu.RLock()
	defer proc.aliasMu.RUnlock()
	target, ok := proc.aliases[name]
	return target, ok
}

func (proc *cmdProcessor) Aliases() []string {
	proc.aliasMu.RLock()
	defer proc.aliasMu.RUnlock()
	return slices.Sorted(maps.Keys(proc.aliases))
}

func (proc *cmdProcessor) LocalStore(key, val any) {
	proc.store.Store(key, val)
}

func (proc *cmdProcessor) LocalLoad(key any) (any, bool) {
	return proc.store.Load(key)
}

func (proc *cmdProcessor) LocalDelete(key any) {
	proc.store.Delete(key)
}

func wrappedLines(part1, part2 string, width int) string {
	if len(part1)+len(part2)+1 > width {
		return part1 + "\n\t" + part2
	}
	return part1 + " " + part2
}

// argSplit splits a command line shell-style into argument vectors. Quoted
// spans keep their quotes and group whitespace; a bare ";;" token separates
// commands on one line.
func argSplit(line string) ([][]string, error) {
	vectors := [][]string{nil}
	var tok strings.Builder
	var quote byte
	addTok := func() {
		if tok.Len() == 0 {
			return
		}
		arg := tok.String()
		tok.Reset()
		if arg == ";;" {
			vectors = append(vectors, nil)
			return
		}
		vectors[len(vectors)-1] = append(vectors[len(vectors)-1], arg)
	}
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			tok.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
			tok.WriteByte(c)
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			addTok()
		default:
			tok.WriteByte(c)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("no closing quotation %c", quote)
	}
	addTok()
	return vectors, nil
}
