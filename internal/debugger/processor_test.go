package debugger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wnxd/symdbg/debugger"
	"github.com/wnxd/symdbg/interp"
)

var _ = debugger.RegisterCommand(&debugger.Command{
	Name:     "crashme",
	Category: debugger.CategorySupport,
	Short:    "Panic on purpose",
	Run: func(proc debugger.Processor, args []string) (bool, error) {
		panic("boom")
	},
})

func TestEmptyLineRepeatsLastCommand(t *testing.T) {
	env := newTestEnv(t, "show width\n\nquit\n")
	res := env.dbg.Dispatch(newFrame("<test>", 3, "f", nil), lineEvent())
	require.Error(t, res.Err)
	assert.Equal(t, 2, strings.Count(env.output(), "width is 80."))
}

func TestLeadingEmptyLineIsNoop(t *testing.T) {
	env := newTestEnv(t, "\nquit\n")
	env.dbg.Dispatch(newFrame("<test>", 3, "f", nil), lineEvent())
	assert.Contains(t, env.output(), "** No previous command registered, so this is a no-op.")
}

func TestCommentLinesSkipped(t *testing.T) {
	env := newTestEnv(t, "# just a note\nquit\n")
	env.dbg.Dispatch(newFrame("<test>", 3, "f", nil), lineEvent())
	assert.NotContains(t, env.output(), "Undefined command")
}

func TestUndefinedCommandWithoutAutoEval(t *testing.T) {
	env := newTestEnv(t, "bogus stuff\nquit\n", debugger.WithSetting(debugger.SettingAutoEval, false))
	env.dbg.Dispatch(newFrame("<test>", 3, "f", nil), lineEvent())
	assert.Contains(t, env.output(), `** Undefined command: "bogus stuff". Try "help".`)
}

func TestAutoEvalFallsBackToHost(t *testing.T) {
	env := newTestEnv(t, "1 + 3\nquit\n")
	env.in.evalFn = func(interp.Frame, string) (any, error) { return 4, nil }
	env.dbg.Dispatch(newFrame("<test>", 3, "f", nil), lineEvent())
	assert.Contains(t, env.output(), "4\n")
	assert.Contains(t, env.in.evals, "1 + 3")
}

func TestAutoEvalReportsError(t *testing.T) {
	env := newTestEnv(t, "oops(\nquit\n")
	env.dbg.Dispatch(newFrame("<test>", 3, "f", nil), lineEvent())
	assert.Contains(t, env.output(), "** ")
	assert.Contains(t, env.output(), "errors.errorString: oops(")
}

func TestCommandTraceEchoesLines(t *testing.T) {
	env := newTestEnv(t, "show width\nquit\n", debugger.WithSetting(debugger.SettingCmdTrace, true))
	env.dbg.Dispatch(newFrame("<test>", 3, "f", nil), lineEvent())
	assert.Contains(t, env.output(), "+ show width")
}

func TestCompoundCommandRunsBothHalves(t *testing.T) {
	env := newTestEnv(t, "show width ;; show confirm\nquit\n")
	env.dbg.Dispatch(newFrame("<test>", 3, "f", nil), lineEvent())
	assert.Contains(t, env.output(), "width is 80.")
	assert.Contains(t, env.output(), "confirm is on.")
}

func TestBadParseReported(t *testing.T) {
	env := newTestEnv(t, "show 'unclosed\nquit\n")
	env.dbg.Dispatch(newFrame("<test>", 3, "f", nil), lineEvent())
	assert.Contains(t, env.output(), "** bad parse show 'unclosed: no closing quotation '")
}

func TestArgSplit(t *testing.T) {
	for _, tc := range []struct {
		line string
		want [][]string
	}{
		{"a b  c", [][]string{{"a", "b", "c"}}},
		{`a "b c" d`, [][]string{{"a", `"b c"`, "d"}}},
		{"x ;; y z", [][]string{{"x"}, {"y", "z"}}},
		{`a ";;" b`, [][]string{{"a", `";;"`, "b"}}},
		{"a\tb", [][]string{{"a", "b"}}},
		{"", [][]string{nil}},
		{";;", [][]string{nil, nil}},
	} {
		t.Run(tc.line, func(t *testing.T) {
			got, err := argSplit(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := argSplit("'bad")
	require.EqualError(t, err, "no closing quotation '")
	_, err = argSplit(`say "half`)
	require.EqualError(t, err, `no closing quotation "`)
}

func TestMacroStringExpansion(t *testing.T) {
	env := newTestEnv(t, "")
	require.NoError(t, env.dbg.Processor().DefineMacro("sw", `function() return "show width" end`))
	env.runAt(newFrame("<test>", 3, "f", nil), lineEvent(), "sw")
	assert.Contains(t, env.output(), "width is 80.")
}

func TestMacroArgumentsPassThrough(t *testing.T) {
	env := newTestEnv(t, "")
	require.NoError(t, env.dbg.Processor().DefineMacro("sh", `function(name) return "show " .. name end`))
	env.runAt(newFrame("<test>", 3, "f", nil), lineEvent(), "sh confirm")
	assert.Contains(t, env.output(), "confirm is on.")
}

func TestMacroListRunsHeadAndQueuesTail(t *testing.T) {
	env := newTestEnv(t, "")
	require.NoError(t, env.dbg.Processor().DefineMacro("pair",
		`function() return {"show width", "show confirm"} end`))
	env.runAt(newFrame("<test>", 3, "f", nil), lineEvent(), "pair", "show autoeval")

	out := env.output()
	width := strings.Index(out, "width is 80.")
	autoeval := strings.Index(out, "autoeval is on.")
	confirm := strings.Index(out, "confirm is on.")
	require.NotEqual(t, -1, width)
	require.NotEqual(t, -1, autoeval)
	require.NotEqual(t, -1, confirm)
	assert.Less(t, width, autoeval, "the list head runs before already queued commands")
	assert.Less(t, autoeval, confirm, "the list tail runs after already queued commands")
}

func TestMacroBadReturnReported(t *testing.T) {
	env := newTestEnv(t, "")
	require.NoError(t, env.dbg.Processor().DefineMacro("boom", `function() return 42 end`))
	env.runAt(newFrame("<test>", 3, "f", nil), lineEvent(), "boom")
	assert.Contains(t, env.output(), "** macro boom should return a List of Strings or a String. Got 42")
}

func TestMacroListOfNonStringsReported(t *testing.T) {
	env := newTestEnv(t, "")
	require.NoError(t, env.dbg.Processor().DefineMacro("mix", `function() return {"ok", 5} end`))
	env.runAt(newFrame("<test>", 3, "f", nil), lineEvent(), "mix")
	assert.Contains(t, env.output(), "** macro mix should return a List of Strings. Has 5 of type float64")
}

func TestMacroExpandErrorReported(t *testing.T) {
	env := newTestEnv(t, "")
	require.NoError(t, env.dbg.Processor().DefineMacro("oops", `function() error("nope") end`))
	env.runAt(newFrame("<test>", 3, "f", nil), lineEvent(), "oops")
	assert.Contains(t, env.output(), "** Error expanding macro oops")
}

func TestAliasRoundTrip(t *testing.T) {
	env := newTestEnv(t, "")
	env.start()
	res := env.runAt(newFrame("<test>", 3, "f", nil), lineEvent(), "alias cc continue", "cc")
	require.NoError(t, res.Err)
	assert.NotContains(t, env.output(), "Undefined command")
}

func TestPromptShowsThread(t *testing.T) {
	env := newTestEnv(t, "quit\n")
	env.dbg.Dispatch(newFrame("<test>", 3, "f", nil), &interp.Event{Kind: interp.EVENT_LINE, Thread: "W2"})
	assert.Contains(t, env.output(), "(testdbg:W2) ")
}

func TestPromptOnMainThread(t *testing.T) {
	env := newTestEnv(t, "quit\n")
	env.dbg.Dispatch(newFrame("<test>", 3, "f", nil), lineEvent())
	assert.Contains(t, env.output(), "(testdbg) ")
	assert.NotContains(t, env.output(), "(testdbg:")
}

func TestConfirmFollowsSetting(t *testing.T) {
	t.Run("off answers yes", func(t *testing.T) {
		env := newTestEnv(t, "", debugger.WithSetting(debugger.SettingConfirm, false))
		assert.True(t, env.dbg.Processor().Confirm("Sure?", false))
		assert.Empty(t, env.output())
	})
	t.Run("on asks until understood", func(t *testing.T) {
		env := newTestEnv(t, "maybe\ny\n")
		assert.True(t, env.dbg.Processor().Confirm("Sure?", false))
		assert.Equal(t, 2, strings.Count(env.output(), "Sure? (N/y) "))
		assert.Contains(t, env.output(), "Please answer y or n.")
	})
}

func TestStartFilesRunAtFirstStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmds")
	require.NoError(t, os.WriteFile(path, []byte("set width 101\n"), 0o644))
	env := newTestEnv(t, "", debugger.WithStartFiles(path))

	env.dbg.Dispatch(newFrame("<test>", 3, "f", nil), lineEvent())
	assert.Equal(t, 101, env.dbg.Settings().Int(debugger.SettingWidth))
	assert.Contains(t, env.output(), "Leaving", "after the script pops the user interface is read again")
}

func TestMissingStartFileReported(t *testing.T) {
	env := newTestEnv(t, "", debugger.WithStartFiles("/nonexistent/cmds"))
	assert.Contains(t, env.output(), "** source file '/nonexistent/cmds' doesn't exist")
}

func TestEndOfInputQuits(t *testing.T) {
	env := newTestEnv(t, "")
	res := env.dbg.Dispatch(newFrame("<test>", 3, "f", nil), lineEvent())
	require.Error(t, res.Err)
	var quit *debugger.QuitException
	require.ErrorAs(t, res.Err, &quit)
	assert.Equal(t, 0, quit.ExitCode())
	assert.Contains(t, env.output(), "Leaving")
}

func TestCommandGuards(t *testing.T) {
	env := newTestEnv(t, "")
	env.runAt(newFrame("<test>", 3, "f", nil), lineEvent(),
		"continue",
		"quit 1 2",
		"condition")

	out := env.output()
	assert.Contains(t, out, "** Command 'continue' is not available for execution status: Pre-execution")
	assert.Contains(t, out, "** Command 'quit' can take at most 1 argument(s); got 2.")
	assert.Contains(t, out, "** Command 'condition' needs at least 1 argument(s); got 0.")
}

func TestNeedStackGuard(t *testing.T) {
	env := newTestEnv(t, "")
	proc := env.dbg.proc
	cmd, ok := debugger.LookupCommand("backtrace")
	require.True(t, ok)
	assert.False(t, proc.okForRunning(cmd, "backtrace", 0))
	assert.Contains(t, env.output(), "** Command 'backtrace' needs an execution stack.")
}

func TestMsgNocrBuffersPartialLines(t *testing.T) {
	env := newTestEnv(t, "")
	proc := env.dbg.proc
	proc.MsgNocr("->")
	proc.Msg("0 rest")
	assert.Contains(t, env.output(), "->0 rest\n")
}

func TestWrappedLines(t *testing.T) {
	assert.Equal(t, "head tail", wrappedLines("head", "tail", 80))
	assert.Equal(t, "head\n\ttail", wrappedLines("head", "tail", 8))
}

func TestPanicInCommandReported(t *testing.T) {
	env := newTestEnv(t, "")
	res := env.runAt(newFrame("<test>", 3, "f", nil), lineEvent(), "crashme")
	require.Error(t, res.Err, "the loop survives the panic and quits at end of input")
	assert.True(t, debugger.IsQuit(res.Err))
	assert.Contains(t, env.output(), "** INTERNAL ERROR:")
	assert.Contains(t, env.output(), "panic: boom")
}

func TestNextCommandGatesDepth(t *testing.T) {
	env := newTestEnv(t, "")
	env.start()
	frame := newFrame("<test>", 3, "f", nil)

	res := env.runAt(frame, lineEvent(), "next 2")
	require.NoError(t, res.Err)
	st := &env.dbg.stopManager
	ignore, _ := st.stepState()
	assert.Equal(t, 1, ignore)
	assert.Equal(t, 1, st.stopLevel, "next gates at the depth of the stopped frame")
}

func TestFinishCommandArmsReturnStop(t *testing.T) {
	env := newTestEnv(t, "")
	env.start()
	frame := newFrame("<test>", 3, "f", nil)

	res := env.runAt(frame, lineEvent(), "finish")
	require.NoError(t, res.Err)
	st := &env.dbg.stopManager
	assert.True(t, st.stopOnFinish)
	ignore, _ := st.stepState()
	assert.Equal(t, -1, ignore)
}
