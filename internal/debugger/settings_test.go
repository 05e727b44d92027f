package debugger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wnxd/symdbg/debugger"
	"github.com/wnxd/symdbg/interp"
)

func newSettings(t *testing.T) *settingsManager {
	t.Helper()
	sm := new(settingsManager)
	sm.ctor(nil)
	t.Cleanup(sm.dtor)
	return sm
}

func TestSettingsDefaults(t *testing.T) {
	sm := newSettings(t)

	assert.True(t, sm.Bool(debugger.SettingAutoEval))
	assert.False(t, sm.Bool(debugger.SettingBaseName))
	assert.False(t, sm.Bool(debugger.SettingCmdTrace))
	assert.True(t, sm.Bool(debugger.SettingConfirm))
	assert.False(t, sm.Bool(debugger.SettingDebugMacro))
	assert.False(t, sm.Bool(debugger.SettingDifferent))
	assert.False(t, sm.Bool(debugger.SettingTrace))
	assert.Equal(t, debugger.HighlightPlain, sm.String(debugger.SettingHighlight))
	assert.Equal(t, 10, sm.Int(debugger.SettingListSize))
	assert.Equal(t, 80, sm.Int(debugger.SettingMaxArgSize))
	assert.Equal(t, 100, sm.Int(debugger.SettingMaxString))
	assert.Equal(t, 80, sm.Int(debugger.SettingWidth))

	all := allEventKinds()
	assert.Equal(t, all, sm.Events(debugger.SettingEvents))
	assert.Equal(t, all, sm.Events(debugger.SettingPrintSet))
	require.NotEmpty(t, all)
	assert.Equal(t, interp.EVENT_CALL, all[0])
	assert.Equal(t, interp.EVENT_BRKPT, all[len(all)-1])
}

func TestSetParsesValues(t *testing.T) {
	sm := newSettings(t)

	require.NoError(t, sm.Set(debugger.SettingAutoEval, "off"))
	assert.False(t, sm.Bool(debugger.SettingAutoEval))
	require.NoError(t, sm.Set(debugger.SettingAutoEval, "ON"))
	assert.True(t, sm.Bool(debugger.SettingAutoEval))
	require.NoError(t, sm.Set(debugger.SettingTrace, "1"))
	assert.True(t, sm.Bool(debugger.SettingTrace))
	require.NoError(t, sm.Set(debugger.SettingTrace, "no"))
	assert.False(t, sm.Bool(debugger.SettingTrace))

	require.NoError(t, sm.Set(debugger.SettingWidth, "132"))
	assert.Equal(t, 132, sm.Int(debugger.SettingWidth))

	require.NoError(t, sm.Set(debugger.SettingHighlight, "dark"))
	assert.Equal(t, debugger.HighlightDark, sm.String(debugger.SettingHighlight))

	require.NoError(t, sm.Set(debugger.SettingEvents, "line call"))
	assert.Equal(t, []interp.EventKind{interp.EVENT_LINE, interp.EVENT_CALL},
		sm.Events(debugger.SettingEvents))
	require.NoError(t, sm.Set(debugger.SettingEvents, "line,call\tline"))
	assert.Equal(t, []interp.EventKind{interp.EVENT_LINE, interp.EVENT_CALL},
		sm.Events(debugger.SettingEvents), "separators split and duplicates drop")
	require.NoError(t, sm.Set(debugger.SettingEvents, "all"))
	assert.Equal(t, allEventKinds(), sm.Events(debugger.SettingEvents))
}

func TestSetErrors(t *testing.T) {
	sm := newSettings(t)

	assert.ErrorIs(t, sm.Set("bogus", "on"), debugger.ErrSettingUnknown)
	assert.EqualError(t, sm.Set(debugger.SettingWidth, "abc"),
		"expecting an integer, got: abc")
	assert.EqualError(t, sm.Set(debugger.SettingConfirm, "maybe"),
		`expecting "on", "1", "off", or "0"; got: maybe`)
	assert.EqualError(t, sm.Set(debugger.SettingHighlight, "neon"),
		"expecting one of plain, light, dark, got: neon")
	assert.EqualError(t, sm.Set(debugger.SettingEvents, "line junk"),
		"unknown event: junk")

	assert.Equal(t, 80, sm.Int(debugger.SettingWidth), "failed sets leave the value alone")
	assert.Equal(t, allEventKinds(), sm.Events(debugger.SettingEvents))
}

func TestSetValueCoercions(t *testing.T) {
	sm := newSettings(t)

	require.NoError(t, sm.SetValue(debugger.SettingWidth, float64(90)))
	assert.Equal(t, 90, sm.Int(debugger.SettingWidth))
	require.NoError(t, sm.SetValue(debugger.SettingWidth, "100"))
	assert.Equal(t, 100, sm.Int(debugger.SettingWidth))

	require.NoError(t, sm.SetValue(debugger.SettingAutoEval, 0))
	assert.False(t, sm.Bool(debugger.SettingAutoEval))
	require.NoError(t, sm.SetValue(debugger.SettingAutoEval, 2.5))
	assert.True(t, sm.Bool(debugger.SettingAutoEval))
	require.NoError(t, sm.SetValue(debugger.SettingAutoEval, "off"))
	assert.False(t, sm.Bool(debugger.SettingAutoEval))

	require.NoError(t, sm.SetValue(debugger.SettingHighlight, "light"))
	assert.Equal(t, debugger.HighlightLight, sm.String(debugger.SettingHighlight))

	require.NoError(t, sm.SetValue(debugger.SettingEvents, []string{"line"}))
	assert.Equal(t, []interp.EventKind{interp.EVENT_LINE}, sm.Events(debugger.SettingEvents))
	require.NoError(t, sm.SetValue(debugger.SettingEvents, []any{"line", "call"}))
	assert.Equal(t, []interp.EventKind{interp.EVENT_LINE, interp.EVENT_CALL},
		sm.Events(debugger.SettingEvents))

	kinds := []interp.EventKind{interp.EVENT_RETURN}
	require.NoError(t, sm.SetValue(debugger.SettingEvents, kinds))
	kinds[0] = interp.EVENT_CALL
	assert.Equal(t, []interp.EventKind{interp.EVENT_RETURN},
		sm.Events(debugger.SettingEvents), "stored kinds do not alias the caller's slice")
}

func TestSetValueErrors(t *testing.T) {
	sm := newSettings(t)

	assert.ErrorIs(t, sm.SetValue("bogus", 1), debugger.ErrSettingUnknown)
	assert.EqualError(t, sm.SetValue(debugger.SettingWidth, nil),
		"setting width: nil value")
	assert.EqualError(t, sm.SetValue(debugger.SettingWidth, true),
		"setting width: cannot use bool value")
	assert.EqualError(t, sm.SetValue(debugger.SettingHighlight, 5),
		"setting highlight: cannot use int value")
	assert.EqualError(t, sm.SetValue(debugger.SettingEvents, []any{"line", 5.0}),
		"setting events: unexpected float64 element")
	assert.EqualError(t, sm.SetValue(debugger.SettingWidth, "abc"),
		"expecting an integer, got: abc")
}

func TestSettingsKeysSorted(t *testing.T) {
	sm := newSettings(t)
	assert.Equal(t, []string{
		debugger.SettingAutoEval,
		debugger.SettingBaseName,
		debugger.SettingCmdTrace,
		debugger.SettingConfirm,
		debugger.SettingDebugMacro,
		debugger.SettingDifferent,
		debugger.SettingEvents,
		debugger.SettingHighlight,
		debugger.SettingListSize,
		debugger.SettingMaxArgSize,
		debugger.SettingMaxString,
		debugger.SettingPrintSet,
		debugger.SettingTrace,
		debugger.SettingWidth,
	}, sm.Keys())
}

func TestProfileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	sm := newSettings(t)
	require.NoError(t, sm.Set(debugger.SettingWidth, "123"))
	require.NoError(t, sm.Set(debugger.SettingAutoEval, "off"))
	require.NoError(t, sm.Set(debugger.SettingHighlight, "dark"))
	require.NoError(t, sm.Set(debugger.SettingEvents, "line call"))
	require.NoError(t, sm.SaveProfile(path))

	loaded := newSettings(t)
	require.NoError(t, loaded.LoadProfile(path))
	assert.Equal(t, 123, loaded.Int(debugger.SettingWidth))
	assert.False(t, loaded.Bool(debugger.SettingAutoEval))
	assert.Equal(t, debugger.HighlightDark, loaded.String(debugger.SettingHighlight))
	assert.Equal(t, []interp.EventKind{interp.EVENT_LINE, interp.EVENT_CALL},
		loaded.Events(debugger.SettingEvents))
	assert.Equal(t, allEventKinds(), loaded.Events(debugger.SettingPrintSet))
}

func TestLoadProfileInvalid(t *testing.T) {
	dir := t.TempDir()
	sm := newSettings(t)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{nope"), 0o644))
	assert.ErrorIs(t, sm.LoadProfile(bad), debugger.ErrProfileInvalid)

	assert.ErrorIs(t, sm.LoadProfile(filepath.Join(dir, "missing.json")), os.ErrNotExist)
}

func TestLoadProfileUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bogus": 1, "width": 99}`), 0o644))

	sm := newSettings(t)
	err := sm.LoadProfile(path)
	assert.ErrorIs(t, err, debugger.ErrSettingUnknown)
	assert.Equal(t, 99, sm.Int(debugger.SettingWidth), "valid keys still apply")
}
