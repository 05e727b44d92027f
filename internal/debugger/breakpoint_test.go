package debugger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wnxd/symdbg/debugger"
	"github.com/wnxd/symdbg/interp"
)

func TestAddBreakValidation(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := env.dbg.AddBreak("", 5, false, "")
	assert.ErrorIs(t, err, debugger.ErrBreakpointNotFound)
	_, err = env.dbg.AddBreak("<test>", 0, false, "")
	assert.ErrorIs(t, err, debugger.ErrBreakpointNotFound)
	_, err = env.dbg.AddFuncBreak("", false, "")
	assert.ErrorIs(t, err, debugger.ErrBreakpointNotFound)
}

func TestBreakpointNumbersNeverReused(t *testing.T) {
	env := newTestEnv(t, "")

	for i := 0; i < 3; i++ {
		_, err := env.dbg.AddBreak("<test>", 5+i, false, "")
		require.NoError(t, err)
	}
	require.NoError(t, env.dbg.DeleteBreak(2))
	bp, err := env.dbg.AddBreak("<test>", 9, false, "")
	require.NoError(t, err)
	assert.Equal(t, 4, bp.Number)

	var nums []int
	for _, bp := range env.dbg.Breaks() {
		nums = append(nums, bp.Number)
	}
	assert.Equal(t, []int{1, 3, 4}, nums)
}

func TestFindBreaksReturnsCopy(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := env.dbg.AddBreak("<test>", 5, false, "")
	require.NoError(t, err)
	found := env.dbg.FindBreaks("<test>", 5)
	require.Len(t, found, 1)
	found[0] = nil
	require.NotNil(t, env.dbg.FindBreaks("<test>", 5)[0])

	assert.Empty(t, env.dbg.FindBreaks("<test>", 6))
	assert.Empty(t, env.dbg.FindBreaks("<other>", 5))
}

func TestDeleteAllBreaksCount(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := env.dbg.AddBreak("<test>", 5, false, "")
	require.NoError(t, err)
	_, err = env.dbg.AddBreak("<test>", 6, true, "")
	require.NoError(t, err)
	_, err = env.dbg.AddFuncBreak("Fact", false, "")
	require.NoError(t, err)

	assert.Equal(t, 3, env.dbg.DeleteAllBreaks())
	assert.Empty(t, env.dbg.Breaks())
	assert.Equal(t, 0, env.dbg.DeleteAllBreaks())
}

func TestBreakpointOpsOnMissingNumber(t *testing.T) {
	env := newTestEnv(t, "")

	assert.ErrorIs(t, env.dbg.DeleteBreak(42), debugger.ErrBreakpointNotFound)
	assert.ErrorIs(t, env.dbg.EnableBreak(42), debugger.ErrBreakpointNotFound)
	assert.ErrorIs(t, env.dbg.DisableBreak(42), debugger.ErrBreakpointNotFound)
	assert.ErrorIs(t, env.dbg.SetBreakCondition(42, "n > 1"), debugger.ErrBreakpointNotFound)
	assert.ErrorIs(t, env.dbg.SetBreakIgnore(42, 1), debugger.ErrBreakpointNotFound)
	_, err := env.dbg.BreakByNumber(42)
	assert.ErrorIs(t, err, debugger.ErrBreakpointNotFound)
}

func TestSetBreakIgnoreClampsNegative(t *testing.T) {
	env := newTestEnv(t, "")

	bp, err := env.dbg.AddBreak("<test>", 5, false, "")
	require.NoError(t, err)
	require.NoError(t, env.dbg.SetBreakIgnore(bp.Number, -5))
	assert.Zero(t, bp.Ignore)
}

func TestIsBreakHereMatchesByEventKind(t *testing.T) {
	env := newTestEnv(t, "")
	lineBp, err := env.dbg.AddBreak("<test>", 5, false, "")
	require.NoError(t, err)
	funcBp, err := env.dbg.AddFuncBreak("f", false, "")
	require.NoError(t, err)
	frame := newFrame("<test>", 5, "f", nil)

	bp, reason, ok := env.dbg.breakManager.isBreakHere(frame, interp.EVENT_LINE)
	require.True(t, ok)
	assert.Same(t, lineBp, bp)
	assert.Equal(t, "at line breakpoint 1", reason)

	bp, reason, ok = env.dbg.breakManager.isBreakHere(frame, interp.EVENT_CALL)
	require.True(t, ok)
	assert.Same(t, funcBp, bp)
	assert.Equal(t, "at call breakpoint 2", reason)

	_, _, ok = env.dbg.breakManager.isBreakHere(newFrame("<test>", 6, "g", nil), interp.EVENT_LINE)
	assert.False(t, ok)
}

func TestIsBreakHereSkipsDisabledWithoutHit(t *testing.T) {
	env := newTestEnv(t, "")
	bp, err := env.dbg.AddBreak("<test>", 5, false, "")
	require.NoError(t, err)
	require.NoError(t, env.dbg.DisableBreak(bp.Number))

	_, _, ok := env.dbg.breakManager.isBreakHere(newFrame("<test>", 5, "f", nil), interp.EVENT_LINE)
	assert.False(t, ok)
	assert.Zero(t, bp.Hits, "disabled breakpoints do not count hits")
}

func TestTruthy(t *testing.T) {
	type pair struct{ X int }
	tests := []struct {
		name string
		val  any
		want bool
	}{
		{"nil", nil, false},
		{"true", true, true},
		{"false", false, false},
		{"empty string", "", false},
		{"string", "System`False", true},
		{"error", errors.New("boom"), false},
		{"zero int", 0, false},
		{"int", 3, true},
		{"negative int64", int64(-1), true},
		{"zero uint8", uint8(0), false},
		{"zero float", 0.0, false},
		{"float", 2.5, true},
		{"empty slice", []int{}, false},
		{"slice", []int{1}, true},
		{"empty map", map[string]int{}, false},
		{"map", map[string]int{"a": 1}, true},
		{"array", [1]int{0}, true},
		{"nil pointer", (*int)(nil), false},
		{"pointer", new(int), true},
		{"nil chan", (chan int)(nil), false},
		{"chan", make(chan int), true},
		{"nil func", (func())(nil), false},
		{"struct", pair{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truthy(tt.val))
		})
	}
}
