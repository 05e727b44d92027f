package debugger

import (
	"github.com/wnxd/symdbg/interp"
)

const (
	SettingAutoEval   = "autoeval"
	SettingBaseName   = "basename"
	SettingCmdTrace   = "cmdtrace"
	SettingConfirm    = "confirm"
	SettingDebugMacro = "debugmacro"
	SettingDifferent  = "different"
	SettingEvents     = "events"
	SettingHighlight  = "highlight"
	SettingListSize   = "listsize"
	SettingMaxArgSize = "maxargstrsize"
	SettingMaxString  = "maxstring"
	SettingPrintSet   = "printset"
	SettingTrace      = "trace"
	SettingWidth      = "width"
)

const (
	HighlightPlain = "plain"
	HighlightLight = "light"
	HighlightDark  = "dark"
)

// Settings is the mutable per-session configuration. Set parses command text
// into the key's native type, SetValue coerces a typed value directly.
// Profiles round-trip the whole table through a JSON document.
type Settings interface {
	Get(key string) (any, bool)
	Set(key, value string) error
	SetValue(key string, value any) error
	Bool(key string) bool
	Int(key string) int
	String(key string) string
	Events(key string) []interp.EventKind
	Keys() []string
	SaveProfile(path string) error
	LoadProfile(path string) error
}

type SettingsManager interface {
	Settings() Settings
}
