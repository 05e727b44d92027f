package debugger

import (
	"github.com/wnxd/symdbg/interp"
)

// FilterManager narrows which events reach the stop logic. Event filters
// hold per-kind name sets for the interpreter's library events; an empty set
// passes every name. Ignored functions and code objects never enter dispatch
// at all.
type FilterManager interface {
	SetEventFilter(kind interp.EventKind, names ...string)
	ClearEventFilter(kind interp.EventKind)
	EventFilter(kind interp.EventKind) []string
	AddIgnoreFunc(names ...string)
	RemoveIgnoreFunc(name string) bool
	AddIgnoreCode(code any)
	SetUntilCondition(expr string)
}
