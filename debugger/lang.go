package debugger

import (
	"github.com/wnxd/symdbg/interp"
)

type DbgCtor func(interp.Interpreter, *Options) (Debugger, error)

var dbgMap = make(map[interp.Lang]DbgCtor)

func Register(lang interp.Lang, ctor DbgCtor) bool {
	if _, ok := dbgMap[lang]; ok {
		return false
	}
	dbgMap[lang] = ctor
	return true
}
