package debugger

import (
	"maps"
	"slices"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/wnxd/symdbg/debugger"
)

// macroManager runs user defined macros. A macro body is a Lua expression
// producing a function; expansion calls it with the command's arguments as
// strings and yields either one replacement command line or a list of them.
type macroManager struct {
	mu     sync.Mutex
	ls     *lua.LState
	macros map[string]*macroDef
}

type macroDef struct {
	body string
	fn   *lua.LFunction
}

func (mm *macroManager) ctor() {
	mm.macros = make(map[string]*macroDef)
}

func (mm *macroManager) dtor() {
	mm.mu.Lock()
	if mm.ls != nil {
		mm.ls.Close()
		mm.ls = nil
	}
	mm.macros = nil
	mm.mu.Unlock()
}

// state builds the Lua state on first use, with only the base, table and
// string libraries opened.
func (mm *macroManager) state() *lua.LState {
	if mm.ls == nil {
		ls := lua.NewState(lua.Options{SkipOpenLibs: true})
		lua.OpenBase(ls)
		lua.OpenTable(ls)
		lua.OpenString(ls)
		mm.ls = ls
	}
	return mm.ls
}

// define compiles body, a Lua expression evaluating to a function, and
// registers it under name. Redefining replaces the old macro.
func (mm *macroManager) define(name, body string) error {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	if mm.macros == nil {
		return debugger.ErrMacroInvalid
	}
	ls := mm.state()
	top := ls.GetTop()
	if err := ls.DoString("return " + body); err != nil {
		ls.SetTop(top)
		return err
	}
	ret := ls.Get(top + 1)
	ls.SetTop(top)
	fn, ok := ret.(*lua.LFunction)
	if !ok {
		return debugger.ErrMacroInvalid
	}
	mm.macros[name] = &macroDef{body: body, fn: fn}
	return nil
}

func (mm *macroManager) remove(name string) bool {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	if _, ok := mm.macros[name]; !ok {
		return false
	}
	delete(mm.macros, name)
	return true
}

func (mm *macroManager) lookup(name string) (string, bool) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	def, ok := mm.macros[name]
	if !ok {
		return "", false
	}
	return def.body, true
}

func (mm *macroManager) names() []string {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	return slices.Sorted(maps.Keys(mm.macros))
}

// expand calls the named macro with args and converts its first result.
func (mm *macroManager) expand(name string, args []string) (any, error) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	def, ok := mm.macros[name]
	if !ok {
		return nil, debugger.ErrMacroInvalid
	}
	ls := mm.ls
	top := ls.GetTop()
	ls.Push(def.fn)
	for _, arg := range args {
		ls.Push(lua.LString(arg))
	}
	if err := ls.PCall(len(args), lua.MultRet, nil); err != nil {
		ls.SetTop(top)
		return nil, err
	}
	var ret lua.LValue = lua.LNil
	if ls.GetTop() > top {
		ret = ls.Get(top + 1)
	}
	ls.SetTop(top)
	return luaValue(ret), nil
}

// luaValue converts a macro result to Go. Tables convert by their array
// part.
func luaValue(lv lua.LValue) any {
	switch v := lv.(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		return string(v)
	case *lua.LTable:
		items := make([]any, 0, v.Len())
		for i := 1; i <= v.Len(); i++ {
			items = append(items, luaValue(v.RawGetInt(i)))
		}
		return items
	}
	return lv.String()
}
