package extend

import (
	"errors"
	"reflect"

	"github.com/wnxd/symdbg/debugger"
	"github.com/wnxd/symdbg/internal/debugger/extend"
	mathics "github.com/wnxd/symdbg/internal/debugger/mathics"
	"github.com/wnxd/symdbg/interp"
)

type ExtendDebugger extend.ExtendDebugger

var extendType = reflect.TypeFor[ExtendDebugger]()

// New builds a debugger flavored for in's language under a caller-defined
// type. When D embeds an ExtendDebugger field the flavor implementation is
// injected there, and any methods D defines shadow the flavor's own, so a
// host can refine event naming or truth rules without reimplementing the
// session.
func New[D ExtendDebugger](in interp.Interpreter, opts ...debugger.Option) (dbg D, err error) {
	typ := reflect.TypeOf(dbg)
	var isPtr bool
	switch typ.Kind() {
	case reflect.Pointer:
		dbg = reflect.New(reflect.TypeFor[D]().Elem()).Interface().(D)
		typ = typ.Elem()
		isPtr = true
	case reflect.Struct:
	default:
		return dbg, errors.ErrUnsupported
	}
	if field, ok := typ.FieldByName("ExtendDebugger"); ok && field.Type == extendType {
		var d ExtendDebugger
		d, err = newDbg[D](in.Lang())
		if err != nil {
			return
		}
		v := reflect.ValueOf(dbg)
		if isPtr {
			v = v.Elem()
		}
		v.FieldByIndex(field.Index).Set(reflect.ValueOf(d))
	}
	err = dbg.Init(dbg, in, debugger.NewOptions(opts...))
	return
}

func newDbg[D ExtendDebugger](lang interp.Lang) (ExtendDebugger, error) {
	switch lang {
	case interp.LANG_MATHICS:
		return new(mathics.MathicsDbg), nil
	case interp.LANG_EXPREDUCE:
	}
	return nil, interp.ErrLangUnsupported
}
