package debugger

import (
	"slices"
	"sync"

	"github.com/wnxd/symdbg/debugger"
	"github.com/wnxd/symdbg/interp"
)

type filterManager struct {
	mu          sync.RWMutex
	evFilters   map[interp.EventKind][]string
	ignoreFuncs map[string]struct{}
	ignoreCodes map[any]struct{}
	until       string
}

func (flt *filterManager) ctor(opts *debugger.Options) {
	flt.evFilters = make(map[interp.EventKind][]string)
	flt.ignoreFuncs = make(map[string]struct{})
	flt.ignoreCodes = make(map[any]struct{})
	for _, name := range opts.IgnoreFuncs {
		flt.ignoreFuncs[name] = struct{}{}
	}
	for _, code := range opts.IgnoreCodes {
		flt.ignoreCodes[code] = struct{}{}
	}
	flt.until = opts.UntilCondition
}

func (flt *filterManager) dtor() {
	flt.evFilters = nil
	flt.ignoreFuncs = nil
	flt.ignoreCodes = nil
}

func (flt *filterManager) SetEventFilter(kind interp.EventKind, names ...string) {
	flt.mu.Lock()
	flt.evFilters[kind] = slices.Clone(names)
	flt.mu.Unlock()
}

func (flt *filterManager) ClearEventFilter(kind interp.EventKind) {
	flt.mu.Lock()
	delete(flt.evFilters, kind)
	flt.mu.Unlock()
}

func (flt *filterManager) EventFilter(kind interp.EventKind) []string {
	flt.mu.RLock()
	defer flt.mu.RUnlock()
	return slices.Clone(flt.evFilters[kind])
}

func (flt *filterManager) AddIgnoreFunc(names ...string) {
	flt.mu.Lock()
	for _, name := range names {
		flt.ignoreFuncs[name] = struct{}{}
	}
	flt.mu.Unlock()
}

func (flt *filterManager) RemoveIgnoreFunc(name string) bool {
	flt.mu.Lock()
	defer flt.mu.Unlock()
	if _, ok := flt.ignoreFuncs[name]; !ok {
		return false
	}
	delete(flt.ignoreFuncs, name)
	return true
}

func (flt *filterManager) AddIgnoreCode(code any) {
	flt.mu.Lock()
	flt.ignoreCodes[code] = struct{}{}
	flt.mu.Unlock()
}

func (flt *filterManager) SetUntilCondition(expr string) {
	flt.mu.Lock()
	flt.until = expr
	flt.mu.Unlock()
}

func (flt *filterManager) ignoredFunc(name string) bool {
	flt.mu.RLock()
	defer flt.mu.RUnlock()
	_, ok := flt.ignoreFuncs[name]
	return ok
}

func (flt *filterManager) ignoredCode(code any) bool {
	if code == nil {
		return false
	}
	flt.mu.RLock()
	defer flt.mu.RUnlock()
	_, ok := flt.ignoreCodes[code]
	return ok
}

func (flt *filterManager) untilCondition() string {
	flt.mu.RLock()
	defer flt.mu.RUnlock()
	return flt.until
}
