package debugger

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/modern-go/reflect2"

	"github.com/wnxd/symdbg/debugger"
	"github.com/wnxd/symdbg/interp"
)

type bpKey struct {
	file string
	line int
}

type breakManager struct {
	dbg    Debugger
	mu     sync.Mutex
	next   int
	byNum  map[int]*debugger.Breakpoint
	byLine map[bpKey][]*debugger.Breakpoint
	byFunc []*debugger.Breakpoint
}

func (bm *breakManager) ctor(dbg Debugger) {
	bm.dbg = dbg
	bm.next = 1
	bm.byNum = make(map[int]*debugger.Breakpoint)
	bm.byLine = make(map[bpKey][]*debugger.Breakpoint)
}

func (bm *breakManager) dtor() {
	bm.byNum = nil
	bm.byLine = nil
	bm.byFunc = nil
}

func (bm *breakManager) AddBreak(file string, line int, temporary bool, condition string) (*debugger.Breakpoint, error) {
	if file == "" || line <= 0 {
		return nil, debugger.ErrBreakpointNotFound
	}
	file = bm.dbg.Canonic(file)
	bm.mu.Lock()
	defer bm.mu.Unlock()
	bp := &debugger.Breakpoint{
		Number:    bm.next,
		File:      file,
		Line:      line,
		Condition: condition,
		Temporary: temporary,
		Enabled:   true,
	}
	bm.next++
	bm.byNum[bp.Number] = bp
	key := bpKey{file: file, line: line}
	bm.byLine[key] = append(bm.byLine[key], bp)
	return bp, nil
}

func (bm *breakManager) AddFuncBreak(funcName string, temporary bool, condition string) (*debugger.Breakpoint, error) {
	if funcName == "" {
		return nil, debugger.ErrBreakpointNotFound
	}
	bm.mu.Lock()
	defer bm.mu.Unlock()
	bp := &debugger.Breakpoint{
		Number:    bm.next,
		FuncName:  funcName,
		Condition: condition,
		Temporary: temporary,
		Enabled:   true,
	}
	bm.next++
	bm.byNum[bp.Number] = bp
	bm.byFunc = append(bm.byFunc, bp)
	return bp, nil
}

func (bm *breakManager) BreakByNumber(num int) (*debugger.Breakpoint, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bp, ok := bm.byNum[num]; ok {
		return bp, nil
	}
	return nil, debugger.ErrBreakpointNotFound
}

func (bm *breakManager) FindBreaks(file string, line int) []*debugger.Breakpoint {
	file = bm.dbg.Canonic(file)
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return slices.Clone(bm.byLine[bpKey{file: file, line: line}])
}

func (bm *breakManager) DeleteBreak(num int) error {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	bp, ok := bm.byNum[num]
	if !ok {
		return debugger.ErrBreakpointNotFound
	}
	bm.remove(bp)
	return nil
}

func (bm *breakManager) DeleteAllBreaks() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	n := len(bm.byNum)
	bm.byNum = make(map[int]*debugger.Breakpoint)
	bm.byLine = make(map[bpKey][]*debugger.Breakpoint)
	bm.byFunc = nil
	return n
}

func (bm *breakManager) EnableBreak(num int) error {
	return bm.setEnabled(num, true)
}

func (bm *breakManager) DisableBreak(num int) error {
	return bm.setEnabled(num, false)
}

func (bm *breakManager) SetBreakCondition(num int, condition string) error {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	bp, ok := bm.byNum[num]
	if !ok {
		return debugger.ErrBreakpointNotFound
	}
	bp.Condition = condition
	return nil
}

func (bm *breakManager) SetBreakIgnore(num, count int) error {
	if count < 0 {
		count = 0
	}
	bm.mu.Lock()
	defer bm.mu.Unlock()
	bp, ok := bm.byNum[num]
	if !ok {
		return debugger.ErrBreakpointNotFound
	}
	bp.Ignore = count
	return nil
}

func (bm *breakManager) Breaks() []*debugger.Breakpoint {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	bps := make([]*debugger.Breakpoint, 0, len(bm.byNum))
	for _, bp := range bm.byNum {
		bps = append(bps, bp)
	}
	slices.SortFunc(bps, func(a, b *debugger.Breakpoint) int { return a.Number - b.Number })
	return bps
}

func (bm *breakManager) setEnabled(num int, enabled bool) error {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	bp, ok := bm.byNum[num]
	if !ok {
		return debugger.ErrBreakpointNotFound
	}
	bp.Enabled = enabled
	return nil
}

func (bm *breakManager) remove(bp *debugger.Breakpoint) {
	delete(bm.byNum, bp.Number)
	if bp.IsFunc() {
		bm.byFunc = slices.DeleteFunc(bm.byFunc, func(b *debugger.Breakpoint) bool { return b == bp })
		return
	}
	key := bpKey{file: bp.File, line: bp.Line}
	left := slices.DeleteFunc(bm.byLine[key], func(b *debugger.Breakpoint) bool { return b == bp })
	if len(left) == 0 {
		delete(bm.byLine, key)
	} else {
		bm.byLine[key] = left
	}
}

// isBreakHere finds the breakpoint taking effect at the frame, if any. On a
// call event function breakpoints are scanned in creation order; otherwise
// line breakpoints are looked up under the canonic file name. A failing
// condition evaluation stops anyway but preserves a temporary breakpoint,
// giving the user a hint that the condition is broken.
func (bm *breakManager) isBreakHere(frame interp.Frame, kind interp.EventKind) (*debugger.Breakpoint, string, bool) {
	var candidates []*debugger.Breakpoint
	var word string
	if kind == interp.EVENT_CALL {
		word = "call"
		fn := frame.FuncName()
		bm.mu.Lock()
		for _, bp := range bm.byFunc {
			if bp.FuncName == fn {
				candidates = append(candidates, bp)
			}
		}
		bm.mu.Unlock()
	} else {
		word = "line"
		key := bpKey{file: bm.dbg.Canonic(frame.File()), line: frame.Line()}
		bm.mu.Lock()
		candidates = slices.Clone(bm.byLine[key])
		bm.mu.Unlock()
	}
	for _, bp := range candidates {
		if !bp.Enabled {
			continue
		}
		bm.mu.Lock()
		bp.Hits++
		bm.mu.Unlock()
		deleteOnHit := true
		if bp.Condition != "" {
			val, err := bm.dbg.Interpreter().Eval(frame, bp.Condition)
			if err != nil {
				deleteOnHit = false
			} else if !bm.dbg.Truthy(val) {
				continue
			}
		}
		if deleteOnHit {
			bm.mu.Lock()
			if bp.Ignore > 0 {
				bp.Ignore--
				bm.mu.Unlock()
				continue
			}
			bm.mu.Unlock()
		}
		var prefix string
		if bp.Temporary && deleteOnHit {
			bm.mu.Lock()
			bm.remove(bp)
			bm.mu.Unlock()
			prefix = "temporary "
		}
		return bp, fmt.Sprintf("at %s%s breakpoint %d", prefix, word, bp.Number), true
	}
	return nil, "", false
}

// Truthy applies interpreter-style truth rules to a host Go value. Flavors
// layer their own value types on top and fall back here.
func Truthy(val any) bool {
	switch v := val.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case error:
		return false
	}
	typ := reflect2.TypeOf(val)
	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.ValueOf(val).Convert(reflect.TypeOf(int64(0))).Int() != 0
	case reflect.Float32, reflect.Float64:
		return reflect.ValueOf(val).Convert(reflect.TypeOf(float64(0))).Float() != 0
	case reflect.Slice, reflect.Map, reflect.Array:
		return reflect.ValueOf(val).Len() != 0
	case reflect.Pointer, reflect.Interface, reflect.Chan, reflect.Func:
		return !reflect.ValueOf(val).IsNil()
	}
	return true
}
