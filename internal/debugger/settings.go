package debugger

import (
	"fmt"
	"maps"
	"os"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/modern-go/reflect2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/wnxd/symdbg/debugger"
	"github.com/wnxd/symdbg/interp"
)

type settingKind int

const (
	settingBool settingKind = iota
	settingInt
	settingString
	settingEvents
)

type settingDef struct {
	kind    settingKind
	def     func() any
	choices []string
}

var settingDefs = map[string]settingDef{
	debugger.SettingAutoEval:   {kind: settingBool, def: func() any { return true }},
	debugger.SettingBaseName:   {kind: settingBool, def: func() any { return false }},
	debugger.SettingCmdTrace:   {kind: settingBool, def: func() any { return false }},
	debugger.SettingConfirm:    {kind: settingBool, def: func() any { return true }},
	debugger.SettingDebugMacro: {kind: settingBool, def: func() any { return false }},
	debugger.SettingDifferent:  {kind: settingBool, def: func() any { return false }},
	debugger.SettingEvents:     {kind: settingEvents, def: func() any { return allEventKinds() }},
	debugger.SettingHighlight: {kind: settingString, def: func() any { return debugger.HighlightPlain },
		choices: []string{debugger.HighlightPlain, debugger.HighlightLight, debugger.HighlightDark}},
	debugger.SettingListSize:   {kind: settingInt, def: func() any { return 10 }},
	debugger.SettingMaxArgSize: {kind: settingInt, def: func() any { return 80 }},
	debugger.SettingMaxString:  {kind: settingInt, def: func() any { return 100 }},
	debugger.SettingPrintSet:   {kind: settingEvents, def: func() any { return allEventKinds() }},
	debugger.SettingTrace:      {kind: settingBool, def: func() any { return false }},
	debugger.SettingWidth:      {kind: settingInt, def: func() any { return 80 }},
}

func allEventKinds() []interp.EventKind {
	kinds := make([]interp.EventKind, 0, int(interp.EVENT_BRKPT))
	for k := interp.EVENT_CALL; k <= interp.EVENT_BRKPT; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

type settingsManager struct {
	mu     sync.RWMutex
	values map[string]any
}

func (sm *settingsManager) ctor(overrides map[string]any) {
	sm.values = make(map[string]any, len(settingDefs))
	for key, def := range settingDefs {
		sm.values[key] = def.def()
	}
	for key, val := range overrides {
		sm.SetValue(key, val)
	}
}

func (sm *settingsManager) dtor() {
	sm.values = nil
}

func (sm *settingsManager) Get(key string) (any, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	val, ok := sm.values[key]
	return val, ok
}

func (sm *settingsManager) Set(key, value string) error {
	def, ok := settingDefs[key]
	if !ok {
		return debugger.ErrSettingUnknown
	}
	switch def.kind {
	case settingBool:
		on, err := parseOnOff(value)
		if err != nil {
			return err
		}
		return sm.store(key, on)
	case settingInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("expecting an integer, got: %s", value)
		}
		return sm.store(key, n)
	case settingString:
		if len(def.choices) != 0 && !slices.Contains(def.choices, value) {
			return fmt.Errorf("expecting one of %s, got: %s", strings.Join(def.choices, ", "), value)
		}
		return sm.store(key, value)
	case settingEvents:
		kinds, err := parseEventKinds(strings.FieldsFunc(value, func(r rune) bool {
			return r == ' ' || r == ',' || r == '\t'
		}))
		if err != nil {
			return err
		}
		return sm.store(key, kinds)
	}
	return debugger.ErrSettingUnknown
}

func (sm *settingsManager) SetValue(key string, value any) error {
	def, ok := settingDefs[key]
	if !ok {
		return debugger.ErrSettingUnknown
	}
	typ := reflect2.TypeOf(value)
	if typ == nil {
		return fmt.Errorf("setting %s: nil value", key)
	}
	switch def.kind {
	case settingBool:
		switch typ.Kind() {
		case reflect.Bool:
			return sm.store(key, value.(bool))
		case reflect.String:
			on, err := parseOnOff(value.(string))
			if err != nil {
				return err
			}
			return sm.store(key, on)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return sm.store(key, reflect.ValueOf(value).Convert(reflect.TypeOf(float64(0))).Float() != 0)
		}
	case settingInt:
		switch typ.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return sm.store(key, int(reflect.ValueOf(value).Convert(reflect.TypeOf(float64(0))).Float()))
		case reflect.String:
			n, err := strconv.Atoi(value.(string))
			if err != nil {
				return fmt.Errorf("expecting an integer, got: %s", value)
			}
			return sm.store(key, n)
		}
	case settingString:
		if typ.Kind() == reflect.String {
			return sm.Set(key, value.(string))
		}
	case settingEvents:
		switch v := value.(type) {
		case []interp.EventKind:
			return sm.store(key, slices.Clone(v))
		case string:
			return sm.Set(key, v)
		case []string:
			kinds, err := parseEventKinds(v)
			if err != nil {
				return err
			}
			return sm.store(key, kinds)
		case []any:
			names := make([]string, 0, len(v))
			for _, item := range v {
				name, ok := item.(string)
				if !ok {
					return fmt.Errorf("setting %s: unexpected %T element", key, item)
				}
				names = append(names, name)
			}
			kinds, err := parseEventKinds(names)
			if err != nil {
				return err
			}
			return sm.store(key, kinds)
		}
	}
	return fmt.Errorf("setting %s: cannot use %s value", key, typ.String())
}

func (sm *settingsManager) store(key string, value any) error {
	sm.mu.Lock()
	sm.values[key] = value
	sm.mu.Unlock()
	return nil
}

func (sm *settingsManager) Bool(key string) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	on, _ := sm.values[key].(bool)
	return on
}

func (sm *settingsManager) Int(key string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	n, _ := sm.values[key].(int)
	return n
}

func (sm *settingsManager) String(key string) string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, _ := sm.values[key].(string)
	return s
}

func (sm *settingsManager) Events(key string) []interp.EventKind {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	kinds, _ := sm.values[key].([]interp.EventKind)
	return kinds
}

func (sm *settingsManager) Keys() []string {
	return slices.Sorted(maps.Keys(settingDefs))
}

func (sm *settingsManager) SaveProfile(path string) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	doc := "{}"
	var err error
	for _, key := range sm.Keys() {
		switch val := sm.values[key].(type) {
		case []interp.EventKind:
			names := make([]string, len(val))
			for i, kind := range val {
				names[i] = kind.String()
			}
			doc, err = sjson.Set(doc, key, names)
		default:
			doc, err = sjson.Set(doc, key, val)
		}
		if err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(doc), 0o644)
}

func (sm *settingsManager) LoadProfile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !gjson.ValidBytes(data) {
		return debugger.ErrProfileInvalid
	}
	var result *multierror.Error
	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		if err := sm.SetValue(key.String(), value.Value()); err != nil {
			result = multierror.Append(result, err)
		}
		return true
	})
	return result.ErrorOrNil()
}

func parseOnOff(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "1", "true", "yes":
		return true, nil
	case "off", "0", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf(`expecting "on", "1", "off", or "0"; got: %s`, value)
}

func parseEventKinds(names []string) ([]interp.EventKind, error) {
	if len(names) == 1 && names[0] == "all" {
		return allEventKinds(), nil
	}
	kinds := make([]interp.EventKind, 0, len(names))
	for _, name := range names {
		kind := interp.EventKindOf(name)
		if kind == interp.EVENT_UNKNOWN {
			return nil, fmt.Errorf("unknown event: %s", name)
		}
		if !slices.Contains(kinds, kind) {
			kinds = append(kinds, kind)
		}
	}
	return kinds, nil
}

func (dbg *Dbg) Settings() debugger.Settings {
	return &dbg.settingsManager
}
