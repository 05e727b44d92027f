package repr

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/modern-go/reflect2"
)

const (
	maxString = 100
	maxElems  = 10
	maxDepth  = 3
)

type handler = func(sb *strings.Builder, v reflect.Value, depth int)

var renderProcess sync.Map

// String renders val on a single line with per-kind size limits: strings
// past 100 characters and containers past 10 elements are elided.
func String(val any) string {
	var sb strings.Builder
	render(&sb, val)
	return sb.String()
}

// StringN is String additionally truncated to maxWidth characters.
func StringN(val any, maxWidth int) string {
	s := String(val)
	if maxWidth > 0 && len(s) > maxWidth {
		if maxWidth <= 3 {
			return s[:maxWidth]
		}
		return s[:maxWidth-3] + "..."
	}
	return s
}

func render(sb *strings.Builder, val any) {
	if val == nil {
		sb.WriteString("nil")
		return
	}
	switch v := val.(type) {
	case error:
		writeString(sb, v.Error())
		return
	case fmt.Stringer:
		writeString(sb, v.String())
		return
	}
	getRender(reflect2.RTypeOf(val), reflect.TypeOf(val))(sb, reflect.ValueOf(val), 0)
}

func getRender(rtype uintptr, typ reflect.Type) handler {
	if v, ok := renderProcess.Load(rtype); ok {
		return v.(handler)
	}
	h := compile(typ)
	renderProcess.Store(rtype, h)
	return h
}

func compile(typ reflect.Type) handler {
	switch typ.Kind() {
	case reflect.Bool:
		return func(sb *strings.Builder, v reflect.Value, _ int) {
			sb.WriteString(strconv.FormatBool(v.Bool()))
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(sb *strings.Builder, v reflect.Value, _ int) {
			sb.WriteString(strconv.FormatInt(v.Int(), 10))
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(sb *strings.Builder, v reflect.Value, _ int) {
			sb.WriteString(strconv.FormatUint(v.Uint(), 10))
		}
	case reflect.Float32, reflect.Float64:
		return func(sb *strings.Builder, v reflect.Value, _ int) {
			sb.WriteString(strconv.FormatFloat(v.Float(), 'g', -1, 64))
		}
	case reflect.Complex64, reflect.Complex128:
		return func(sb *strings.Builder, v reflect.Value, _ int) {
			sb.WriteString(strconv.FormatComplex(v.Complex(), 'g', -1, 128))
		}
	case reflect.String:
		return func(sb *strings.Builder, v reflect.Value, _ int) {
			writeString(sb, v.String())
		}
	case reflect.Slice, reflect.Array:
		return compileList(typ)
	case reflect.Map:
		return compileMap(typ)
	case reflect.Struct:
		return compileStruct(typ)
	case reflect.Pointer:
		return func(sb *strings.Builder, v reflect.Value, depth int) {
			if v.IsNil() {
				sb.WriteString("nil")
				return
			}
			sb.WriteByte('&')
			renderValue(sb, v.Elem(), depth)
		}
	case reflect.Interface:
		return func(sb *strings.Builder, v reflect.Value, depth int) {
			if v.IsNil() {
				sb.WriteString("nil")
				return
			}
			renderValue(sb, v.Elem(), depth)
		}
	default:
		name := typ.String()
		return func(sb *strings.Builder, _ reflect.Value, _ int) {
			sb.WriteString(name)
		}
	}
}

func compileList(typ reflect.Type) handler {
	return func(sb *strings.Builder, v reflect.Value, depth int) {
		if depth >= maxDepth {
			sb.WriteString("[...]")
			return
		}
		n := v.Len()
		sb.WriteByte('[')
		for i := 0; i < n && i < maxElems; i++ {
			if i > 0 {
				sb.WriteString(", ")
			}
			renderValue(sb, v.Index(i), depth+1)
		}
		if n > maxElems {
			fmt.Fprintf(sb, ", ... (+%d more)", n-maxElems)
		}
		sb.WriteByte(']')
	}
}

func compileMap(typ reflect.Type) handler {
	return func(sb *strings.Builder, v reflect.Value, depth int) {
		if depth >= maxDepth {
			sb.WriteString("{...}")
			return
		}
		type entry struct{ key, val string }
		entries := make([]entry, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			var key, val strings.Builder
			renderValue(&key, iter.Key(), depth+1)
			renderValue(&val, iter.Value(), depth+1)
			entries = append(entries, entry{key.String(), val.String()})
		}
		slices.SortFunc(entries, func(a, b entry) int {
			return strings.Compare(a.key, b.key)
		})
		sb.WriteByte('{')
		for i, e := range entries {
			if i >= maxElems {
				fmt.Fprintf(sb, ", ... (+%d more)", len(entries)-maxElems)
				break
			}
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.key)
			sb.WriteString(": ")
			sb.WriteString(e.val)
		}
		sb.WriteByte('}')
	}
}

func compileStruct(typ reflect.Type) handler {
	name := typ.String()
	count := typ.NumField()
	return func(sb *strings.Builder, v reflect.Value, depth int) {
		sb.WriteString(name)
		if depth >= maxDepth {
			sb.WriteString("{...}")
			return
		}
		sb.WriteByte('{')
		shown := 0
		for i := 0; i < count; i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			if shown == maxElems {
				sb.WriteString(", ...")
				break
			}
			if shown > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(field.Name)
			sb.WriteString(": ")
			renderValue(sb, v.Field(i), depth+1)
			shown++
		}
		sb.WriteByte('}')
	}
}

func renderValue(sb *strings.Builder, v reflect.Value, depth int) {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			sb.WriteString("nil")
			return
		}
		v = v.Elem()
	}
	if !v.CanInterface() {
		sb.WriteString(v.Type().String())
		return
	}
	val := v.Interface()
	switch x := val.(type) {
	case error:
		writeString(sb, x.Error())
		return
	case fmt.Stringer:
		writeString(sb, x.String())
		return
	}
	getRender(reflect2.RTypeOf(val), v.Type())(sb, v, depth)
}

func writeString(sb *strings.Builder, s string) {
	if len(s) > maxString {
		s = s[:maxString] + "..."
	}
	sb.WriteString(strconv.Quote(s))
}
