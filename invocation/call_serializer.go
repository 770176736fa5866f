package invocation

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// CallSerializer renders a recorded call as a stable, human readable string.
// It is used for logging and for the call-site context attached to replay
// errors.
type CallSerializer interface {
	SerializeCall(sel Selector, args ...any) string
}

// defaultCallSerializer renders calls as Surface.Method(arg, arg) using
// reflection for arguments that are not fmt.Stringer.
type defaultCallSerializer struct{}

// NewDefaultCallSerializer returns the serializer sessions use unless one is
// configured with WithCallSerializer.
func NewDefaultCallSerializer() CallSerializer {
	return defaultCallSerializer{}
}

// maxRenderDepth bounds how far nested arguments are rendered.
const maxRenderDepth = 16

func (s defaultCallSerializer) SerializeCall(sel Selector, args ...any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		w := &renderWalk{visiting: make(map[uintptr]struct{})}
		parts[i] = w.value(arg, 0)
	}
	return sel.String() + "(" + strings.Join(parts, ", ") + ")"
}

// renderWalk renders one argument. visiting holds the addresses on the
// current path, so shared values render in full and only cycles are cut.
type renderWalk struct {
	visiting map[uintptr]struct{}
}

func (w *renderWalk) value(v any, depth int) string {
	if v == nil {
		return "nil"
	}
	if depth > maxRenderDepth {
		return "<max depth>"
	}

	if st, ok := v.(fmt.Stringer); ok {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Ptr || !rv.IsNil() {
			return st.String()
		}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return fmt.Sprintf("%q", v)
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return fmt.Sprintf("%v", v)
	case reflect.Func:
		// function identity is only stable within one process
		return fmt.Sprintf("func:%p", v)
	case reflect.Chan:
		return fmt.Sprintf("chan:%p", v)
	case reflect.Ptr:
		if rv.IsNil() {
			return "nil"
		}
		return w.enter(rv.Pointer(), func() string {
			return "&" + w.value(rv.Elem().Interface(), depth+1)
		})
	case reflect.Slice:
		if rv.IsNil() {
			return "[]"
		}
		if rv.Len() == 0 {
			return w.sequence(rv, depth)
		}
		return w.enter(rv.Pointer(), func() string {
			return w.sequence(rv, depth)
		})
	case reflect.Array:
		return w.sequence(rv, depth)
	case reflect.Map:
		return w.enter(rv.Pointer(), func() string {
			return w.mapping(rv, depth)
		})
	case reflect.Struct:
		return w.structure(rv, depth)
	}

	return jsonFallback(v)
}

func (w *renderWalk) enter(addr uintptr, render func() string) string {
	if _, ok := w.visiting[addr]; ok {
		return "<cycle>"
	}
	w.visiting[addr] = struct{}{}
	defer delete(w.visiting, addr)
	return render()
}

func (w *renderWalk) sequence(rv reflect.Value, depth int) string {
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = w.value(rv.Index(i).Interface(), depth+1)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (w *renderWalk) mapping(rv reflect.Value, depth int) string {
	pairs := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, w.value(iter.Key().Interface(), depth+1)+":"+w.value(iter.Value().Interface(), depth+1))
	}
	sort.Strings(pairs)
	return "map[" + strings.Join(pairs, " ") + "]"
}

func (w *renderWalk) structure(rv reflect.Value, depth int) string {
	rt := rv.Type()
	parts := make([]string, 0, rv.NumField())
	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		parts = append(parts, field.Name+":"+w.value(rv.Field(i).Interface(), depth+1))
	}
	return rt.Name() + "{" + strings.Join(parts, " ") + "}"
}

func jsonFallback(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%T", v)
	}
	return string(data)
}
