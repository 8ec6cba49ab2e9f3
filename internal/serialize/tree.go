package serialize

import (
	"bytes"
	"encoding"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// maxDepth bounds nesting so cyclic pointers fail instead of recursing forever.
const maxDepth = 1000

var (
	errorType         = reflect.TypeOf((*error)(nil)).Elem()
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	numberType        = reflect.TypeOf((*json.Number)(nil)).Elem()
)

// toTree reduces v to nil, bool, string, json.Number, float64, errorTag,
// []any and map[string]any. Structs follow encoding/json field rules (json
// tags, omitempty, embedded structs), but floats and errors are kept at every
// depth so they print the same nested as at the top level.
func toTree(v any) (any, error) {
	tree, err := walk(reflect.ValueOf(v), 0)
	if err != nil {
		return nil, fmt.Errorf("serialize %s: %w", reflect.TypeOf(v), err)
	}
	return tree, nil
}

func walk(v reflect.Value, depth int) (any, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("value nests deeper than %d levels", maxDepth)
	}
	if !v.IsValid() {
		return nil, nil
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil, nil
		}
	}

	t := v.Type()
	switch {
	case t == numberType:
		return json.Number(v.String()), nil
	case !v.CanInterface():
		// Reached through an unexported embedded struct; methods are off limits.
	case t.Implements(errorType):
		return errorTag(v.Interface().(error).Error()), nil
	case t.Implements(jsonMarshalerType):
		return fromJSON(v.Interface().(json.Marshaler))
	case t.Implements(textMarshalerType):
		text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, err
		}
		return string(text), nil
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return walk(v.Elem(), depth+1)
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return json.Number(strconv.FormatInt(v.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return json.Number(strconv.FormatUint(v.Uint(), 10)), nil
	case reflect.Float32:
		// Widen through the shortest float32 decimal so 0.1 stays 0.1.
		f, _ := strconv.ParseFloat(strconv.FormatFloat(v.Float(), 'g', -1, 32), 64)
		return f, nil
	case reflect.Float64:
		return v.Float(), nil
	case reflect.String:
		return v.String(), nil
	case reflect.Slice:
		if v.IsNil() {
			return nil, nil
		}
		if t.Elem().Kind() == reflect.Uint8 {
			return base64.StdEncoding.EncodeToString(v.Bytes()), nil
		}
		return walkList(v, depth)
	case reflect.Array:
		return walkList(v, depth)
	case reflect.Map:
		if v.IsNil() {
			return nil, nil
		}
		return walkMap(v, depth)
	case reflect.Struct:
		out := make(map[string]any)
		if err := walkStruct(v, depth, out); err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported type %s", t)
}

func walkList(v reflect.Value, depth int) (any, error) {
	out := make([]any, v.Len())
	for i := range out {
		elem, err := walk(v.Index(i), depth+1)
		if err != nil {
			return nil, err
		}
		out[i] = elem
	}
	return out, nil
}

func walkMap(v reflect.Value, depth int) (any, error) {
	out := make(map[string]any, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key, err := mapKey(iter.Key())
		if err != nil {
			return nil, err
		}
		elem, err := walk(iter.Value(), depth+1)
		if err != nil {
			return nil, err
		}
		out[key] = elem
	}
	return out, nil
}

func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if k.CanInterface() {
		if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
			text, err := tm.MarshalText()
			return string(text), err
		}
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", fmt.Errorf("unsupported map key type %s", k.Type())
}

// walkStruct adds the fields of v to out. Fields already present win, so
// outer fields shadow promoted ones.
func walkStruct(v reflect.Value, depth int, out map[string]any) error {
	t := v.Type()
	var embedded []reflect.Value

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, opts, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" && opts == "" {
			continue
		}

		fv := v.Field(i)
		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if fv.Kind() == reflect.Pointer {
					if fv.IsNil() {
						continue
					}
					fv = fv.Elem()
				}
				embedded = append(embedded, fv)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}

		if name == "" {
			name = f.Name
		}
		if strings.Contains(opts, "omitempty") && isEmptyValue(fv) {
			continue
		}

		elem, err := walk(fv, depth+1)
		if err != nil {
			return err
		}
		out[name] = elem
	}

	for _, ev := range embedded {
		promoted := make(map[string]any)
		if err := walkStruct(ev, depth+1, promoted); err != nil {
			return err
		}
		for k, val := range promoted {
			if _, ok := out[k]; !ok {
				out[k] = val
			}
		}
	}
	return nil
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

// fromJSON reduces a value with custom JSON encoding to a tree.
func fromJSON(m json.Marshaler) (any, error) {
	raw, err := m.MarshalJSON()
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	return tree, nil
}
