// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package translator

import (
	"encoding/json"
	"fmt"
	"reflect"
	"unicode/utf8"

	"github.com/bytedance/sonic"
)

// SerializeToolResponse renders an arbitrary tool response as JSON text.
//
// Values that do not marshal directly are coerced first: byte slices decode
// to text, structs flatten to maps of their exported fields, cyclic
// references degrade to their string form. Serialization never fails; the
// worst case is the JSON encoding of the value's string form.
func SerializeToolResponse(response any) string {
	coerced := coerceToolResponse(response, make(map[uintptr]bool))
	if b, err := sonic.ConfigFastest.Marshal(coerced); err == nil {
		return string(b)
	}
	if b, err := sonic.ConfigFastest.Marshal(fmt.Sprint(response)); err == nil {
		return string(b)
	}
	return `""`
}

func coerceToolResponse(v any, visited map[uintptr]bool) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return val
	case []byte:
		if utf8.Valid(val) {
			return string(val)
		}
		out := make([]any, len(val))
		for i, b := range val {
			out[i] = int(b)
		}
		return out
	case error:
		return val.Error()
	case json.Marshaler:
		// The value encodes itself.
		return val
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		ptr := rv.Pointer()
		if visited[ptr] {
			return fmt.Sprint(v)
		}
		visited[ptr] = true
		defer delete(visited, ptr)
		return coerceToolResponse(rv.Elem().Interface(), visited)

	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		ptr := rv.Pointer()
		if visited[ptr] {
			return fmt.Sprint(v)
		}
		visited[ptr] = true
		defer delete(visited, ptr)

		out := make(map[string]any, rv.Len())
		it := rv.MapRange()
		for it.Next() {
			out[fmt.Sprint(it.Key().Interface())] = coerceToolResponse(it.Value().Interface(), visited)
		}
		return out

	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		if rv.Len() > 0 {
			ptr := rv.Pointer()
			if visited[ptr] {
				return fmt.Sprint(v)
			}
			visited[ptr] = true
			defer delete(visited, ptr)
		}
		return coerceSequence(rv, visited)

	case reflect.Array:
		return coerceSequence(rv, visited)

	case reflect.Struct:
		rt := rv.Type()
		out := make(map[string]any, rt.NumField())
		for i := range rt.NumField() {
			field := rt.Field(i)
			if !field.IsExported() {
				continue
			}
			out[field.Name] = coerceToolResponse(rv.Field(i).Interface(), visited)
		}
		if len(out) > 0 {
			return out
		}
		return fmt.Sprint(v)

	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	default:
		return fmt.Sprint(v)
	}
}

func coerceSequence(rv reflect.Value, visited map[uintptr]bool) []any {
	out := make([]any, rv.Len())
	for i := range rv.Len() {
		out[i] = coerceToolResponse(rv.Index(i).Interface(), visited)
	}
	return out
}
