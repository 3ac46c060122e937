// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"github.com/bytedance/sonic"
	"google.golang.org/genai"
)

// SchemaFromJSON converts a decoded JSON Schema document into the
// [genai.Schema] shape required by function declarations.
//
// The input is typically the raw `parameters` value of a declared frontend
// tool, i.e. a map[string]any produced by decoding the run request. Values of
// other Go types are round-tripped through JSON first so callers may pass
// typed schema structs. Constructs Gemini does not support are dropped rather
// than failing the declaration, and a schema without any recognizable shape
// degrades to a permissive object schema.
//
// A nil or undecodable input yields nil, meaning the tool takes no
// parameters.
func SchemaFromJSON(v any) *genai.Schema {
	m := schemaMap(v)
	if m == nil {
		return nil
	}
	return convertSchema(m)
}

// schemaMap coerces v into a decoded JSON object.
func schemaMap(v any) map[string]any {
	if v == nil {
		return nil
	}
	if m, ok := v.(map[string]any); ok {
		return m
	}

	data, err := sonic.ConfigFastest.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := sonic.ConfigFastest.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}

// convertSchema converts one decoded schema object, recursing into items and
// properties.
func convertSchema(schema map[string]any) *genai.Schema {
	result := &genai.Schema{}

	// Handle type field. A type list such as ["string", "null"] marks the
	// schema nullable with the first non-null entry as the effective type.
	typ, nullable := schemaType(schema["type"])
	switch typ {
	case "string":
		result.Type = genai.TypeString
	case "integer":
		result.Type = genai.TypeInteger
	case "number":
		result.Type = genai.TypeNumber
	case "boolean":
		result.Type = genai.TypeBoolean
	case "array":
		result.Type = genai.TypeArray
	default:
		result.Type = genai.TypeObject // Default fallback
	}
	if nullable {
		result.Nullable = &nullable
	}
	if b, ok := schema["nullable"].(bool); ok && b {
		result.Nullable = &b
	}

	// Handle scalar fields
	if title, ok := schema["title"].(string); ok {
		result.Title = title
	}
	if desc, ok := schema["description"].(string); ok {
		result.Description = desc
	}
	if format, ok := schema["format"].(string); ok && validFormat(result.Type, format) {
		result.Format = format
	}
	if pattern, ok := schema["pattern"].(string); ok {
		result.Pattern = pattern
	}

	// Handle enum
	if enumList, ok := schema["enum"].([]any); ok {
		var enumStrs []string
		for _, item := range enumList {
			if itemStr, ok := item.(string); ok {
				enumStrs = append(enumStrs, itemStr)
			}
		}
		result.Enum = enumStrs
	}

	// Handle required fields
	if requiredList, ok := schema["required"].([]any); ok {
		for _, item := range requiredList {
			if itemStr, ok := item.(string); ok {
				result.Required = append(result.Required, itemStr)
			}
		}
	}

	// Handle numeric constraints
	result.Minimum = schemaFloat(schema["minimum"])
	result.Maximum = schemaFloat(schema["maximum"])

	// Handle string, array and object size constraints
	result.MinLength = schemaInt(schema["minLength"])
	result.MaxLength = schemaInt(schema["maxLength"])
	result.MinItems = schemaInt(schema["minItems"])
	result.MaxItems = schemaInt(schema["maxItems"])
	result.MinProperties = schemaInt(schema["minProperties"])
	result.MaxProperties = schemaInt(schema["maxProperties"])

	if items, ok := schema["items"].(map[string]any); ok {
		result.Items = convertSchema(items)
	}

	// Handle object properties
	if props, ok := schema["properties"].(map[string]any); ok && len(props) > 0 {
		properties := make(map[string]*genai.Schema, len(props))
		for propName, propVal := range props {
			propSchema, ok := propVal.(map[string]any)
			if !ok {
				continue
			}
			properties[propName] = convertSchema(propSchema)
		}
		result.Properties = properties
	}

	// Handle example
	if example, ok := schema["example"]; ok {
		result.Example = example
	} else if examples, ok := schema["examples"].([]any); ok && len(examples) > 0 {
		result.Example = examples[0]
	}

	return result
}

// schemaType resolves the "type" keyword, which may be a single string or a
// list of strings with an optional "null" entry.
func schemaType(v any) (typ string, nullable bool) {
	switch t := v.(type) {
	case string:
		if t == "null" {
			return "object", true
		}
		return t, false
	case []any:
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				continue
			}
			if s == "null" {
				nullable = true
				continue
			}
			if typ == "" {
				typ = s
			}
		}
		return typ, nullable
	default:
		return "", false
	}
}

// validFormat reports whether format is supported by Gemini for the given
// schema type.
func validFormat(typ genai.Type, format string) bool {
	switch typ {
	case genai.TypeInteger, genai.TypeNumber:
		return format == "int32" || format == "int64"
	case genai.TypeString:
		return format == "date-time" || format == "enum"
	default:
		return false
	}
}

// schemaFloat extracts a numeric keyword value. Decoded JSON numbers arrive
// as float64 but Go callers may pass integer types.
func schemaFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	default:
		return nil
	}
}

// schemaInt extracts an integer keyword value.
func schemaInt(v any) *int64 {
	switch n := v.(type) {
	case float64:
		i := int64(n)
		return &i
	case int:
		i := int64(n)
		return &i
	case int64:
		return &n
	default:
		return nil
	}
}
