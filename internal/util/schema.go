package util

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// ValidationError reports the first argument that does not match a tool
// schema.
type ValidationError struct {
	Field   string `json:"field"`
	Value   any    `json:"value"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// CreateSchema derives an object schema from a struct value or pointer.
// Fields are named by their json tag; pointer and omitempty fields are
// optional. Nested structs and slices are described recursively. Anything
// that is not a struct yields an empty object schema.
func CreateSchema(structType any) map[string]any {
	t := reflect.TypeOf(structType)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == nil || t.Kind() != reflect.Struct {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}

	return objectSchema(t)
}

func objectSchema(t reflect.Type) map[string]any {
	props := map[string]any{}

	var required []string

	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}

		name, optional, skip := jsonName(f)
		if skip {
			continue
		}

		prop := typeSchema(f.Type)
		if desc := f.Tag.Get("description"); desc != "" {
			prop["description"] = desc
		}

		props[name] = prop

		if !optional && f.Type.Kind() != reflect.Pointer {
			required = append(required, name)
		}
	}

	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

// jsonName resolves the property name of f and whether it is optional.
func jsonName(f reflect.StructField) (name string, optional, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}

	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}

	return name, slices.Contains(strings.Split(opts, ","), "omitempty"), false
}

func typeSchema(t reflect.Type) map[string]any {
	switch t.Kind() {
	case reflect.Pointer:
		return typeSchema(t.Elem())
	case reflect.Slice, reflect.Array:
		return map[string]any{"type": "array", "items": typeSchema(t.Elem())}
	case reflect.Struct:
		return objectSchema(t)
	default:
		return map[string]any{"type": jsonType(t.Kind())}
	}
}

func jsonType(k reflect.Kind) string {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Map, reflect.Interface:
		return "object"
	default:
		return "string"
	}
}

// ValidateParameters checks decoded tool arguments against the top level of
// an object schema: required keys must be present and known properties must
// match their declared type. Extra keys are allowed.
func ValidateParameters(params map[string]any, schema map[string]any) error {
	for _, name := range requiredFields(schema) {
		if _, ok := params[name]; !ok {
			return &ValidationError{Field: name, Message: "required field is missing"}
		}
	}

	props, _ := schema["properties"].(map[string]any)

	for _, name := range slices.Sorted(maps.Keys(params)) {
		prop, _ := props[name].(map[string]any)
		want, _ := prop["type"].(string)

		if v := params[name]; !matchesType(v, want) {
			return &ValidationError{
				Field:   name,
				Value:   v,
				Message: fmt.Sprintf("expected type %s, got %T", want, v),
			}
		}
	}

	return nil
}

// requiredFields reads the "required" list accepting both []string (Go
// literals) and []any (decoded JSON).
func requiredFields(schema map[string]any) []string {
	switch req := schema["required"].(type) {
	case []string:
		return req
	case []any:
		out := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}

		return out
	default:
		return nil
	}
}

// HasProperty reports whether the object schema declares the named property.
func HasProperty(schema map[string]any, name string) bool {
	props, _ := schema["properties"].(map[string]any)
	_, ok := props[name]

	return ok
}

// StripProperty returns a copy of schema without the named property and
// without its entry in "required". The input schema is never modified; when
// the property is absent the original map is returned unchanged.
func StripProperty(schema map[string]any, name string) map[string]any {
	if !HasProperty(schema, name) {
		return schema
	}

	out := maps.Clone(schema)

	props := maps.Clone(schema["properties"].(map[string]any))
	delete(props, name)
	out["properties"] = props

	if _, ok := schema["required"]; ok {
		req := slices.DeleteFunc(slices.Clone(requiredFields(schema)), func(r string) bool { return r == name })
		if len(req) > 0 {
			out["required"] = req
		} else {
			delete(out, "required")
		}
	}

	return out
}

// matchesType reports whether a decoded JSON value fits a schema type. nil
// and undeclared types always match.
func matchesType(v any, want string) bool {
	if v == nil {
		return true
	}

	switch want {
	case "string":
		_, ok := v.(string)
		return ok
	case "integer":
		switch n := v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		case float64:
			return n == float64(int64(n))
		}

		return false
	case "number":
		switch v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			return true
		}

		return false
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "array":
		_, ok := v.([]any)
		return ok
	case "object":
		_, ok := v.(map[string]any)
		return ok
	default:
		return true
	}
}
