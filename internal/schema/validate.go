package schema

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// FieldError describes one validation failure, with the dotted path to the
// offending field ("payload.members[2]").
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError aggregates every failure found in one pass.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Error())
	}
	return "invalid params: " + strings.Join(msgs, "; ")
}

// Details renders the failures as a machine-checkable detail map.
func (e *ValidationError) Details() map[string]any {
	fields := make([]map[string]any, 0, len(e.Fields))
	for _, f := range e.Fields {
		fields = append(fields, map[string]any{"field": f.Field, "message": f.Message})
	}
	return map[string]any{"fields": fields}
}

// Validate checks params against the shape. It returns the params unchanged
// on success, or a *ValidationError listing every violation. Unknown fields
// are rejected rather than dropped, so client bugs surface instead of being
// masked.
func Validate(shape Shape, params map[string]any) (map[string]any, error) {
	if params == nil {
		params = map[string]any{}
	}
	errs := validateObject(shape.Fields, params, "")
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	return params, nil
}

func validateObject(fields []Field, obj map[string]any, path string) []FieldError {
	var errs []FieldError

	declared := make(map[string]Field, len(fields))
	for _, f := range fields {
		declared[f.Name] = f
	}

	for _, f := range fields {
		value, present := obj[f.Name]
		if !present {
			if f.Required {
				errs = append(errs, FieldError{Field: join(path, f.Name), Message: "required field missing"})
			}
			continue
		}
		errs = append(errs, validateValue(f, value, join(path, f.Name))...)
	}

	for name := range obj {
		if _, ok := declared[name]; !ok {
			errs = append(errs, FieldError{Field: join(path, name), Message: "unexpected field"})
		}
	}

	return errs
}

func validateValue(f Field, value any, path string) []FieldError {
	if value == nil {
		if f.Required {
			return []FieldError{{Field: path, Message: "required field missing"}}
		}
		return nil
	}

	switch f.Type {
	case TypeAny:
		return nil

	case TypeString:
		if _, ok := value.(string); !ok {
			return mismatch(path, TypeString, value)
		}

	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			return mismatch(path, TypeBoolean, value)
		}

	case TypeInteger:
		if !isInteger(value) {
			return mismatch(path, TypeInteger, value)
		}

	case TypeNumber:
		if !isNumber(value) {
			return mismatch(path, TypeNumber, value)
		}

	case TypeUUID:
		s, ok := value.(string)
		if !ok {
			return mismatch(path, TypeUUID, value)
		}
		if _, err := uuid.Parse(s); err != nil {
			return []FieldError{{Field: path, Message: fmt.Sprintf("expected uuid got %q", s)}}
		}

	case TypeEnum:
		s, ok := value.(string)
		if !ok {
			return mismatch(path, TypeEnum, value)
		}
		for _, v := range f.Values {
			if v == s {
				return nil
			}
		}
		return []FieldError{{
			Field:   path,
			Message: fmt.Sprintf("expected one of [%s] got %q", strings.Join(f.Values, ", "), s),
		}}

	case TypeObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return mismatch(path, TypeObject, value)
		}
		return validateObject(f.Fields, obj, path)

	case TypeList:
		list, ok := value.([]any)
		if !ok {
			return mismatch(path, TypeList, value)
		}
		var errs []FieldError
		for i, elem := range list {
			errs = append(errs, validateValue(*f.Elem, elem, fmt.Sprintf("%s[%d]", path, i))...)
		}
		return errs
	}

	return nil
}

func mismatch(path string, want Type, got any) []FieldError {
	return []FieldError{{
		Field:   path,
		Message: fmt.Sprintf("expected %s got %s", want, typeName(got)),
	}}
}

// isInteger accepts native integer types plus float64 values holding whole
// numbers, since JSON decoding produces float64 for all numerics.
func isInteger(value any) bool {
	switch v := value.(type) {
	case int, int32, int64:
		return true
	case float64:
		return v == math.Trunc(v)
	}
	return false
}

func isNumber(value any) bool {
	switch value.(type) {
	case int, int32, int64, float32, float64:
		return true
	}
	return false
}

func typeName(value any) string {
	switch value.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int32, int64:
		return "integer"
	case float32, float64:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "list"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%T", value)
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
