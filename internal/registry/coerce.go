package registry

import (
	"fmt"
	"strings"

	"github.com/dpshade/format-weaver/internal/models"
)

// truthy holds the strings parsed as boolean true, case-insensitively
var truthy = map[string]bool{
	"true": true,
	"1":    true,
	"yes":  true,
	"t":    true,
	"y":    true,
}

// DefaultValue returns the empty value a freshly created or re-typed
// variable seeds into every row: an empty list for lists, false for
// booleans, the empty string for everything else.
func DefaultValue(t models.VariableType) models.Value {
	switch t {
	case models.TypeList:
		return models.ListValue([]string{})
	case models.TypeBoolean:
		return models.BoolValue(false)
	default:
		return models.TextValue("")
	}
}

// Coerce is the single authorized entry point for turning untyped
// external input (form fields, CSV cells, AI output) into a typed row
// value. Lists accept a slice as-is or split a string on newlines;
// booleans accept a native bool or parse a small truthy vocabulary,
// with everything else mapping to false; the remaining types pass
// strings through and stringify numbers.
func Coerce(t models.VariableType, raw interface{}) models.Value {
	if v, ok := raw.(models.Value); ok {
		return coerceValue(t, v)
	}

	switch t {
	case models.TypeList:
		switch val := raw.(type) {
		case []string:
			return models.ListValue(append([]string(nil), val...))
		case string:
			return models.ListValue(strings.Split(val, "\n"))
		default:
			return models.ListValue([]string{})
		}
	case models.TypeBoolean:
		switch val := raw.(type) {
		case bool:
			return models.BoolValue(val)
		case string:
			return models.BoolValue(truthy[strings.ToLower(val)])
		default:
			return models.BoolValue(false)
		}
	default:
		switch val := raw.(type) {
		case string:
			return models.TextValue(val)
		case int:
			return models.TextValue(fmt.Sprintf("%d", val))
		case int64:
			return models.TextValue(fmt.Sprintf("%d", val))
		case float64:
			return models.TextValue(formatFloat(val))
		default:
			return models.TextValue("")
		}
	}
}

// coerceValue re-types an already-typed value, used when a variable's
// value crosses a type boundary through the common input path.
func coerceValue(t models.VariableType, v models.Value) models.Value {
	switch t {
	case models.TypeList:
		if v.Kind() == models.ValueList {
			return models.ListValue(append([]string(nil), v.List()...))
		}
		if v.Kind() == models.ValueText && v.Text() != "" {
			return models.ListValue(strings.Split(v.Text(), "\n"))
		}
		return models.ListValue([]string{})
	case models.TypeBoolean:
		if v.Kind() == models.ValueBool {
			return v
		}
		return models.BoolValue(truthy[strings.ToLower(v.Text())])
	default:
		if v.Kind() == models.ValueText {
			return v
		}
		return models.TextValue("")
	}
}

// formatFloat prints whole floats without a trailing ".0"
func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
