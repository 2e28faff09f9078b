package models

import "strings"

// ValueKind discriminates the closed set of row value shapes
type ValueKind int

const (
	ValueText ValueKind = iota // text, date and number variables
	ValueList
	ValueBool
)

// Value is one concrete datum bound to a variable name within a row.
// It is a closed tagged union over string, []string and bool; the
// registry's Coerce function is the only entry point that turns
// untyped external input (form fields, CSV cells, AI output) into a
// Value. The zero Value is an empty text value.
type Value struct {
	kind ValueKind
	text string
	list []string
	b    bool
}

// TextValue wraps a plain string (also used for date and number input,
// which are carried as strings).
func TextValue(s string) Value {
	return Value{kind: ValueText, text: s}
}

// ListValue wraps a list of items
func ListValue(items []string) Value {
	return Value{kind: ValueList, list: items}
}

// BoolValue wraps a boolean
func BoolValue(b bool) Value {
	return Value{kind: ValueBool, b: b}
}

// Kind returns the value's variant
func (v Value) Kind() ValueKind { return v.kind }

// Text returns the string payload; empty for non-text values
func (v Value) Text() string {
	if v.kind == ValueText {
		return v.text
	}
	return ""
}

// List returns the list payload; nil for non-list values
func (v Value) List() []string {
	if v.kind == ValueList {
		return v.list
	}
	return nil
}

// Bool returns the boolean payload; false for non-bool values
func (v Value) Bool() bool {
	return v.kind == ValueBool && v.b
}

// Display renders the value as a single string for export surfaces:
// lists join on newline, booleans become "true"/"false".
func (v Value) Display() string {
	switch v.kind {
	case ValueList:
		return strings.Join(v.list, "\n")
	case ValueBool:
		if v.b {
			return "true"
		}
		return "false"
	default:
		return v.text
	}
}

// Row maps variable names to their concrete values for one rendering.
// Exactly one row exists in manual-entry mode; bulk mode holds an
// ordered collection of them.
type Row map[string]Value

// Clone returns an independent copy of the row
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
