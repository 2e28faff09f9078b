package models

import "strings"

// VariableType enumerates the value kinds a variable can hold
type VariableType string

const (
	TypeText    VariableType = "text"
	TypeList    VariableType = "list"
	TypeDate    VariableType = "date"
	TypeNumber  VariableType = "number"
	TypeBoolean VariableType = "boolean"
)

// ValidType reports whether t is one of the supported variable types
func ValidType(t VariableType) bool {
	switch t {
	case TypeText, TypeList, TypeDate, TypeNumber, TypeBoolean:
		return true
	}
	return false
}

// DefaultItemFormat wraps each list element verbatim
const DefaultItemFormat = "{{item}}"

// ItemPlaceholder is the literal placeholder replaced per list element
const ItemPlaceholder = "{{item}}"

// BooleanLabels holds the display strings substituted for boolean values
type BooleanLabels struct {
	True  string `json:"true"`
	False string `json:"false"`
}

// DefaultBooleanLabels returns the fallback labels used when none are set
func DefaultBooleanLabels() BooleanLabels {
	return BooleanLabels{True: "true", False: "false"}
}

// Variable is a named, typed placeholder extracted from template text.
// OriginalText is the literal substring the variable was created from;
// it is captured once at creation time and reappears as plain text when
// the variable is deleted.
type Variable struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Type          VariableType   `json:"type"`
	OriginalText  string         `json:"originalText"`
	ItemFormat    string         `json:"itemFormat,omitempty"`    // list only
	BooleanLabels *BooleanLabels `json:"booleanLabels,omitempty"` // boolean only
}

// Labels returns the variable's boolean labels, falling back to the
// literal strings "true"/"false" when unset.
func (v *Variable) Labels() BooleanLabels {
	if v.BooleanLabels != nil {
		return *v.BooleanLabels
	}
	return DefaultBooleanLabels()
}

// Format returns the variable's list item format, defaulting to a bare
// {{item}} placeholder when unset.
func (v *Variable) Format() string {
	if v.ItemFormat != "" {
		return v.ItemFormat
	}
	return DefaultItemFormat
}

// Selection is an ephemeral pointer into the flattened template string,
// produced by the editing surface and consumed immediately by variable
// creation. It is never persisted.
type Selection struct {
	Text  string
	Start int
	End   int
}

// Usable reports whether a selection can back a new variable: the text
// must be non-blank after trimming and must not overlap an existing
// placeholder.
func (s Selection) Usable() bool {
	if strings.TrimSpace(s.Text) == "" {
		return false
	}
	return !strings.Contains(s.Text, "{{")
}
