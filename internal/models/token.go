package models

import (
	"encoding/json"
	"fmt"
)

// TokenKind discriminates the two token variants on the wire
type TokenKind string

const (
	TokenLiteral  TokenKind = "string"
	TokenVariable TokenKind = "variable"
)

// Token is one element of a template's ordered structure: either a run
// of literal text or a reference to a variable. For variable tokens the
// Name and OriginalText fields are snapshots taken at creation time;
// the name snapshot is kept in sync on rename by the registry.
type Token struct {
	Kind         TokenKind
	Content      string // literal tokens
	VariableID   string // variable tokens
	Name         string
	OriginalText string
}

// Literal builds a literal token
func Literal(content string) Token {
	return Token{Kind: TokenLiteral, Content: content}
}

// VariableRef builds a variable token snapshotting the variable's
// current name and original text.
func VariableRef(v Variable) Token {
	return Token{
		Kind:         TokenVariable,
		VariableID:   v.ID,
		Name:         v.Name,
		OriginalText: v.OriginalText,
	}
}

// IsLiteral reports whether the token is a literal run of text
func (t Token) IsLiteral() bool {
	return t.Kind == TokenLiteral
}

type literalJSON struct {
	Type    TokenKind `json:"type"`
	Content string    `json:"content"`
}

type variableJSON struct {
	Type         TokenKind `json:"type"`
	VariableID   string    `json:"variableId"`
	Name         string    `json:"name"`
	OriginalText string    `json:"originalText"`
}

// MarshalJSON encodes the token as a tagged object so the variant
// survives persistence round-trips.
func (t Token) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case TokenLiteral:
		return json.Marshal(literalJSON{Type: TokenLiteral, Content: t.Content})
	case TokenVariable:
		return json.Marshal(variableJSON{
			Type:         TokenVariable,
			VariableID:   t.VariableID,
			Name:         t.Name,
			OriginalText: t.OriginalText,
		})
	default:
		return nil, fmt.Errorf("unknown token kind %q", t.Kind)
	}
}

// UnmarshalJSON decodes a tagged token object
func (t *Token) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type TokenKind `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	switch probe.Type {
	case TokenLiteral:
		var lit literalJSON
		if err := json.Unmarshal(data, &lit); err != nil {
			return err
		}
		*t = Literal(lit.Content)
	case TokenVariable:
		var ref variableJSON
		if err := json.Unmarshal(data, &ref); err != nil {
			return err
		}
		*t = Token{
			Kind:         TokenVariable,
			VariableID:   ref.VariableID,
			Name:         ref.Name,
			OriginalText: ref.OriginalText,
		}
	default:
		return fmt.Errorf("unknown token type %q", probe.Type)
	}
	return nil
}
