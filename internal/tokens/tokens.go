// Package tokens implements the ordered literal/variable representation
// of a template string and the structural edits over it.
//
// Edits locate their target by substring content, not by stored
// offsets: selections are produced against the live flattened string
// and character positions drift as earlier edits change it. When the
// same literal text occurs more than once the first structural
// occurrence wins; this is a known, deliberate limitation.
package tokens

import (
	"regexp"
	"strings"

	"github.com/dpshade/format-weaver/internal/models"
)

// New returns the token sequence of an empty template: one empty
// literal. A template with no variables is always exactly one literal.
func New() []models.Token {
	return []models.Token{models.Literal("")}
}

// Reset discards all structure and represents newText as a single
// literal token. Used when the user edits the raw text directly
// instead of going through variable extraction.
func Reset(newText string) []models.Token {
	return []models.Token{models.Literal(newText)}
}

// Flatten reconstructs the canonical template string: literal content
// concatenated with a {{name}} placeholder per variable token. The
// name comes from the variable set's current state, not the token
// snapshot, so renames are reflected without walking tokens. A token
// referencing an unknown variable contributes nothing.
func Flatten(seq []models.Token, vars []models.Variable) string {
	byID := indexByID(vars)
	var b strings.Builder
	for _, t := range seq {
		if t.IsLiteral() {
			b.WriteString(t.Content)
			continue
		}
		if v, ok := byID[t.VariableID]; ok {
			b.WriteString("{{")
			b.WriteString(v.Name)
			b.WriteString("}}")
		}
	}
	return b.String()
}

// Insert splices a variable token over the first literal containing the
// selection text. The matched literal splits into before/ref/after,
// with empty halves omitted; every other token is untouched. When no
// literal contains the selection the sequence is returned unchanged
// and found is false: the selection was stale, which is a caller bug
// rather than a user-facing error.
func Insert(seq []models.Token, sel models.Selection, v models.Variable) (out []models.Token, found bool) {
	out = make([]models.Token, 0, len(seq)+2)
	for _, t := range seq {
		if found || !t.IsLiteral() {
			out = append(out, t)
			continue
		}
		start := strings.Index(t.Content, sel.Text)
		if start < 0 {
			out = append(out, t)
			continue
		}
		found = true
		before := t.Content[:start]
		after := t.Content[start+len(sel.Text):]
		if before != "" {
			out = append(out, models.Literal(before))
		}
		out = append(out, models.VariableRef(v))
		if after != "" {
			out = append(out, models.Literal(after))
		}
	}
	if !found {
		return seq, false
	}
	return out, true
}

// Remove un-substitutes a variable: its token becomes a literal holding
// the original text snapshot, then adjacent literals are merged.
// Deleting a variable never deletes text from the template.
func Remove(seq []models.Token, variableID string) []models.Token {
	replaced := make([]models.Token, 0, len(seq))
	for _, t := range seq {
		if !t.IsLiteral() && t.VariableID == variableID {
			replaced = append(replaced, models.Literal(t.OriginalText))
			continue
		}
		replaced = append(replaced, t)
	}
	return Coalesce(replaced)
}

// Coalesce merges runs of adjacent literal tokens left to right,
// restoring the no-adjacent-literals invariant. An empty sequence
// normalizes to a single empty literal.
func Coalesce(seq []models.Token) []models.Token {
	out := make([]models.Token, 0, len(seq))
	for _, t := range seq {
		if len(out) > 0 && t.IsLiteral() && out[len(out)-1].IsLiteral() {
			out[len(out)-1].Content += t.Content
			continue
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return New()
	}
	return out
}

// RenameSnapshots refreshes the cached name on every token referencing
// the given variable. The cache only exists for display; Flatten and
// Render resolve names through the variable set.
func RenameSnapshots(seq []models.Token, variableID, newName string) []models.Token {
	out := make([]models.Token, len(seq))
	copy(out, seq)
	for i := range out {
		if !out[i].IsLiteral() && out[i].VariableID == variableID {
			out[i].Name = newName
		}
	}
	return out
}

var placeholderPattern = regexp.MustCompile(`{{\s*(\w+)\s*}}`)

// Parse rebuilds a token sequence from placeholder text, resolving each
// {{name}} against the supplied variable set. Placeholders that match
// no variable stay in the output as literal text. The result satisfies
// the no-adjacent-literals invariant.
func Parse(text string, vars []models.Variable) []models.Token {
	byName := make(map[string]models.Variable, len(vars))
	for _, v := range vars {
		byName[v.Name] = v
	}

	var seq []models.Token
	last := 0
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			seq = append(seq, models.Literal(text[last:m[0]]))
		}
		name := text[m[2]:m[3]]
		if v, ok := byName[name]; ok {
			seq = append(seq, models.VariableRef(v))
		} else {
			seq = append(seq, models.Literal(text[m[0]:m[1]]))
		}
		last = m[1]
	}
	if last < len(text) {
		seq = append(seq, models.Literal(text[last:]))
	}
	return Coalesce(seq)
}

// HasAdjacentLiterals reports a violated coalescing invariant; used by
// tests and debug assertions.
func HasAdjacentLiterals(seq []models.Token) bool {
	for i := 1; i < len(seq); i++ {
		if seq[i].IsLiteral() && seq[i-1].IsLiteral() {
			return true
		}
	}
	return false
}

func indexByID(vars []models.Variable) map[string]models.Variable {
	byID := make(map[string]models.Variable, len(vars))
	for _, v := range vars {
		byID[v.ID] = v
	}
	return byID
}
