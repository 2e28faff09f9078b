// Package renderer substitutes row values into a token sequence to
// produce the final output text.
package renderer

import (
	"strings"

	"github.com/dpshade/format-weaver/internal/models"
)

// Render produces the output string for one row of values. It is a
// pure function of its three inputs: a single pass over the tokens,
// emitting literal content verbatim and a per-type replacement for
// each variable token. It never fails; a variable missing from the row
// (or holding a value of the wrong shape) renders as its type's empty
// form, so the same template and row always yield byte-identical
// output.
func Render(seq []models.Token, vars []models.Variable, row models.Row) string {
	byID := make(map[string]models.Variable, len(vars))
	for _, v := range vars {
		byID[v.ID] = v
	}

	var b strings.Builder
	for _, t := range seq {
		if t.IsLiteral() {
			b.WriteString(t.Content)
			continue
		}
		v, ok := byID[t.VariableID]
		if !ok {
			continue
		}
		b.WriteString(replacement(v, row[v.Name]))
	}
	return b.String()
}

// replacement computes the substitution text for one variable
func replacement(v models.Variable, val models.Value) string {
	switch v.Type {
	case models.TypeList:
		return renderList(v, val.List())
	case models.TypeBoolean:
		labels := v.Labels()
		if val.Bool() {
			return labels.True
		}
		return labels.False
	default:
		return val.Text()
	}
}

// renderList formats each non-blank item through the variable's item
// format and joins the results with newlines. An empty or all-blank
// list renders to the empty string.
func renderList(v models.Variable, items []string) string {
	format := v.Format()
	var lines []string
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		lines = append(lines, strings.ReplaceAll(format, models.ItemPlaceholder, item))
	}
	return strings.Join(lines, "\n")
}
