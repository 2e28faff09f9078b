// Package bulk applies a template across a collection of data rows.
//
// A CSV import is staged first and only becomes the active row set
// after an explicit column-to-variable mapping is applied; header
// names are not assumed to match variable names. Row edits, renames
// and deletions always touch every row so the collection stays
// consistent with the variable registry.
package bulk

import (
	"strings"

	"github.com/dpshade/format-weaver/internal/errors"
	"github.com/dpshade/format-weaver/internal/models"
	"github.com/dpshade/format-weaver/internal/registry"
)

// Engine holds the ordered row collection for bulk rendering plus the
// selected row index projected into the single-row editing form.
type Engine struct {
	rows     []models.Row
	selected int
	staged   *models.CSVTable
}

// NewEngine returns an engine with no rows and no staged import
func NewEngine() *Engine {
	return &Engine{}
}

// Active reports whether a committed row collection exists (bulk mode)
func (e *Engine) Active() bool {
	return e.rows != nil
}

// Stage parks a parsed CSV table until a mapping is applied. Staging
// never renders and never touches the committed rows.
func (e *Engine) Stage(table models.CSVTable) {
	t := table
	e.staged = &t
}

// Staged returns the parked table awaiting a mapping, or nil
func (e *Engine) Staged() *models.CSVTable {
	return e.staged
}

// DiscardStaged abandons a staged import without committing it
func (e *Engine) DiscardStaged() {
	e.staged = nil
}

// SuggestMapping proposes a column for each variable in two passes:
// first an exact header match, then a case-insensitive match ignoring
// whitespace and underscores. Variables with no match are left out of
// the result and must be mapped by hand.
func SuggestMapping(vars []models.Variable, headers []string) models.Mapping {
	mapping := make(models.Mapping)
	for _, v := range vars {
		for _, h := range headers {
			if h == v.Name {
				mapping[v.Name] = h
				break
			}
		}
		if _, ok := mapping[v.Name]; ok {
			continue
		}
		want := looseKey(v.Name)
		for _, h := range headers {
			if looseKey(h) == want {
				mapping[v.Name] = h
				break
			}
		}
	}
	return mapping
}

// looseKey canonicalizes a name for the second matching pass
func looseKey(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", "")
	return strings.Join(strings.Fields(s), "")
}

// ApplyMapping commits the staged table as the active row collection.
// Every variable must be mapped to a column; otherwise the commit is
// rejected with the full list of missing names and nothing changes.
// Each raw cell runs through the registry's coercion for its
// variable's type.
func (e *Engine) ApplyMapping(vars []models.Variable, mapping models.Mapping) error {
	if e.staged == nil {
		return errors.ValidationError("no CSV import staged")
	}

	var missing []string
	for _, v := range vars {
		if mapping[v.Name] == "" {
			missing = append(missing, v.Name)
		}
	}
	if len(missing) > 0 {
		return errors.MappingIncompleteError(missing)
	}

	rows := make([]models.Row, 0, len(e.staged.Rows))
	for _, raw := range e.staged.Rows {
		row := make(models.Row, len(vars))
		for _, v := range vars {
			cell, ok := raw[mapping[v.Name]]
			if !ok {
				row[v.Name] = registry.DefaultValue(v.Type)
				continue
			}
			row[v.Name] = registry.Coerce(v.Type, cell)
		}
		rows = append(rows, row)
	}

	e.rows = rows
	e.selected = 0
	e.staged = nil
	return nil
}

// Rows returns the committed rows in stable order
func (e *Engine) Rows() []models.Row {
	return e.rows
}

// Len returns the number of committed rows
func (e *Engine) Len() int {
	return len(e.rows)
}

// Selected returns the index of the row projected into the editing form
func (e *Engine) Selected() int {
	return e.selected
}

// Select moves the selection; out-of-range indices are ignored
func (e *Engine) Select(i int) {
	if i >= 0 && i < len(e.rows) {
		e.selected = i
	}
}

// Row returns the row at index i, or nil when out of range
func (e *Engine) Row(i int) models.Row {
	if i < 0 || i >= len(e.rows) {
		return nil
	}
	return e.rows[i]
}

// SetValue edits one cell of one row
func (e *Engine) SetValue(rowIndex int, name string, val models.Value) {
	if rowIndex < 0 || rowIndex >= len(e.rows) {
		return
	}
	row := e.rows[rowIndex].Clone()
	row[name] = val
	e.rows[rowIndex] = row
}

// SeedVariable sets every row's value for name, used when a variable
// is created or re-typed while bulk rows exist.
func (e *Engine) SeedVariable(name string, val models.Value) {
	for i, row := range e.rows {
		r := row.Clone()
		r[name] = val
		e.rows[i] = r
	}
}

// RenameVariable moves the value under oldName to newName in every
// row, preserving current values.
func (e *Engine) RenameVariable(oldName, newName string) {
	if oldName == newName {
		return
	}
	for i, row := range e.rows {
		r := row.Clone()
		if v, ok := r[oldName]; ok {
			r[newName] = v
			delete(r, oldName)
		}
		e.rows[i] = r
	}
}

// DeleteVariable removes the value for name from every row
func (e *Engine) DeleteVariable(name string) {
	for i, row := range e.rows {
		r := row.Clone()
		delete(r, name)
		e.rows[i] = r
	}
}

// Clear drops the committed rows and any staged import, leaving the
// engine inactive. Callers reseed single-row form state afterwards.
func (e *Engine) Clear() {
	e.rows = nil
	e.selected = 0
	e.staged = nil
}

// Outputs renders every row in order through the supplied render
// function. All bulk export surfaces fold over this single function so
// substitution logic is never duplicated.
func (e *Engine) Outputs(render func(models.Row) string) []string {
	outputs := make([]string, len(e.rows))
	for i, row := range e.rows {
		outputs[i] = render(row)
	}
	return outputs
}
