// Package session owns the live editing state of one template: the
// token sequence, the variable registry and the row values. It is the
// single controller through which every mutation flows; there is no
// ambient shared state. Persistence and user notification are layered
// on top by reacting to the results these methods return.
package session

import (
	"log/slog"

	"github.com/dpshade/format-weaver/internal/bulk"
	"github.com/dpshade/format-weaver/internal/errors"
	"github.com/dpshade/format-weaver/internal/models"
	"github.com/dpshade/format-weaver/internal/registry"
	"github.com/dpshade/format-weaver/internal/renderer"
	"github.com/dpshade/format-weaver/internal/tokens"
)

// Mode is the editing state of a session
type Mode int

const (
	// ModeEmpty means no variables exist yet; the only state is the
	// flattened template string.
	ModeEmpty Mode = iota
	// ModeSingleRow is entered on first variable creation: one manually
	// edited row backs the rendering.
	ModeSingleRow
	// ModeBulkRows is entered via a committed CSV import: many rows
	// render independently through the same template.
	ModeBulkRows
)

// Session is the editing state for one template
type Session struct {
	seq  []models.Token
	reg  *registry.Registry
	form models.Row
	bulk *bulk.Engine
}

// New returns an empty session: one empty literal token, no variables,
// one default row.
func New() *Session {
	return &Session{
		seq:  tokens.New(),
		reg:  registry.New(),
		form: models.Row{},
		bulk: bulk.NewEngine(),
	}
}

// Mode derives the current editing state
func (s *Session) Mode() Mode {
	if s.bulk.Active() {
		return ModeBulkRows
	}
	if s.reg.Len() > 0 {
		return ModeSingleRow
	}
	return ModeEmpty
}

// Tokens returns a copy of the current token sequence
func (s *Session) Tokens() []models.Token {
	out := make([]models.Token, len(s.seq))
	copy(out, s.seq)
	return out
}

// Variables returns the current variable set in creation order
func (s *Session) Variables() []models.Variable {
	return s.reg.Variables()
}

// Variable looks up one variable by id
func (s *Session) Variable(id string) (models.Variable, bool) {
	return s.reg.Lookup(id)
}

// TemplateString reconstructs the flattened template text
func (s *Session) TemplateString() string {
	return tokens.Flatten(s.seq, s.reg.Variables())
}

// Reset discards all structure and starts over from raw text: a single
// literal token, no variables, default form state, no bulk rows.
func (s *Session) Reset(text string) {
	s.seq = tokens.Reset(text)
	s.reg = registry.New()
	s.form = models.Row{}
	s.bulk.Clear()
}

// Load replaces the session state with a saved template. The form is
// reseeded with each variable's default value; bulk rows are dropped.
func (s *Session) Load(t models.SavedTemplate) {
	s.seq = tokens.Coalesce(t.Tokens)
	s.reg = registry.FromVariables(t.Variables)
	s.bulk.Clear()
	s.reseedForm()
}

// Snapshot exports the state that gets persisted: the token sequence
// and variable set. Row values are never part of a saved template.
func (s *Session) Snapshot() (seq []models.Token, vars []models.Variable) {
	return s.Tokens(), s.Variables()
}

// CreateVariable validates the selection, registers the variable and
// splices it over the first literal containing the selection text. The
// new variable's default value is seeded into the form and, in bulk
// mode, into every row. A selection that no longer matches any literal
// leaves the token sequence unchanged; that indicates a stale caller,
// so it is logged rather than surfaced.
func (s *Session) CreateVariable(sel models.Selection, in registry.CreateInput) (models.Variable, error) {
	if !sel.Usable() {
		return models.Variable{}, errors.ValidationError("selection must be non-empty and not overlap a placeholder")
	}
	in.OriginalText = sel.Text

	v, err := s.reg.Create(in)
	if err != nil {
		return models.Variable{}, err
	}

	seq, found := tokens.Insert(s.seq, sel, v)
	if !found {
		slog.Debug("stale selection: text not found in any literal token",
			"variable", v.Name, "selection", sel.Text)
	}
	s.seq = seq

	s.form[v.Name] = registry.DefaultValue(v.Type)
	s.bulk.SeedVariable(v.Name, registry.DefaultValue(v.Type))
	return v, nil
}

// UpdateVariable applies a partial edit and propagates it: a rename
// refreshes every token snapshot and moves the value under the old key
// in the form and in every bulk row; a type change discards prior
// values and reseeds the type's default everywhere. Re-coercing across
// types has no sensible meaning, so retyping is deliberately lossy.
func (s *Session) UpdateVariable(id string, in registry.UpdateInput) (models.Variable, error) {
	updated, previous, err := s.reg.Update(id, in)
	if err != nil {
		return models.Variable{}, err
	}

	if updated.Name != previous.Name {
		s.seq = tokens.RenameSnapshots(s.seq, id, updated.Name)
		if v, ok := s.form[previous.Name]; ok {
			s.form[updated.Name] = v
			delete(s.form, previous.Name)
		}
		s.bulk.RenameVariable(previous.Name, updated.Name)
	}

	if updated.Type != previous.Type {
		s.form[updated.Name] = registry.DefaultValue(updated.Type)
		s.bulk.SeedVariable(updated.Name, registry.DefaultValue(updated.Type))
	}

	return updated, nil
}

// DeleteVariable removes the variable, restores its original text as a
// literal in the token sequence and drops its value from the form and
// from every bulk row.
func (s *Session) DeleteVariable(id string) error {
	v, ok := s.reg.Delete(id)
	if !ok {
		return errors.NotFoundError("variable")
	}
	s.seq = tokens.Remove(s.seq, id)
	delete(s.form, v.Name)
	s.bulk.DeleteVariable(v.Name)
	return nil
}

// SetValue coerces raw input through the variable's type and stores it
// in the active row: the selected bulk row when bulk mode is active,
// the single form row otherwise.
func (s *Session) SetValue(name string, raw interface{}) error {
	v, ok := s.reg.LookupByName(name)
	if !ok {
		return errors.NotFoundError("variable")
	}
	val := registry.Coerce(v.Type, raw)
	if s.bulk.Active() {
		s.bulk.SetValue(s.bulk.Selected(), name, val)
	} else {
		s.form[name] = val
	}
	return nil
}

// ActiveRow returns the row currently projected into the editing form
func (s *Session) ActiveRow() models.Row {
	if s.bulk.Active() {
		return s.bulk.Row(s.bulk.Selected())
	}
	return s.form
}

// Output renders the active row
func (s *Session) Output() string {
	return s.OutputForRow(s.ActiveRow())
}

// OutputForRow renders an arbitrary row against the current template
func (s *Session) OutputForRow(row models.Row) string {
	return renderer.Render(s.seq, s.reg.Variables(), row)
}

// reseedForm rebuilds single-row form state with each variable's
// default value.
func (s *Session) reseedForm() {
	s.form = models.Row{}
	for _, v := range s.reg.Variables() {
		s.form[v.Name] = registry.DefaultValue(v.Type)
	}
}
