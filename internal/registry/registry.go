// Package registry manages the typed variable set attached to one
// template: name normalization and validation, uniqueness, and the
// coercion rules that turn untyped external input into row values.
package registry

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/dpshade/format-weaver/internal/errors"
	"github.com/dpshade/format-weaver/internal/models"
)

var namePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeName canonicalizes a user-supplied variable name: trimmed,
// internal whitespace collapsed to single underscores, lowercased.
func NormalizeName(raw string) string {
	name := strings.TrimSpace(raw)
	name = whitespace.ReplaceAllString(name, "_")
	return strings.ToLower(name)
}

// Registry holds the variables of a single template. It owns name
// uniqueness and identifier minting; structural propagation of renames
// and deletes into tokens and rows is the caller's job, driven by the
// values Update and Delete return.
type Registry struct {
	vars []models.Variable
}

// New returns an empty registry
func New() *Registry {
	return &Registry{}
}

// FromVariables builds a registry around an existing variable set,
// used when loading a saved template.
func FromVariables(vars []models.Variable) *Registry {
	r := &Registry{vars: make([]models.Variable, len(vars))}
	copy(r.vars, vars)
	return r
}

// Variables returns a copy of the registered variables in creation order
func (r *Registry) Variables() []models.Variable {
	out := make([]models.Variable, len(r.vars))
	copy(out, r.vars)
	return out
}

// Len returns the number of registered variables
func (r *Registry) Len() int {
	return len(r.vars)
}

// Lookup finds a variable by id
func (r *Registry) Lookup(id string) (models.Variable, bool) {
	for _, v := range r.vars {
		if v.ID == id {
			return v, true
		}
	}
	return models.Variable{}, false
}

// LookupByName finds a variable by its normalized name
func (r *Registry) LookupByName(name string) (models.Variable, bool) {
	for _, v := range r.vars {
		if v.Name == name {
			return v, true
		}
	}
	return models.Variable{}, false
}

// CreateInput carries the fields for a new variable. The same shape is
// used whether the request came from a manual selection or from an AI
// suggestion.
type CreateInput struct {
	Name          string
	Type          models.VariableType
	OriginalText  string
	ItemFormat    string
	BooleanLabels *models.BooleanLabels
}

// Create validates the input, mints an id and registers the variable.
// The name is normalized before validation; duplicates are rejected
// against every existing variable.
func (r *Registry) Create(in CreateInput) (models.Variable, error) {
	name := NormalizeName(in.Name)
	if err := r.checkName(name, ""); err != nil {
		return models.Variable{}, err
	}
	if !models.ValidType(in.Type) {
		return models.Variable{}, errors.ValidationError("unknown variable type " + strconv.Quote(string(in.Type)))
	}

	v := models.Variable{
		ID:            uuid.NewString(),
		Name:          name,
		Type:          in.Type,
		OriginalText:  in.OriginalText,
		ItemFormat:    in.ItemFormat,
		BooleanLabels: in.BooleanLabels,
	}
	r.vars = append(r.vars, v)
	return v, nil
}

// UpdateInput carries the mutable fields of a variable; nil fields are
// left untouched. ID and OriginalText are immutable for the variable's
// lifetime.
type UpdateInput struct {
	Name          *string
	Type          *models.VariableType
	ItemFormat    *string
	BooleanLabels *models.BooleanLabels
}

// Update applies a partial edit and returns the updated variable along
// with its previous state so the caller can propagate renames and type
// changes into token snapshots and rows.
func (r *Registry) Update(id string, in UpdateInput) (updated, previous models.Variable, err error) {
	idx := -1
	for i, v := range r.vars {
		if v.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Variable{}, models.Variable{}, errors.NotFoundError("variable")
	}

	previous = r.vars[idx]
	updated = previous

	if in.Name != nil {
		name := NormalizeName(*in.Name)
		if err := r.checkName(name, id); err != nil {
			return models.Variable{}, models.Variable{}, err
		}
		updated.Name = name
	}
	if in.Type != nil {
		if !models.ValidType(*in.Type) {
			return models.Variable{}, models.Variable{}, errors.ValidationError("unknown variable type " + strconv.Quote(string(*in.Type)))
		}
		updated.Type = *in.Type
	}
	if in.ItemFormat != nil {
		updated.ItemFormat = *in.ItemFormat
	}
	if in.BooleanLabels != nil {
		updated.BooleanLabels = in.BooleanLabels
	}

	r.vars[idx] = updated
	return updated, previous, nil
}

// Delete removes a variable and returns it for structural cleanup
func (r *Registry) Delete(id string) (models.Variable, bool) {
	for i, v := range r.vars {
		if v.ID == id {
			r.vars = append(r.vars[:i], r.vars[i+1:]...)
			return v, true
		}
	}
	return models.Variable{}, false
}

// checkName rejects empty or malformed names and any name already used
// by a different variable. Uniqueness is checked after normalization,
// so it is effectively case-insensitive.
func (r *Registry) checkName(name, selfID string) error {
	if name == "" {
		return errors.InvalidNameError(name, "name is empty")
	}
	if !namePattern.MatchString(name) {
		return errors.InvalidNameError(name, "only lowercase letters, numbers and underscores are allowed")
	}
	for _, v := range r.vars {
		if v.ID != selfID && v.Name == name {
			return errors.DuplicateNameError(name)
		}
	}
	return nil
}
