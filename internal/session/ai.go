package session

import (
	"log/slog"

	"github.com/dpshade/format-weaver/internal/models"
	"github.com/dpshade/format-weaver/internal/registry"
	"github.com/dpshade/format-weaver/internal/tokens"
)

// ApplySuggestions creates a variable for each accepted AI suggestion
// through the same path manual selections use: the suggestion's
// original text becomes the selection, and the first literal occurrence
// gets spliced. Suggestions that fail validation (duplicate or invalid
// name) are skipped and logged; the rest still apply.
func (s *Session) ApplySuggestions(suggestions []models.AISuggestion) []models.Variable {
	var created []models.Variable
	for _, sugg := range suggestions {
		v, err := s.CreateVariable(
			models.Selection{Text: sugg.OriginalText},
			registry.CreateInput{Name: sugg.Name, Type: sugg.Type},
		)
		if err != nil {
			slog.Warn("skipping AI suggestion", "name", sugg.Name, "error", err)
			continue
		}
		created = append(created, v)
	}
	return created
}

// LoadGenerated replaces the session with an AI-generated template:
// the variables are registered first (lists get a bulleted item
// format, booleans get Yes/No labels), then the placeholder text is
// parsed into tokens against them. Placeholders naming no variable
// stay literal.
func (s *Session) LoadGenerated(gen models.GeneratedTemplate) error {
	s.Reset("")

	for _, sugg := range gen.Variables {
		in := registry.CreateInput{
			Name:         sugg.Name,
			Type:         sugg.Type,
			OriginalText: sugg.OriginalText,
		}
		switch sugg.Type {
		case models.TypeList:
			in.ItemFormat = "- " + models.ItemPlaceholder
		case models.TypeBoolean:
			in.BooleanLabels = &models.BooleanLabels{True: "Yes", False: "No"}
		}
		if _, err := s.reg.Create(in); err != nil {
			s.Reset("")
			return err
		}
	}

	s.seq = tokens.Parse(gen.TemplateString, s.reg.Variables())
	s.reseedForm()
	return nil
}
