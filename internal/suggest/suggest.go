// Package suggest defines the boundary to AI-assist collaborators.
// The engine never calls a model itself; it accepts suggestion and
// generation outputs through the same variable-creation API manual
// edits use, after filtering out proposals that no longer match the
// template text.
package suggest

import (
	"context"
	"regexp"
	"strings"

	"github.com/dpshade/format-weaver/internal/models"
)

// Suggester proposes variables for a flattened template string. It is
// implemented by an external service adapter; a newer request
// supersedes an older in-flight one, so implementations should honor
// ctx cancellation but callers simply discard stale results.
type Suggester interface {
	SuggestVariables(ctx context.Context, templateString string) ([]models.AISuggestion, error)
}

// Generator produces free text for a prompt, used to fill a single
// field or to generate a whole placeholder template.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	GenerateTemplate(ctx context.Context, prompt string) (models.GeneratedTemplate, error)
}

// Filter keeps only the suggestions whose original text still occurs
// in the template string. Models occasionally propose spans that were
// edited away between request and response.
func Filter(suggestions []models.AISuggestion, templateString string) []models.AISuggestion {
	var kept []models.AISuggestion
	for _, s := range suggestions {
		if s.OriginalText != "" && strings.Contains(templateString, s.OriginalText) {
			kept = append(kept, s)
		}
	}
	return kept
}

var bulletPrefix = regexp.MustCompile(`^(-|\*|\d+\.)\s*`)

// CleanListItems splits generated text into list items, stripping
// bullet markers and blank lines.
func CleanListItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		item := strings.TrimSpace(bulletPrefix.ReplaceAllString(strings.TrimSpace(line), ""))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
