package models

// AISuggestion is a variable proposal produced by the AI-assist
// boundary. It carries the same shape as manual variable creation and
// enters the engine through the same path.
type AISuggestion struct {
	Name         string       `json:"name"`
	Type         VariableType `json:"type"`
	OriginalText string       `json:"originalText"`
}

// GeneratedTemplate is the structured response of an AI template
// generation call: placeholder text plus the variables its
// placeholders refer to.
type GeneratedTemplate struct {
	TemplateString string         `json:"templateString"`
	Variables      []AISuggestion `json:"variables"`
}
