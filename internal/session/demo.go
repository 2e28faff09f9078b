package session

import (
	"github.com/dpshade/format-weaver/internal/models"
	"github.com/dpshade/format-weaver/internal/registry"
	"github.com/dpshade/format-weaver/internal/tokens"
)

const demoTemplate = "Project Update: {{project_name}}\n" +
	"Report Date: {{report_date}}\n" +
	"Prepared by: {{prepared_by}}\n" +
	"Status: {{is_final_report}}\n\n" +
	"Key Accomplishments:\n{{key_accomplishments}}"

// LoadDemo seeds the session with a small status-report template so a
// new user has something to explore.
func (s *Session) LoadDemo() {
	s.Reset("")

	demoVars := []registry.CreateInput{
		{Name: "project_name", Type: models.TypeText, OriginalText: "Q4 Social Media Push"},
		{Name: "report_date", Type: models.TypeDate, OriginalText: "January 15, 2024"},
		{Name: "prepared_by", Type: models.TypeText, OriginalText: "Bob Williams"},
		{
			Name:          "is_final_report",
			Type:          models.TypeBoolean,
			OriginalText:  "Final",
			BooleanLabels: &models.BooleanLabels{True: "Final", False: "Draft"},
		},
		{
			Name:         "key_accomplishments",
			Type:         models.TypeList,
			OriginalText: "- Finalized content calendar for Instagram.\n- Ran A/B tests on Twitter ad copy.\n- Grew follower count by 5%.",
			ItemFormat:   "- " + models.ItemPlaceholder,
		},
	}
	for _, in := range demoVars {
		// Names are fixed and valid; errors cannot happen here.
		s.reg.Create(in)
	}

	s.seq = tokens.Parse(demoTemplate, s.reg.Variables())

	s.form = models.Row{
		"project_name":    models.TextValue("Q4 Social Media Push"),
		"report_date":     models.TextValue("2024-01-15"),
		"prepared_by":     models.TextValue("Bob Williams"),
		"is_final_report": models.BoolValue(true),
		"key_accomplishments": models.ListValue([]string{
			"Finalized content calendar for Instagram.",
			"Ran A/B tests on Twitter ad copy.",
			"Grew follower count by 5%.",
		}),
	}
}
