package session

import (
	"reflect"
	"testing"

	"github.com/dpshade/format-weaver/internal/errors"
	"github.com/dpshade/format-weaver/internal/models"
	"github.com/dpshade/format-weaver/internal/registry"
)

func TestNewSessionIsEmpty(t *testing.T) {
	s := New()
	if s.Mode() != ModeEmpty {
		t.Errorf("Mode = %v, want ModeEmpty", s.Mode())
	}
	if s.TemplateString() != "" {
		t.Errorf("TemplateString = %q, want empty", s.TemplateString())
	}
}

func TestCreateVariable(t *testing.T) {
	s := New()
	s.Reset("Hello Alice, welcome!")

	v, err := s.CreateVariable(
		models.Selection{Text: "Alice"},
		registry.CreateInput{Name: "Guest Name", Type: models.TypeText},
	)
	if err != nil {
		t.Fatalf("CreateVariable failed: %v", err)
	}
	if v.Name != "guest_name" {
		t.Errorf("name = %q", v.Name)
	}
	if v.OriginalText != "Alice" {
		t.Errorf("original text = %q, want selection text", v.OriginalText)
	}
	if got := s.TemplateString(); got != "Hello {{guest_name}}, welcome!" {
		t.Errorf("TemplateString = %q", got)
	}
	if s.Mode() != ModeSingleRow {
		t.Errorf("Mode = %v, want ModeSingleRow", s.Mode())
	}
	// The form is seeded with the type default.
	if got := s.ActiveRow()["guest_name"]; got.Text() != "" {
		t.Errorf("seeded value = %q, want empty", got.Text())
	}
}

func TestCreateVariableRejectsUnusableSelection(t *testing.T) {
	s := New()
	s.Reset("Hello {{x}} there")

	tests := []string{"", "   ", "{{x}}", "lo {{x"}
	for _, text := range tests {
		_, err := s.CreateVariable(
			models.Selection{Text: text},
			registry.CreateInput{Name: "v", Type: models.TypeText},
		)
		if !errors.HasCode(err, errors.ErrCodeValidation) {
			t.Errorf("selection %q: expected VALIDATION error, got %v", text, err)
		}
	}
}

func TestCreateVariableStaleSelectionStillRegisters(t *testing.T) {
	s := New()
	s.Reset("Hello world")

	v, err := s.CreateVariable(
		models.Selection{Text: "vanished"},
		registry.CreateInput{Name: "ghost", Type: models.TypeText},
	)
	if err != nil {
		t.Fatalf("CreateVariable failed: %v", err)
	}
	// The variable exists even though no token was spliced.
	if _, ok := s.Variable(v.ID); !ok {
		t.Error("variable not registered")
	}
	if got := s.TemplateString(); got != "Hello world" {
		t.Errorf("template changed: %q", got)
	}
}

func TestRenamePropagates(t *testing.T) {
	s := New()
	s.Reset("Hi Alice")
	v, _ := s.CreateVariable(models.Selection{Text: "Alice"}, registry.CreateInput{Name: "old_name", Type: models.TypeText})
	s.SetValue("old_name", "kept value")

	newName := "new_name"
	if _, err := s.UpdateVariable(v.ID, registry.UpdateInput{Name: &newName}); err != nil {
		t.Fatalf("UpdateVariable failed: %v", err)
	}

	if got := s.TemplateString(); got != "Hi {{new_name}}" {
		t.Errorf("TemplateString = %q", got)
	}
	row := s.ActiveRow()
	if _, ok := row["old_name"]; ok {
		t.Error("old key survived rename")
	}
	if got := row["new_name"].Text(); got != "kept value" {
		t.Errorf("value after rename = %q, want %q", got, "kept value")
	}
}

func TestRetypeDiscardsValue(t *testing.T) {
	s := New()
	s.Reset("Items: stuff")
	v, _ := s.CreateVariable(models.Selection{Text: "stuff"}, registry.CreateInput{Name: "items", Type: models.TypeText})
	s.SetValue("items", "some text")

	newType := models.TypeList
	if _, err := s.UpdateVariable(v.ID, registry.UpdateInput{Type: &newType}); err != nil {
		t.Fatalf("UpdateVariable failed: %v", err)
	}

	got := s.ActiveRow()["items"]
	if got.Kind() != models.ValueList {
		t.Fatalf("value kind = %v, want list", got.Kind())
	}
	if len(got.List()) != 0 {
		t.Errorf("retype should reseed the empty default, got %#v", got.List())
	}
}

func TestDeleteVariableRestoresText(t *testing.T) {
	s := New()
	s.Reset("Hello Alice!")
	v, _ := s.CreateVariable(models.Selection{Text: "Alice"}, registry.CreateInput{Name: "guest", Type: models.TypeText})

	if err := s.DeleteVariable(v.ID); err != nil {
		t.Fatalf("DeleteVariable failed: %v", err)
	}
	if got := s.TemplateString(); got != "Hello Alice!" {
		t.Errorf("TemplateString = %q, want restored text", got)
	}
	if s.Mode() != ModeEmpty {
		t.Errorf("Mode = %v, want ModeEmpty", s.Mode())
	}
	if _, ok := s.ActiveRow()["guest"]; ok {
		t.Error("form value survived delete")
	}
}

func TestDeleteThenRecreateMintsFreshID(t *testing.T) {
	s := New()
	s.Reset("Hello Alice!")
	v1, _ := s.CreateVariable(models.Selection{Text: "Alice"}, registry.CreateInput{Name: "guest", Type: models.TypeText})
	s.DeleteVariable(v1.ID)

	v2, err := s.CreateVariable(models.Selection{Text: "Alice"}, registry.CreateInput{Name: "guest", Type: models.TypeText})
	if err != nil {
		t.Fatalf("re-create failed: %v", err)
	}
	if v2.ID == v1.ID {
		t.Error("expected a fresh ID after delete and re-create")
	}
	if got := s.TemplateString(); got != "Hello {{guest}}!" {
		t.Errorf("TemplateString = %q", got)
	}
}

func TestOutputSingleRow(t *testing.T) {
	s := New()
	s.Reset("Dear Alice, bring soup.")
	s.CreateVariable(models.Selection{Text: "Alice"}, registry.CreateInput{Name: "guest", Type: models.TypeText})
	s.CreateVariable(models.Selection{Text: "soup"}, registry.CreateInput{Name: "dish", Type: models.TypeText})

	s.SetValue("guest", "Grace")
	s.SetValue("dish", "bread")

	if got := s.Output(); got != "Dear Grace, bring bread." {
		t.Errorf("Output = %q", got)
	}
}

func TestBulkLifecycle(t *testing.T) {
	s := New()
	s.Reset("Hi Alice")
	s.CreateVariable(models.Selection{Text: "Alice"}, registry.CreateInput{Name: "guest", Type: models.TypeText})

	table := models.CSVTable{
		Headers: []string{"Guest"},
		Rows: []map[string]string{
			{"Guest": "Ada"},
			{"Guest": "Grace"},
		},
	}
	mapping := s.StageImport(table)
	if mapping["guest"] != "Guest" {
		t.Fatalf("suggested mapping = %v", mapping)
	}
	if s.Mode() != ModeSingleRow {
		t.Error("staging alone must not enter bulk mode")
	}

	if err := s.ApplyMapping(mapping); err != nil {
		t.Fatalf("ApplyMapping failed: %v", err)
	}
	if s.Mode() != ModeBulkRows {
		t.Errorf("Mode = %v, want ModeBulkRows", s.Mode())
	}
	if got := s.Outputs(); !reflect.DeepEqual(got, []string{"Hi Ada", "Hi Grace"}) {
		t.Errorf("Outputs = %v", got)
	}

	// SetValue edits the selected row only.
	s.SelectRow(1)
	s.SetValue("guest", "Edith")
	if got := s.Outputs(); !reflect.DeepEqual(got, []string{"Hi Ada", "Hi Edith"}) {
		t.Errorf("Outputs after edit = %v", got)
	}

	s.ClearBulk()
	if s.Mode() != ModeSingleRow {
		t.Errorf("Mode = %v after ClearBulk, want ModeSingleRow", s.Mode())
	}
	if got := s.ActiveRow()["guest"].Text(); got != "" {
		t.Errorf("form should be reseeded with defaults, got %q", got)
	}
}

func TestDeletePropagatesToBulkRows(t *testing.T) {
	s := New()
	s.Reset("Hi Alice from Paris")
	guest, _ := s.CreateVariable(models.Selection{Text: "Alice"}, registry.CreateInput{Name: "guest", Type: models.TypeText})
	s.CreateVariable(models.Selection{Text: "Paris"}, registry.CreateInput{Name: "city", Type: models.TypeText})

	table := models.CSVTable{
		Headers: []string{"guest", "city"},
		Rows:    []map[string]string{{"guest": "Ada", "city": "London"}},
	}
	if err := s.ApplyMapping(s.StageImport(table)); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteVariable(guest.ID); err != nil {
		t.Fatal(err)
	}
	// Rows stay, only the deleted variable's values are gone.
	if s.Mode() != ModeBulkRows {
		t.Errorf("Mode = %v, want ModeBulkRows", s.Mode())
	}
	row := s.Rows()[0]
	if _, ok := row["guest"]; ok {
		t.Error("deleted variable value survived in bulk row")
	}
	if got := row["city"].Text(); got != "London" {
		t.Errorf("city = %q", got)
	}
	if got := s.Outputs()[0]; got != "Hi Alice from London" {
		t.Errorf("output = %q", got)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	s := New()
	s.Reset("Hi Alice")
	s.CreateVariable(models.Selection{Text: "Alice"}, registry.CreateInput{Name: "guest", Type: models.TypeText})
	s.SetValue("guest", "Grace")

	seq, vars := s.Snapshot()
	saved := models.SavedTemplate{ID: "t1", Name: "greeting", Tokens: seq, Variables: vars}

	loaded := New()
	loaded.Load(saved)
	if got := loaded.TemplateString(); got != "Hi {{guest}}" {
		t.Errorf("TemplateString = %q", got)
	}
	// Row values are never persisted; defaults come back.
	if got := loaded.ActiveRow()["guest"].Text(); got != "" {
		t.Errorf("loaded form value = %q, want default", got)
	}
}

func TestSetValueUnknownVariable(t *testing.T) {
	s := New()
	err := s.SetValue("missing", "x")
	if !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
