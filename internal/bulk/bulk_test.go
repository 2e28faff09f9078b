package bulk

import (
	"reflect"
	"testing"

	"github.com/dpshade/format-weaver/internal/errors"
	"github.com/dpshade/format-weaver/internal/models"
)

func testVars() []models.Variable {
	return []models.Variable{
		{ID: "v1", Name: "guest_name", Type: models.TypeText},
		{ID: "v2", Name: "attending", Type: models.TypeBoolean},
		{ID: "v3", Name: "dishes", Type: models.TypeList},
	}
}

func testTable() models.CSVTable {
	return models.CSVTable{
		Headers: []string{"guest_name", "Attending", "dishes"},
		Rows: []map[string]string{
			{"guest_name": "Ada", "Attending": "yes", "dishes": "soup\nbread"},
			{"guest_name": "Grace", "Attending": "no", "dishes": ""},
		},
	}
}

func TestSuggestMappingExactMatch(t *testing.T) {
	mapping := SuggestMapping(testVars(), []string{"guest_name", "attending", "dishes"})
	want := models.Mapping{"guest_name": "guest_name", "attending": "attending", "dishes": "dishes"}
	if !reflect.DeepEqual(mapping, want) {
		t.Errorf("mapping = %v, want %v", mapping, want)
	}
}

func TestSuggestMappingLooseMatch(t *testing.T) {
	headers := []string{"Guest Name", "ATTENDING", "Dish_es"}
	mapping := SuggestMapping(testVars(), headers)

	if mapping["guest_name"] != "Guest Name" {
		t.Errorf("guest_name mapped to %q", mapping["guest_name"])
	}
	if mapping["attending"] != "ATTENDING" {
		t.Errorf("attending mapped to %q", mapping["attending"])
	}
	if mapping["dishes"] != "Dish_es" {
		t.Errorf("dishes mapped to %q", mapping["dishes"])
	}
}

func TestSuggestMappingPrefersExact(t *testing.T) {
	// Both headers loosely match; the exact one must win.
	vars := []models.Variable{{ID: "v1", Name: "guest_name", Type: models.TypeText}}
	mapping := SuggestMapping(vars, []string{"Guest Name", "guest_name"})
	if mapping["guest_name"] != "guest_name" {
		t.Errorf("mapped to %q, want exact header", mapping["guest_name"])
	}
}

func TestSuggestMappingLeavesUnmatched(t *testing.T) {
	vars := []models.Variable{{ID: "v1", Name: "guest_name", Type: models.TypeText}}
	mapping := SuggestMapping(vars, []string{"Email", "Phone"})
	if _, ok := mapping["guest_name"]; ok {
		t.Errorf("unexpected suggestion %q", mapping["guest_name"])
	}
}

func TestApplyMappingWithoutStagedImport(t *testing.T) {
	e := NewEngine()
	err := e.ApplyMapping(testVars(), models.Mapping{})
	if !errors.HasCode(err, errors.ErrCodeValidation) {
		t.Errorf("expected VALIDATION error, got %v", err)
	}
}

func TestApplyMappingRejectsMissingVariables(t *testing.T) {
	vars := []models.Variable{
		{ID: "v1", Name: "a", Type: models.TypeText},
		{ID: "v2", Name: "b", Type: models.TypeText},
	}
	e := NewEngine()
	e.Stage(models.CSVTable{Headers: []string{"a"}, Rows: []map[string]string{{"a": "1"}}})

	err := e.ApplyMapping(vars, models.Mapping{"a": "a"})
	if !errors.HasCode(err, errors.ErrCodeMappingIncomplete) {
		t.Fatalf("expected MAPPING_INCOMPLETE, got %v", err)
	}
	if missing := errors.MissingVariables(err); !reflect.DeepEqual(missing, []string{"b"}) {
		t.Errorf("missing = %v, want [b]", missing)
	}

	// A rejected commit changes nothing.
	if e.Active() {
		t.Error("engine entered bulk mode on rejected commit")
	}
	if e.Staged() == nil {
		t.Error("staged table dropped on rejected commit")
	}
}

func TestApplyMappingCommitsAndCoerces(t *testing.T) {
	e := NewEngine()
	e.Stage(testTable())

	mapping := models.Mapping{"guest_name": "guest_name", "attending": "Attending", "dishes": "dishes"}
	if err := e.ApplyMapping(testVars(), mapping); err != nil {
		t.Fatalf("ApplyMapping failed: %v", err)
	}

	if !e.Active() {
		t.Fatal("engine should be in bulk mode")
	}
	if e.Staged() != nil {
		t.Error("staged table should be cleared after commit")
	}
	if e.Len() != 2 {
		t.Fatalf("Len = %d, want 2", e.Len())
	}
	if e.Selected() != 0 {
		t.Errorf("Selected = %d, want 0", e.Selected())
	}

	first := e.Row(0)
	if first["guest_name"].Text() != "Ada" {
		t.Errorf("guest_name = %q", first["guest_name"].Text())
	}
	if !first["attending"].Bool() {
		t.Error("attending should coerce yes to true")
	}
	if !reflect.DeepEqual(first["dishes"].List(), []string{"soup", "bread"}) {
		t.Errorf("dishes = %#v", first["dishes"].List())
	}

	second := e.Row(1)
	if second["attending"].Bool() {
		t.Error("attending should coerce no to false")
	}
}

func TestApplyMappingMissingCellDefaults(t *testing.T) {
	vars := []models.Variable{{ID: "v1", Name: "x", Type: models.TypeBoolean}}
	e := NewEngine()
	e.Stage(models.CSVTable{
		Headers: []string{"col"},
		Rows:    []map[string]string{{}},
	})
	if err := e.ApplyMapping(vars, models.Mapping{"x": "col"}); err != nil {
		t.Fatal(err)
	}
	if e.Row(0)["x"].Bool() {
		t.Error("missing cell should seed the type default")
	}
}

func TestSelectClampsRange(t *testing.T) {
	e := committed(t)
	e.Select(5)
	if e.Selected() != 0 {
		t.Errorf("out-of-range select moved selection to %d", e.Selected())
	}
	e.Select(1)
	if e.Selected() != 1 {
		t.Errorf("Selected = %d, want 1", e.Selected())
	}
	e.Select(-1)
	if e.Selected() != 1 {
		t.Errorf("negative select moved selection to %d", e.Selected())
	}
}

func TestSetValueEditsOneRow(t *testing.T) {
	e := committed(t)
	e.SetValue(1, "guest_name", models.TextValue("Edith"))
	if got := e.Row(1)["guest_name"].Text(); got != "Edith" {
		t.Errorf("row 1 = %q", got)
	}
	if got := e.Row(0)["guest_name"].Text(); got != "Ada" {
		t.Errorf("row 0 changed to %q", got)
	}
}

func TestSeedRenameDeleteTouchEveryRow(t *testing.T) {
	e := committed(t)

	e.SeedVariable("note", models.TextValue(""))
	for i := 0; i < e.Len(); i++ {
		if _, ok := e.Row(i)["note"]; !ok {
			t.Errorf("row %d missing seeded value", i)
		}
	}

	e.RenameVariable("guest_name", "full_name")
	for i := 0; i < e.Len(); i++ {
		if _, ok := e.Row(i)["guest_name"]; ok {
			t.Errorf("row %d still has old key", i)
		}
		if _, ok := e.Row(i)["full_name"]; !ok {
			t.Errorf("row %d missing renamed key", i)
		}
	}
	// Values survive the rename.
	if got := e.Row(0)["full_name"].Text(); got != "Ada" {
		t.Errorf("value lost in rename: %q", got)
	}

	e.DeleteVariable("full_name")
	for i := 0; i < e.Len(); i++ {
		if _, ok := e.Row(i)["full_name"]; ok {
			t.Errorf("row %d still has deleted key", i)
		}
	}
}

func TestClear(t *testing.T) {
	e := committed(t)
	e.Clear()
	if e.Active() {
		t.Error("engine still active after Clear")
	}
	if e.Len() != 0 || e.Staged() != nil {
		t.Error("Clear left state behind")
	}
}

func TestOutputs(t *testing.T) {
	e := committed(t)
	outputs := e.Outputs(func(row models.Row) string {
		return "Hi " + row["guest_name"].Text()
	})
	want := []string{"Hi Ada", "Hi Grace"}
	if !reflect.DeepEqual(outputs, want) {
		t.Errorf("Outputs = %v, want %v", outputs, want)
	}
}

func committed(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine()
	e.Stage(testTable())
	mapping := models.Mapping{"guest_name": "guest_name", "attending": "Attending", "dishes": "dishes"}
	if err := e.ApplyMapping(testVars(), mapping); err != nil {
		t.Fatal(err)
	}
	return e
}
