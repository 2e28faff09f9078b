package session

import (
	"github.com/dpshade/format-weaver/internal/bulk"
	"github.com/dpshade/format-weaver/internal/models"
)

// StageImport parks a parsed CSV table and returns the suggested
// column mapping for the current variables. Nothing is committed until
// ApplyMapping succeeds; variables absent from the suggestion must be
// mapped manually.
func (s *Session) StageImport(table models.CSVTable) models.Mapping {
	s.bulk.Stage(table)
	return bulk.SuggestMapping(s.reg.Variables(), table.Headers)
}

// StagedImport returns the table awaiting a mapping, or nil
func (s *Session) StagedImport() *models.CSVTable {
	return s.bulk.Staged()
}

// DiscardImport abandons a staged import without committing
func (s *Session) DiscardImport() {
	s.bulk.DiscardStaged()
}

// ApplyMapping commits the staged import, entering bulk mode. The
// mapping must cover every variable; otherwise the commit is rejected
// with the enumerated missing names and the session stays as it was.
func (s *Session) ApplyMapping(mapping models.Mapping) error {
	return s.bulk.ApplyMapping(s.reg.Variables(), mapping)
}

// ClearBulk leaves bulk mode and reseeds single-row form state with
// each variable's default value. Bulk row data is discarded from the
// editing view.
func (s *Session) ClearBulk() {
	s.bulk.Clear()
	s.reseedForm()
}

// Rows returns the committed bulk rows in stable order
func (s *Session) Rows() []models.Row {
	return s.bulk.Rows()
}

// RowCount returns the number of committed bulk rows
func (s *Session) RowCount() int {
	return s.bulk.Len()
}

// SelectedRow returns the index of the bulk row being edited
func (s *Session) SelectedRow() int {
	return s.bulk.Selected()
}

// SelectRow moves the bulk row selection; out-of-range indices are
// ignored.
func (s *Session) SelectRow(i int) {
	s.bulk.Select(i)
}

// Outputs renders every bulk row in stable order. All export surfaces
// fold over this so substitution logic lives in one place.
func (s *Session) Outputs() []string {
	return s.bulk.Outputs(s.OutputForRow)
}
