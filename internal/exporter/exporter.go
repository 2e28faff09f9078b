// Package exporter turns rendered bulk outputs into export artifacts:
// an aggregate clipboard text, a CSV with the rendered output appended
// as a column, or a ZIP bundle of per-row text files. These are plain
// folds over the per-row outputs; no substitution logic lives here.
package exporter

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dpshade/format-weaver/internal/clipboard"
	apperrors "github.com/dpshade/format-weaver/internal/errors"
	"github.com/dpshade/format-weaver/internal/models"
)

// OutputColumn is the CSV column name carrying each row's rendered text
const OutputColumn = "weaved_output"

// Default artifact names offered by the CLI
const (
	ZipFileName = "format-weaver-outputs.zip"
	CSVFileName = "format-weaver-export.csv"
)

// rowSeparator divides per-row outputs in the aggregate clipboard text
const rowSeparator = "\n\n---\n\n"

// AggregateText joins every row's output into one clipboard-ready blob
func AggregateText(outputs []string) string {
	var b []byte
	for i, out := range outputs {
		if i > 0 {
			b = append(b, rowSeparator...)
		}
		b = append(b, out...)
	}
	return string(b)
}

// CopyAll places the aggregate text on the system clipboard
func CopyAll(outputs []string) (string, error) {
	return clipboard.CopyWithFallback(AggregateText(outputs))
}

// WriteCSV writes one record per row: the row's value for every
// variable in registry order, then the rendered output in the
// OutputColumn. Values are stringified the same way the editing form
// displays them.
func WriteCSV(w io.Writer, vars []models.Variable, rows []models.Row, outputs []string) error {
	if len(rows) != len(outputs) {
		return apperrors.InternalError(fmt.Sprintf("row/output count mismatch: %d vs %d", len(rows), len(outputs)))
	}

	writer := csv.NewWriter(w)

	header := make([]string, 0, len(vars)+1)
	for _, v := range vars {
		header = append(header, v.Name)
	}
	header = append(header, OutputColumn)
	if err := writer.Write(header); err != nil {
		return apperrors.StorageError("write CSV header", err)
	}

	for i, row := range rows {
		record := make([]string, 0, len(vars)+1)
		for _, v := range vars {
			record = append(record, row[v.Name].Display())
		}
		record = append(record, outputs[i])
		if err := writer.Write(record); err != nil {
			return apperrors.StorageError("write CSV record", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.StorageError("flush CSV", err)
	}
	return nil
}

// WriteZip bundles every output as output_row_N.txt (1-based, matching
// the row order the user saw).
func WriteZip(w io.Writer, outputs []string) error {
	archive := zip.NewWriter(w)
	for i, out := range outputs {
		f, err := archive.Create(fmt.Sprintf("output_row_%d.txt", i+1))
		if err != nil {
			return apperrors.StorageError("create ZIP entry", err)
		}
		if _, err := f.Write([]byte(out)); err != nil {
			return apperrors.StorageError("write ZIP entry", err)
		}
	}
	if err := archive.Close(); err != nil {
		return apperrors.StorageError("finalize ZIP", err)
	}
	return nil
}
