// Package importer parses external data files into the row-record
// shapes the bulk engine accepts. Parsing is a single request/response
// step: it either yields a complete table or fails with a parse error;
// no partial rows ever reach the render layer.
package importer

import (
	"encoding/csv"
	"io"
	"os"

	apperrors "github.com/dpshade/format-weaver/internal/errors"
	"github.com/dpshade/format-weaver/internal/models"
)

// ParseCSV reads an entire CSV document: the first record is the
// header row, every following record becomes a header-keyed map.
// Records whose cells are all empty are skipped. Ragged records are
// tolerated; missing cells are simply absent from the row map.
func ParseCSV(r io.Reader) (models.CSVTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return models.CSVTable{}, apperrors.ParseError(err)
	}
	if len(records) == 0 {
		return models.CSVTable{}, apperrors.ParseError(io.ErrUnexpectedEOF).
			WithDetails("file contains no header row")
	}

	headers := records[0]
	table := models.CSVTable{Headers: headers}
	for _, record := range records[1:] {
		if allEmpty(record) {
			continue
		}
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// ParseCSVFile parses a CSV document from disk
func ParseCSVFile(path string) (models.CSVTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.CSVTable{}, apperrors.Wrap(err, apperrors.ErrCodeFileNotFound, "failed to open CSV file")
	}
	defer f.Close()
	return ParseCSV(f)
}

func allEmpty(record []string) bool {
	for _, cell := range record {
		if cell != "" {
			return false
		}
	}
	return true
}
