package models

// CSVTable is the parsed form of an imported CSV file: the header row
// in file order plus one string record per data row. It is the shape
// handed from the importer to the bulk engine; no typing has happened
// yet at this point.
type CSVTable struct {
	Headers []string
	Rows    []map[string]string
}

// Mapping associates each variable name with the CSV header whose
// column supplies its values.
type Mapping map[string]string
