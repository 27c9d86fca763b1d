package dataset

import (
	"strings"
)

// naValues are the literals tabular exports write for a missing cell.
var naValues = map[string]struct{}{
	"nan":  {},
	"NaN":  {},
	"-nan": {},
	"-NaN": {},
	"NaT":  {},
	"nat":  {},
	"None": {},
	"none": {},
	"null": {},
	"NULL": {},
	"N/A":  {},
	"n/a":  {},
	"NA":   {},
	"<NA>": {},
	"#N/A": {},
	"#NA":  {},
}

// Row holds the present cells of one record keyed by column name. A
// missing cell has no key.
type Row map[string]string

// Get returns the trimmed cell value and whether it is present.
func (r Row) Get(column string) (string, bool) {
	v, ok := r[column]
	return v, ok
}

// Table is a parsed dataset: normalized column names in source order and
// one Row per record.
type Table struct {
	Path    string
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the source declared the column, even if every
// cell in it is missing.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// cell resolves a raw value to its trimmed form, or reports it missing.
func cell(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", false
	}
	if _, na := naValues[v]; na {
		return "", false
	}
	return v, true
}

func columnName(raw string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff")))
}

// rowBuilder maps positional records onto a header. Duplicate and unnamed
// header columns are skipped; the first occurrence of a name wins.
type rowBuilder struct {
	columns []string
	index   []int // position in source record -> position in columns, -1 to skip
}

func newRowBuilder(header []string) *rowBuilder {
	b := &rowBuilder{index: make([]int, len(header))}
	seen := make(map[string]bool, len(header))
	for i, raw := range header {
		name := columnName(raw)
		if name == "" || seen[name] {
			b.index[i] = -1
			continue
		}
		seen[name] = true
		b.index[i] = len(b.columns)
		b.columns = append(b.columns, name)
	}
	return b
}

func (b *rowBuilder) build(record []string) Row {
	row := make(Row, len(b.columns))
	for i, raw := range record {
		if i >= len(b.index) || b.index[i] < 0 {
			continue
		}
		if v, ok := cell(raw); ok {
			row[b.columns[b.index[i]]] = v
		}
	}
	return row
}
