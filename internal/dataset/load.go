// Package dataset reads the article corpus from delimited text,
// spreadsheets, SQLite databases or JSON files, and derives the records the
// search index is built from.
package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Options tunes source-specific parsing. The zero value is usable.
type Options struct {
	// Sheet names the spreadsheet sheet; empty selects the first one.
	Sheet string
	// Table names the SQLite table; empty selects "articles".
	Table string
	// Delimiter separates fields in delimited text; zero selects ','.
	Delimiter rune
}

const defaultTable = "articles"

// Load reads the dataset at path. The reader is chosen by extension; a
// directory is read as a set of JSON article files.
func Load(path string, opts Options) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, loadErr(path, "file does not exist")
		}
		return nil, &LoadError{Path: path, Err: err}
	}

	var table *Table
	if info.IsDir() {
		table, err = readJSONDir(path)
	} else {
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".csv", ".txt":
			table, err = readDelimitedFile(path, opts.delimiter())
		case ".tsv":
			table, err = readDelimitedFile(path, '\t')
		case ".xlsx", ".xlsm":
			table, err = readSpreadsheet(path, opts.Sheet)
		case ".db", ".sqlite", ".sqlite3":
			table, err = readSQLite(path, opts.table())
		case ".json":
			table, err = readJSONFile(path)
		case ".jsonl", ".ndjson":
			table, err = readJSONLines(path)
		default:
			return nil, loadErr(path, "unsupported dataset format: %q", ext)
		}
	}
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return nil, err
		}
		return nil, &LoadError{Path: path, Err: err}
	}

	table.Path = path
	return table, nil
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

func (o Options) table() string {
	if o.Table == "" {
		return defaultTable
	}
	return o.Table
}
