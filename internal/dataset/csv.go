package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

func readDelimitedFile(path string, delimiter rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return readDelimited(f, delimiter)
}

func readDelimited(r io.Reader, delimiter rune) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	builder := newRowBuilder(header)
	if len(builder.columns) == 0 {
		return nil, errors.New("header row has no column names")
	}

	table := &Table{Columns: builder.columns}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse record: %w", err)
		}
		table.Rows = append(table.Rows, builder.build(record))
	}
	return table, nil
}
