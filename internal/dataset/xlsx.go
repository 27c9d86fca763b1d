package dataset

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// readSpreadsheet reads one sheet of a workbook; the first row is the header.
func readSpreadsheet(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	builder := newRowBuilder(rows[0])
	if len(builder.columns) == 0 {
		return nil, fmt.Errorf("sheet %q header row has no column names", sheet)
	}

	table := &Table{Columns: builder.columns, Rows: make([]Row, 0, len(rows)-1)}
	for _, record := range rows[1:] {
		table.Rows = append(table.Rows, builder.build(record))
	}
	return table, nil
}
