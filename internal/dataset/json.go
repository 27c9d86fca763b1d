package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// readJSONFile reads a JSON array of article objects.
func readJSONFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var objects []map[string]any
	if err := decodeJSON(data, &objects); err != nil {
		return nil, fmt.Errorf("failed to unmarshal articles: %w", err)
	}
	return objectTable(objects), nil
}

// readJSONLines reads one article object per line.
func readJSONLines(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var objects []map[string]any
	reader := bufio.NewReader(f)
	for line := 1; ; line++ {
		raw, err := reader.ReadBytes('\n')
		if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 {
			var obj map[string]any
			if derr := decodeJSON(trimmed, &obj); derr != nil {
				return nil, fmt.Errorf("line %d: %w", line, derr)
			}
			objects = append(objects, obj)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
	}
	return objectTable(objects), nil
}

// readJSONDir reads a directory in which every *.json file holds one
// article object. Files are read in name order.
func readJSONDir(dir string) (*Table, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var objects []map[string]any
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file.Name(), err)
		}

		var obj map[string]any
		if err := decodeJSON(data, &obj); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", file.Name(), err)
		}
		objects = append(objects, obj)
	}

	if len(objects) == 0 {
		return nil, errors.New("directory contains no JSON article files")
	}
	return objectTable(objects), nil
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// objectTable lays objects out on the sorted union of their keys.
func objectTable(objects []map[string]any) *Table {
	keys := make(map[string]bool)
	for _, obj := range objects {
		for k := range obj {
			keys[k] = true
		}
	}
	header := make([]string, 0, len(keys))
	for k := range keys {
		header = append(header, k)
	}
	sort.Strings(header)

	builder := newRowBuilder(header)
	table := &Table{Columns: builder.columns, Rows: make([]Row, 0, len(objects))}
	record := make([]string, len(header))
	for _, obj := range objects {
		for i, k := range header {
			record[i] = jsonString(obj[k])
		}
		table.Rows = append(table.Rows, builder.build(record))
	}
	return table
}

func jsonString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
