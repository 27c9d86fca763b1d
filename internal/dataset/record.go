package dataset

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// TextColumns are the text fields concatenated into a record's raw text,
// in priority order.
var TextColumns = []string{"full_content", "content", "description", "title"}

// imageColumns are consulted in order; the first declared column is used.
var imageColumns = []string{"url_to_image", "image_url"}

const (
	// DefaultCategory is assigned when a record has no category.
	DefaultCategory = "Unknown"

	SnippetLength = 500
	TitleLength   = 80

	PublishedLayout = "2006-01-02 15:04"
)

// Record is one corpus row with every field resolved to a concrete value.
type Record struct {
	Title       string
	Category    string
	RawText     string
	Snippet     string
	URL         string
	ImageURL    string
	PublishedAt string
}

// Records derives a Record per table row. It fails with a FormatError when
// the table declares none of the TextColumns.
func Records(t *Table) ([]Record, error) {
	textColumns := make([]string, 0, len(TextColumns))
	for _, c := range TextColumns {
		if t.HasColumn(c) {
			textColumns = append(textColumns, c)
		}
	}
	if len(textColumns) == 0 {
		return nil, &FormatError{Path: t.Path, Columns: t.Columns}
	}

	imageColumn := ""
	for _, c := range imageColumns {
		if t.HasColumn(c) {
			imageColumn = c
			break
		}
	}

	records := make([]Record, len(t.Rows))
	for i, row := range t.Rows {
		records[i] = newRecord(row, textColumns, imageColumn)
	}
	return records, nil
}

// ReadRecords is Load followed by Records.
func ReadRecords(path string, opts Options) ([]Record, error) {
	table, err := Load(path, opts)
	if err != nil {
		return nil, err
	}
	return Records(table)
}

func newRecord(row Row, textColumns []string, imageColumn string) Record {
	parts := make([]string, 0, len(textColumns))
	for _, c := range textColumns {
		if v, ok := row.Get(c); ok {
			parts = append(parts, v)
		}
	}
	raw := strings.Join(parts, " ")

	rec := Record{
		RawText:  raw,
		Snippet:  truncate(raw, SnippetLength),
		Category: DefaultCategory,
	}

	if title, ok := row.Get("title"); ok {
		rec.Title = title
	} else {
		rec.Title = truncate(rec.Snippet, TitleLength)
	}
	if category, ok := row.Get("category"); ok {
		rec.Category = category
	}
	if url, ok := row.Get("url"); ok {
		rec.URL = url
	}
	if imageColumn != "" {
		rec.ImageURL, _ = row.Get(imageColumn)
	}
	if published, ok := row.Get("published_at"); ok {
		rec.PublishedAt = FormatPublished(published)
	}
	return rec
}

// FormatPublished renders a timestamp as "YYYY-MM-DD HH:MM". Values without
// a zone are read as UTC. Unparseable input yields "".
func FormatPublished(raw string) string {
	ts, err := dateparse.ParseIn(strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return ""
	}
	return ts.Format(PublishedLayout)
}

// truncate returns the first n characters of s.
func truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
