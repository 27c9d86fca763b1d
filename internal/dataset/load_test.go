package dataset_test

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/knowledge-engine/querylens/internal/dataset"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "news.csv", "\ufeffTitle,Description,Category,URL\n"+
		"Stock market rallies,Shares up,business,https://example.com/a\n"+
		"\"Election, results\",,  politics  ,NaN\n"+
		"short row\n")

	table, err := dataset.Load(path, dataset.Options{})
	require.NoError(t, err)

	assert.Equal(t, path, table.Path)
	assert.Equal(t, []string{"title", "description", "category", "url"}, table.Columns)
	require.Len(t, table.Rows, 3)

	title, ok := table.Rows[1].Get("title")
	assert.True(t, ok)
	assert.Equal(t, "Election, results", title)

	_, ok = table.Rows[1].Get("description")
	assert.False(t, ok, "empty cell is missing")
	_, ok = table.Rows[1].Get("url")
	assert.False(t, ok, "NaN literal is missing")

	category, _ := table.Rows[1].Get("category")
	assert.Equal(t, "politics", category)

	_, ok = table.Rows[2].Get("category")
	assert.False(t, ok)
}

func TestLoadTSVAndCustomDelimiter(t *testing.T) {
	tsv := writeFile(t, "news.tsv", "title\tcategory\nmarket news\tbusiness\n")
	table, err := dataset.Load(tsv, dataset.Options{})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	category, _ := table.Rows[0].Get("category")
	assert.Equal(t, "business", category)

	semi := writeFile(t, "news.csv", "title;category\nmarket news;business\n")
	table, err = dataset.Load(semi, dataset.Options{Delimiter: ';'})
	require.NoError(t, err)
	title, _ := table.Rows[0].Get("title")
	assert.Equal(t, "market news", title)
}

func TestLoadSpreadsheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"title", "content", "category"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Stock market rallies", "Shares rose today", "business"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"Election results", "", "politics"}))
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Other", "A1", &[]any{"description"}))
	require.NoError(t, f.SetSheetRow("Other", "A2", &[]any{"from the other sheet"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := dataset.Load(path, dataset.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "content", "category"}, table.Columns)
	require.Len(t, table.Rows, 2)
	_, ok := table.Rows[1].Get("content")
	assert.False(t, ok)

	table, err = dataset.Load(path, dataset.Options{Sheet: "Other"})
	require.NoError(t, err)
	desc, _ := table.Rows[0].Get("description")
	assert.Equal(t, "from the other sheet", desc)

	_, err = dataset.Load(path, dataset.Options{Sheet: "Missing"})
	assert.ErrorIs(t, err, dataset.ErrDatasetLoad)
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE articles (title TEXT, description TEXT, category TEXT, views INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO articles VALUES ('Market news', NULL, 'business', 42), ('Election', 'Votes counted', NULL, NULL)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	table, err := dataset.Load(path, dataset.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "description", "category", "views"}, table.Columns)
	require.Len(t, table.Rows, 2)

	views, _ := table.Rows[0].Get("views")
	assert.Equal(t, "42", views)
	_, ok := table.Rows[0].Get("description")
	assert.False(t, ok)
	_, ok = table.Rows[1].Get("category")
	assert.False(t, ok)

	_, err = dataset.Load(path, dataset.Options{Table: "missing"})
	assert.ErrorIs(t, err, dataset.ErrDatasetLoad)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "news.json", `[
		{"title": "Market news", "category": "business", "score": 3},
		{"title": "Election", "url": "https://example.com/e", "category": null}
	]`)

	table, err := dataset.Load(path, dataset.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"category", "score", "title", "url"}, table.Columns)
	require.Len(t, table.Rows, 2)

	score, _ := table.Rows[0].Get("score")
	assert.Equal(t, "3", score)
	_, ok := table.Rows[1].Get("category")
	assert.False(t, ok)
}

func TestLoadJSONLines(t *testing.T) {
	path := writeFile(t, "news.jsonl", "{\"title\": \"one\"}\n\n{\"title\": \"two\"}")

	table, err := dataset.Load(path, dataset.Options{})
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	title, _ := table.Rows[1].Get("title")
	assert.Equal(t, "two", title)

	bad := writeFile(t, "bad.jsonl", "{\"title\": \"one\"}\nnot json\n")
	_, err = dataset.Load(bad, dataset.Options{})
	assert.ErrorIs(t, err, dataset.ErrDatasetLoad)
}

func TestLoadJSONDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte(`{"Title": "second", "URL": "https://b"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(`{"Title": "first"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored"), 0o644))

	table, err := dataset.Load(dir, dataset.Options{})
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	first, _ := table.Rows[0].Get("title")
	assert.Equal(t, "first", first)
	url, _ := table.Rows[1].Get("url")
	assert.Equal(t, "https://b", url)

	_, err = dataset.Load(t.TempDir(), dataset.Options{})
	assert.ErrorIs(t, err, dataset.ErrDatasetLoad)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "missing.csv")},
		{"unsupported extension", writeFile(t, "news.parquet", "data")},
		{"legacy xls workbook", writeFile(t, "news.xls", "\xd0\xcf\x11\xe0")},
		{"empty csv", writeFile(t, "empty.csv", "")},
		{"broken spreadsheet", writeFile(t, "broken.xlsx", "not a zip")},
		{"broken json", writeFile(t, "broken.json", "{")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dataset.Load(tt.path, dataset.Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, dataset.ErrDatasetLoad)
			assert.NotErrorIs(t, err, dataset.ErrDatasetFormat)

			var le *dataset.LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tt.path, le.Path)
		})
	}
}
