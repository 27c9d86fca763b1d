package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-engine/querylens/internal/config"
	"github.com/knowledge-engine/querylens/internal/dataset"
)

const newsCSV = `title,category,content,url
Stocks climb,business,stock market rallies today,https://example.com/1
Vote count,politics,election results announced,https://example.com/2
Rules tighten,business,market regulation news,https://example.com/3
`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "news.csv")
	require.NoError(t, os.WriteFile(path, []byte(newsCSV), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"querylens"}, args...))
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	path := writeDataset(t)

	out, err := run(t, "--dataset", path, "search", "--k", "1", "market")
	require.NoError(t, err)
	assert.Equal(t, "1. [0.355] Rules tighten (business)\n   https://example.com/3\n", out)
}

func TestSearchCommandCategory(t *testing.T) {
	path := writeDataset(t)

	out, err := run(t, "--dataset", path, "search", "--category", "politics", "market")
	require.NoError(t, err)
	assert.Equal(t, "No matching articles.\n", out)

	out, err = run(t, "--dataset", path, "search", "--category", "politics", "election", "results")
	require.NoError(t, err)
	assert.Contains(t, out, "Vote count (politics)")
}

func TestSearchCommandRequiresQuery(t *testing.T) {
	_, err := run(t, "--dataset", writeDataset(t), "search")
	assert.Error(t, err)
}

func TestCategoriesCommand(t *testing.T) {
	out, err := run(t, "--dataset", writeDataset(t), "categories")
	require.NoError(t, err)
	assert.Equal(t, "All\nbusiness\npolitics\n", out)
}

func TestCommandDatasetError(t *testing.T) {
	_, err := run(t, "--dataset", filepath.Join(t.TempDir(), "missing.csv"), "categories")
	assert.ErrorIs(t, err, dataset.ErrDatasetLoad)
}

func TestCommandConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "querylens.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("dataset:\n  path: "+writeDataset(t)+"\n"), 0o644))

	out, err := run(t, "--config", cfgPath, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "business")
}

func TestCommandInvalidLogLevel(t *testing.T) {
	_, err := run(t, "--dataset", writeDataset(t), "--log-level", "loud", "categories")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger(config.LogConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, "debug", logger.GetLevel().String())

	_, err = newLogger(config.LogConfig{Level: "nope"})
	assert.Error(t, err)
}
