package analysis

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed stopwords.txt
var defaultStopWordsFile string

// DefaultStopWords returns the embedded English stop-word list.
func DefaultStopWords() []string {
	words, _ := parseStopWords(strings.NewReader(defaultStopWordsFile))
	return words
}

// LoadStopWords reads a stop-word list from disk: one word per line,
// blank lines and lines starting with '#' are ignored.
func LoadStopWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stop words file: %w", err)
	}
	defer f.Close()

	words, err := parseStopWords(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read stop words file: %w", err)
	}
	return words, nil
}

func parseStopWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, strings.ToLower(line))
	}
	return words, scanner.Err()
}

func stopWordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}
