package api

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/knowledge-engine/querylens/internal/search"
)

// Highlight HTML-escapes text and wraps every case-insensitive occurrence
// of query in <mark> tags. Matching runs on the unescaped text so a query
// never matches inside an entity.
func Highlight(text, query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return html.EscapeString(text)
	}

	pattern := regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))

	var b strings.Builder
	last := 0
	for _, loc := range pattern.FindAllStringIndex(text, -1) {
		b.WriteString(html.EscapeString(text[last:loc[0]]))
		b.WriteString("<mark>")
		b.WriteString(html.EscapeString(text[loc[0]:loc[1]]))
		b.WriteString("</mark>")
		last = loc[1]
	}
	b.WriteString(html.EscapeString(text[last:]))
	return b.String()
}

// PrecisionAtK is the share of results belonging to category. Every result
// counts as relevant when category is empty or "All".
func PrecisionAtK(results []search.Result, category string) float64 {
	if len(results) == 0 {
		return 0
	}
	if category == "" || category == search.AllCategories {
		return 1
	}
	relevant := 0
	for _, r := range results {
		if r.Category == category {
			relevant++
		}
	}
	return float64(relevant) / float64(len(results))
}
