// Package analysis turns raw article text into the token stream shared by
// the index and the query side.
package analysis

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// missingMarkers are placeholders left behind by tabular exports. A text that
// is nothing but one of these carries no content.
var missingMarkers = map[string]struct{}{
	"nan":  {},
	"nat":  {},
	"none": {},
}

// Normalizer lowercases text, keeps only a-z letters, and drops stop words.
// It is safe for concurrent use.
type Normalizer struct {
	stopWords map[string]struct{}
	stemming  bool
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithStopWords replaces the embedded stop-word list.
func WithStopWords(words []string) Option {
	return func(n *Normalizer) {
		n.stopWords = stopWordSet(words)
	}
}

// WithStemming enables Snowball English stemming of surviving tokens.
func WithStemming(enabled bool) Option {
	return func(n *Normalizer) {
		n.stemming = enabled
	}
}

// NewNormalizer returns a Normalizer using the embedded English stop words
// unless opts replace them.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		stopWords: stopWordSet(DefaultStopWords()),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize returns the cleaned, space-joined tokens of text. It never fails;
// missing or content-free input yields "".
func (n *Normalizer) Normalize(text string) string {
	out := strings.Join(n.Tokens(text), " ")
	if isMissingMarker(out) {
		return ""
	}
	return out
}

// Tokens is Normalize before the final join.
func (n *Normalizer) Tokens(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	lowered := strings.ToLower(trimmed)
	if isMissingMarker(lowered) {
		return nil
	}

	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, lowered)

	fields := strings.Fields(cleaned)
	tokens := fields[:0]
	for _, token := range fields {
		if n.IsStopWord(token) {
			continue
		}
		if n.stemming {
			token = stem(token)
			if token == "" || n.IsStopWord(token) {
				continue
			}
		}
		tokens = append(tokens, token)
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

// IsStopWord reports whether token is removed during normalization.
func (n *Normalizer) IsStopWord(token string) bool {
	_, ok := n.stopWords[token]
	return ok
}

func isMissingMarker(s string) bool {
	_, ok := missingMarkers[s]
	return ok
}

func stem(word string) string {
	stemmed, err := snowball.Stem(word, "english", false)
	if err != nil {
		return word
	}
	return stemmed
}
