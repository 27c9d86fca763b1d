package search_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-engine/querylens/internal/search"
)

func TestTFIDFVectorizer(t *testing.T) {
	docs := []string{
		"apple banana",
		"apple orange",
	}

	vectorizer := search.NewTFIDFVectorizer()
	vectorizer.Fit(docs)

	// Vocabulary is lexically ordered
	assert.Equal(t, map[string]int{"apple": 0, "banana": 1, "orange": 2}, vectorizer.Vocabulary)

	// idf(apple) = ln(3/3) + 1 = 1
	// idf(banana) = ln(3/2) + 1 ≈ 1.405
	assert.InDelta(t, 1.0, vectorizer.IDF[0], 1e-9)
	assert.InDelta(t, math.Log(1.5)+1, vectorizer.IDF[1], 1e-9)

	vec := vectorizer.Transform("apple banana")
	assert.Equal(t, []int{0, 1}, vec.Indices)
	assert.InDelta(t, 1.0, vec.Norm(), 1e-9)
	assert.InDelta(t, 0.5797, vec.Values[0], 1e-4)
}

func TestTFIDFVectorizerIgnoresUnknownAndShortTerms(t *testing.T) {
	vectorizer := search.NewTFIDFVectorizer()
	vectorizer.Fit([]string{"market x news", "x"})

	assert.Equal(t, 2, vectorizer.VocabularySize())
	_, known := vectorizer.Vocabulary["x"]
	assert.False(t, known)

	assert.Equal(t, 0, vectorizer.Transform("weather x").Len())
	assert.Equal(t, 1, vectorizer.Transform("market weather").Len())
}

func TestTFIDFVectorizerCountsRepeats(t *testing.T) {
	vectorizer := search.NewTFIDFVectorizer()
	vectorizer.Fit([]string{"market market news", "news"})

	vec := vectorizer.Transform("market market news")
	require.Equal(t, 2, vec.Len())
	assert.Greater(t, vec.Values[0], vec.Values[1])
}

func TestCosineSimilarity(t *testing.T) {
	vecA := search.SparseVector{Indices: []int{0, 2}, Values: []float64{1, 1}}
	vecB := search.SparseVector{Indices: []int{1, 2}, Values: []float64{1, 1}}

	// Dot product: 1*1 on index 2 = 1
	// NormA = NormB = sqrt(2)
	// Cosine: 1 / 2 = 0.5
	assert.InDelta(t, 0.5, search.CosineSimilarity(vecA, vecB), 1e-4)
	assert.InDelta(t, 1.0, search.CosineSimilarity(vecA, vecA), 1e-9)
	assert.Equal(t, 0.0, search.CosineSimilarity(vecA, search.SparseVector{}))
	assert.Equal(t, 0.0, search.CosineSimilarity(search.SparseVector{}, search.SparseVector{}))
}
