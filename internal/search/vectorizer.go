package search

import (
	"math"
	"sort"
	"strings"
)

// MinTermLength is the shortest token that becomes a vocabulary term.
// Shorter tokens stay in a document's clean text but carry no weight.
const MinTermLength = 2

// Vectorizer turns normalized text into a term vector.
type Vectorizer interface {
	Fit(docs []string)
	Transform(text string) SparseVector
	VocabularySize() int
}

// SparseVector stores the non-zero weights of a term vector. Indices are
// strictly increasing.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// Len is the number of non-zero weights.
func (v SparseVector) Len() int { return len(v.Indices) }

// Norm is the Euclidean length of the vector.
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dot is the inner product of two sparse vectors.
func (v SparseVector) Dot(o SparseVector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			dot += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return dot
}

// CosineSimilarity is dot(a, b) / (|a| |b|), or 0 when either is all-zero.
func CosineSimilarity(a, b SparseVector) float64 {
	normA, normB := a.Norm(), b.Norm()
	if normA == 0 || normB == 0 {
		return 0
	}
	return a.Dot(b) / (normA * normB)
}

// TFIDFVectorizer implements Term Frequency - Inverse Document Frequency
// with raw term counts, smoothed IDF and L2-normalized output:
//
//	idf(t) = ln((1 + N) / (1 + df(t))) + 1
type TFIDFVectorizer struct {
	Vocabulary map[string]int
	IDF        []float64
}

// NewTFIDFVectorizer returns an unfitted vectorizer.
func NewTFIDFVectorizer() *TFIDFVectorizer {
	return &TFIDFVectorizer{
		Vocabulary: make(map[string]int),
	}
}

// Fit builds the vocabulary and IDF weights from normalized documents.
// Vocabulary indices follow lexical term order.
func (v *TFIDFVectorizer) Fit(docs []string) {
	docCounts := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range terms(doc) {
			if !seen[term] {
				seen[term] = true
				docCounts[term]++
			}
		}
	}

	vocab := make([]string, 0, len(docCounts))
	for term := range docCounts {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	n := float64(len(docs))
	v.Vocabulary = make(map[string]int, len(vocab))
	v.IDF = make([]float64, len(vocab))
	for i, term := range vocab {
		v.Vocabulary[term] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(docCounts[term]))) + 1
	}
}

// Transform weights text against the fitted vocabulary. Unknown terms are
// ignored; text without known terms yields an empty vector.
func (v *TFIDFVectorizer) Transform(text string) SparseVector {
	counts := make(map[int]float64)
	for _, term := range terms(text) {
		if idx, ok := v.Vocabulary[term]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return SparseVector{}
	}

	vec := SparseVector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)
	for _, idx := range vec.Indices {
		vec.Values = append(vec.Values, counts[idx]*v.IDF[idx])
	}

	if norm := vec.Norm(); norm > 0 {
		for i := range vec.Values {
			vec.Values[i] /= norm
		}
	}
	return vec
}

// VocabularySize is the number of fitted terms.
func (v *TFIDFVectorizer) VocabularySize() int { return len(v.Vocabulary) }

// terms splits normalized text into vocabulary candidates.
func terms(text string) []string {
	fields := strings.Fields(text)
	out := fields[:0]
	for _, f := range fields {
		if len(f) >= MinTermLength {
			out = append(out, f)
		}
	}
	return out
}
