// Package search holds the TF-IDF index over the article corpus and ranks
// documents against keyword queries.
package search

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/knowledge-engine/querylens/internal/analysis"
	"github.com/knowledge-engine/querylens/internal/dataset"
)

// AllCategories disables category filtering.
const AllCategories = "All"

type posting struct {
	doc    int
	weight float64
}

// Index is the immutable corpus plus its term-weight matrix. It is safe for
// concurrent use once Build returns.
type Index struct {
	docs       []Document
	vectors    []SparseVector
	norms      []float64
	postings   [][]posting // vocabulary index -> documents containing the term
	vectorizer Vectorizer
	normalizer *analysis.Normalizer
	categories []string
	byCategory map[string][]int
}

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	normalizer *analysis.Normalizer
	vectorizer Vectorizer
	workers    int
}

// WithNormalizer sets the analyzer used for documents and queries.
func WithNormalizer(n *analysis.Normalizer) Option {
	return func(o *buildOptions) {
		o.normalizer = n
	}
}

// WithVectorizer sets the term weighting scheme. The default is a
// TFIDFVectorizer.
func WithVectorizer(v Vectorizer) Option {
	return func(o *buildOptions) {
		o.vectorizer = v
	}
}

// WithWorkers sets how many goroutines normalize documents during Build.
// Values below 2 normalize sequentially.
func WithWorkers(n int) Option {
	return func(o *buildOptions) {
		o.workers = n
	}
}

// Build normalizes every record, drops the ones without any clean text, and
// fits the TF-IDF index over the rest. Surviving documents are numbered
// from 0 in input order.
func Build(records []dataset.Record, opts ...Option) (*Index, error) {
	o := buildOptions{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.normalizer == nil {
		o.normalizer = analysis.NewNormalizer()
	}
	if o.vectorizer == nil {
		o.vectorizer = NewTFIDFVectorizer()
	}

	clean, err := normalizeAll(records, o.normalizer, o.workers)
	if err != nil {
		return nil, err
	}

	idx := &Index{
		normalizer: o.normalizer,
		vectorizer: o.vectorizer,
		byCategory: make(map[string][]int),
	}

	for i, rec := range records {
		if clean[i] == "" {
			continue
		}
		id := len(idx.docs)
		idx.docs = append(idx.docs, Document{
			ID:          id,
			Title:       rec.Title,
			Category:    rec.Category,
			RawText:     rec.RawText,
			CleanText:   clean[i],
			Snippet:     rec.Snippet,
			URL:         rec.URL,
			ImageURL:    rec.ImageURL,
			PublishedAt: rec.PublishedAt,
		})
		idx.byCategory[rec.Category] = append(idx.byCategory[rec.Category], id)
	}

	texts := make([]string, len(idx.docs))
	for i := range idx.docs {
		texts[i] = idx.docs[i].CleanText
	}
	idx.vectorizer.Fit(texts)

	idx.vectors = make([]SparseVector, len(idx.docs))
	idx.norms = make([]float64, len(idx.docs))
	idx.postings = make([][]posting, idx.vectorizer.VocabularySize())
	for i, text := range texts {
		vec := idx.vectorizer.Transform(text)
		idx.vectors[i] = vec
		idx.norms[i] = vec.Norm()
		for k, term := range vec.Indices {
			idx.postings[term] = append(idx.postings[term], posting{doc: i, weight: vec.Values[k]})
		}
	}

	for category := range idx.byCategory {
		if category != "" {
			idx.categories = append(idx.categories, category)
		}
	}
	slices.Sort(idx.categories)

	return idx, nil
}

func normalizeAll(records []dataset.Record, n *analysis.Normalizer, workers int) ([]string, error) {
	clean := make([]string, len(records))
	if workers < 2 || len(records) < 2 {
		for i := range records {
			clean[i] = n.Normalize(records[i].RawText)
		}
		return clean, nil
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create normalizer pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range records {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			clean[i] = n.Normalize(records[i].RawText)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("failed to schedule normalization: %w", err)
		}
	}
	wg.Wait()
	return clean, nil
}

// Len is the number of retained documents.
func (idx *Index) Len() int { return len(idx.docs) }

// Document returns the document with the given ordinal.
func (idx *Index) Document(id int) (Document, bool) {
	if id < 0 || id >= len(idx.docs) {
		return Document{}, false
	}
	return idx.docs[id], true
}

// Vector returns the term vector of the document with the given ordinal.
func (idx *Index) Vector(id int) SparseVector {
	if id < 0 || id >= len(idx.vectors) {
		return SparseVector{}
	}
	return idx.vectors[id]
}

// VocabularySize is the number of distinct weighted terms in the corpus.
func (idx *Index) VocabularySize() int { return idx.vectorizer.VocabularySize() }

// Normalizer returns the analyzer shared by documents and queries.
func (idx *Index) Normalizer() *analysis.Normalizer { return idx.normalizer }

// Categories returns the distinct non-empty categories in lexical order.
func (idx *Index) Categories() []string {
	return slices.Clone(idx.categories)
}

type candidate struct {
	doc   int
	score float64
}

// Search ranks documents by cosine similarity to query and returns at most
// topK of them. category restricts candidates to an exact category match
// unless it is empty or AllCategories. Documents without lexical overlap are
// never returned; an empty slice is a normal outcome.
func (idx *Index) Search(query string, topK int, category string) []Result {
	if topK <= 0 || strings.TrimSpace(query) == "" {
		return []Result{}
	}
	clean := idx.normalizer.Normalize(query)
	if clean == "" {
		return []Result{}
	}

	var pool []int
	category = strings.TrimSpace(category)
	filtered := category != "" && category != AllCategories
	if filtered {
		pool = idx.byCategory[category]
		if len(pool) == 0 {
			return []Result{}
		}
	}

	qvec := idx.vectorizer.Transform(clean)
	if qvec.Len() == 0 {
		return []Result{}
	}

	var candidates []candidate
	if filtered {
		candidates = make([]candidate, 0, len(pool))
		for _, doc := range pool {
			candidates = append(candidates, candidate{doc: doc, score: CosineSimilarity(qvec, idx.vectors[doc])})
		}
	} else {
		candidates = idx.scorePostings(qvec)
	}

	slices.SortFunc(candidates, func(a, b candidate) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.doc, b.doc)
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		if c.score <= 0 {
			continue
		}
		score := roundScore(c.score)
		if score <= 0 {
			continue
		}
		results = append(results, newResult(&idx.docs[c.doc], score))
	}
	return results
}

// scorePostings accumulates dot products over the postings of the query
// terms; every document outside these lists scores 0 and is excluded anyway.
// Summation follows ascending term order, so scores match CosineSimilarity.
func (idx *Index) scorePostings(qvec SparseVector) []candidate {
	qnorm := qvec.Norm()
	dots := make(map[int]float64)
	for k, term := range qvec.Indices {
		for _, p := range idx.postings[term] {
			dots[p.doc] += qvec.Values[k] * p.weight
		}
	}

	candidates := make([]candidate, 0, len(dots))
	for doc, dot := range dots {
		norm := idx.norms[doc]
		if norm == 0 || dot == 0 {
			continue
		}
		candidates = append(candidates, candidate{doc: doc, score: dot / (qnorm * norm)})
	}
	return candidates
}

func roundScore(score float64) float64 {
	return math.Round(score*1000) / 1000
}
