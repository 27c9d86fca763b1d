package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/querylens/internal/analysis"
	"github.com/knowledge-engine/querylens/internal/config"
	"github.com/knowledge-engine/querylens/internal/dataset"
	"github.com/knowledge-engine/querylens/internal/search"
)

// Engine owns the corpus index for the lifetime of the process. It is built
// once and never mutated, so it can be shared by concurrent requests.
type Engine struct {
	Config *config.Config
	Logger *logrus.Entry
	Index  *search.Index

	Stats EngineStats
}

type EngineStats struct {
	BuildID        string        `json:"build_id"`
	Dataset        string        `json:"dataset"`
	RowsRead       int           `json:"rows_read"`
	Documents      int           `json:"documents"`
	Dropped        int           `json:"dropped"`
	VocabularySize int           `json:"vocabulary_size"`
	Categories     int           `json:"categories"`
	LoadedAt       time.Time     `json:"loaded_at"`
	BuildDuration  time.Duration `json:"build_duration"`
}

// NewEngine reads the configured dataset and builds the index. Dataset
// failures are returned as dataset.LoadError or dataset.FormatError.
func NewEngine(cfg *config.Config, logger *logrus.Entry) (*Engine, error) {
	log := logger.WithField("component", "engine")
	start := time.Now()

	log.WithField("dataset", cfg.Dataset.Path).Info("Loading dataset")
	records, err := dataset.ReadRecords(cfg.Dataset.Path, dataset.Options{
		Sheet:     cfg.Dataset.Sheet,
		Table:     cfg.Dataset.Table,
		Delimiter: cfg.Dataset.DelimiterRune(),
	})
	if err != nil {
		return nil, err
	}

	return build(cfg, log, records, start)
}

// NewEngineFromRecords builds an engine over records that are already in
// memory.
func NewEngineFromRecords(cfg *config.Config, logger *logrus.Entry, records []dataset.Record) (*Engine, error) {
	return build(cfg, logger.WithField("component", "engine"), records, time.Now())
}

func build(cfg *config.Config, log *logrus.Entry, records []dataset.Record, start time.Time) (*Engine, error) {
	normalizer, err := newNormalizer(cfg.Search)
	if err != nil {
		return nil, err
	}

	idx, err := search.Build(records,
		search.WithNormalizer(normalizer),
		search.WithWorkers(cfg.Search.IndexWorkers),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	e := &Engine{
		Config: cfg,
		Logger: log,
		Index:  idx,
		Stats: EngineStats{
			BuildID:        uuid.NewString(),
			Dataset:        cfg.Dataset.Path,
			RowsRead:       len(records),
			Documents:      idx.Len(),
			Dropped:        len(records) - idx.Len(),
			VocabularySize: idx.VocabularySize(),
			Categories:     len(idx.Categories()),
			LoadedAt:       time.Now(),
		},
	}
	e.Stats.BuildDuration = e.Stats.LoadedAt.Sub(start)

	fields := logrus.Fields{
		"build_id":   e.Stats.BuildID,
		"rows":       e.Stats.RowsRead,
		"documents":  e.Stats.Documents,
		"dropped":    e.Stats.Dropped,
		"vocabulary": e.Stats.VocabularySize,
		"categories": e.Stats.Categories,
		"duration":   e.Stats.BuildDuration.String(),
	}
	if idx.Len() == 0 {
		log.WithFields(fields).Warn("Index is empty: no document has searchable text")
	} else {
		log.WithFields(fields).Info("Index built")
	}
	return e, nil
}

func newNormalizer(cfg config.SearchConfig) (*analysis.Normalizer, error) {
	opts := []analysis.Option{analysis.WithStemming(cfg.Stemming)}
	if cfg.StopWordsFile != "" {
		words, err := analysis.LoadStopWords(cfg.StopWordsFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, analysis.WithStopWords(words))
	}
	return analysis.NewNormalizer(opts...), nil
}

// Search returns the topK documents most similar to query, restricted to
// category unless it is empty or "All".
func (e *Engine) Search(query string, topK int, category string) []search.Result {
	results := e.Index.Search(query, topK, category)
	e.Logger.WithFields(logrus.Fields{
		"query":    query,
		"top_k":    topK,
		"category": category,
		"hits":     len(results),
	}).Debug("Search")
	return results
}

// Categories returns the sorted distinct categories of the corpus.
func (e *Engine) Categories() []string {
	return e.Index.Categories()
}

// Status returns the build statistics.
func (e *Engine) Status() EngineStats {
	return e.Stats
}

// Load builds an engine over the dataset at path with default settings.
func Load(path string, logger *logrus.Entry) (*Engine, error) {
	cfg := config.Default()
	cfg.Dataset.Path = path
	return NewEngine(cfg, logger)
}
