package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/querylens/internal/config"
	"github.com/knowledge-engine/querylens/internal/engine"
	"github.com/knowledge-engine/querylens/internal/search"
)

// Engine is the read-only view of the search engine the API serves.
type Engine interface {
	Search(query string, topK int, category string) []search.Result
	Categories() []string
	Status() engine.EngineStats
}

type Server struct {
	Engine Engine
	Config config.APIConfig
	Search config.SearchConfig
	Logger *logrus.Entry
	Router chi.Router
}

func NewServer(eng Engine, cfg *config.Config, logger *logrus.Entry) *Server {
	s := &Server{
		Engine: eng,
		Config: cfg.API,
		Search: cfg.Search,
		Logger: logger.WithField("component", "api"),
		Router: chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.Use(middleware.RequestID)
	s.Router.Use(middleware.RealIP)
	s.Router.Use(s.requestLogger)
	s.Router.Use(middleware.Recoverer)

	s.Router.Get("/health", s.handleHealth)
	s.Router.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/categories", s.handleCategories)
		r.Get("/status", s.handleStatus)
	})
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.Config.ReadTimeout,
		WriteTimeout:      s.Config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Infof("Starting API Server on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("Shutting down API Server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.Config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.Logger.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
		}).Debug("Request")
	})
}

// Responses
type ErrorResponse struct {
	Error string `json:"error"`
}

type SearchResponse struct {
	Query        string             `json:"query"`
	Category     string             `json:"category"`
	TopK         int                `json:"top_k"`
	Results      []SearchResultView `json:"results"`
	PrecisionAtK *float64           `json:"precision_at_k,omitempty"`
}

type SearchResultView struct {
	search.Result
	Highlighted string `json:"highlighted"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type StatusResponse struct {
	BuildID        string    `json:"build_id"`
	Dataset        string    `json:"dataset"`
	Documents      int       `json:"documents"`
	Rows           int       `json:"rows"`
	VocabularySize int       `json:"vocabulary_size"`
	Categories     int       `json:"categories"`
	LoadedAt       time.Time `json:"loaded_at"`
	BuildDuration  string    `json:"build_duration"`
}

// Handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	query := params.Get("q")
	if strings.TrimSpace(query) == "" {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Query 'q' is required"})
		return
	}

	topK := s.Search.DefaultTopK
	if raw := params.Get("k"); raw != "" {
		k, err := strconv.Atoi(raw)
		if err != nil {
			jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Parameter 'k' must be an integer"})
			return
		}
		topK = k
	}
	topK = clampInt(topK, 1, s.Search.MaxTopK)

	category := strings.TrimSpace(params.Get("category"))
	if category == "" {
		category = search.AllCategories
	}

	hits := s.Engine.Search(query, topK, category)

	response := SearchResponse{
		Query:    query,
		Category: category,
		TopK:     topK,
		Results:  make([]SearchResultView, len(hits)),
	}
	for i, hit := range hits {
		response.Results[i] = SearchResultView{
			Result:      hit,
			Highlighted: Highlight(hit.Text, query),
		}
	}
	if len(hits) > 0 {
		p := PrecisionAtK(hits, category)
		response.PrecisionAtK = &p
	}

	jsonResponse(w, http.StatusOK, response)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories := append([]string{search.AllCategories}, s.Engine.Categories()...)
	jsonResponse(w, http.StatusOK, CategoriesResponse{Categories: categories})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.Engine.Status()

	jsonResponse(w, http.StatusOK, StatusResponse{
		BuildID:        stats.BuildID,
		Dataset:        stats.Dataset,
		Documents:      stats.Documents,
		Rows:           stats.RowsRead,
		VocabularySize: stats.VocabularySize,
		Categories:     stats.Categories,
		LoadedAt:       stats.LoadedAt,
		BuildDuration:  stats.BuildDuration.String(),
	})
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
