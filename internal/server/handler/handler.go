// Package handler implements the HTTP API over the retrieval engine: the
// four search endpoints, document inspection, and corpus statistics.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/scholarsearch/retrieval-platform/internal/analytics"
	"github.com/scholarsearch/retrieval-platform/internal/engine"
	"github.com/scholarsearch/retrieval-platform/internal/server/cache"
	"github.com/scholarsearch/retrieval-platform/pkg/config"
	"github.com/scholarsearch/retrieval-platform/pkg/metrics"
)

// Handler serves the retrieval API. The engine is injected at construction
// and never replaced; cache, collector, and metrics are optional and may be
// nil.
type Handler struct {
	engine    *engine.Engine
	cache     *cache.RankedCache
	collector *analytics.Collector
	metrics   *metrics.Metrics
	search    config.SearchConfig
	logger    *slog.Logger
}

// New creates a Handler over a built engine.
func New(
	eng *engine.Engine,
	rankedCache *cache.RankedCache,
	collector *analytics.Collector,
	m *metrics.Metrics,
	search config.SearchConfig,
) *Handler {
	return &Handler{
		engine:    eng,
		cache:     rankedCache,
		collector: collector,
		metrics:   m,
		search:    search,
		logger:    slog.Default().With("component", "api-handler"),
	}
}

// Register attaches all API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/search/boolean", h.BooleanSearch)
	mux.HandleFunc("POST /api/v1/search/vector", h.VectorSearch)
	mux.HandleFunc("POST /api/v1/search/bm25", h.BM25Search)
	mux.HandleFunc("POST /api/v1/search/proximity", h.ProximitySearch)
	mux.HandleFunc("POST /api/v1/search/multi", h.MultiSearch)
	mux.HandleFunc("GET /api/v1/documents", h.ListDocuments)
	mux.HandleFunc("GET /api/v1/documents/{id}", h.GetDocument)
	mux.HandleFunc("GET /api/v1/documents/{id}/terms", h.DocumentTerms)
	mux.HandleFunc("GET /api/v1/stats", h.Stats)
	mux.HandleFunc("GET /api/v1/stats/terms", h.TermStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// topK resolves an optional top_k request field against the configured
// default and ceiling. A nil field means "use the default"; an explicit
// zero is honored and yields no results.
func (h *Handler) topK(requested *int) (int, bool) {
	if requested == nil {
		return h.search.DefaultTopK, true
	}
	if *requested < 0 {
		return 0, false
	}
	if *requested > h.search.MaxTopK {
		return h.search.MaxTopK, true
	}
	return *requested, true
}
