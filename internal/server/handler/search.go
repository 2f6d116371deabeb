package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/scholarsearch/retrieval-platform/internal/analytics"
	"github.com/scholarsearch/retrieval-platform/internal/engine/ranker"
	"github.com/scholarsearch/retrieval-platform/pkg/logger"
)

type searchRequest struct {
	Query string `json:"query"`
	TopK  *int   `json:"top_k"`
}

type proximityRequest struct {
	Term1 string `json:"term1"`
	Term2 string `json:"term2"`
	K     *int   `json:"k"`
}

const defaultProximityK = 5

// BooleanSearch runs exact conjunctive matching and returns the qualifying
// documents with their metadata.
func (h *Handler) BooleanSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		h.writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	start := time.Now()
	ids := h.engine.BooleanSearch(req.Query)
	elapsed := time.Since(start)

	results := make([]documentSummary, 0, len(ids))
	for _, id := range ids {
		doc, err := h.engine.Document(id)
		if err != nil {
			continue
		}
		results = append(results, summarize(doc))
	}
	h.observe(r, analytics.ModelBoolean, req.Query, 0, len(results), false, elapsed)

	h.writeJSON(w, http.StatusOK, map[string]any{
		"query":           req.Query,
		"method":          "Boolean Search",
		"results_count":   len(results),
		"processing_time": formatDuration(elapsed),
		"results":         results,
	})
}

// VectorSearch ranks documents by TF-IDF cosine similarity.
func (h *Handler) VectorSearch(w http.ResponseWriter, r *http.Request) {
	h.rankedSearch(w, r, analytics.ModelVector, "TF-IDF Vector Search", h.engine.VectorSearch)
}

// BM25Search ranks documents with Okapi BM25.
func (h *Handler) BM25Search(w http.ResponseWriter, r *http.Request) {
	h.rankedSearch(w, r, analytics.ModelBM25, "BM25 Search", h.engine.BM25Search)
}

// rankedSearch is the shared flow for the two scored retrieval models,
// including the optional result cache.
func (h *Handler) rankedSearch(
	w http.ResponseWriter,
	r *http.Request,
	model analytics.Model,
	methodName string,
	searchFn func(query string, topK int) []ranker.ScoredDoc,
) {
	var req searchRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		h.writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	topK, ok := h.topK(req.TopK)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "top_k must not be negative")
		return
	}

	start := time.Now()
	var results []ranker.ScoredDoc
	cacheHit := false
	if h.cache != nil {
		results, cacheHit = h.cache.GetOrCompute(r.Context(), string(model), req.Query, topK, func() []ranker.ScoredDoc {
			return searchFn(req.Query, topK)
		})
	} else {
		results = searchFn(req.Query, topK)
	}
	elapsed := time.Since(start)
	h.observe(r, model, req.Query, topK, len(results), cacheHit, elapsed)

	h.writeJSON(w, http.StatusOK, map[string]any{
		"query":           req.Query,
		"method":          methodName,
		"top_k":           topK,
		"results_count":   len(results),
		"processing_time": formatDuration(elapsed),
		"results":         results,
	})
}

// ProximitySearch finds documents where two normalized terms occur within k
// positions of each other.
func (h *Handler) ProximitySearch(w http.ResponseWriter, r *http.Request) {
	var req proximityRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Term1 == "" || req.Term2 == "" {
		h.writeError(w, http.StatusBadRequest, "both term1 and term2 are required")
		return
	}
	k := defaultProximityK
	if req.K != nil {
		k = *req.K
	}
	if k < 0 {
		h.writeError(w, http.StatusBadRequest, "k must not be negative")
		return
	}
	if k > h.search.MaxProximityK {
		k = h.search.MaxProximityK
	}

	start := time.Now()
	results := h.engine.ProximitySearch(req.Term1, req.Term2, k)
	elapsed := time.Since(start)
	h.observe(r, analytics.ModelProximity, req.Term1+" "+req.Term2, 0, len(results), false, elapsed)

	h.writeJSON(w, http.StatusOK, map[string]any{
		"term1":               req.Term1,
		"term2":               req.Term2,
		"method":              "Proximity Search",
		"proximity_threshold": k,
		"results_count":       len(results),
		"processing_time":     formatDuration(elapsed),
		"results":             results,
	})
}

// MultiSearch runs the Boolean, vector, and BM25 models over the same query
// and returns all three result sets.
func (h *Handler) MultiSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		h.writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	topK, ok := h.topK(req.TopK)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "top_k must not be negative")
		return
	}

	sections := make(map[string]any, 3)

	start := time.Now()
	booleanIDs := h.engine.BooleanSearch(req.Query)
	sections["boolean"] = map[string]any{
		"results_count":   len(booleanIDs),
		"processing_time": formatDuration(time.Since(start)),
		"results":         booleanIDs,
	}

	start = time.Now()
	vectorResults := h.engine.VectorSearch(req.Query, topK)
	sections["vector"] = map[string]any{
		"results_count":   len(vectorResults),
		"processing_time": formatDuration(time.Since(start)),
		"results":         vectorResults,
	}

	start = time.Now()
	bm25Results := h.engine.BM25Search(req.Query, topK)
	sections["bm25"] = map[string]any{
		"results_count":   len(bm25Results),
		"processing_time": formatDuration(time.Since(start)),
		"results":         bm25Results,
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"query":   req.Query,
		"method":  "Multi-Model Search",
		"top_k":   topK,
		"results": sections,
	})
}

// CacheInvalidate drops every cached result list.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

// CacheStats reports query-cache hit and miss counters.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

// observe records metrics, analytics, and an access log entry for one
// search request.
func (h *Handler) observe(r *http.Request, model analytics.Model, query string, topK, returned int, cacheHit bool, elapsed time.Duration) {
	log := logger.FromContext(r.Context())
	log.Info("search completed",
		"model", model,
		"query", query,
		"returned", returned,
		"cache_hit", cacheHit,
		"latency_ms", elapsed.Milliseconds(),
	)
	if h.metrics != nil {
		h.metrics.SearchQueriesTotal.WithLabelValues(string(model)).Inc()
		h.metrics.SearchLatency.WithLabelValues(string(model)).Observe(elapsed.Seconds())
		h.metrics.SearchResultsCount.WithLabelValues(string(model)).Observe(float64(returned))
		if h.cache != nil {
			if cacheHit {
				h.metrics.CacheHitsTotal.Inc()
			} else {
				h.metrics.CacheMissesTotal.Inc()
			}
		}
	}
	if h.collector != nil {
		h.collector.Track(analytics.SearchEvent{
			Model:     model,
			Query:     query,
			TopK:      topK,
			Returned:  returned,
			CacheHit:  cacheHit,
			LatencyMs: elapsed.Milliseconds(),
			Timestamp: time.Now().UTC(),
			RequestID: logger.RequestID(r.Context()),
		})
	}
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.6fs", d.Seconds())
}
