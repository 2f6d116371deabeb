package handler

import "net/http"

// Stats returns corpus-level counters from the engine.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := h.engine.Stats()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"document_count":      stats.DocumentCount,
		"unique_term_count":   stats.UniqueTermCount,
		"avg_document_length": stats.AvgDocumentLength,
		"vocabulary_size":     stats.VocabularySize,
		"search_methods": []string{
			"Boolean Search",
			"TF-IDF Vector Search",
			"BM25 Search",
			"Proximity Search",
		},
	})
}

// TermStats returns the terms with the highest document frequency.
func (h *Handler) TermStats(w http.ResponseWriter, r *http.Request) {
	const topTerms = 50
	stats := h.engine.Stats()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"total_unique_terms":             stats.UniqueTermCount,
		"top_terms_by_document_frequency": h.engine.TermDocFrequencies(topTerms),
	})
}
