package handler

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/scholarsearch/retrieval-platform/internal/engine/store"
	pkgerrors "github.com/scholarsearch/retrieval-platform/pkg/errors"
)

// documentSummary is the list-view shape of a document.
type documentSummary struct {
	DocID    string `json:"doc_id"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
	Length   int    `json:"length"`
}

func summarize(doc *store.Document) documentSummary {
	return documentSummary{
		DocID:    doc.ID,
		Title:    doc.Metadata.Title,
		Filename: doc.Metadata.Filename,
		Length:   doc.Length,
	}
}

const previewTokens = 100

// ListDocuments returns every document's metadata in load order.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ids := h.engine.DocumentIDs()
	documents := make([]documentSummary, 0, len(ids))
	for _, id := range ids {
		doc, err := h.engine.Document(id)
		if err != nil {
			continue
		}
		documents = append(documents, summarize(doc))
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"total_documents": len(documents),
		"documents":       documents,
	})
}

// GetDocument returns one document with a token preview.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.engine.Document(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, pkgerrors.ErrDocumentNotFound) {
			h.writeError(w, http.StatusNotFound, "document not found")
			return
		}
		h.writeError(w, pkgerrors.HTTPStatusCode(err), "failed to load document")
		return
	}

	preview := doc.Tokens
	truncated := len(preview) > previewTokens
	if truncated {
		preview = preview[:previewTokens]
	}
	previewText := strings.Join(preview, " ")
	if truncated {
		previewText += "..."
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"doc_id":   doc.ID,
		"metadata": doc.Metadata,
		"length":   doc.Length,
		"preview":  previewText,
	})
}

// DocumentTerms returns the most frequent terms of one document.
func (h *Handler) DocumentTerms(w http.ResponseWriter, r *http.Request) {
	doc, err := h.engine.Document(r.PathValue("id"))
	if err != nil {
		h.writeError(w, pkgerrors.HTTPStatusCode(err), "document not found")
		return
	}

	type termCount struct {
		Term  string `json:"term"`
		Count int    `json:"count"`
	}
	terms := make([]termCount, 0, len(doc.TermFreqs))
	for term, count := range doc.TermFreqs {
		terms = append(terms, termCount{Term: term, Count: count})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Term < terms[j].Term
	})
	const topTerms = 20
	if len(terms) > topTerms {
		terms = terms[:topTerms]
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"doc_id":       doc.ID,
		"title":        doc.Metadata.Title,
		"total_terms":  doc.Length,
		"unique_terms": len(doc.TermFreqs),
		"top_terms":    terms,
	})
}
