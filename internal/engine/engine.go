// Package engine composes the normalizer, document store, inverted and
// positional indexes, vector space model, and BM25 ranker into the four
// retrieval operations: Boolean conjunction, TF-IDF cosine ranking, BM25
// ranking, and positional proximity matching.
//
// An Engine is built once by Load and is immutable afterward; any number of
// queries may run concurrently against it without locking. Replacing the
// corpus means building a new Engine, never mutating an existing one.
package engine

import (
	"log/slog"
	"sort"

	"github.com/scholarsearch/retrieval-platform/internal/engine/index"
	"github.com/scholarsearch/retrieval-platform/internal/engine/normalizer"
	"github.com/scholarsearch/retrieval-platform/internal/engine/ranker"
	"github.com/scholarsearch/retrieval-platform/internal/engine/store"
	"github.com/scholarsearch/retrieval-platform/internal/engine/vsm"
	pkgerrors "github.com/scholarsearch/retrieval-platform/pkg/errors"
)

// InputDocument is the raw material handed to Load by the corpus layer.
type InputDocument struct {
	ID       string
	RawText  string
	Metadata store.Metadata
}

// ProximityMatch is one proximity-search result carrying the minimum
// distance between the two terms found in the document.
type ProximityMatch struct {
	DocID    string `json:"doc_id"`
	Title    string `json:"title"`
	Distance int    `json:"distance"`
}

// Stats summarizes the built corpus.
type Stats struct {
	DocumentCount     int     `json:"document_count"`
	UniqueTermCount   int     `json:"unique_term_count"`
	AvgDocumentLength float64 `json:"avg_document_length"`
	VocabularySize    int     `json:"vocabulary_size"`
}

// Engine owns all retrieval structures. Fields are never written after Load.
type Engine struct {
	store        *store.Store
	inverted     *index.Inverted
	positional   *index.Positional
	model        *vsm.Model
	avgDocLength float64
	logger       *slog.Logger
}

// Load normalizes and indexes a full corpus, replacing nothing: it returns a
// fresh Engine. An empty corpus is a valid, degenerate state in which every
// search returns no results.
func Load(docs []InputDocument) *Engine {
	logger := slog.Default().With("component", "retrieval-engine")

	st := store.New()
	for _, doc := range docs {
		st.Put(doc.ID, normalizer.Normalize(doc.RawText), doc.Metadata)
	}
	inverted, positional := index.Build(st)
	model := vsm.Build(st)

	e := &Engine{
		store:        st,
		inverted:     inverted,
		positional:   positional,
		model:        model,
		avgDocLength: st.AvgLength(),
		logger:       logger,
	}
	vocabSize := 0
	if model != nil {
		vocabSize = model.VocabularySize()
	}
	logger.Info("corpus indexed",
		"documents", st.Len(),
		"unique_terms", inverted.Terms(),
		"avg_doc_length", e.avgDocLength,
		"vocabulary_size", vocabSize,
	)
	return e
}

// BooleanSearch intersects, across all normalized query terms, the inverted
// index's document sets. Any term absent from the index empties the result;
// the model is pure conjunctive AND. Ids come back sorted ascending for
// reproducibility.
func (e *Engine) BooleanSearch(query string) []string {
	terms := normalizer.Normalize(query)
	if len(terms) == 0 {
		return []string{}
	}

	results := make(map[string]struct{}, e.store.Len())
	for _, id := range e.store.IDs() {
		results[id] = struct{}{}
	}
	for _, term := range terms {
		if !e.inverted.Contains(term) {
			return []string{}
		}
		docSet := e.inverted.Docs(term)
		for id := range results {
			if _, ok := docSet[id]; !ok {
				delete(results, id)
			}
		}
	}

	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// VectorSearch ranks documents by cosine similarity between the TF-IDF query
// vector and each document vector, keeping only strictly positive
// similarities, sorted descending with docID ascending as the tie-break.
func (e *Engine) VectorSearch(query string, topK int) []ranker.ScoredDoc {
	results := []ranker.ScoredDoc{}
	if e.model == nil || topK <= 0 {
		return results
	}
	queryVec := e.model.Transform(normalizer.Normalize(query))
	if len(queryVec) == 0 {
		return results
	}

	for _, id := range e.store.IDs() {
		score := e.model.Similarity(queryVec, e.model.DocVector(id))
		if score <= 0 {
			continue
		}
		doc, _ := e.store.Get(id)
		results = append(results, ranker.ScoredDoc{
			DocID: id,
			Score: score,
			Title: doc.Metadata.Title,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocID < results[j].DocID
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// BM25Search scores every document against the normalized query terms with
// Okapi BM25 and returns the top-k positive scores.
func (e *Engine) BM25Search(query string, topK int) []ranker.ScoredDoc {
	terms := normalizer.Normalize(query)
	if len(terms) == 0 || topK <= 0 {
		return []ranker.ScoredDoc{}
	}

	candidates := make([]ranker.Candidate, 0, e.store.Len())
	for _, id := range e.store.IDs() {
		doc, _ := e.store.Get(id)
		candidates = append(candidates, ranker.Candidate{
			ID:     id,
			Title:  doc.Metadata.Title,
			Length: doc.Length,
			Freqs:  doc.TermFreqs,
		})
	}
	params := ranker.Params{
		TotalDocs:    e.store.Len(),
		AvgDocLength: e.avgDocLength,
	}
	return ranker.Rank(terms, candidates, params, e.inverted.DocFrequency, topK)
}

// ProximitySearch finds documents where term1 and term2 occur within k token
// positions of each other. Both terms must already be normalized index
// vocabulary; no normalization is applied here. Each qualifying document is
// reported once with the minimum distance over all position pairs, computed
// by a merge sweep over the two sorted position lists. Results come back
// ascending by distance, then docID.
func (e *Engine) ProximitySearch(term1, term2 string, k int) []ProximityMatch {
	results := []ProximityMatch{}
	if k < 0 {
		return results
	}
	docs1 := e.positional.Docs(term1)
	docs2 := e.positional.Docs(term2)
	if len(docs1) == 0 || len(docs2) == 0 {
		return results
	}

	for id, positions1 := range docs1 {
		positions2, ok := docs2[id]
		if !ok {
			continue
		}
		distance := minDistance(positions1, positions2)
		if distance > k {
			continue
		}
		doc, _ := e.store.Get(id)
		results = append(results, ProximityMatch{
			DocID:    id,
			Title:    doc.Metadata.Title,
			Distance: distance,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].DocID < results[j].DocID
	})
	return results
}

// Document returns the stored document for id or ErrDocumentNotFound.
func (e *Engine) Document(id string) (*store.Document, error) {
	doc, ok := e.store.Get(id)
	if !ok {
		return nil, pkgerrors.ErrDocumentNotFound
	}
	return doc, nil
}

// DocumentIDs returns all document ids in load order.
func (e *Engine) DocumentIDs() []string {
	return e.store.IDs()
}

// TermDocFrequencies returns up to limit terms by descending document
// frequency; limit <= 0 returns all terms.
func (e *Engine) TermDocFrequencies(limit int) []index.TermFrequency {
	entries := e.inverted.TermDocFrequencies()
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Stats returns corpus-level counters.
func (e *Engine) Stats() Stats {
	vocabSize := 0
	if e.model != nil {
		vocabSize = e.model.VocabularySize()
	}
	return Stats{
		DocumentCount:     e.store.Len(),
		UniqueTermCount:   e.inverted.Terms(),
		AvgDocumentLength: e.avgDocLength,
		VocabularySize:    vocabSize,
	}
}

// minDistance returns the minimum absolute difference between any pair drawn
// from two ascending position lists, advancing the smaller head each step so
// the sweep is O(n+m) instead of scanning the full cross product.
func minDistance(a, b []int) int {
	i, j := 0, 0
	best := int(^uint(0) >> 1)
	for i < len(a) && j < len(b) {
		d := a[i] - b[j]
		if d < 0 {
			d = -d
		}
		if d < best {
			best = d
		}
		if a[i] < b[j] {
			i++
		} else {
			j++
		}
	}
	return best
}
