// Package ranker implements Okapi BM25 scoring. The ranker is stateless: it
// consumes term frequencies, document frequencies, document lengths, and the
// corpus-average length handed to it by the engine.
package ranker

import (
	"math"
	"sort"
)

const (
	k1 = 1.5
	b  = 0.75
)

// Params carries the corpus-level inputs to BM25.
type Params struct {
	TotalDocs    int
	AvgDocLength float64
}

// Candidate is one document under scoring.
type Candidate struct {
	ID     string
	Title  string
	Length int
	Freqs  map[string]int
}

// ScoredDoc is a ranked result.
type ScoredDoc struct {
	DocID string  `json:"doc_id"`
	Score float64 `json:"score"`
	Title string  `json:"title"`
}

// Rank scores every candidate against the query terms and returns documents
// with a positive score, sorted by score descending with docID ascending as
// the tie-break, cut to limit. A zero average document length means the
// corpus is empty and short-circuits to no results.
func Rank(terms []string, candidates []Candidate, params Params, docFreq func(term string) int, limit int) []ScoredDoc {
	if len(terms) == 0 || params.TotalDocs == 0 || params.AvgDocLength == 0 {
		return []ScoredDoc{}
	}

	idfs := make([]float64, len(terms))
	for i, term := range terms {
		idfs[i] = computeIDF(params.TotalDocs, docFreq(term))
	}

	scored := make([]ScoredDoc, 0, len(candidates))
	for _, cand := range candidates {
		var score float64
		for i, term := range terms {
			tf := cand.Freqs[term]
			if tf == 0 {
				continue
			}
			score += idfs[i] * computeTFNorm(float64(tf), float64(cand.Length), params.AvgDocLength)
		}
		if score > 0 {
			scored = append(scored, ScoredDoc{
				DocID: cand.ID,
				Score: score,
				Title: cand.Title,
			})
		}
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].DocID < scored[j].DocID
	})
	if limit >= 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// computeIDF is the Robertson-Spärck-Jones inverse document frequency,
// floored at zero so very common terms never penalize a score.
func computeIDF(totalDocs, docFreq int) float64 {
	idf := math.Log((float64(totalDocs) - float64(docFreq) + 0.5) / (float64(docFreq) + 0.5))
	return math.Max(idf, 0)
}

// computeTFNorm is the length-normalized term-frequency component.
func computeTFNorm(termFreq, docLength, avgDocLength float64) float64 {
	denominator := termFreq + k1*(1-b+b*(docLength/avgDocLength))
	if denominator == 0 {
		return 0
	}
	return (termFreq * (k1 + 1)) / denominator
}
