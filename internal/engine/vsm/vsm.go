// Package vsm implements the TF-IDF vector space model: a frozen vocabulary
// of unigram and bigram features selected by document frequency, one
// L2-normalized sparse weight vector per document, and cosine similarity
// between query and document vectors. All vector arithmetic is explicit
// sparse math; there is no external numeric toolkit.
package vsm

import (
	"math"
	"sort"
	"strings"

	"github.com/scholarsearch/retrieval-platform/internal/engine/normalizer"
	"github.com/scholarsearch/retrieval-platform/internal/engine/store"
)

const (
	// MaxFeatures caps the vocabulary size.
	MaxFeatures = 1000

	// maxDocFreqRatio excludes features present in more than 95% of
	// documents; they carry no discriminating weight.
	maxDocFreqRatio = 0.95

	// minDocFreq is the minimum document frequency for a feature.
	minDocFreq = 1
)

// Vector is a sparse weight vector keyed by vocabulary feature index.
type Vector map[int]float64

// Model is the frozen vocabulary and per-document weight vectors built once
// from the full corpus. Query vectors are always built against the same
// vocabulary; out-of-vocabulary terms contribute zero weight.
type Model struct {
	features   []string
	vocabulary map[string]int
	idf        []float64
	docVectors map[string]Vector
}

// Build constructs the model from the corpus. It returns nil for an empty
// corpus; callers treat a nil model as "vector search returns no results".
func Build(docs *store.Store) *Model {
	ids := docs.IDs()
	if len(ids) == 0 {
		return nil
	}

	docFreq := make(map[string]int)
	corpusFreq := make(map[string]int)
	docCounts := make(map[string]map[string]int, len(ids))
	for _, id := range ids {
		doc, _ := docs.Get(id)
		counts := featureCounts(doc.Tokens)
		docCounts[id] = counts
		for feature, count := range counts {
			docFreq[feature]++
			corpusFreq[feature] += count
		}
	}

	maxDocFreq := maxDocFreqRatio * float64(len(ids))
	candidates := make([]string, 0, len(docFreq))
	for feature, df := range docFreq {
		if df < minDocFreq || float64(df) > maxDocFreq || isStopFeature(feature) {
			continue
		}
		candidates = append(candidates, feature)
	}
	if len(candidates) > MaxFeatures {
		sort.Slice(candidates, func(i, j int) bool {
			if corpusFreq[candidates[i]] != corpusFreq[candidates[j]] {
				return corpusFreq[candidates[i]] > corpusFreq[candidates[j]]
			}
			return candidates[i] < candidates[j]
		})
		candidates = candidates[:MaxFeatures]
	}
	sort.Strings(candidates)

	m := &Model{
		features:   candidates,
		vocabulary: make(map[string]int, len(candidates)),
		idf:        make([]float64, len(candidates)),
		docVectors: make(map[string]Vector, len(ids)),
	}
	for i, feature := range candidates {
		m.vocabulary[feature] = i
		m.idf[i] = math.Log(float64(1+len(ids))/float64(1+docFreq[feature])) + 1
	}
	for _, id := range ids {
		m.docVectors[id] = m.vectorize(docCounts[id])
	}
	return m
}

// Transform builds a normalized query vector from already-normalized tokens
// using the frozen vocabulary. Unknown features are silently dropped.
func (m *Model) Transform(tokens []string) Vector {
	return m.vectorize(featureCounts(tokens))
}

// Similarity returns the cosine similarity between two vectors produced by
// this model. Both are already L2-normalized, so the dot product suffices.
func (m *Model) Similarity(query, doc Vector) float64 {
	if len(doc) < len(query) {
		query, doc = doc, query
	}
	var dot float64
	for i, w := range query {
		dot += w * doc[i]
	}
	return dot
}

// DocVector returns the stored weight vector for docID, or nil.
func (m *Model) DocVector(docID string) Vector {
	return m.docVectors[docID]
}

// VocabularySize returns the number of frozen features.
func (m *Model) VocabularySize() int {
	return len(m.features)
}

// vectorize converts raw feature counts into a TF-IDF weighted,
// L2-normalized sparse vector over the frozen vocabulary.
func (m *Model) vectorize(counts map[string]int) Vector {
	vec := make(Vector, len(counts))
	var norm float64
	for feature, count := range counts {
		i, ok := m.vocabulary[feature]
		if !ok {
			continue
		}
		w := float64(count) * m.idf[i]
		vec[i] = w
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// isStopFeature reports whether a candidate feature contains a stop word.
// Stop words are removed before stemming, so a stemmed form can itself be a
// stop word ("studies" becomes "study"); those carry no discriminating
// weight and stay out of the vocabulary.
func isStopFeature(feature string) bool {
	for _, part := range strings.Split(feature, " ") {
		if normalizer.IsStopWord(part) {
			return true
		}
	}
	return false
}

// featureCounts counts unigram and bigram occurrences in a token sequence.
// Bigram features join adjacent tokens with a single space.
func featureCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens)*2)
	for i, token := range tokens {
		counts[token]++
		if i+1 < len(tokens) {
			counts[token+" "+tokens[i+1]]++
		}
	}
	return counts
}
