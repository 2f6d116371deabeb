// Package index builds the inverted and positional indexes in a single pass
// over the corpus. Both structures are frozen after Build returns and are
// safe for concurrent readers.
package index

import (
	"sort"

	"github.com/scholarsearch/retrieval-platform/internal/engine/store"
)

// Inverted maps a term to the set of document ids containing it.
type Inverted struct {
	postings map[string]map[string]struct{}
}

// Contains reports whether the index has any posting for term.
func (inv *Inverted) Contains(term string) bool {
	_, ok := inv.postings[term]
	return ok
}

// Docs returns the document-id set for term. The returned map is shared and
// must not be mutated.
func (inv *Inverted) Docs(term string) map[string]struct{} {
	return inv.postings[term]
}

// DocFrequency returns the number of documents containing term.
func (inv *Inverted) DocFrequency(term string) int {
	return len(inv.postings[term])
}

// Terms returns the number of unique terms in the index.
func (inv *Inverted) Terms() int {
	return len(inv.postings)
}

// TermDocFrequencies returns every term with its document frequency, sorted
// by frequency descending then term ascending.
func (inv *Inverted) TermDocFrequencies() []TermFrequency {
	entries := make([]TermFrequency, 0, len(inv.postings))
	for term, docs := range inv.postings {
		entries = append(entries, TermFrequency{Term: term, DocFrequency: len(docs)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].DocFrequency != entries[j].DocFrequency {
			return entries[i].DocFrequency > entries[j].DocFrequency
		}
		return entries[i].Term < entries[j].Term
	})
	return entries
}

// TermFrequency pairs a term with its document frequency.
type TermFrequency struct {
	Term         string `json:"term"`
	DocFrequency int    `json:"doc_frequency"`
}

// Positional maps a term to, per document, the ascending list of 0-based
// token offsets where the term occurs. The list length for a (term, doc)
// pair equals the term frequency in that document.
type Positional struct {
	positions map[string]map[string][]int
}

// Docs returns the ids of all documents containing term.
func (p *Positional) Docs(term string) map[string][]int {
	return p.positions[term]
}

// Positions returns the ascending occurrence offsets of term in docID, or
// nil when the pair is absent.
func (p *Positional) Positions(term, docID string) []int {
	return p.positions[term][docID]
}

// Build constructs both indexes in one pass per document. Positions are
// appended in token order, so the per-document lists come out ascending
// without sorting.
func Build(docs *store.Store) (*Inverted, *Positional) {
	inv := &Inverted{postings: make(map[string]map[string]struct{})}
	pos := &Positional{positions: make(map[string]map[string][]int)}

	for _, id := range docs.IDs() {
		doc, _ := docs.Get(id)
		for offset, token := range doc.Tokens {
			docSet, ok := inv.postings[token]
			if !ok {
				docSet = make(map[string]struct{})
				inv.postings[token] = docSet
			}
			docSet[id] = struct{}{}

			byDoc, ok := pos.positions[token]
			if !ok {
				byDoc = make(map[string][]int)
				pos.positions[token] = byDoc
			}
			byDoc[id] = append(byDoc[id], offset)
		}
	}
	return inv, pos
}
