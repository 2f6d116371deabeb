// Package store holds the normalized token sequences and display metadata
// for every document in the corpus. The store owns no derived index
// structures and is read-only once the build phase completes.
package store

// Metadata carries display-only document attributes.
type Metadata struct {
	Title    string `json:"title"`
	Filename string `json:"filename"`
}

// Document is a single corpus entry: its normalized tokens in original
// order, the token count, and a term-frequency table precomputed at insert
// time so scoring never rescans the token sequence.
type Document struct {
	ID        string
	Tokens    []string
	Length    int
	Metadata  Metadata
	TermFreqs map[string]int
}

// TermFrequency returns the number of occurrences of term in the document.
func (d *Document) TermFrequency(term string) int {
	return d.TermFreqs[term]
}

// Store maps document ids to documents and remembers insertion order.
type Store struct {
	docs  map[string]*Document
	order []string
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		docs: make(map[string]*Document),
	}
}

// Put inserts a document. A repeated id replaces the previous entry without
// duplicating it in the id order.
func (s *Store) Put(id string, tokens []string, meta Metadata) {
	freqs := make(map[string]int, len(tokens))
	for _, token := range tokens {
		freqs[token]++
	}
	if _, exists := s.docs[id]; !exists {
		s.order = append(s.order, id)
	}
	s.docs[id] = &Document{
		ID:        id,
		Tokens:    tokens,
		Length:    len(tokens),
		Metadata:  meta,
		TermFreqs: freqs,
	}
}

// Get returns the document for id, or false when unknown.
func (s *Store) Get(id string) (*Document, bool) {
	doc, ok := s.docs[id]
	return doc, ok
}

// IDs returns all document ids in insertion order.
func (s *Store) IDs() []string {
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	return len(s.docs)
}

// AvgLength returns the arithmetic mean token count across all documents,
// or 0 for an empty store.
func (s *Store) AvgLength() float64 {
	if len(s.docs) == 0 {
		return 0
	}
	total := 0
	for _, doc := range s.docs {
		total += doc.Length
	}
	return float64(total) / float64(len(s.docs))
}
