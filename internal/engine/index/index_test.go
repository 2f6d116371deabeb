package index

import (
	"reflect"
	"testing"

	"github.com/scholarsearch/retrieval-platform/internal/engine/store"
)

func buildTestIndexes() (*Inverted, *Positional) {
	s := store.New()
	s.Put("doc1", []string{"vaccine", "trial", "efficacy"}, store.Metadata{})
	s.Put("doc2", []string{"trial", "vaccine", "safety", "vaccine"}, store.Metadata{})
	return Build(s)
}

func TestInvertedMembership(t *testing.T) {
	inv, _ := buildTestIndexes()

	if !inv.Contains("vaccine") {
		t.Error("expected vaccine in index")
	}
	if inv.Contains("genome") {
		t.Error("did not expect genome in index")
	}

	docs := inv.Docs("vaccine")
	if len(docs) != 2 {
		t.Fatalf("Docs(vaccine) has %d entries, want 2", len(docs))
	}
	for _, id := range []string{"doc1", "doc2"} {
		if _, ok := docs[id]; !ok {
			t.Errorf("Docs(vaccine) missing %s", id)
		}
	}
}

func TestDocFrequency(t *testing.T) {
	inv, _ := buildTestIndexes()

	cases := map[string]int{
		"vaccine":  2,
		"efficacy": 1,
		"safety":   1,
		"absent":   0,
	}
	for term, want := range cases {
		if got := inv.DocFrequency(term); got != want {
			t.Errorf("DocFrequency(%q) = %d, want %d", term, got, want)
		}
	}
	if got := inv.Terms(); got != 4 {
		t.Errorf("Terms() = %d, want 4", got)
	}
}

func TestTermDocFrequenciesOrdering(t *testing.T) {
	inv, _ := buildTestIndexes()

	entries := inv.TermDocFrequencies()
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}
	if entries[0].Term != "vaccine" || entries[0].DocFrequency != 2 {
		t.Errorf("entries[0] = %+v, want vaccine with df 2", entries[0])
	}
	// Equal frequencies break ties alphabetically.
	rest := []string{entries[1].Term, entries[2].Term, entries[3].Term}
	want := []string{"efficacy", "safety", "trial"}
	if !reflect.DeepEqual(rest, want) {
		t.Errorf("tie ordering = %v, want %v", rest, want)
	}
}

func TestPositionalOffsets(t *testing.T) {
	_, pos := buildTestIndexes()

	if got := pos.Positions("vaccine", "doc1"); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("Positions(vaccine, doc1) = %v, want [0]", got)
	}
	if got := pos.Positions("vaccine", "doc2"); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("Positions(vaccine, doc2) = %v, want [1 3]", got)
	}
	if got := pos.Positions("vaccine", "nope"); got != nil {
		t.Errorf("Positions for unknown doc = %v, want nil", got)
	}
	if got := pos.Positions("absent", "doc1"); got != nil {
		t.Errorf("Positions for unknown term = %v, want nil", got)
	}
}

func TestPositionListLengthMatchesTermFrequency(t *testing.T) {
	s := store.New()
	s.Put("doc1", []string{"gene", "gene", "protein", "gene"}, store.Metadata{})
	inv, pos := Build(s)

	doc, _ := s.Get("doc1")
	for term := range doc.TermFreqs {
		if !inv.Contains(term) {
			t.Errorf("term %q missing from inverted index", term)
		}
		got := len(pos.Positions(term, "doc1"))
		if got != doc.TermFrequency(term) {
			t.Errorf("position count for %q = %d, want tf %d", term, got, doc.TermFrequency(term))
		}
	}
}

func TestPositionsAscending(t *testing.T) {
	s := store.New()
	tokens := []string{"x", "y", "x", "z", "x", "y"}
	s.Put("doc1", tokens, store.Metadata{})
	_, pos := Build(s)

	for _, term := range []string{"x", "y", "z"} {
		offsets := pos.Positions(term, "doc1")
		for i := 1; i < len(offsets); i++ {
			if offsets[i] <= offsets[i-1] {
				t.Fatalf("positions for %q not strictly ascending: %v", term, offsets)
			}
		}
	}
}

func TestBuildEmptyStore(t *testing.T) {
	inv, pos := Build(store.New())
	if inv.Terms() != 0 {
		t.Errorf("Terms() = %d, want 0", inv.Terms())
	}
	if got := pos.Docs("anything"); got != nil {
		t.Errorf("Docs on empty positional index = %v, want nil", got)
	}
}
