package engine

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/scholarsearch/retrieval-platform/internal/engine/store"
	pkgerrors "github.com/scholarsearch/retrieval-platform/pkg/errors"
)

func loadTestEngine() *Engine {
	return Load([]InputDocument{
		{ID: "doc1", RawText: "Vaccine trial efficacy", Metadata: store.Metadata{Title: "Efficacy Findings"}},
		{ID: "doc2", RawText: "Clinical trial vaccine safety", Metadata: store.Metadata{Title: "Safety Findings"}},
		{ID: "doc3", RawText: "Genomic sequencing approaches", Metadata: store.Metadata{Title: "Genomics Survey"}},
	})
}

func TestBooleanSearchConjunction(t *testing.T) {
	e := loadTestEngine()

	got := e.BooleanSearch("vaccine trial")
	want := []string{"doc1", "doc2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("BooleanSearch(vaccine trial) = %v, want %v", got, want)
	}
}

func TestBooleanSearchIsCommutative(t *testing.T) {
	e := loadTestEngine()

	ab := e.BooleanSearch("vaccine trial")
	ba := e.BooleanSearch("trial vaccine")
	if !reflect.DeepEqual(ab, ba) {
		t.Fatalf("term order changed results: %v vs %v", ab, ba)
	}
}

func TestBooleanSearchSingleTerm(t *testing.T) {
	e := loadTestEngine()

	if got := e.BooleanSearch("safety"); !reflect.DeepEqual(got, []string{"doc2"}) {
		t.Errorf("BooleanSearch(safety) = %v, want [doc2]", got)
	}
	if got := e.BooleanSearch("genomic"); !reflect.DeepEqual(got, []string{"doc3"}) {
		t.Errorf("BooleanSearch(genomic) = %v, want [doc3]", got)
	}
}

func TestBooleanSearchAbsentTermEmptiesResult(t *testing.T) {
	e := loadTestEngine()

	if got := e.BooleanSearch("vaccine astronomy"); len(got) != 0 {
		t.Errorf("conjunction with absent term = %v, want empty", got)
	}
	if got := e.BooleanSearch("astronomy"); len(got) != 0 {
		t.Errorf("absent term = %v, want empty", got)
	}
}

func TestBooleanSearchDegenerateQueries(t *testing.T) {
	e := loadTestEngine()

	if got := e.BooleanSearch(""); len(got) != 0 {
		t.Errorf("empty query = %v, want empty", got)
	}
	// Every word is a stop word, so nothing survives normalization.
	if got := e.BooleanSearch("the and of"); len(got) != 0 {
		t.Errorf("stop-word query = %v, want empty", got)
	}
}

func TestVectorSearchRanksOverlap(t *testing.T) {
	e := loadTestEngine()

	results := e.VectorSearch("vaccine efficacy", 5)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2: %+v", len(results), results)
	}
	if results[0].DocID != "doc1" {
		t.Errorf("results[0] = %s, want doc1", results[0].DocID)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("scores not descending: %v then %v", results[0].Score, results[1].Score)
	}
	for _, r := range results {
		if r.Score <= 0 {
			t.Errorf("result %s has non-positive score %v", r.DocID, r.Score)
		}
		if r.DocID == "doc3" {
			t.Error("doc3 shares no terms with the query and must not appear")
		}
	}
}

func TestVectorSearchTopKBounds(t *testing.T) {
	e := loadTestEngine()

	if got := e.VectorSearch("vaccine", 0); len(got) != 0 {
		t.Errorf("topK 0 = %+v, want empty", got)
	}
	if got := e.VectorSearch("vaccine", 100); len(got) > 3 {
		t.Errorf("topK above corpus size returned %d results", len(got))
	}
	if got := e.VectorSearch("vaccine", 1); len(got) != 1 {
		t.Errorf("topK 1 returned %d results", len(got))
	}
}

func TestVectorSearchUnknownQuery(t *testing.T) {
	e := loadTestEngine()
	if got := e.VectorSearch("astronomy telescope", 5); len(got) != 0 {
		t.Fatalf("out-of-vocabulary query = %+v, want empty", got)
	}
}

func TestBM25SearchRareTerm(t *testing.T) {
	e := loadTestEngine()

	results := e.BM25Search("genomic", 5)
	if len(results) != 1 || results[0].DocID != "doc3" {
		t.Fatalf("BM25Search(genomic) = %+v, want [doc3]", results)
	}
	if results[0].Score <= 0 {
		t.Errorf("score = %v, want > 0", results[0].Score)
	}
	if results[0].Title != "Genomics Survey" {
		t.Errorf("Title = %q", results[0].Title)
	}
}

func TestBM25SearchTopK(t *testing.T) {
	e := loadTestEngine()

	if got := e.BM25Search("genomic", 0); len(got) != 0 {
		t.Errorf("topK 0 = %+v, want empty", got)
	}
	if got := e.BM25Search("", 5); len(got) != 0 {
		t.Errorf("empty query = %+v, want empty", got)
	}
}

func TestProximitySearchWithinWindow(t *testing.T) {
	e := loadTestEngine()

	results := e.ProximitySearch("vaccine", "trial", 1)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2: %+v", len(results), results)
	}
	if results[0].DocID != "doc1" || results[1].DocID != "doc2" {
		t.Errorf("order = [%s %s], want [doc1 doc2]", results[0].DocID, results[1].DocID)
	}
	for _, r := range results {
		if r.Distance != 1 {
			t.Errorf("distance for %s = %d, want 1", r.DocID, r.Distance)
		}
	}
}

func TestProximitySearchWindowExcludes(t *testing.T) {
	e := loadTestEngine()

	if got := e.ProximitySearch("vaccine", "trial", 0); len(got) != 0 {
		t.Errorf("k=0 for adjacent terms = %+v, want empty", got)
	}
	if got := e.ProximitySearch("vaccine", "genomic", 5); len(got) != 0 {
		t.Errorf("terms never co-occurring = %+v, want empty", got)
	}
	if got := e.ProximitySearch("vaccine", "trial", -1); len(got) != 0 {
		t.Errorf("negative k = %+v, want empty", got)
	}
}

func TestProximitySearchUsesMinimumDistance(t *testing.T) {
	// The first occurrence pair of the two terms is 5 positions apart, but a
	// later occurrence of the first term sits right next to the second.
	e := Load([]InputDocument{
		{ID: "docX", RawText: "vaccine genome protein domain vaccine trial"},
	})

	results := e.ProximitySearch("vaccine", "trial", 1)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1: %+v", len(results), results)
	}
	if results[0].Distance != 1 {
		t.Errorf("distance = %d, want minimum pair distance 1", results[0].Distance)
	}
}

func TestProximitySearchUnknownTerm(t *testing.T) {
	e := loadTestEngine()
	if got := e.ProximitySearch("astronomy", "trial", 10); len(got) != 0 {
		t.Fatalf("unknown term = %+v, want empty", got)
	}
}

func TestDocumentLookup(t *testing.T) {
	e := loadTestEngine()

	doc, err := e.Document("doc1")
	if err != nil {
		t.Fatalf("Document(doc1) error: %v", err)
	}
	if doc.Metadata.Title != "Efficacy Findings" {
		t.Errorf("Title = %q", doc.Metadata.Title)
	}
	if doc.Length != 3 {
		t.Errorf("Length = %d, want 3", doc.Length)
	}

	if _, err := e.Document("missing"); !errors.Is(err, pkgerrors.ErrDocumentNotFound) {
		t.Errorf("Document(missing) error = %v, want ErrDocumentNotFound", err)
	}
}

func TestTermDocFrequencies(t *testing.T) {
	e := loadTestEngine()

	all := e.TermDocFrequencies(0)
	if len(all) != 7 {
		t.Fatalf("got %d terms, want 7: %+v", len(all), all)
	}
	limited := e.TermDocFrequencies(2)
	if len(limited) != 2 {
		t.Fatalf("limit 2 returned %d terms", len(limited))
	}
	if limited[0].DocFrequency < limited[1].DocFrequency {
		t.Errorf("frequencies not descending: %+v", limited)
	}
}

func TestStats(t *testing.T) {
	e := loadTestEngine()

	stats := e.Stats()
	if stats.DocumentCount != 3 {
		t.Errorf("DocumentCount = %d, want 3", stats.DocumentCount)
	}
	if stats.UniqueTermCount != 7 {
		t.Errorf("UniqueTermCount = %d, want 7", stats.UniqueTermCount)
	}
	if stats.AvgDocumentLength != 3 {
		t.Errorf("AvgDocumentLength = %v, want 3", stats.AvgDocumentLength)
	}
	if stats.VocabularySize == 0 {
		t.Error("VocabularySize = 0, want > 0")
	}
}

func TestEmptyCorpus(t *testing.T) {
	e := Load(nil)

	if got := e.BooleanSearch("anything"); len(got) != 0 {
		t.Errorf("BooleanSearch on empty corpus = %v", got)
	}
	if got := e.VectorSearch("anything", 5); len(got) != 0 {
		t.Errorf("VectorSearch on empty corpus = %+v", got)
	}
	if got := e.BM25Search("anything", 5); len(got) != 0 {
		t.Errorf("BM25Search on empty corpus = %+v", got)
	}
	if got := e.ProximitySearch("a", "b", 5); len(got) != 0 {
		t.Errorf("ProximitySearch on empty corpus = %+v", got)
	}
	stats := e.Stats()
	if stats.DocumentCount != 0 || stats.AvgDocumentLength != 0 {
		t.Errorf("Stats on empty corpus = %+v", stats)
	}
}

func TestMinDistance(t *testing.T) {
	cases := []struct {
		a, b []int
		want int
	}{
		{[]int{0, 4}, []int{5}, 1},
		{[]int{2}, []int{10}, 8},
		{[]int{1, 7, 20}, []int{8, 25}, 1},
		{[]int{3}, []int{3}, 0},
	}
	for _, tc := range cases {
		if got := minDistance(tc.a, tc.b); got != tc.want {
			t.Errorf("minDistance(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func BenchmarkBM25Search(b *testing.B) {
	docs := make([]InputDocument, 200)
	for i := range docs {
		docs[i] = InputDocument{
			ID:      fmt.Sprintf("doc%03d", i),
			RawText: fmt.Sprintf("vaccine trial genome cohort%d sequencing analysis round%d", i%17, i%31),
		}
	}
	e := Load(docs)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.BM25Search("vaccine genome", 10)
	}
}

func BenchmarkProximitySearch(b *testing.B) {
	docs := make([]InputDocument, 200)
	for i := range docs {
		docs[i] = InputDocument{
			ID:      fmt.Sprintf("doc%03d", i),
			RawText: fmt.Sprintf("vaccine genome protein trial marker%d", i%13),
		}
	}
	e := Load(docs)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.ProximitySearch("vaccine", "trial", 5)
	}
}
