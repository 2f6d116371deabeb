package normalizer

import (
	"reflect"
	"testing"
)

func TestNormalizeBasicPipeline(t *testing.T) {
	got := Normalize("Vaccine trials and efficacy!")
	want := []string{"vaccine", "trial", "efficacy"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize() = %v, want %v", got, want)
	}
}

func TestNormalizeDropsStopWords(t *testing.T) {
	got := Normalize("the patient study results were about data")
	if len(got) != 0 {
		t.Fatalf("expected all stop words dropped, got %v", got)
	}
}

func TestNormalizeStripsNumericNoise(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"long integer", "genome 123456 sequencing", []string{"genome", "sequenc"}},
		{"bare digits", "dose 42 given", []string{"dose", "given"}},
		{"decimal", "rate was 12.5 percent", []string{"rate", "percent"}},
		{"short token", "ab xy genome", []string{"genome"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.input)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Normalize(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeKeepsHyphenatedTerms(t *testing.T) {
	got := Normalize("anti-viral treatment")
	want := []string{"anti-viral", "treatment"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize() = %v, want %v", got, want)
	}
}

func TestNormalizePreservesOrder(t *testing.T) {
	got := Normalize("genome encodes protein domains")
	if len(got) < 3 {
		t.Fatalf("expected at least 3 tokens, got %v", got)
	}
	if got[0] != "genome" {
		t.Errorf("first token = %q, want %q", got[0], "genome")
	}
}

func TestNormalizeIsPure(t *testing.T) {
	input := "Vaccine trials show efficacy in 2021 populations."
	first := Normalize(input)
	second := Normalize(input)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated calls disagree: %v vs %v", first, second)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	if got := Normalize(""); len(got) != 0 {
		t.Fatalf("Normalize(\"\") = %v, want empty", got)
	}
	if got := Normalize("   \n\t  "); len(got) != 0 {
		t.Fatalf("Normalize(whitespace) = %v, want empty", got)
	}
}

func TestIsStopWord(t *testing.T) {
	for _, w := range []string{"the", "study", "patient"} {
		if !IsStopWord(w) {
			t.Errorf("IsStopWord(%q) = false, want true", w)
		}
	}
	if IsStopWord("vaccine") {
		t.Error("IsStopWord(vaccine) = true, want false")
	}
}

func TestStemReducesPlurals(t *testing.T) {
	cases := map[string]string{
		"trials":   "trial",
		"markers":  "marker",
		"indexing": "index",
	}
	for input, want := range cases {
		if got := stem(input); got != want {
			t.Errorf("stem(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestLemmatizeIrregularForms(t *testing.T) {
	if got := lemmatize("children"); got != "child" {
		t.Errorf("lemmatize(children) = %q, want child", got)
	}
	if got := lemmatize("mice"); got != "mouse" {
		t.Errorf("lemmatize(mice) = %q, want mouse", got)
	}
}
