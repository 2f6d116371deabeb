// Package normalizer turns raw document or query text into an ordered
// sequence of normalized terms. It lower-cases input, strips punctuation and
// numeric noise, removes stop-words, and applies a suffix stemmer followed by
// a rule-based lemmatizer. Indexing and every query path must run through the
// same pipeline, otherwise term matching silently breaks.
package normalizer

import (
	"regexp"
	"strings"
)

var (
	nonWordPattern = regexp.MustCompile(`[^\w\s-]`)
	decimalPattern = regexp.MustCompile(`\b\d{1,2}\.\d+\b`)
	longIntPattern = regexp.MustCompile(`\b\d{4,}\b`)
)

// englishStopWords is a standard English stop-word list.
var englishStopWords = []string{
	"a", "about", "above", "after", "again", "against", "all", "am", "an",
	"and", "any", "are", "as", "at", "be", "because", "been", "before",
	"being", "below", "between", "both", "but", "by", "can", "could", "did",
	"do", "does", "doing", "down", "during", "each", "few", "for", "from",
	"further", "had", "has", "have", "having", "he", "her", "here", "hers",
	"herself", "him", "himself", "his", "how", "if", "in", "into", "is", "it",
	"its", "itself", "just", "me", "more", "most", "my", "myself", "no",
	"nor", "not", "now", "of", "off", "on", "once", "only", "or", "other",
	"our", "ours", "ourselves", "out", "over", "own", "same", "she",
	"should", "so", "some", "such", "than", "that", "the", "their",
	"theirs", "them", "themselves", "then", "there", "these", "they",
	"this", "those", "through", "to", "too", "under", "until", "up",
	"very", "was", "we", "were", "what", "when", "where", "which", "while",
	"who", "whom", "why", "will", "with", "you", "your", "yours",
	"yourself", "yourselves",
}

// domainStopWords removes scholarly boilerplate that carries no retrieval
// signal in a research-paper corpus.
var domainStopWords = []string{
	"abstract", "article", "background", "clinical", "conclusion", "data",
	"discussion", "doi", "introduction", "journal", "materials", "methods",
	"paper", "patient", "patients", "pmcid", "pmid", "research", "results",
	"study",
}

var stopWords = buildStopSet()

func buildStopSet() map[string]struct{} {
	set := make(map[string]struct{}, len(englishStopWords)+len(domainStopWords))
	for _, w := range englishStopWords {
		set[w] = struct{}{}
	}
	for _, w := range domainStopWords {
		set[w] = struct{}{}
	}
	return set
}

// Normalize runs the full pipeline over text and returns the surviving terms
// in their original relative order. The position of a term in the returned
// slice is its positional-index offset.
func Normalize(text string) []string {
	text = strings.ToLower(text)
	text = nonWordPattern.ReplaceAllString(text, " ")
	text = decimalPattern.ReplaceAllString(text, "")
	text = longIntPattern.ReplaceAllString(text, "")

	words := strings.Fields(text)
	terms := make([]string, 0, len(words)/2)
	for _, word := range words {
		if len(word) < 2 || isNumeric(word) {
			continue
		}
		if _, isStop := stopWords[word]; isStop {
			continue
		}
		term := lemmatize(stem(word))
		if len(term) > 2 {
			terms = append(terms, term)
		}
	}
	return terms
}

// IsStopWord reports whether term is in the stop set. Normalize checks the
// set against raw words before stemming, so a stemmed form can itself land
// on a stop word ("studies" becomes "study"); vocabulary builders use this
// to filter those out again.
func IsStopWord(term string) bool {
	_, ok := stopWords[term]
	return ok
}

func isNumeric(word string) bool {
	for _, r := range word {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
