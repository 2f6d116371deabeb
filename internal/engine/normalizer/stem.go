package normalizer

import "strings"

// stem applies a suffix-stripping stemmer to the given word. Rules are
// ordered longest-suffix first; a rule only fires when the stemmed word
// stays at or above its minimum length.
func stem(word string) string {
	suffixes := []struct {
		suffix      string
		replacement string
		minLen      int
	}{
		{"ational", "ate", 2},
		{"ization", "ize", 2},
		{"fulness", "ful", 2},
		{"tional", "tion", 2},
		{"biliti", "ble", 2},
		{"encies", "ence", 2},
		{"ances", "ance", 2},
		{"ments", "ment", 2},
		{"izing", "ize", 2},
		{"ating", "ate", 2},
		{"iness", "y", 2},
		{"ously", "ous", 2},
		{"ively", "ive", 2},
		{"tion", "t", 3},
		{"sion", "s", 3},
		{"ying", "y", 2},
		{"ling", "l", 3},
		{"ies", "y", 2},
		{"ing", "", 3},
		{"ers", "er", 2},
		{"est", "", 3},
		{"ful", "", 3},
		{"ous", "", 3},
		{"ble", "", 3},
		{"ed", "", 3},
		{"er", "", 3},
		{"ly", "", 3},
		{"es", "", 3},
		{"ss", "ss", 2},
		{"s", "", 3},
	}
	for _, rule := range suffixes {
		if strings.HasSuffix(word, rule.suffix) {
			stemmed := word[:len(word)-len(rule.suffix)] + rule.replacement
			if len(stemmed) >= rule.minLen {
				return stemmed
			}
		}
	}
	return word
}

// irregularForms maps irregular plurals and inflections that the suffix
// stemmer cannot reduce.
var irregularForms = map[string]string{
	"children": "child",
	"feet":     "foot",
	"geese":    "goose",
	"men":      "man",
	"mice":     "mouse",
	"people":   "person",
	"teeth":    "tooth",
	"women":    "woman",
}

// lemmatize reduces residual plural forms left over after stemming.
func lemmatize(word string) string {
	if lemma, ok := irregularForms[word]; ok {
		return lemma
	}
	switch {
	case strings.HasSuffix(word, "sses"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") && len(word) > 3:
		return word[:len(word)-1]
	}
	return word
}
