package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// rewrites maps long-form domain phrasings to the short forms used for
// comparison. Applied after lowercasing, before punctuation stripping.
var rewrites = []struct {
	from string
	to   string
}{
	{"department 56", "dept 56"},
	{"dept.", "dept"},
	{"'s", "s"},
	{"'", ""},
	{"’s", "s"},
	{"’", ""},
	{`"`, ""},
}

var (
	punctPattern      = regexp.MustCompile(`[^\w\s\-.]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes free-text names and item numbers for matching.
// Empty input yields an empty string.
func Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	lowered := strings.ToLower(text)
	if folded, _, err := transform.String(diacriticFolder, lowered); err == nil {
		lowered = folded
	}

	for _, rw := range rewrites {
		lowered = strings.ReplaceAll(lowered, rw.from, rw.to)
	}

	lowered = punctPattern.ReplaceAllString(lowered, " ")
	lowered = whitespacePattern.ReplaceAllString(lowered, " ")

	return strings.TrimSpace(lowered)
}

// Tokenize splits normalized text into its whitespace-separated tokens.
// Input that has not been normalized is normalized first.
func Tokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// stopWords are dropped from word-overlap comparisons. Kept small on
// purpose: product names are short and aggressive lists hurt recall.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"of": {}, "for": {}, "with": {}, "by": {},
}

// IsStopWord reports whether the word carries no matching signal.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}

// ContentWords returns the set of non-stop-word tokens in text.
func ContentWords(text string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, token := range Tokenize(text) {
		if IsStopWord(token) {
			continue
		}
		words[token] = struct{}{}
	}
	return words
}
