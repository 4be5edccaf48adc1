package linking

import (
	"regexp"
	"strings"
)

// PhraseMatch is one relationship phrase found in description text, with
// the object text the phrase points at ("goes with X" yields X).
type PhraseMatch struct {
	Phrase string
	Object string
}

// PhraseExtractor mines relationship phrases out of free text. The regex
// implementation below is deliberately isolated behind this interface so
// a better text classifier can replace it without touching the linker's
// scoring contract.
type PhraseExtractor interface {
	// Compatibility returns phrases that point from an accessory at a
	// house ("goes with", "designed for", ...).
	Compatibility(text string) []PhraseMatch
	// Inclusion returns phrases that point from a house at bundled
	// pieces ("includes", "comes with", ...).
	Inclusion(text string) []PhraseMatch
}

type phrasePattern struct {
	phrase  string
	pattern *regexp.Regexp
}

var compatibilityPatterns = compilePhrasePatterns(
	"goes with",
	"coordinates with",
	"pairs with",
	"complements",
	"designed for",
	"perfect for",
	"matches",
	"compatible with",
)

var inclusionPatterns = compilePhrasePatterns(
	"includes",
	"comes with",
	"features",
	"contains",
)

func compilePhrasePatterns(phrases ...string) []phrasePattern {
	patterns := make([]phrasePattern, 0, len(phrases))
	for _, phrase := range phrases {
		patterns = append(patterns, phrasePattern{
			phrase: phrase,
			// The object runs to the end of the sentence.
			pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + ` ([^.\n]+)`),
		})
	}
	return patterns
}

// RegexExtractor is the default PhraseExtractor built on a fixed pattern
// table.
type RegexExtractor struct{}

func (RegexExtractor) Compatibility(text string) []PhraseMatch {
	return extract(compatibilityPatterns, text)
}

func (RegexExtractor) Inclusion(text string) []PhraseMatch {
	return extract(inclusionPatterns, text)
}

func extract(patterns []phrasePattern, text string) []PhraseMatch {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var matches []PhraseMatch
	for _, entry := range patterns {
		for _, groups := range entry.pattern.FindAllStringSubmatch(text, -1) {
			object := strings.TrimSpace(groups[1])
			if object == "" {
				continue
			}
			matches = append(matches, PhraseMatch{Phrase: entry.phrase, Object: object})
		}
	}
	return matches
}
