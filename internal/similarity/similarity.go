package similarity

import (
	"sort"
	"strings"

	"curator/internal/textutil"
)

// Ratio returns the normalized edit-distance similarity between a and b
// on a 0-100 scale. Identical strings score 100; comparison against an
// empty string scores 0.
func Ratio(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	ra := []rune(a)
	rb := []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	dist := levenshtein(ra, rb)
	return 100 * (1 - float64(dist)/float64(longest))
}

// PartialRatio returns the best Ratio between the shorter string and any
// equal-length window of the longer string. Catches names embedded in
// longer titles ("Workshop" inside "Santa's Workshop Sign").
func PartialRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	shorter := []rune(a)
	longer := []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == len(longer) {
		return Ratio(string(shorter), string(longer))
	}

	best := 0.0
	for start := 0; start+len(shorter) <= len(longer); start++ {
		window := string(longer[start : start+len(shorter)])
		if score := Ratio(string(shorter), window); score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

// TokenSortRatio compares the strings with their tokens sorted, making the
// score insensitive to word order.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedTokens(a), sortedTokens(b))
}

// TokenSetRatio compares token intersection and differences, tolerating
// extra words on either side in addition to word-order changes.
func TokenSetRatio(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	var common, onlyA, onlyB []string
	for token := range tokensA {
		if _, ok := tokensB[token]; ok {
			common = append(common, token)
		} else {
			onlyA = append(onlyA, token)
		}
	}
	for token := range tokensB {
		if _, ok := tokensA[token]; !ok {
			onlyB = append(onlyB, token)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(common, " ")
	full := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	other := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	best := Ratio(full, other)
	if base != "" {
		if score := Ratio(base, full); score > best {
			best = score
		}
		if score := Ratio(base, other); score > best {
			best = score
		}
	}
	return best
}

// BestScore normalizes both inputs and returns the maximum of the
// token-sort, token-set, and partial strategies.
func BestScore(a, b string) float64 {
	na := textutil.Normalize(a)
	nb := textutil.Normalize(b)
	if na == "" || nb == "" {
		return 0
	}

	best := TokenSortRatio(na, nb)
	if score := TokenSetRatio(na, nb); score > best {
		best = score
	}
	if score := PartialRatio(na, nb); score > best {
		best = score
	}
	return best
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range strings.Fields(s) {
		set[token] = struct{}{}
	}
	return set
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
