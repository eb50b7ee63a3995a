// Package text provides edit-distance based fuzzy string matching for
// discovery search. Matching is case-sensitive at this level; callers
// lower-case both inputs so the match contract stays case-insensitive.
package text

// FuzzyThreshold is the minimum normalized similarity for FuzzyMatch to
// report a match. Tuned to tolerate one or two typos in short queries.
const FuzzyThreshold = 0.8

// Similarity returns a normalized similarity score in [0, 1] between two
// strings: (maxLen - levenshtein) / maxLen. Two empty strings are identical
// and score 1.0.
func Similarity(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1.0
	}

	return float64(longest-levenshtein(ra, rb)) / float64(longest)
}

// FuzzyMatch reports whether query and text are similar enough to count as a
// match under FuzzyThreshold.
func FuzzyMatch(query, text string) bool {
	return Similarity(query, text) >= FuzzyThreshold
}

// levenshtein computes the standard dynamic-programming edit distance with
// unit cost for insert, delete, and substitute. Transpositions are not
// counted. Uses a rolling two-row table to keep allocation bounded by the
// shorter dimension.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := 0; i <= len(a); i++ {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j
		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			del := prev[i] + 1
			ins := curr[i-1] + 1
			sub := prev[i-1] + cost

			min := del
			if ins < min {
				min = ins
			}
			if sub < min {
				min = sub
			}
			curr[i] = min
		}
		prev, curr = curr, prev
	}

	return prev[len(a)]
}
