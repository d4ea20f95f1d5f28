package core

import (
	"math"
	"strings"
	"unicode"
)

// Scorer rates how similar a candidate name is to a query on a 0..100 scale.
type Scorer interface {
	Score(query, candidate string) int
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(query, candidate string) int

// Score calls f(query, candidate).
func (f ScorerFunc) Score(query, candidate string) int {
	return f(query, candidate)
}

// RatioScorer scores with the indel similarity ratio:
//
//	round(100 * 2*LCS(a, b) / (len(a) + len(b)))
//
// Both strings are first reduced to letters, numbers and underscores (every
// other rune becomes a space), lower-cased and trimmed. If either side is empty
// after that step the score is 0. Lengths are counted in runes and halves round
// to even.
type RatioScorer struct{}

// Score implements Scorer.
func (RatioScorer) Score(query, candidate string) int {
	a := []rune(scorerProcess(query))
	b := []rune(scorerProcess(candidate))
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	total := len(a) + len(b)
	ratio := float64(2*longestCommonSubsequence(a, b)) / float64(total)
	return int(math.RoundToEven(100 * ratio))
}

// scorerProcess replaces non-word runes with spaces, then lower-cases and trims.
func scorerProcess(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if isWordRune(r) {
			return r
		}
		return ' '
	}, s)
	return strings.TrimSpace(lowerCaser().String(mapped))
}

// longestCommonSubsequence returns the LCS length of a and b using two rows.
func longestCommonSubsequence(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for _, ca := range a {
		for j, cb := range b {
			if ca == cb {
				curr[j+1] = prev[j] + 1
			} else {
				curr[j+1] = max(prev[j+1], curr[j])
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// isWordRune reports whether r is a letter, number or underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
