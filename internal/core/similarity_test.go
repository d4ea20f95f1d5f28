package core

import "testing"

func TestRatioScorer(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		candidate string
		want      int
	}{
		{name: "identical", query: "apple", candidate: "apple", want: 100},
		{name: "prefix", query: "appl", candidate: "apple", want: 89},
		{name: "one shared rune", query: "appl", candidate: "banana", want: 20},
		{name: "nothing shared", query: "fruit", candidate: "apple", want: 0},
		{name: "exactly sixty", query: "abcde", candidate: "abcxy", want: 60},
		{name: "half rounds down to even", query: "abcdefgh", candidate: "abcdexyz", want: 62},
		{name: "half rounds up to even", query: "abcdefgh", candidate: "abcxxxxx", want: 38},
		{name: "one insertion", query: "new york mets", candidate: "new york meats", want: 96},
		{name: "punctuation ignored", query: "this is a test", candidate: "this is a test!", want: 100},
		{name: "case ignored", query: "Яблоко", candidate: "яблоко", want: 100},
		{name: "underscore is a word rune", query: "a_b", candidate: "a b", want: 67},
		{name: "empty query", query: "", candidate: "apple", want: 0},
		{name: "punctuation only query", query: "!!!", candidate: "apple", want: 0},
		{name: "empty candidate", query: "apple", candidate: "", want: 0},
	}

	var s RatioScorer
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(tt.query, tt.candidate)
			if got != tt.want {
				t.Errorf("Score(%q, %q) = %d, want %d", tt.query, tt.candidate, got, tt.want)
			}
			if rev := s.Score(tt.candidate, tt.query); rev != got {
				t.Errorf("Score is not symmetric: %d vs %d", got, rev)
			}
		})
	}
}

func TestLongestCommonSubsequence(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{a: "", b: "", want: 0},
		{a: "abc", b: "", want: 0},
		{a: "abcde", b: "ace", want: 3},
		{a: "молоко", b: "мука", want: 2},
		{a: "xyz", b: "xyz", want: 3},
	}

	for _, tt := range tests {
		if got := longestCommonSubsequence([]rune(tt.a), []rune(tt.b)); got != tt.want {
			t.Errorf("longestCommonSubsequence(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestScorerFunc(t *testing.T) {
	var calls int
	var s Scorer = ScorerFunc(func(q, c string) int {
		calls++
		return len(q) + len(c)
	})

	if got := s.Score("ab", "cde"); got != 5 {
		t.Errorf("Score() = %d, want 5", got)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
