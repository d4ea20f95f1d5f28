package core

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FuzzyThreshold is the score a name must strictly exceed to match fuzzily.
const FuzzyThreshold = 60

// Searcher matches queries against a catalog and ranks the hits by price per
// kilogram. It keeps no state between calls.
type Searcher struct {
	scorer    Scorer
	threshold int
	diag      Diagnostics
}

// NewSearcher creates a searcher. A nil scorer selects RatioScorer.
func NewSearcher(scorer Scorer, diag Diagnostics) *Searcher {
	if scorer == nil {
		scorer = RatioScorer{}
	}
	return &Searcher{
		scorer:    scorer,
		threshold: FuzzyThreshold,
		diag:      orDiscard(diag),
	}
}

// Search returns every entry whose name contains the query as a whole word or
// scores above FuzzyThreshold against it. Results are sorted by ascending price
// per kilogram; equal prices keep catalog order. Entries sharing a name are all
// returned. An empty query matches every name holding at least one word rune.
func (s *Searcher) Search(c *Catalog, query string) []Entry {
	results := make([]Entry, 0)

	if c.Len() == 0 {
		s.diag.Debug("search skipped", "query", query, "entries", 0)
		return results
	}
	q := NormalizeText(query)

	matched := make(map[string]bool)
	for _, e := range c.entries {
		name := NormalizeText(e.Name)
		ok, seen := matched[name]
		if !seen {
			ok = containsWord(name, q) || (q != "" && s.scorer.Score(q, name) > s.threshold)
			matched[name] = ok
		}
		if ok {
			results = append(results, e)
		}
	}

	slices.SortStableFunc(results, func(a, b Entry) int {
		return cmp.Compare(a.PricePerUnit(), b.PricePerUnit())
	})

	s.diag.Debug("search completed", "query", q, "names", len(matched), "matches", len(results))
	return results
}

// NormalizeText lower-cases s and trims surrounding whitespace.
// The result is only used for comparison and never stored on an Entry.
func NormalizeText(s string) string {
	return strings.TrimSpace(lowerCaser().String(s))
}

// lowerCaser returns a fresh full Unicode lower-caser. Casers keep internal
// state and must not be shared between goroutines.
func lowerCaser() cases.Caser {
	return cases.Lower(language.Und)
}

// containsWord reports whether q occurs in name with a word boundary on both
// sides. A boundary sits between a word rune and a non-word rune, and the
// ends of name count as non-word. An empty q sits on any boundary, so it
// matches every name that holds a word rune.
func containsWord(name, q string) bool {
	if q == "" {
		return strings.ContainsFunc(name, isWordRune)
	}
	first, _ := utf8.DecodeRuneInString(q)
	last, _ := utf8.DecodeLastRuneInString(q)

	for off := 0; off < len(name); {
		i := strings.Index(name[off:], q)
		if i < 0 {
			return false
		}
		i += off
		end := i + len(q)

		before := false
		if i > 0 {
			r, _ := utf8.DecodeLastRuneInString(name[:i])
			before = isWordRune(r)
		}
		after := false
		if end < len(name) {
			r, _ := utf8.DecodeRuneInString(name[end:])
			after = isWordRune(r)
		}

		if before != isWordRune(first) && isWordRune(last) != after {
			return true
		}

		_, size := utf8.DecodeRuneInString(name[i:])
		off = i + size
	}
	return false
}
