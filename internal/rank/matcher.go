package rank

import (
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// exactMatchBonus is added per query rune when the candidate equals the
// query ignoring case. It exceeds the separator and camel-case bonuses a
// partial match can collect per rune, so an exact match always ranks first.
const exactMatchBonus = 50

// MatchResult is the outcome of matching a query against one candidate.
type MatchResult struct {
	Score int
	// PrecisionMet reports that every query rune was found in order. The
	// score of such a match may still be negative.
	PrecisionMet bool
	// Indexes are the rune offsets of matched characters in the candidate.
	Indexes []int
}

// Matcher is the fuzzy-match primitive used for every signal.
type Matcher interface {
	Match(query, candidate string) MatchResult
}

// FuzzyMatcher matches in the style of editor file pickers: characters of
// the query must appear in order; matches at word starts, after separators
// and adjacent to each other score higher.
type FuzzyMatcher struct{}

// NewFuzzyMatcher returns the default matcher.
func NewFuzzyMatcher() *FuzzyMatcher {
	return &FuzzyMatcher{}
}

// Match implements Matcher.
func (m *FuzzyMatcher) Match(query, candidate string) MatchResult {
	if query == "" || candidate == "" {
		return MatchResult{}
	}

	matches := fuzzy.Find(query, []string{candidate})
	if len(matches) == 0 {
		return MatchResult{}
	}

	best := matches[0]
	score := best.Score
	if strings.EqualFold(query, candidate) {
		score += exactMatchBonus * utf8.RuneCountInString(query)
	}

	return MatchResult{
		Score:        score,
		PrecisionMet: true,
		Indexes:      runeOffsets(candidate, best.MatchedIndexes),
	}
}

// runeOffsets converts byte offsets into s to rune offsets.
func runeOffsets(s string, byteOffsets []int) []int {
	if len(byteOffsets) == 0 {
		return nil
	}

	out := make([]int, 0, len(byteOffsets))
	next := 0
	runeIdx := 0
	for i := range s {
		for next < len(byteOffsets) && byteOffsets[next] == i {
			out = append(out, runeIdx)
			next++
		}
		if next == len(byteOffsets) {
			break
		}
		runeIdx++
	}
	return out
}
