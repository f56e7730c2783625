package rank

import (
	"context"
	"sort"
	"strings"

	"github.com/raphi011/recents/internal/entry"
)

// NameWeight scales the name score in blended mode.
const NameWeight = 1.6

const (
	projectPrefix = "p:"
	filePrefix    = "f:"
)

// cancelCheckInterval is how many entries are scored between context checks.
const cancelCheckInterval = 256

// Query is a parsed search query.
type Query struct {
	// Text is the search text with any kind prefix removed.
	Text string
	// Kind restricts results when Filtered is set.
	Kind     entry.Kind
	Filtered bool
}

// ParseQuery splits an optional "p:" or "f:" prefix off raw.
func ParseQuery(raw string) Query {
	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, projectPrefix):
		return Query{Text: strings.TrimSpace(raw[len(projectPrefix):]), Kind: entry.ProjectOrSolution, Filtered: true}
	case strings.HasPrefix(lower, filePrefix):
		return Query{Text: strings.TrimSpace(raw[len(filePrefix):]), Kind: entry.FileOrFolder, Filtered: true}
	default:
		return Query{Text: strings.TrimSpace(raw)}
	}
}

// Allows reports whether entries of kind k are eligible for q.
func (q Query) Allows(k entry.Kind) bool {
	return !q.Filtered || q.Kind == k
}

// Browse reports whether q lists entries instead of searching.
func (q Query) Browse() bool {
	return q.Text == ""
}

// Options selects the optional blended signals.
type Options struct {
	SearchPath   bool
	SearchBranch bool
	// BrowseNewest lists the most recently accessed entries first when
	// browsing.
	BrowseNewest bool
}

func (o Options) blended() bool {
	return o.SearchPath || o.SearchBranch
}

// Result is one scored entry. Highlights are rune offsets into the entry's
// display name and belong to this query only.
type Result struct {
	Entry      entry.Annotated
	Score      int
	Matched    bool
	Highlights []int
}

// Engine scores entries against queries.
type Engine struct {
	matcher Matcher
	opts    Options
}

// New creates an engine. A nil matcher uses NewFuzzyMatcher.
func New(m Matcher, opts Options) *Engine {
	if m == nil {
		m = NewFuzzyMatcher()
	}
	return &Engine{matcher: m, opts: opts}
}

// Score evaluates a against q.
func (e *Engine) Score(a entry.Annotated, q Query) Result {
	res := Result{Entry: a}

	if !q.Allows(a.Kind()) {
		return res
	}
	if q.Browse() {
		res.Matched = true
		return res
	}

	name := e.matcher.Match(q.Text, a.Name())
	res.Highlights = name.Indexes

	if !e.opts.blended() {
		res.Score = name.Score
		res.Matched = name.PrecisionMet
		return res
	}

	var extra int
	if e.opts.SearchPath {
		extra += e.matcher.Match(q.Text, a.FullPath()).Score
	}
	if e.opts.SearchBranch && a.HasBranch() {
		extra += e.matcher.Match(q.Text, a.GitBranch).Score
	}

	res.Score = int(float64(name.Score)*NameWeight + float64(extra))
	res.Matched = res.Score > 0
	return res
}

// Search scores items against raw and returns matched results in display
// order. If ctx is done at any point, Search returns no results and ctx's
// error.
func (e *Engine) Search(ctx context.Context, items []entry.Annotated, raw string) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := ParseQuery(raw)
	results := make([]Result, 0, len(items))

	for i, it := range items {
		if i%cancelCheckInterval == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if r := e.Score(it, q); r.Matched {
			results = append(results, r)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch {
	case q.Browse() && e.opts.BrowseNewest:
		SortByRecent(results)
	case q.Browse():
		SortByLastAccessed(results)
	default:
		SortByScore(results)
	}
	return results, nil
}

// SortByLastAccessed orders results stalest first, then by key.
func SortByLastAccessed(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].Entry.LastAccessed(), results[j].Entry.LastAccessed()
		if !a.Equal(b) {
			return a.Before(b)
		}
		return results[i].Entry.Key < results[j].Entry.Key
	})
}

// SortByRecent orders results most recently accessed first, then by key.
func SortByRecent(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].Entry.LastAccessed(), results[j].Entry.LastAccessed()
		if !a.Equal(b) {
			return a.After(b)
		}
		return results[i].Entry.Key < results[j].Entry.Key
	})
}

// SortByScore orders results by descending score; ties go to the most
// recently accessed entry, then by key.
func SortByScore(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		a, b := results[i].Entry.LastAccessed(), results[j].Entry.LastAccessed()
		if !a.Equal(b) {
			return a.After(b)
		}
		return results[i].Entry.Key < results[j].Entry.Key
	})
}
