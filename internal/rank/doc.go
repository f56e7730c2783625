// Package rank scores recent entries against a search query.
//
// # Query Syntax
//
// A query may start with a kind prefix:
//
//	p:app     only projects and solutions
//	f:notes   only files and folders
//	app       any kind
//
// Prefixes are case-insensitive and stripped before matching.
//
// # Scoring
//
// The base signal is a fuzzy match of the text against the entry's display
// name. Two optional signals can be blended in: the full path and the
// resolved git branch. In blended mode the name score is weighted by
// [NameWeight] and an entry matches when the total is positive. In simple
// mode (no optional signals) an entry matches when every character of the
// text is found in order in the name, whatever its score.
//
// # Browsing
//
// An empty search text matches every entry of the allowed kind with a
// neutral score. Browse results are ordered by last access ascending, which
// lists the stalest entries first, unless [Options.BrowseNewest] is set.
package rank
