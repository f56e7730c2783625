package entry

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"
)

// NoBranch marks an entry that is not under version control or whose branch
// could not be resolved. It is distinct from an empty branch name.
const NoBranch = "no-branch"

// Kind classifies what an entry refers to.
type Kind int

const (
	ProjectOrSolution Kind = iota
	FileOrFolder
	Unknown
)

// KindFromCode maps the IDE's numeric type code to a Kind.
// Codes other than 0 and 1 map to Unknown.
func KindFromCode(code int) Kind {
	switch code {
	case 0:
		return ProjectOrSolution
	case 1:
		return FileOrFolder
	default:
		return Unknown
	}
}

func (k Kind) String() string {
	switch k {
	case ProjectOrSolution:
		return "project"
	case FileOrFolder:
		return "file"
	default:
		return "unknown"
	}
}

// LocalProperties describes where the item lives on disk.
type LocalProperties struct {
	FullPath      string          `json:"FullPath"`
	Type          int             `json:"Type"`
	SourceControl json.RawMessage `json:"SourceControl"`

	// Extra holds members this package does not know, written back unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

// Value holds the mutable part of a record.
type Value struct {
	LocalProperties    LocalProperties `json:"LocalProperties"`
	Remote             json.RawMessage `json:"Remote"`
	IsFavorite         bool            `json:"IsFavorite"`
	LastAccessed       time.Time       `json:"LastAccessed"`
	IsLocal            bool            `json:"IsLocal"`
	HasRemote          bool            `json:"HasRemote"`
	IsSourceControlled bool            `json:"IsSourceControlled"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Entry is one recent item as stored by the IDE.
type Entry struct {
	Key   string `json:"Key"`
	Value Value  `json:"Value"`

	Extra map[string]json.RawMessage `json:"-"`
}

// FullPath returns the filesystem path of the referenced item.
func (e Entry) FullPath() string { return e.Value.LocalProperties.FullPath }

// Kind returns the item kind derived from the raw type code.
func (e Entry) Kind() Kind { return KindFromCode(e.Value.LocalProperties.Type) }

// LastAccessed returns when the IDE last opened the item.
func (e Entry) LastAccessed() time.Time { return e.Value.LastAccessed }

// IsFavorite reports whether the item is pinned in the IDE.
func (e Entry) IsFavorite() bool { return e.Value.IsFavorite }

// Name returns the display name: the base name of FullPath.
// Both slash styles are treated as separators since records are usually
// written on Windows.
func (e Entry) Name() string {
	return BaseName(e.FullPath())
}

// BaseName returns the last element of a path written with either
// forward or backward slashes.
func BaseName(path string) string {
	trimmed := strings.TrimRight(path, `/\`)
	if trimmed == "" {
		return path
	}
	if i := strings.LastIndexAny(trimmed, `/\`); i >= 0 {
		return trimmed[i+1:]
	}
	return filepath.Base(trimmed)
}

// DirName returns everything before the last path element of a path written
// with either forward or backward slashes. Returns "" when path has no
// directory part.
func DirName(path string) string {
	trimmed := strings.TrimRight(path, `/\`)
	i := strings.LastIndexAny(trimmed, `/\`)
	switch {
	case i < 0:
		return ""
	case i == 0:
		return trimmed[:1]
	case trimmed[i-1] == ':':
		return trimmed[:i+1]
	default:
		return trimmed[:i]
	}
}

// Normalize collapses JSON null in opaque fields to nil so that decoded
// and freshly constructed entries compare equal.
func (e *Entry) Normalize() {
	e.Value.Remote = normalizeRaw(e.Value.Remote)
	e.Value.LocalProperties.SourceControl = normalizeRaw(e.Value.LocalProperties.SourceControl)
}

func normalizeRaw(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return raw
}

// Annotated is an entry plus annotations computed during a sync cycle.
type Annotated struct {
	Entry
	GitBranch string
}

// Annotate wraps an entry with the NoBranch annotation.
func Annotate(e Entry) Annotated {
	return Annotated{Entry: e, GitBranch: NoBranch}
}

// HasBranch reports whether a branch was resolved for the entry.
func (a Annotated) HasBranch() bool {
	return a.GitBranch != NoBranch
}

// Plain strips annotations from a slice of annotated entries.
func Plain(items []Annotated) []Entry {
	out := make([]Entry, len(items))
	for i, a := range items {
		out[i] = a.Entry
	}
	return out
}
