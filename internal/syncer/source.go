package syncer

import (
	"errors"
	"fmt"
	"os"
	"time"
)

var (
	// ErrNoSources is returned by Pull when there is nothing to read.
	ErrNoSources = errors.New("no record sources")

	// ErrSourceUnavailable marks a record file that is missing or unreadable.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrSourceLocked marks a record file held by another writer.
	ErrSourceLocked = errors.New("source locked")

	// ErrStructural marks a record document without the recent-items node.
	ErrStructural = errors.New("source structure invalid")
)

// Source is one on-disk record file.
type Source struct {
	Path          string
	LastWriteTime time.Time
}

// Stat builds sources for paths. A path that cannot be stated is still
// returned, with a zero LastWriteTime, so that it never wins Pull but is
// reported by Push.
func Stat(paths []string) []Source {
	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		src := Source{Path: p}
		if info, err := os.Stat(p); err == nil {
			src.LastWriteTime = info.ModTime()
		}
		sources = append(sources, src)
	}
	return sources
}

// Freshest returns the source with the greatest LastWriteTime.
// Ties resolve to the earliest source in the slice.
func Freshest(sources []Source) (Source, bool) {
	if len(sources) == 0 {
		return Source{}, false
	}

	best := sources[0]
	for _, s := range sources[1:] {
		if s.LastWriteTime.After(best.LastWriteTime) {
			best = s
		}
	}
	return best, true
}

// SourceError describes a failure on one source.
type SourceError struct {
	Path string
	Kind error // ErrSourceUnavailable, ErrSourceLocked or ErrStructural
	Err  error
}

func (e *SourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Path, e.Kind, e.Err)
}

// Unwrap exposes both the classification and the cause.
func (e *SourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func sourceErr(path string, kind, err error) *SourceError {
	return &SourceError{Path: path, Kind: kind, Err: err}
}
