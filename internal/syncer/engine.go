package syncer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/natefinch/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/raphi011/recents/internal/entry"
	"github.com/raphi011/recents/internal/lock"
	"github.com/raphi011/recents/internal/log"
	"github.com/raphi011/recents/internal/record"
	"github.com/raphi011/recents/internal/store"
)

// DefaultLockTimeout is how long Push waits for a held source lock.
const DefaultLockTimeout = 500 * time.Millisecond

// Annotator adds per-sync annotations to freshly read entries.
type Annotator interface {
	Annotate(ctx context.Context, entries []entry.Entry) []entry.Annotated
}

// Options configures an Engine.
type Options struct {
	// Annotator resolves annotations on Pull. Nil leaves every entry
	// with entry.NoBranch.
	Annotator Annotator

	// LockTimeout bounds the wait for a held source lock. Zero means
	// DefaultLockTimeout.
	LockTimeout time.Duration
}

// Engine moves entries between a store and record files.
type Engine struct {
	store       *store.Store
	annotator   Annotator
	lockTimeout time.Duration

	mu      sync.Mutex
	writers map[string]*sync.Mutex
}

// New creates an engine operating on s.
func New(s *store.Store, opts Options) *Engine {
	timeout := opts.LockTimeout
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	return &Engine{
		store:       s,
		annotator:   opts.Annotator,
		lockTimeout: timeout,
		writers:     make(map[string]*sync.Mutex),
	}
}

// Pull replaces the store with the entries of the freshest source and
// returns the source that was read. On error the store is unchanged.
func (e *Engine) Pull(ctx context.Context, sources []Source) (Source, error) {
	if err := ctx.Err(); err != nil {
		return Source{}, err
	}

	src, ok := Freshest(sources)
	if !ok {
		return Source{}, ErrNoSources
	}

	ctx = context.WithoutCancel(ctx)

	entries, err := readSource(src.Path)
	if err != nil {
		return src, err
	}

	e.store.ReplaceAll(e.annotate(ctx, entries))

	log.FromContext(ctx).Debug("pulled source", "path", src.Path, "entries", len(entries))
	return src, nil
}

// Replace annotates entries and makes them the store's contents. It does
// not write any source; follow it with Push to make the change durable.
func (e *Engine) Replace(ctx context.Context, entries []entry.Entry) {
	e.store.ReplaceAll(e.annotate(context.WithoutCancel(ctx), entries))
}

// Push writes the current store contents into every source. The store is
// serialized once; each source is written independently and in parallel.
// Push always runs to completion, even if ctx is cancelled.
func (e *Engine) Push(ctx context.Context, sources []Source) Result {
	ctx = context.WithoutCancel(ctx)
	res := Result{Outcomes: make([]Outcome, len(sources))}

	payload, err := record.Marshal(ordered(e.store.Entries()))
	if err != nil {
		for i, src := range sources {
			res.Outcomes[i] = Outcome{Source: src, Err: err}
		}
		return res
	}

	var g errgroup.Group
	g.SetLimit(max(1, len(sources)))

	for i, src := range sources {
		g.Go(func() error {
			res.Outcomes[i] = Outcome{Source: src, Err: e.writeSource(ctx, src.Path, payload)}
			return nil // outcomes carry per-source errors
		})
	}

	_ = g.Wait()

	l := log.FromContext(ctx)
	for _, o := range res.Outcomes {
		if o.OK() {
			l.Debug("pushed source", "path", o.Source.Path)
		} else {
			l.Debug("push failed", "path", o.Source.Path, "err", o.Err)
		}
	}

	return res
}

func (e *Engine) annotate(ctx context.Context, entries []entry.Entry) []entry.Annotated {
	if e.annotator != nil {
		return e.annotator.Annotate(ctx, entries)
	}
	out := make([]entry.Annotated, len(entries))
	for i, en := range entries {
		out[i] = entry.Annotate(en)
	}
	return out
}

// writerFor returns the in-process mutex serializing writes to path.
func (e *Engine) writerFor(path string) *sync.Mutex {
	key := filepath.Clean(path)

	e.mu.Lock()
	defer e.mu.Unlock()

	mu, ok := e.writers[key]
	if !ok {
		mu = &sync.Mutex{}
		e.writers[key] = mu
	}
	return mu
}

func (e *Engine) writeSource(ctx context.Context, path string, payload []byte) error {
	mu := e.writerFor(path)
	mu.Lock()
	defer mu.Unlock()

	if _, err := os.Stat(path); err != nil {
		return sourceErr(path, ErrSourceUnavailable, err)
	}

	fl := lock.New(lock.PathFor(path))
	if err := fl.TryLockFor(ctx, e.lockTimeout); err != nil {
		if errors.Is(err, lock.ErrLocked) {
			return sourceErr(path, ErrSourceLocked, nil)
		}
		return sourceErr(path, ErrSourceUnavailable, err)
	}
	defer func() { _ = fl.Unlock() }()

	doc, err := os.ReadFile(path)
	if err != nil {
		return sourceErr(path, ErrSourceUnavailable, err)
	}

	out, err := record.Replace(doc, payload)
	if err != nil {
		return sourceErr(path, ErrStructural, err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(out)); err != nil {
		return sourceErr(path, ErrSourceUnavailable, err)
	}
	return nil
}

func readSource(path string) ([]entry.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, sourceErr(path, ErrSourceUnavailable, err)
	}
	defer f.Close()

	entries, err := record.DecodeReader(f)
	if err != nil {
		return nil, sourceErr(path, ErrSourceUnavailable, err)
	}
	return entries, nil
}

// ordered sorts entries most recently accessed first, then by key, so that
// every push of the same store produces the same document.
func ordered(entries []entry.Entry) []entry.Entry {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].LastAccessed(), entries[j].LastAccessed()
		if !a.Equal(b) {
			return a.After(b)
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}
