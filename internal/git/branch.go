package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/recents/internal/entry"
)

// DefaultTimeout bounds a single branch query.
const DefaultTimeout = 2 * time.Second

// maxConcurrentQueries bounds concurrent git processes during annotation.
const maxConcurrentQueries = 8

// BranchDir returns the directory whose branch describes an entry:
// the parent directory for projects and solutions, the path itself for
// files and folders. Unknown kinds have no branch directory.
func BranchDir(kind entry.Kind, path string) string {
	switch kind {
	case entry.ProjectOrSolution:
		return entry.DirName(path)
	case entry.FileOrFolder:
		return path
	default:
		return ""
	}
}

// HasMarker reports whether dir contains a .git directory or file.
func HasMarker(dir string) bool {
	if strings.TrimSpace(dir) == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// CurrentBranch returns the abbreviated name of HEAD in dir.
// Detached HEAD is reported as "HEAD".
func CurrentBranch(ctx context.Context, dir string) (string, error) {
	out, err := outputGit(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Resolver resolves entry branches. It never fails: anything that prevents
// a branch from being read resolves to [entry.NoBranch].
type Resolver struct {
	// Timeout bounds each git invocation. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Branch resolves the branch for an entry of the given kind and path.
func (r *Resolver) Branch(ctx context.Context, kind entry.Kind, path string) string {
	return r.branchForDir(ctx, BranchDir(kind, path))
}

func (r *Resolver) branchForDir(ctx context.Context, dir string) string {
	if !HasMarker(dir) {
		return entry.NoBranch
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	branch, err := CurrentBranch(ctx, dir)
	if err != nil || branch == "" {
		return entry.NoBranch
	}
	return branch
}

// Annotate resolves branches for entries in parallel. Each distinct
// directory is queried at most once per call, so one call corresponds to
// one sync cycle's cache.
func (r *Resolver) Annotate(ctx context.Context, entries []entry.Entry) []entry.Annotated {
	cache := newBranchCache()
	out := make([]entry.Annotated, len(entries))

	var g errgroup.Group
	g.SetLimit(maxConcurrentQueries)

	for i, e := range entries {
		g.Go(func() error {
			dir := BranchDir(e.Kind(), e.FullPath())
			branch := cache.get(dir, func() string { return r.branchForDir(ctx, dir) })
			out[i] = entry.Annotated{Entry: e, GitBranch: branch}
			return nil // unresolved branches become NoBranch
		})
	}

	_ = g.Wait()
	return out
}

// branchCache memoizes branch lookups per directory.
type branchCache struct {
	mu      sync.Mutex
	results map[string]*cachedBranch
}

type cachedBranch struct {
	once   sync.Once
	branch string
}

func newBranchCache() *branchCache {
	return &branchCache{results: make(map[string]*cachedBranch)}
}

func (c *branchCache) get(dir string, resolve func() string) string {
	c.mu.Lock()
	res, ok := c.results[dir]
	if !ok {
		res = &cachedBranch{}
		c.results[dir] = res
	}
	c.mu.Unlock()

	res.once.Do(func() { res.branch = resolve() })
	return res.branch
}
