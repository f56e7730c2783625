package syncer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/raphi011/recents/internal/entry"
	"github.com/raphi011/recents/internal/lock"
	"github.com/raphi011/recents/internal/record"
	"github.com/raphi011/recents/internal/store"
)

const docHead = `<?xml version="1.0" encoding="utf-8"?>
<content>
  <indexed>
    <collection name="Unrelated"><value name="value">  untouched  </value></collection>
    <collection name="CodeContainers.Offline">
      <value name="value">`

const docTail = `</value>
    </collection>
  </indexed>
</content>
`

func newEntry(key, path string, typ int, accessed time.Time) entry.Entry {
	return entry.Entry{
		Key: key,
		Value: entry.Value{
			LocalProperties: entry.LocalProperties{FullPath: path, Type: typ},
			LastAccessed:    accessed,
		},
	}
}

// writeSource writes a record document holding entries and sets its mtime.
func writeSource(t *testing.T, dir, name string, mtime time.Time, entries ...entry.Entry) Source {
	t.Helper()

	payload, err := record.Marshal(entries)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(docHead+string(payload)+docTail), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}
	return Source{Path: path, LastWriteTime: mtime}
}

func readKeys(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	entries, err := record.Decode(data)
	if err != nil {
		t.Fatalf("Decode(%s) error = %v", path, err)
	}
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

type branchAnnotator struct{ branch string }

func (a branchAnnotator) Annotate(_ context.Context, entries []entry.Entry) []entry.Annotated {
	out := make([]entry.Annotated, len(entries))
	for i, e := range entries {
		out[i] = entry.Annotated{Entry: e, GitBranch: a.branch}
	}
	return out
}

func TestFreshest(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		sources []Source
		want    string
		ok      bool
	}{
		{"empty", nil, "", false},
		{"single", []Source{{Path: "a", LastWriteTime: t0}}, "a", true},
		{"newest wins", []Source{{Path: "a", LastWriteTime: t0}, {Path: "b", LastWriteTime: t0.Add(time.Hour)}}, "b", true},
		{"tie keeps first", []Source{{Path: "a", LastWriteTime: t0}, {Path: "b", LastWriteTime: t0}}, "a", true},
		{"missing never wins", []Source{{Path: "gone"}, {Path: "a", LastWriteTime: t0}}, "a", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Freshest(tt.sources)
			if ok != tt.ok || got.Path != tt.want {
				t.Errorf("Freshest() = %q, %v; want %q, %v", got.Path, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestStat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mtime := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	src := writeSource(t, dir, "a.xml", mtime)
	missing := filepath.Join(dir, "missing.xml")

	got := Stat([]string{src.Path, missing})
	if len(got) != 2 {
		t.Fatalf("Stat() returned %d sources, want 2", len(got))
	}
	if !got[0].LastWriteTime.Equal(mtime) {
		t.Errorf("Stat()[0].LastWriteTime = %v, want %v", got[0].LastWriteTime, mtime)
	}
	if got[1].Path != missing || !got[1].LastWriteTime.IsZero() {
		t.Errorf("Stat()[1] = %+v, want missing path with zero time", got[1])
	}
}

func TestPull_FreshestSourceWins(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := writeSource(t, dir, "older.xml", t0, newEntry("old", "/old", 0, t0))
	newer := writeSource(t, dir, "newer.xml", t0.Add(time.Hour), newEntry("new1", "/new1", 0, t0), newEntry("new2", "/new2", 1, t0))

	s := store.New()
	e := New(s, Options{Annotator: branchAnnotator{branch: "main"}})

	src, err := e.Pull(context.Background(), []Source{older, newer})
	if err != nil {
		t.Fatalf("Pull() error = %v", err)
	}
	if src.Path != newer.Path {
		t.Errorf("Pull() read %q, want %q", src.Path, newer.Path)
	}

	if s.Len() != 2 {
		t.Fatalf("store has %d entries, want 2", s.Len())
	}
	got, ok := s.Get("new2")
	if !ok || got.GitBranch != "main" {
		t.Errorf("Get(new2) = %+v, %v; want annotated entry", got, ok)
	}
	if _, ok := s.Get("old"); ok {
		t.Error("store contains entry from the older source")
	}
}

func TestPull_NilAnnotatorUsesNoBranch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeSource(t, dir, "a.xml", time.Now(), newEntry("k", "/k", 1, time.Time{}))

	s := store.New()
	if _, err := New(s, Options{}).Pull(context.Background(), []Source{src}); err != nil {
		t.Fatalf("Pull() error = %v", err)
	}
	got, _ := s.Get("k")
	if got.GitBranch != entry.NoBranch {
		t.Errorf("GitBranch = %q, want %q", got.GitBranch, entry.NoBranch)
	}
}

func TestPull_Failures(t *testing.T) {
	t.Parallel()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		ctx     context.Context
		sources func(dir string) []Source
		wantErr error
	}{
		{
			name:    "no sources",
			ctx:     context.Background(),
			sources: func(string) []Source { return nil },
			wantErr: ErrNoSources,
		},
		{
			name: "freshest source missing",
			ctx:  context.Background(),
			sources: func(dir string) []Source {
				return []Source{{Path: filepath.Join(dir, "gone.xml"), LastWriteTime: time.Now()}}
			},
			wantErr: ErrSourceUnavailable,
		},
		{
			name: "freshest source is a directory",
			ctx:  context.Background(),
			sources: func(dir string) []Source {
				return []Source{{Path: dir, LastWriteTime: time.Now()}}
			},
			wantErr: ErrSourceUnavailable,
		},
		{
			name:    "cancelled before start",
			ctx:     cancelled,
			sources: func(dir string) []Source { return []Source{{Path: filepath.Join(dir, "x.xml")}} },
			wantErr: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := store.New()
			s.Upsert(entry.Annotate(newEntry("keep", "/keep", 0, time.Time{})))

			_, err := New(s, Options{}).Pull(tt.ctx, tt.sources(t.TempDir()))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Pull() error = %v, want %v", err, tt.wantErr)
			}
			if _, ok := s.Get("keep"); !ok || s.Len() != 1 {
				t.Error("Pull() failure modified the store")
			}
		})
	}
}

func TestPull_MalformedRecordIsEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.xml")
	if err := os.WriteFile(path, []byte(docHead+`[{"Key":`+docTail), 0o644); err != nil {
		t.Fatal(err)
	}

	s := store.New()
	s.Upsert(entry.Annotate(newEntry("old", "/old", 0, time.Time{})))

	if _, err := New(s, Options{}).Pull(context.Background(), []Source{{Path: path, LastWriteTime: time.Now()}}); err != nil {
		t.Fatalf("Pull() error = %v, want nil for malformed record", err)
	}
	if s.Len() != 0 {
		t.Errorf("store has %d entries, want 0", s.Len())
	}
}

func TestPush_WritesEverySource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := newEntry("k1", "/p/Sol.sln", 0, t0)
	b := newEntry("k2", "/p/file.txt", 1, t0.Add(time.Hour))

	sources := []Source{
		writeSource(t, dir, "one.xml", t0, a, b),
		writeSource(t, dir, "two.xml", t0, a),
		writeSource(t, dir, "three.xml", t0),
	}

	s := store.New()
	s.ReplaceAll([]entry.Annotated{entry.Annotate(a), entry.Annotate(b)})
	s.Remove("k1")

	res := New(s, Options{}).Push(context.Background(), sources)
	if !res.OK() || res.Status() != Succeeded {
		t.Fatalf("Push() = %+v, want success; err = %v", res, res.Err())
	}

	for _, src := range sources {
		keys := readKeys(t, src.Path)
		if len(keys) != 1 || keys[0] != "k2" {
			t.Errorf("%s keys = %v, want [k2]", filepath.Base(src.Path), keys)
		}

		data, _ := os.ReadFile(src.Path)
		if !strings.HasPrefix(string(data), docHead) || !strings.HasSuffix(string(data), docTail) {
			t.Errorf("%s: surrounding document changed:\n%s", filepath.Base(src.Path), data)
		}
	}
}

func TestPush_OrdersMostRecentFirst(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	src := writeSource(t, dir, "a.xml", t0)

	s := store.New()
	s.ReplaceAll([]entry.Annotated{
		entry.Annotate(newEntry("old", "/old", 0, t0)),
		entry.Annotate(newEntry("newest", "/newest", 0, t0.Add(2*time.Hour))),
		entry.Annotate(newEntry("mid", "/mid", 0, t0.Add(time.Hour))),
	})

	if res := New(s, Options{}).Push(context.Background(), []Source{src}); !res.OK() {
		t.Fatalf("Push() err = %v", res.Err())
	}

	got := strings.Join(readKeys(t, src.Path), ",")
	if got != "newest,mid,old" {
		t.Errorf("pushed order = %s, want newest,mid,old", got)
	}
}

func TestPush_LockedSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	t0 := time.Now()
	sources := []Source{
		writeSource(t, dir, "one.xml", t0),
		writeSource(t, dir, "two.xml", t0),
		writeSource(t, dir, "three.xml", t0),
	}

	held := lock.New(lock.PathFor(sources[1].Path))
	if err := held.TryLock(); err != nil {
		t.Fatalf("TryLock() error = %v", err)
	}
	defer held.Unlock()

	s := store.New()
	s.Upsert(entry.Annotate(newEntry("k", "/k", 0, t0)))

	start := time.Now()
	res := New(s, Options{LockTimeout: 100 * time.Millisecond}).Push(context.Background(), sources)
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Push() took %v, want bounded retry", elapsed)
	}

	if res.Status() != PartiallyFailed {
		t.Errorf("Status() = %v, want %v", res.Status(), PartiallyFailed)
	}
	if len(res.Failed()) != 1 || len(res.Succeeded()) != 2 {
		t.Fatalf("Push() failed=%d succeeded=%d, want 1 and 2", len(res.Failed()), len(res.Succeeded()))
	}

	failed := res.Failed()[0]
	if failed.Source.Path != sources[1].Path {
		t.Errorf("failed source = %q, want %q", failed.Source.Path, sources[1].Path)
	}
	if !errors.Is(failed.Err, ErrSourceLocked) {
		t.Errorf("failed error = %v, want ErrSourceLocked", failed.Err)
	}
	if keys := readKeys(t, sources[1].Path); len(keys) != 0 {
		t.Errorf("locked source was written: %v", keys)
	}
}

func TestPush_IndependentFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeSource(t, dir, "good.xml", time.Now())

	noNode := filepath.Join(dir, "nonode.xml")
	if err := os.WriteFile(noNode, []byte(`<content><indexed/></content>`), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing", "gone.xml")

	s := store.New()
	s.Upsert(entry.Annotate(newEntry("k", "/k", 0, time.Now())))

	res := New(s, Options{}).Push(context.Background(), Stat([]string{noNode, good.Path, missing}))

	if len(res.Outcomes) != 3 {
		t.Fatalf("Push() returned %d outcomes, want 3", len(res.Outcomes))
	}
	if !errors.Is(res.Outcomes[0].Err, ErrStructural) || !errors.Is(res.Outcomes[0].Err, record.ErrNodeNotFound) {
		t.Errorf("outcome[0] = %v, want ErrStructural wrapping ErrNodeNotFound", res.Outcomes[0].Err)
	}
	if !res.Outcomes[1].OK() {
		t.Errorf("outcome[1] = %v, want success", res.Outcomes[1].Err)
	}
	if !errors.Is(res.Outcomes[2].Err, ErrSourceUnavailable) {
		t.Errorf("outcome[2] = %v, want ErrSourceUnavailable", res.Outcomes[2].Err)
	}

	var srcErr *SourceError
	if !errors.As(res.Err(), &srcErr) {
		t.Errorf("Err() = %v, want *SourceError in chain", res.Err())
	}

	data, _ := os.ReadFile(noNode)
	if string(data) != `<content><indexed/></content>` {
		t.Errorf("document without node was modified: %s", data)
	}
}

func TestPush_IgnoresCancellation(t *testing.T) {
	t.Parallel()

	src := writeSource(t, t.TempDir(), "a.xml", time.Now())
	s := store.New()
	s.Upsert(entry.Annotate(newEntry("k", "/k", 0, time.Now())))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if res := New(s, Options{}).Push(ctx, []Source{src}); !res.OK() {
		t.Fatalf("Push() with cancelled ctx err = %v, want completion", res.Err())
	}
	if keys := readKeys(t, src.Path); len(keys) != 1 {
		t.Errorf("keys = %v, want [k]", keys)
	}
}

func TestPush_ConcurrentSameSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sources := []Source{writeSource(t, dir, "a.xml", time.Now()), writeSource(t, dir, "b.xml", time.Now())}

	s := store.New()
	e := New(s, Options{LockTimeout: 50 * time.Millisecond})

	var wg sync.WaitGroup
	results := make([]Result, 6)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Upsert(entry.Annotate(newEntry(string(rune('a'+i)), "/x", 0, time.Now())))
			results[i] = e.Push(context.Background(), sources)
		}()
	}
	wg.Wait()

	for i, r := range results {
		if !r.OK() {
			t.Errorf("push %d failed: %v", i, r.Err())
		}
	}

	// The last push to finish wrote the full store.
	if res := e.Push(context.Background(), sources); !res.OK() {
		t.Fatalf("final Push() err = %v", res.Err())
	}
	for _, src := range sources {
		if keys := readKeys(t, src.Path); len(keys) != len(results) {
			t.Errorf("%s has %d keys, want %d", filepath.Base(src.Path), len(keys), len(results))
		}
	}
}

func TestResult(t *testing.T) {
	t.Parallel()

	ok := Outcome{Source: Source{Path: "a"}}
	bad := Outcome{Source: Source{Path: "b"}, Err: sourceErr("b", ErrSourceLocked, nil)}

	if r := (Result{}); !r.OK() || r.Err() != nil {
		t.Errorf("empty Result: OK() = %v, Err() = %v", r.OK(), r.Err())
	}

	r := Result{Outcomes: []Outcome{ok, bad}}
	if r.OK() || r.Status() != PartiallyFailed {
		t.Errorf("Status() = %v, want partially failed", r.Status())
	}
	if !errors.Is(r.Err(), ErrSourceLocked) {
		t.Errorf("Err() = %v, want ErrSourceLocked", r.Err())
	}
	if got := bad.Err.Error(); got != "b: source locked" {
		t.Errorf("SourceError.Error() = %q", got)
	}
	if Succeeded.String() != "succeeded" || PartiallyFailed.String() != "partially failed" {
		t.Error("unexpected Status strings")
	}
}
