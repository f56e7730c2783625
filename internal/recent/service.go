package recent

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/raphi011/recents/internal/backup"
	"github.com/raphi011/recents/internal/config"
	"github.com/raphi011/recents/internal/entry"
	"github.com/raphi011/recents/internal/git"
	"github.com/raphi011/recents/internal/instance"
	"github.com/raphi011/recents/internal/log"
	"github.com/raphi011/recents/internal/rank"
	"github.com/raphi011/recents/internal/state"
	"github.com/raphi011/recents/internal/store"
	"github.com/raphi011/recents/internal/syncer"
)

var (
	// ErrEntryNotFound is returned when removing a key that is not stored.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrNoBackup is returned when reverting without a saved backup.
	ErrNoBackup = errors.New("no backup saved")

	// ErrNoInstances is returned when no installation is known.
	ErrNoInstances = errors.New("no installations found")
)

// Locator discovers installations.
type Locator interface {
	Locate(ctx context.Context) ([]instance.Instance, error)
}

// Options configures a Service.
type Options struct {
	Config *config.Config
	State  *state.Store

	// Locator defaults to running config.LocatorPath.
	Locator Locator

	// Annotator defaults to a git branch resolver.
	Annotator syncer.Annotator

	// Now defaults to time.Now.
	Now func() time.Time
}

// Service runs recent-items operations against one in-memory store.
type Service struct {
	cfg     *config.Config
	state   *state.Store
	locator Locator
	now     func() time.Time

	store   *store.Store
	sync    *syncer.Engine
	rank    *rank.Engine
	backups *backup.Manager

	mu        sync.Mutex
	instances []instance.Instance
	located   bool
}

// New creates a Service.
func New(opts Options) *Service {
	cfg := opts.Config
	if cfg == nil {
		d := config.Default()
		cfg = &d
	}

	locator := opts.Locator
	if locator == nil {
		locator = instance.NewLocator(cfg.LocatorPath)
	}

	annotator := opts.Annotator
	if annotator == nil {
		annotator = &git.Resolver{Timeout: cfg.GitTimeout.Duration}
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	st := store.New()
	return &Service{
		cfg:     cfg,
		state:   opts.State,
		locator: locator,
		now:     now,
		store:   st,
		sync: syncer.New(st, syncer.Options{
			Annotator:   annotator,
			LockTimeout: cfg.LockTimeout.Duration,
		}),
		rank: rank.New(nil, rank.Options{
			SearchPath:   cfg.Search.Path,
			SearchBranch: cfg.Search.Branch,
			BrowseNewest: cfg.BrowseNewestFirst(),
		}),
		backups: backup.NewManager(),
	}
}

// Instances returns the known installations: those reported by the locator
// followed by any configured statically. Discovery runs once per Service.
// A missing locator is only an error when no static instance is configured.
func (s *Service) Instances(ctx context.Context) ([]instance.Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.located {
		return s.instances, nil
	}

	static := instance.FromConfig(s.cfg.Instances)
	located, err := s.locator.Locate(ctx)
	if err != nil {
		if !errors.Is(err, instance.ErrLocatorNotFound) || len(static) == 0 {
			return nil, err
		}
		log.FromContext(ctx).Debug("locator unavailable, using configured instances", "err", err)
	}

	s.instances = instance.Merge(located, static)
	s.located = true
	return s.instances, nil
}

// Sources returns the record file of every known installation.
func (s *Service) Sources(ctx context.Context) ([]syncer.Source, error) {
	instances, err := s.Instances(ctx)
	if err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		return nil, ErrNoInstances
	}
	return syncer.Stat(instance.RecordPaths(instances, s.cfg.DataDir)), nil
}

// RefreshResult describes a completed refresh.
type RefreshResult struct {
	Source   syncer.Source
	Entries  int
	BackedUp bool
}

// Refresh pulls the freshest record file into the store, then takes the
// daily backup if one is due.
func (s *Service) Refresh(ctx context.Context) (RefreshResult, error) {
	sources, err := s.Sources(ctx)
	if err != nil {
		return RefreshResult{}, err
	}

	src, err := s.sync.Pull(ctx, sources)
	if err != nil {
		return RefreshResult{Source: src}, err
	}

	res := RefreshResult{Source: src, Entries: s.store.Len()}
	if s.cfg.AutoBackup {
		res.BackedUp = s.maybeBackup(ctx)
	}
	return res, nil
}

func (s *Service) maybeBackup(ctx context.Context) bool {
	if s.state == nil {
		return false
	}

	l := log.FromContext(ctx)
	st, err := s.state.Load()
	if err != nil {
		l.Debug("load state failed", "err", err)
		return false
	}

	today := s.now().UTC()
	if !s.backups.ShouldBackupNow(st.LastBackup, today) {
		return false
	}

	if _, err := s.UpdateBackup(ctx); err != nil {
		s.backups.Release(today)
		l.Warnf("daily backup failed: %v", err)
		return false
	}
	return true
}

// QueryResult holds ranked entries and how to open them.
type QueryResult struct {
	Results []rank.Result
	Opener  instance.Opener
}

// Query ranks the stored entries against raw. If ctx is cancelled the
// query returns no results.
func (s *Service) Query(ctx context.Context, raw string) (QueryResult, error) {
	results, err := s.rank.Search(ctx, s.store.Snapshot(), raw)
	if err != nil {
		return QueryResult{}, err
	}

	// Discovery failures were already reported by Refresh; the environment
	// opens items when no instance is known.
	instances, _ := s.Instances(ctx)

	return QueryResult{
		Results: results,
		Opener:  instance.ResolveOpener(instances, s.cfg.DefaultInstance),
	}, nil
}

// Entries returns the stored entries.
func (s *Service) Entries() []entry.Annotated {
	return s.store.Snapshot()
}

// Removal describes entries removed from the store and the write-back.
type Removal struct {
	Removed []entry.Annotated
	Push    syncer.Result
	Pushed  bool
}

// Count returns the number of removed entries.
func (r Removal) Count() int {
	return len(r.Removed)
}

// Remove deletes the entry with key and writes the result to every record
// file.
func (s *Service) Remove(ctx context.Context, key string) (Removal, error) {
	a, ok := s.store.Get(key)
	if !ok || !s.store.Remove(key) {
		return Removal{}, fmt.Errorf("%w: %s", ErrEntryNotFound, key)
	}
	return s.push(ctx, []entry.Annotated{a})
}

// RemoveAll deletes every entry and writes the empty list to every record
// file.
func (s *Service) RemoveAll(ctx context.Context) (Removal, error) {
	removed := s.store.RemoveWhere(func(entry.Annotated) bool { return true })
	return s.push(ctx, removed)
}

// RemoveMissing deletes entries whose path no longer exists. Paths that
// cannot be checked for other reasons are kept.
func (s *Service) RemoveMissing(ctx context.Context) (Removal, error) {
	removed := s.store.RemoveWhere(func(a entry.Annotated) bool {
		_, err := os.Stat(a.FullPath())
		return errors.Is(err, fs.ErrNotExist)
	})
	return s.push(ctx, removed)
}

func (s *Service) push(ctx context.Context, removed []entry.Annotated) (Removal, error) {
	r := Removal{Removed: removed}
	if len(removed) == 0 {
		return r, nil
	}

	sources, err := s.Sources(ctx)
	if err != nil {
		return r, err
	}

	r.Push = s.sync.Push(ctx, sources)
	r.Pushed = true
	return r, nil
}

// UpdateBackup saves the stored entries as the backup.
func (s *Service) UpdateBackup(ctx context.Context) (*backup.Snapshot, error) {
	if s.state == nil {
		return nil, errors.New("no state file configured")
	}

	snap := backup.Take(s.store.Entries(), s.now().UTC())
	err := s.state.Update(func(st *state.State) error {
		st.LastBackup = snap.TakenAt
		st.Backup = snap
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save backup: %w", err)
	}

	log.FromContext(ctx).Debug("saved backup", "entries", snap.Len())
	return snap, nil
}

// Restoration describes a restored backup and its write-back.
type Restoration struct {
	Snapshot *backup.Snapshot
	Push     syncer.Result
}

// RevertToBackup replaces the stored entries with the saved backup and
// writes them to every record file.
func (s *Service) RevertToBackup(ctx context.Context) (Restoration, error) {
	if s.state == nil {
		return Restoration{}, ErrNoBackup
	}

	st, err := s.state.Load()
	if err != nil {
		return Restoration{}, err
	}
	if st.Backup == nil {
		return Restoration{}, ErrNoBackup
	}

	sources, err := s.Sources(ctx)
	if err != nil {
		return Restoration{}, err
	}

	s.sync.Replace(ctx, backup.Restore(st.Backup))
	return Restoration{
		Snapshot: st.Backup,
		Push:     s.sync.Push(ctx, sources),
	}, nil
}
