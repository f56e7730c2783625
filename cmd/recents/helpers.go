package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/raphi011/recents/internal/config"
	"github.com/raphi011/recents/internal/log"
	"github.com/raphi011/recents/internal/recent"
	"github.com/raphi011/recents/internal/state"
	"github.com/raphi011/recents/internal/syncer"
)

// newService builds a Service for cfg.
func newService(cfg *config.Config) (*recent.Service, error) {
	statePath := cfg.StateFile
	if statePath == "" {
		p, err := state.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("state file: %w", err)
		}
		statePath = p
	}

	return recent.New(recent.Options{
		Config: cfg,
		State:  state.New(statePath),
	}), nil
}

// loadService builds a Service and pulls the freshest record file into it.
func loadService(ctx context.Context) (*recent.Service, error) {
	cfg := configFrom(ctx)
	svc, err := newService(cfg)
	if err != nil {
		return nil, err
	}

	res, err := svc.Refresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("read recent items: %w", err)
	}

	l := log.FromContext(ctx)
	l.Debug("refreshed", "source", res.Source.Path, "entries", res.Entries)
	if res.BackedUp {
		l.Printf("Saved daily backup of %s\n", plural(res.Entries, "entry", "entries"))
	}
	return svc, nil
}

// configFrom returns the config in ctx, or the defaults.
func configFrom(ctx context.Context) *config.Config {
	if cfg := config.FromContext(ctx); cfg != nil {
		return cfg
	}
	d := config.Default()
	return &d
}

// reportPush warns about record files that could not be written. It
// returns an error only if no record file was written.
func reportPush(ctx context.Context, res syncer.Result) error {
	failed := res.Failed()
	if len(failed) == 0 {
		return nil
	}

	l := log.FromContext(ctx)
	for _, o := range failed {
		l.Warnf("%v", o.Err)
	}

	if len(res.Succeeded()) == 0 {
		return fmt.Errorf("could not update any record file: %w", res.Err())
	}
	return nil
}

// plural formats n with the singular or plural noun.
func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// homeDir returns the user's home directory, or "" if unknown.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// isNotFound reports whether err means the entry does not exist.
func isNotFound(err error) bool {
	return errors.Is(err, recent.ErrEntryNotFound)
}
