// Package backup keeps a daily recovery snapshot of the recent-items list.
//
// A snapshot is taken at most once per calendar day. Restoring a snapshot
// only yields entries; they become durable once pushed back to the record
// files.
package backup

import (
	"sync"
	"time"

	"github.com/raphi011/recents/internal/entry"
)

// Snapshot is a point-in-time copy of the entry list.
type Snapshot struct {
	TakenAt time.Time     `json:"taken_at"`
	Entries []entry.Entry `json:"entries"`
}

// Len returns the number of entries in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// Manager decides when a snapshot is due.
// The zero value is ready to use.
type Manager struct {
	mu      sync.Mutex
	claimed time.Time
}

// NewManager returns a Manager.
func NewManager() *Manager {
	return &Manager{}
}

// ShouldBackupNow reports whether a snapshot is due for today given the
// time of the last one. Days are compared in today's location. It returns
// true at most once per day per Manager: the first caller claims the day
// and concurrent or later callers see false.
func (m *Manager) ShouldBackupNow(last, today time.Time) bool {
	day := startOfDay(today)
	if !last.IsZero() && !startOfDay(last.In(today.Location())).Before(day) {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.claimed.IsZero() && !m.claimed.Before(day) {
		return false
	}
	m.claimed = day
	return true
}

// Release gives up the claim on today's snapshot so a later caller may
// retry. Call it when taking or persisting the snapshot failed.
func (m *Manager) Release(today time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.claimed.Equal(startOfDay(today)) {
		m.claimed = time.Time{}
	}
}

// Take copies entries into a new snapshot stamped with now.
func Take(entries []entry.Entry, now time.Time) *Snapshot {
	return &Snapshot{
		TakenAt: now,
		Entries: cloneEntries(entries),
	}
}

// Restore returns the snapshot's entries. The result is a copy; a nil
// snapshot restores nothing.
func Restore(s *Snapshot) []entry.Entry {
	if s == nil {
		return nil
	}
	return cloneEntries(s.Entries)
}

func cloneEntries(entries []entry.Entry) []entry.Entry {
	out := make([]entry.Entry, len(entries))
	copy(out, entries)
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
