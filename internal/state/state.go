// Package state persists what recents remembers between runs: when the
// last backup was taken and the backup itself.
package state

import (
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/raphi011/recents/internal/backup"
	"github.com/raphi011/recents/internal/storage"
)

// FileName is the state file name inside the data directory.
const FileName = "state.json"

// State is the persisted settings record.
type State struct {
	LastBackup time.Time        `json:"last_backup"`
	Backup     *backup.Snapshot `json:"backup,omitempty"`
}

// Store reads and writes a state file. Updates through one Store are
// serialized.
type Store struct {
	path string
	mu   sync.Mutex
}

// DefaultPath returns ~/.recents/state.json.
func DefaultPath() (string, error) {
	dir, err := storage.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// New returns a Store backed by path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the state file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the state. A missing or corrupted file yields an empty state.
func (s *Store) Load() (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Update loads the state, applies fn and saves the result. Nothing is
// written if fn returns an error.
func (s *Store) Update(fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(st); err != nil {
		return err
	}
	return storage.SaveJSON(s.path, st)
}

func (s *Store) load() (*State, error) {
	var st State
	err := storage.LoadJSON(s.path, &st)
	switch {
	case err == nil:
		if st.Backup != nil {
			for i := range st.Backup.Entries {
				st.Backup.Entries[i].Normalize()
			}
		}
		return &st, nil
	case errors.Is(err, fs.ErrNotExist):
		return &State{}, nil
	default:
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			// Corrupted - start fresh
			return &State{}, nil
		}
		return nil, err
	}
}
