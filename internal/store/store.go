// Package store persists the host-owned documents: the growth profile
// JSON and the tracker snapshot for the in-progress session. The engine
// itself never touches disk; these files are purely host state.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoSession is returned by LoadSnapshot when no session snapshot
// exists on disk.
var ErrNoSession = errors.New("no active session")

// ErrNoProfile is returned by LoadProfile when no profile document exists
// on disk.
var ErrNoProfile = errors.New("no profile")

// Store reads and writes dendro state files in the XDG data directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at $XDG_DATA_HOME/dendro (or
// ~/.local/share/dendro), creating the directory if needed.
func NewStore() (*Store, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func dataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "dendro"), nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) profilePath() string { return filepath.Join(s.dir, "profile.json") }
func (s *Store) trackerPath() string { return filepath.Join(s.dir, "tracker.json") }

// LoadProfile reads the persisted growth-profile document.
func (s *Store) LoadProfile() (string, error) {
	data, err := os.ReadFile(s.profilePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoProfile
		}
		return "", fmt.Errorf("failed to read profile: %w", err)
	}
	return string(data), nil
}

// SaveProfile writes the profile document atomically.
func (s *Store) SaveProfile(profileJSON string) error {
	return s.writeAtomic(s.profilePath(), []byte(profileJSON))
}

// LoadSnapshot reads the tracker snapshot for the in-progress session.
func (s *Store) LoadSnapshot() (string, error) {
	data, err := os.ReadFile(s.trackerPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("failed to read tracker state: %w", err)
	}
	return string(data), nil
}

// SaveSnapshot writes the tracker snapshot atomically.
func (s *Store) SaveSnapshot(snapshotJSON string) error {
	return s.writeAtomic(s.trackerPath(), []byte(snapshotJSON))
}

// DeleteSnapshot removes the tracker snapshot after a session is merged.
func (s *Store) DeleteSnapshot() error {
	if err := os.Remove(s.trackerPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete tracker state: %w", err)
	}
	return nil
}

// HasSnapshot reports whether a session snapshot exists on disk.
func (s *Store) HasSnapshot() bool {
	_, err := os.Stat(s.trackerPath())
	return err == nil
}

// writeAtomic writes via a temp file in the same directory so os.Rename
// is atomic.
func (s *Store) writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist state: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}
	return nil
}
