package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/atomicstack/shell-sync/internal/logging/events"
)

// FileStore keeps preferences in a flat TOML table. Writes replace the file
// through a rename so readers never observe a partial document.
type FileStore struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// OpenFile loads path, treating a missing file as empty.
func OpenFile(path string) (*FileStore, error) {
	s := &FileStore{path: path, values: map[string]string{}}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path reports the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Reload re-reads the backing file, replacing the in-memory view. It holds
// the lock across the read so a concurrent Set is either fully seen or
// applied afterwards.
func (s *FileStore) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.values = map[string]string{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read preferences %s: %w", s.path, err)
	}
	values := map[string]string{}
	if err := toml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("parse preferences %s: %w", s.path, err)
	}
	s.values = values
	events.Prefs.Reload(s.path, len(values))
	return nil
}

func (s *FileStore) Get(key Key) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[string(key)]
	return v, ok
}

func (s *FileStore) Set(key Key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(map[string]string, len(s.values)+1)
	for k, v := range s.values {
		next[k] = v
	}
	next[string(key)] = value
	if err := s.write(next); err != nil {
		return err
	}
	s.values = next
	return nil
}

func (s *FileStore) write(values map[string]string) error {
	data, err := toml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("create temp preferences: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close preferences: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace preferences: %w", err)
	}
	return nil
}
