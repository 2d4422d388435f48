// Package filekv implements the storage area as a directory with one file per
// key. Several processes may share the directory; each sees the others'
// writes, and Watch reports them as they happen.
package filekv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"invoicedesk/internal/core/kv"
)

const (
	// TempFilePrefix marks in-flight atomic writes; Watch ignores these files.
	TempFilePrefix = ".tmp-"

	fileExt = ".json"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9._-]*$`)

var (
	_ kv.Store   = (*Store)(nil)
	_ kv.Updater = (*Store)(nil)
	_ kv.Watcher = (*Store)(nil)
)

// Store keeps each key in <dir>/<key>.json.
//
// Update is atomic only among callers in the same process. Two processes
// appending to the same key at the same moment can lose one write.
type Store struct {
	dir  string
	perm os.FileMode
	mu   sync.Mutex
}

// New opens (and creates if needed) a storage directory.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("filekv: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Store{dir: dir, perm: 0o644}, nil
}

// Dir returns the storage directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, false, err
	}
	return readFile(path)
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return writeFileAtomic(path, value, s.perm)
}

func (s *Store) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (s *Store) Update(_ context.Context, key string, fn kv.UpdateFunc) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, found, err := readFile(path)
	if err != nil {
		return err
	}
	next, err := fn(current, found)
	if errors.Is(err, kv.ErrAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	return writeFileAtomic(path, next, s.perm)
}

func (s *Store) path(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("filekv: invalid key %q", key)
	}
	return filepath.Join(s.dir, key+fileExt), nil
}

// keyFromPath is the inverse of path; ok is false for foreign files.
func keyFromPath(path string) (string, bool) {
	name := filepath.Base(path)
	if strings.HasPrefix(name, TempFilePrefix) || !strings.HasSuffix(name, fileExt) {
		return "", false
	}
	key := strings.TrimSuffix(name, fileExt)
	return key, keyPattern.MatchString(key)
}

func readFile(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return data, true, nil
}

// writeFileAtomic writes to a temp file in the same directory and renames it
// over the target, so readers never observe a partial value.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(filename), TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}
	return nil
}
