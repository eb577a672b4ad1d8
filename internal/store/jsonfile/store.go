// Package jsonfile provides JSON file-based dataset storage.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mediqhq/mediq/internal/core/dataset"
)

// Store implements dataset.Store using a single JSON file.
type Store struct {
	path string
	mu   sync.RWMutex
}

// New creates a store backed by the JSON file at the given path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the file path the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Load reads the dataset from disk. Returns dataset.ErrNotFound if the file
// does not exist.
func (s *Store) Load(ctx context.Context) (dataset.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, dataset.ErrNotFound
		}
		return nil, fmt.Errorf("read dataset file: %w", err)
	}

	var ds dataset.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset file: %w", err)
	}

	return ds, nil
}

// Save writes the dataset to disk atomically.
// Uses write-to-temp-then-rename to prevent corruption from interrupted writes.
func (s *Store) Save(ctx context.Context, ds dataset.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create dataset directory: %w", err)
	}

	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Discover returns dataset files under dir, relative to dir and sorted.
func Discover(dir string) ([]string, error) {
	return glob(dir, "**/*.json")
}

// StrayTempFiles returns temp files left behind by interrupted saves.
func StrayTempFiles(dir string) ([]string, error) {
	return glob(dir, "**/*.json.tmp")
}

func glob(dir, pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(dir, pattern), doublestar.WithNoFollow())
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}

	var files []string
	for _, match := range matches {
		// FilepathGlob can return directory entries
		info, err := os.Lstat(match)
		if err != nil || info.IsDir() {
			continue
		}
		rel, err := filepath.Rel(dir, match)
		if err != nil {
			return nil, fmt.Errorf("relative path for %q: %w", match, err)
		}
		files = append(files, rel)
	}

	sort.Strings(files)
	return files, nil
}
