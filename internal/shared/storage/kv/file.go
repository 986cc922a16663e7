package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore implements Store on the local filesystem, one file per key.
// Writes go through a temp file and rename so a crashed write leaves the
// previous value intact rather than a truncated one.
type FileStore struct {
	baseDir string
}

// NewFileStore creates a FileStore rooted at baseDir, creating it if needed.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) Get(key string) ([]byte, bool) {
	path, err := s.pathFor(key)
	if err != nil {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (s *FileStore) Set(key string, value []byte) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.baseDir, ".kv-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write value: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace value: %w", err)
	}
	return nil
}

func (s *FileStore) Remove(key string) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove value: %w", err)
	}
	return nil
}

func (s *FileStore) pathFor(key string) (string, error) {
	clean := filepath.Clean(key)
	if clean == "" || clean == "." || strings.ContainsAny(clean, `/\`) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.baseDir, clean+".json"), nil
}
