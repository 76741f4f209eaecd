// Package storage persists uploaded file payloads on the local filesystem.
// Stored names are uuid-prefixed so colliding upload names never clobber each
// other.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type LocalStore struct {
	dir      string
	maxBytes int64
}

func NewLocalStore(dir string, maxBytes int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if maxBytes <= 0 {
		maxBytes = 25 << 20
	}
	return &LocalStore{dir: dir, maxBytes: maxBytes}, nil
}

// Save streams the payload to disk and returns the stored path and byte
// count. A payload exceeding the size limit aborts the write and removes the
// partial file.
func (s *LocalStore) Save(fileName string, src io.Reader) (string, int64, error) {
	stored := uuid.NewString() + "-" + filepath.Base(fileName)
	path := filepath.Join(s.dir, stored)

	dst, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("write file: %w", err)
	}
	if size > s.maxBytes {
		os.Remove(path)
		return "", 0, fmt.Errorf("file exceeds %d byte limit", s.maxBytes)
	}

	return path, size, nil
}

// Remove deletes a stored file. Callers treat failures as non-fatal; the
// document lifecycle never depends on physical deletion.
func (s *LocalStore) Remove(path string) error {
	return os.Remove(path)
}
