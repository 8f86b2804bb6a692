package repo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
)

// FileKV stores each key as <dir>/<key>.json. Writes go to a temp file in the
// same directory and are renamed into place, so a crash never leaves a
// half-written document behind.
type FileKV struct {
	dir string
}

// NewFileKV creates dir if needed and returns a FileKV rooted there.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("repo.NewFileKV: %w", err)
	}
	return &FileKV{dir: dir}, nil
}

// Get reads the document stored under key.
func (f *FileKV) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, fmt.Errorf("repo.FileKV.Get: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("repo.FileKV.Get: %w", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("repo.FileKV.Get %q: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.FileKV.Get %q: %w", key, err)
	}
	return b, nil
}

// Set atomically replaces the document stored under key.
func (f *FileKV) Set(ctx context.Context, key string, value []byte) error {
	path, err := f.path(key)
	if err != nil {
		return fmt.Errorf("repo.FileKV.Set: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("repo.FileKV.Set: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("repo.FileKV.Set %q: create temp: %w", key, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("repo.FileKV.Set %q: write: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("repo.FileKV.Set %q: sync: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("repo.FileKV.Set %q: close: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("repo.FileKV.Set %q: rename: %w", key, err)
	}
	return nil
}

// Remove deletes the document stored under key.
func (f *FileKV) Remove(ctx context.Context, key string) error {
	path, err := f.path(key)
	if err != nil {
		return fmt.Errorf("repo.FileKV.Remove: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("repo.FileKV.Remove: %w", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("repo.FileKV.Remove %q: %w", key, err)
	}
	return nil
}

// path maps key to its file, rejecting keys that would escape dir.
func (f *FileKV) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}
