package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage keeps template objects on the local filesystem, matching the
// plain uploads-directory layout the service started with. Keys map directly
// to relative file paths under the root directory.
type LocalStorage struct {
	root      string
	publicURL string
}

// LocalConfig holds configuration for local disk storage.
type LocalConfig struct {
	Dir       string
	PublicURL string // URL prefix the router serves the directory under
}

// NewLocalStorage creates a disk-backed object store rooted at cfg.Dir.
func NewLocalStorage(cfg *LocalConfig) (*LocalStorage, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("local storage directory is required")
	}
	return &LocalStorage{
		root:      cfg.Dir,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
	}, nil
}

// EnsureBucket creates the root directory if missing.
func (s *LocalStorage) EnsureBucket(ctx context.Context) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	return nil
}

// path resolves a key inside the root, rejecting escapes.
func (s *LocalStorage) path(key string) (string, error) {
	cleaned := filepath.Clean("/" + key)
	full := filepath.Join(s.root, cleaned)
	if !strings.HasPrefix(full, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return full, nil
}

// Upload writes an object to disk.
func (s *LocalStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("failed to create object file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		return fmt.Errorf("failed to write object file: %w", err)
	}
	return nil
}

// Download opens an object for reading.
func (s *LocalStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	full, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("failed to open object file: %w", err)
	}
	return f, nil
}

// List returns the keys under a prefix, relative to the root.
func (s *LocalStorage) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	return keys, nil
}

// GetURL returns the public URL the router serves the file under.
func (s *LocalStorage) GetURL(key string) string {
	return s.publicURL + "/" + key
}

// Delete removes an object from disk. Deleting a missing object is not an
// error.
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Exists checks whether an object file exists.
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	full, err := s.path(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	return true, nil
}
