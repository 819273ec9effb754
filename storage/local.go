package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// LocalStorage keeps attachment bytes in a flat directory on disk.
type LocalStorage struct {
	dir    string
	logger *zap.Logger
}

func NewLocalStorage(dir string, logger *zap.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &LocalStorage{dir: dir, logger: logger}, nil
}

func (s *LocalStorage) path(key string) string {
	// Keys are sanitized at generation time; Base guards against traversal
	// from keys that arrive through other paths.
	return filepath.Join(s.dir, filepath.Base(key))
}

func (s *LocalStorage) Save(key string, content io.Reader) error {
	f, err := os.OpenFile(s.path(key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return ErrKeyExists
		}
		return fmt.Errorf("creating %s: %w", key, err)
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(s.path(key))
		return fmt.Errorf("writing %s: %w", key, err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(s.path(key))
		return fmt.Errorf("syncing %s: %w", key, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", key, err)
	}

	s.logger.Debug("stored file", zap.String("key", key))
	return nil
}

func (s *LocalStorage) Open(key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("opening %s: %w", key, err)
	}
	return f, nil
}

func (s *LocalStorage) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}
