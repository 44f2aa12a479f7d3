package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore writes blobs into a single flat directory.
type LocalStore struct {
	dir    string
	create func(path string) (io.WriteCloser, error)
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		dir = "./uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalStore{dir: dir, create: createFile}, nil
}

func createFile(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

func (s *LocalStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stored := storedName(name)
	absPath := filepath.Join(s.dir, stored)

	dst, err := s.create(absPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		_ = dst.Close()
		_ = os.Remove(absPath)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("close file: %w", err)
	}
	return stored, nil
}

func (s *LocalStore) Delete(_ context.Context, stored string) error {
	if !validName(stored) {
		return ErrInvalidName
	}
	err := os.Remove(filepath.Join(s.dir, stored))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *LocalStore) Open(_ context.Context, stored string) (io.ReadCloser, error) {
	if !validName(stored) {
		return nil, ErrInvalidName
	}
	f, err := os.Open(filepath.Join(s.dir, stored))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}
