// Package storage keeps uploaded resumes outside the database.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("blob not found")
	ErrInvalidName = errors.New("invalid blob name")
)

// BlobStore saves a blob under a generated name and can remove it again.
type BlobStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, stored string) error
	Open(ctx context.Context, stored string) (io.ReadCloser, error)
}

// storedName keeps the original base name readable while making it unique.
func storedName(original string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	if len(ext) > 10 {
		ext = ""
	}
	return fmt.Sprintf("%s_%s%s", uuid.New().String(), sanitizeName(original), ext)
}

func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" || name == "_" {
		return "resume"
	}
	return name
}

// validName rejects anything that could escape the blob namespace.
func validName(stored string) bool {
	if stored == "" || stored == "." || stored == ".." {
		return false
	}
	return !strings.ContainsAny(stored, "/\\") && !strings.Contains(stored, "..")
}
