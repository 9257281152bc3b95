package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/opsarif/ngo-erp/internal"
)

// FileStore persists uploaded files. Implementations must tolerate Remove
// being called for names that were never saved.
type FileStore interface {
	Save(originalName string, src io.Reader, size int64) (storedName string, err error)
	Open(storedName string) (io.ReadCloser, error)
	Remove(storedName string) error
}

// LocalStore writes uploads to a single directory on local disk under
// generated uuid names so client-supplied filenames never touch the
// filesystem.
type LocalStore struct {
	dir          string
	maxSizeBytes int64
	allowedExts  map[string]bool
}

func NewLocalStore(dir string, maxSizeBytes int64, allowedExts []string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	exts := make(map[string]bool, len(allowedExts))
	for _, ext := range allowedExts {
		exts[strings.ToLower(ext)] = true
	}
	return &LocalStore{
		dir:          dir,
		maxSizeBytes: maxSizeBytes,
		allowedExts:  exts,
	}, nil
}

// Save validates the extension and size, then streams the upload to disk.
// The stored name is uuid-based with the original extension preserved.
func (s *LocalStore) Save(originalName string, src io.Reader, size int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" || !s.allowedExts[ext] {
		return "", internal.NewValidationError(
			fmt.Sprintf("file type %q is not allowed", ext),
			internal.ErrCodeFileTypeBlocked,
		)
	}
	if size > s.maxSizeBytes {
		return "", internal.NewValidationError(
			fmt.Sprintf("file exceeds the %d byte limit", s.maxSizeBytes),
			internal.ErrCodeFileTooLarge,
		)
	}

	storedName := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	// LimitReader guards against clients lying about Content-Length.
	written, err := io.Copy(dst, io.LimitReader(src, s.maxSizeBytes+1))
	if err != nil {
		os.Remove(filepath.Join(s.dir, storedName))
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if written > s.maxSizeBytes {
		os.Remove(filepath.Join(s.dir, storedName))
		return "", internal.NewValidationError(
			fmt.Sprintf("file exceeds the %d byte limit", s.maxSizeBytes),
			internal.ErrCodeFileTooLarge,
		)
	}

	return storedName, nil
}

func (s *LocalStore) Open(storedName string) (io.ReadCloser, error) {
	cleaned := filepath.Base(storedName)
	f, err := os.Open(filepath.Join(s.dir, cleaned))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, internal.NewNotFoundError("file not found", internal.ErrCodeRecordNotFound)
		}
		return nil, err
	}
	return f, nil
}

func (s *LocalStore) Remove(storedName string) error {
	cleaned := filepath.Base(storedName)
	err := os.Remove(filepath.Join(s.dir, cleaned))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
