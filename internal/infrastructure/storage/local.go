package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wilsy/service-tracker/internal/core/domain"
)

// LocalStorage keeps attachments under a base directory.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates the base directory if it does not exist.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if basePath == "" {
		basePath = "./storage/files"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (s *LocalStorage) Upload(_ context.Context, filename string, data io.Reader) (string, error) {
	key := newKey(filename)
	fullPath := s.path(key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		_ = os.Remove(fullPath)
		return "", fmt.Errorf("write file: %w", err)
	}
	return key, nil
}

func (s *LocalStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	if !validKey(key) {
		return nil, domain.ErrAttachmentNotFound
	}
	file, err := os.Open(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("open file: %w", err)
	}
	return file, nil
}

func (s *LocalStorage) Delete(_ context.Context, key string) error {
	if !validKey(key) {
		return domain.ErrAttachmentNotFound
	}
	if err := os.Remove(s.path(key)); err != nil {
		if os.IsNotExist(err) {
			return domain.ErrAttachmentNotFound
		}
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) path(key string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(key))
}
