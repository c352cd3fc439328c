// internal/storage/local.go
package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
)

// LocalBackend mirrors the object-store key layout under a root directory.
type LocalBackend struct {
	root string
}

func NewLocalBackend(root string) (*LocalBackend, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, apperrors.NewStorageError("init", err)
	}
	return &LocalBackend{root: root}, nil
}

// path maps a key to a file below the root; traversal segments are rejected.
func (b *LocalBackend) path(key string) (string, error) {
	clean := filepath.Clean(key)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", apperrors.NewValidationError("storage_key", "invalid key: "+key)
	}
	return filepath.Join(b.root, clean), nil
}

func (b *LocalBackend) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	p, err := b.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", apperrors.NewStorageError("upload", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", apperrors.NewStorageError("upload", err)
	}
	return key, nil
}

func (b *LocalBackend) Download(ctx context.Context, key string) ([]byte, error) {
	p, err := b.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("document blob", key)
		}
		return nil, apperrors.NewStorageError("download", err)
	}
	return data, nil
}

func (b *LocalBackend) Delete(ctx context.Context, key string) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return apperrors.NewStorageError("delete", err)
	}
	return nil
}

func (b *LocalBackend) Exists(ctx context.Context, key string) (bool, error) {
	p, err := b.path(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, apperrors.NewStorageError("exists", err)
	}
	return true, nil
}
