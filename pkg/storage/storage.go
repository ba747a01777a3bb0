// Package storage persists uploaded and annotated images.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidKey = errors.New("invalid storage key")

// Storage saves blobs and resolves the references it hands out into URLs a
// client can fetch.
type Storage interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	URL(ctx context.Context, ref string) (string, error)
	Delete(ctx context.Context, ref string) error
}

type localStorage struct {
	root   string
	prefix string
}

// NewLocal stores files under root and returns references of the form
// prefix/key, which the HTTP server exposes as static files.
func NewLocal(root, prefix string) (Storage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "create storage root")
	}
	return &localStorage{
		root:   root,
		prefix: "/" + strings.Trim(prefix, "/"),
	}, nil
}

func (s *localStorage) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", errors.Wrapf(ErrInvalidKey, "%q", key)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

func (s *localStorage) Put(ctx context.Context, key string, body []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", errors.Wrap(err, "create directory")
	}
	if err := os.WriteFile(p, body, 0o644); err != nil {
		return "", errors.Wrap(err, "write file")
	}

	return fmt.Sprintf("%s/%s", s.prefix, strings.TrimPrefix(key, "/")), nil
}

func (s *localStorage) URL(_ context.Context, ref string) (string, error) {
	return ref, nil
}

func (s *localStorage) Delete(_ context.Context, ref string) error {
	p, err := s.path(strings.TrimPrefix(ref, s.prefix))
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove file")
	}
	return nil
}
