package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lifememo/navi/internal/common"
	"github.com/lifememo/navi/internal/filex"
)

// LocalStore writes objects under a directory that the HTTP layer serves
// at Prefix.
type LocalStore struct {
	dir    string
	prefix string
}

func NewLocalStore(dir, prefix string) (*LocalStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: abs, prefix: strings.TrimRight(prefix, "/")}, nil
}

func (s *LocalStore) Put(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	name := objectName(filename, time.Now())
	full := filepath.Join(s.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return s.prefix + "/" + name, nil
}

// resolve maps a URL issued by Put back to a path inside dir.
func (s *LocalStore) resolve(url string) (string, error) {
	rel, ok := strings.CutPrefix(url, s.prefix+"/")
	if !ok || rel == "" {
		return "", fmt.Errorf("%w: %s is not a local upload", common.ErrNotFound, url)
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("%w: %s escapes upload dir", common.ErrValidation, url)
	}
	return filepath.Join(s.dir, clean), nil
}

func (s *LocalStore) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	p, err := s.resolve(url)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", common.ErrNotFound, url)
		}
		return nil, err
	}
	return f, nil
}

// Delete removes the file behind url. A file that is already gone is not an
// error.
func (s *LocalStore) Delete(ctx context.Context, url string) error {
	p, err := s.resolve(url)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
