package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes assets below basePath and serves them from publicURL.
type LocalStore struct {
	basePath  string
	publicURL string
}

func NewLocalStore(basePath, publicURL string) *LocalStore {
	return &LocalStore{
		basePath:  basePath,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *LocalStore) generatePath(key string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(key))
}

func (s *LocalStore) Store(ctx context.Context, file Upload, category Category) (string, error) {
	if err := Validate(category, file.Filename, file.Size); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := ObjectKey(category, file.OwnerID, file.Filename)
	fullPath := s.generatePath(key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(file.Reader, rules[category].maxBytes+1)); err != nil {
		os.Remove(fullPath)
		return "", err
	}
	return s.publicURL + "/" + key, nil
}

func (s *LocalStore) Delete(ctx context.Context, url string) (bool, error) {
	key := strings.TrimPrefix(url, s.publicURL+"/")
	if key == url || !strings.HasPrefix(key, rootFolder+"/") || strings.Contains(key, "..") {
		return false, nil
	}
	err := os.Remove(s.generatePath(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
