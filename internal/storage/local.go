package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yungbote/material-inventory-backend/internal/pkg/logger"
)

const localURLPrefix = "/uploads/"

// localStore writes files under baseDir and serves them back through the
// router's /uploads static mount.
type localStore struct {
	baseDir string
	log     *logger.Logger
}

func NewLocalStore(baseDir string, baseLog *logger.Logger) (ImageStore, error) {
	if strings.TrimSpace(baseDir) == "" {
		baseDir = "uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &localStore{baseDir: baseDir, log: baseLog.With("store", "LocalImageStore")}, nil
}

func (s *localStore) Save(_ context.Context, key, _ string, r io.Reader, _ int64) (string, error) {
	cleanKey, err := s.cleanKey(key)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.baseDir, filepath.FromSlash(cleanKey))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create dir for %s: %w", cleanKey, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file %s: %w", cleanKey, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write file %s: %w", cleanKey, err)
	}
	return localURLPrefix + cleanKey, nil
}

func (s *localStore) Delete(_ context.Context, url string) error {
	key := strings.TrimPrefix(url, localURLPrefix)
	cleanKey, err := s.cleanKey(key)
	if err != nil {
		return err
	}
	path := filepath.Join(s.baseDir, filepath.FromSlash(cleanKey))
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}

// cleanKey rejects anything that would escape baseDir.
func (s *localStore) cleanKey(key string) (string, error) {
	cleaned := filepath.ToSlash(filepath.Clean("/" + key))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return cleaned, nil
}
