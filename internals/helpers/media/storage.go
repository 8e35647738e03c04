// internals/helpers/media/storage.go
package media

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"educa_backend/internals/configs"
	helper "educa_backend/internals/helpers"
)

// Storage keeps gallery objects and returns the public URL of what it stored.
type Storage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// NewStorageFromEnv picks the backend from MEDIA_BACKEND (local | oss).
func NewStorageFromEnv(cfg configs.Config) (Storage, error) {
	switch strings.ToLower(configs.GetEnv("MEDIA_BACKEND", "local")) {
	case "oss":
		return NewOSSStorageFromEnv(configs.GetEnv("ALI_OSS_PREFIX", "schools"))
	case "local", "":
		return NewLocalStorage(cfg.MediaDir, "/media")
	}
	return nil, fmt.Errorf("unknown MEDIA_BACKEND")
}

/* =======================================================================
   Local disk (served by the static /media route)
======================================================================= */

type LocalStorage struct {
	Dir     string
	BaseURL string
}

func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalStorage{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStorage) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	full, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create media subdir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return s.BaseURL + "/" + key, nil
}

func (s *LocalStorage) Delete(_ context.Context, key string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalStorage) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid media key %q", key)
	}
	return filepath.Join(s.Dir, filepath.FromSlash(clean)), nil
}

/* =======================================================================
   Key utils
======================================================================= */

// BuildObjectKey → "<prefix>/<slug>_<yyyymmdd_hhmmss>_<rand><ext>"
func BuildObjectKey(prefix, filename, ext string) string {
	base := helper.Slugify(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)), 60, "file")
	key := fmt.Sprintf("%s_%s_%s%s", base, time.Now().Format("20060102_150405"), randHex(3), ext)
	if p := strings.Trim(prefix, "/"); p != "" {
		key = p + "/" + key
	}
	return key
}

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
