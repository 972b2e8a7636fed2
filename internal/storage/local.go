package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

type LocalStorage struct {
	basePath string
	baseURL  string
	logger   *slog.Logger
}

// NewLocal creates basePath if needed. With an empty baseURL, Save returns
// paths relative to "uploads".
func NewLocal(basePath, baseURL string, logger *slog.Logger) (*LocalStorage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("local storage path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory %s: %w", basePath, err)
	}
	logger.Info("local storage ready", "path", basePath)

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
		logger:   logger,
	}, nil
}

func (s *LocalStorage) Save(ctx context.Context, fileName, _ string, body io.ReadSeeker) (string, error) {
	name := uniqueName(fileName)
	dstPath := filepath.Join(s.basePath, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dstPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, body); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("write %s: %w", dstPath, err)
	}

	location := filepath.ToSlash(filepath.Join("uploads", name))
	if s.baseURL != "" {
		location = strings.TrimRight(s.baseURL, "/") + "/" + name
	}

	s.logger.InfoContext(ctx, "file saved", "filename", fileName, "saved_as", name)
	return location, nil
}

// Delete removes the file behind a location returned by Save. Missing files
// are not an error.
func (s *LocalStorage) Delete(ctx context.Context, location string) error {
	name := filepath.Base(location)
	if name == "" || name == "." || name == "/" || name == "uploads" {
		return fmt.Errorf("invalid file location %q", location)
	}

	err := os.Remove(filepath.Join(s.basePath, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	s.logger.InfoContext(ctx, "file deleted", "name", name)
	return nil
}
