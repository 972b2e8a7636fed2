// Package storage persists uploaded teaching resources on the local disk or
// in an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/HaroldK3/Student-Tracker/internal/config"

	"github.com/google/uuid"
)

// Storage saves a file under a generated unique name and returns the path or
// URL it can be reached at.
type Storage interface {
	Save(ctx context.Context, fileName, contentType string, body io.ReadSeeker) (string, error)
	Delete(ctx context.Context, location string) error
}

func New(cfg config.StorageConfig, logger *slog.Logger) (Storage, error) {
	switch cfg.Driver {
	case config.StorageDriverLocal, "":
		return NewLocal(cfg.Local.Path, cfg.Local.BaseURL, logger)
	case config.StorageDriverS3:
		return NewS3(cfg.S3, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// uniqueName keeps the original extension so content can be served with a
// sensible type.
func uniqueName(fileName string) string {
	return uuid.New().String() + strings.ToLower(filepath.Ext(fileName))
}
