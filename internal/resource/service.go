package resource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/HaroldK3/Student-Tracker/internal/storage"
)

var ErrEmptyFile = errors.New("uploaded file is empty or has no name")

// Upload is one file read from a multipart form.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

type Service interface {
	Upload(ctx context.Context, upload Upload) (*Resource, error)
	List(ctx context.Context) ([]Resource, error)
}

type service struct {
	repo    Repository
	storage storage.Storage
	logger  *slog.Logger
}

func NewService(repo Repository, store storage.Storage, logger *slog.Logger) Service {
	return &service{
		repo:    repo,
		storage: store,
		logger:  logger,
	}
}

// Upload stores the file first and then records it. A failed insert removes
// the stored file again.
func (s *service) Upload(ctx context.Context, upload Upload) (*Resource, error) {
	name := filepath.Base(strings.TrimSpace(upload.FileName))
	if name == "" || name == "." || name == "/" || upload.Size <= 0 {
		return nil, ErrEmptyFile
	}

	location, err := s.storage.Save(ctx, name, upload.ContentType, upload.Body)
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", name, err)
	}

	res := &Resource{
		FileName:  name,
		FilePath:  location,
		SizeBytes: upload.Size,
	}
	if upload.ContentType != "" {
		res.ContentType = &upload.ContentType
	}

	created, err := s.repo.Create(ctx, res)
	if err != nil {
		if delErr := s.storage.Delete(ctx, location); delErr != nil {
			s.logger.WarnContext(ctx, "failed to remove orphaned upload", "location", location, "error", delErr)
		}
		return nil, fmt.Errorf("record resource %s: %w", name, err)
	}
	return created, nil
}

func (s *service) List(ctx context.Context) ([]Resource, error) {
	return s.repo.List(ctx)
}
