package position

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrPositionNotFound = errors.New("position not found")
	ErrInvalidDates     = errors.New("end date must not be before start date")
	ErrInvalidInput     = errors.New("invalid input")
)

type Service interface {
	ListPositions(ctx context.Context, includeInactive bool) ([]Position, error)
	GetPosition(ctx context.Context, id int) (*Position, error)
	CreatePosition(ctx context.Context, req CreatePositionRequest) (*Position, error)
	UpdatePosition(ctx context.Context, id int, req UpdatePositionRequest) (*Position, error)
	DeletePosition(ctx context.Context, id int) (*Position, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) ListPositions(ctx context.Context, includeInactive bool) ([]Position, error) {
	return s.repo.List(ctx, includeInactive)
}

func (s *service) GetPosition(ctx context.Context, id int) (*Position, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) CreatePosition(ctx context.Context, req CreatePositionRequest) (*Position, error) {
	position := req.toPosition()
	if !validDates(position) {
		return nil, ErrInvalidDates
	}

	created, err := s.repo.Create(ctx, position)
	if err != nil {
		return nil, fmt.Errorf("create position: %w", err)
	}
	return created, nil
}

func (s *service) UpdatePosition(ctx context.Context, id int, req UpdatePositionRequest) (*Position, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}

	position, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	columns := req.Apply(position)
	if !validDates(position) {
		return nil, ErrInvalidDates
	}
	if len(columns) == 0 {
		return position, nil
	}

	if err := s.repo.Update(ctx, position, columns...); err != nil {
		return nil, fmt.Errorf("update position %d: %w", id, err)
	}
	return position, nil
}

func (s *service) DeletePosition(ctx context.Context, id int) (*Position, error) {
	inactive := false
	return s.UpdatePosition(ctx, id, UpdatePositionRequest{IsActive: &inactive})
}
