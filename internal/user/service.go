package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already in use")
	ErrInvalidRole  = errors.New("role must be one of ADMIN, INSTRUCTOR, IT")
	ErrInvalidInput = errors.New("invalid input")
)

type Service interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	ListUsers(ctx context.Context, filter ListFilter) ([]User, error)
	GetUser(ctx context.Context, id int) (*User, error)
	UpdateUser(ctx context.Context, id int, req UpdateUserRequest) (*User, error)
	DeactivateUser(ctx context.Context, id int) (*User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	user := req.toUser()
	if !ValidRole(user.Role) {
		return nil, ErrInvalidRole
	}

	if err := s.ensureEmailFree(ctx, user.Email, 0); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *service) ListUsers(ctx context.Context, filter ListFilter) ([]User, error) {
	if filter.Role != "" && !ValidRole(strings.ToUpper(filter.Role)) {
		return nil, ErrInvalidRole
	}
	return s.repo.List(ctx, filter)
}

func (s *service) GetUser(ctx context.Context, id int) (*User, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateUser(ctx context.Context, id int, req UpdateUserRequest) (*User, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && !strings.EqualFold(strings.TrimSpace(*req.Email), user.Email) {
		if err := s.ensureEmailFree(ctx, strings.TrimSpace(*req.Email), id); err != nil {
			return nil, err
		}
	}

	columns := req.Apply(user)
	if !ValidRole(user.Role) {
		return nil, ErrInvalidRole
	}
	if len(columns) == 0 {
		return user, nil
	}

	if err := s.repo.Update(ctx, user, columns...); err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return user, nil
}

func (s *service) DeactivateUser(ctx context.Context, id int) (*User, error) {
	inactive := false
	return s.UpdateUser(ctx, id, UpdateUserRequest{IsActive: &inactive})
}

func (s *service) ensureEmailFree(ctx context.Context, email string, selfID int) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup email: %w", err)
	}
	if existing.UserID != selfID {
		return ErrEmailExists
	}
	return nil
}
