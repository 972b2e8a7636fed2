package student

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrEmailExists        = errors.New("email already in use")
	ErrUniversityIDExists = errors.New("university id already in use")
	ErrInvalidStatus      = errors.New("status must be one of Active, Inactive, Gone")
	ErrInvalidInput       = errors.New("invalid input")
)

type Service interface {
	CreateStudent(ctx context.Context, req CreateStudentRequest) (*Student, error)
	ListStudents(ctx context.Context, filter ListFilter) ([]Student, error)
	GetStudent(ctx context.Context, id int) (*Student, error)
	UpdateStudent(ctx context.Context, id int, req UpdateStudentRequest) (*Student, error)
	SoftDeleteStudent(ctx context.Context, id int) (*Student, error)
	UpdateProfile(ctx context.Context, id int, req ProfileUpdateRequest) (*Student, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) CreateStudent(ctx context.Context, req CreateStudentRequest) (*Student, error) {
	student, err := req.toStudent()
	if err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, student.Email, student.UniversityID, 0); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, student)
	if err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	return created, nil
}

func (s *service) ListStudents(ctx context.Context, filter ListFilter) ([]Student, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) GetStudent(ctx context.Context, id int) (*Student, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateStudent(ctx context.Context, id int, req UpdateStudentRequest) (*Student, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}

	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var email, universityID string
	if req.Email != nil && !strings.EqualFold(strings.TrimSpace(*req.Email), student.Email) {
		email = strings.TrimSpace(*req.Email)
	}
	if req.UniversityID != nil && strings.TrimSpace(*req.UniversityID) != student.UniversityID {
		universityID = strings.TrimSpace(*req.UniversityID)
	}
	if err := s.ensureUnique(ctx, email, universityID, id); err != nil {
		return nil, err
	}

	columns, err := req.Apply(student)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return student, nil
	}

	if err := s.repo.Update(ctx, student, columns...); err != nil {
		return nil, fmt.Errorf("update student %d: %w", id, err)
	}
	return student, nil
}

func (s *service) SoftDeleteStudent(ctx context.Context, id int) (*Student, error) {
	status := StatusInactive
	return s.UpdateStudent(ctx, id, UpdateStudentRequest{Status: &status})
}

func (s *service) UpdateProfile(ctx context.Context, id int, req ProfileUpdateRequest) (*Student, error) {
	return s.UpdateStudent(ctx, id, req.toUpdate())
}

// ensureUnique checks the non-empty email and university id against other students.
func (s *service) ensureUnique(ctx context.Context, email, universityID string, selfID int) error {
	if email != "" {
		existing, err := s.repo.GetByEmail(ctx, email)
		switch {
		case errors.Is(err, ErrStudentNotFound):
		case err != nil:
			return fmt.Errorf("lookup email: %w", err)
		case existing.StudentID != selfID:
			return ErrEmailExists
		}
	}
	if universityID != "" {
		existing, err := s.repo.GetByUniversityID(ctx, universityID)
		switch {
		case errors.Is(err, ErrStudentNotFound):
		case err != nil:
			return fmt.Errorf("lookup university id: %w", err)
		case existing.StudentID != selfID:
			return ErrUniversityIDExists
		}
	}
	return nil
}
