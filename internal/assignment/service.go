package assignment

import (
	"context"
	"errors"
	"fmt"

	"github.com/HaroldK3/Student-Tracker/internal/position"
	"github.com/HaroldK3/Student-Tracker/internal/student"
	"github.com/HaroldK3/Student-Tracker/internal/user"
)

var (
	ErrInstructorNotFound = errors.New("instructor not found")
	ErrAssignmentNotFound = errors.New("no active assignment")
	ErrAlreadyAssigned    = errors.New("student already has an active assignment")
)

type StudentFinder interface {
	GetByID(ctx context.Context, id int) (*student.Student, error)
}

type UserFinder interface {
	GetByID(ctx context.Context, id int) (*user.User, error)
}

type PositionFinder interface {
	GetByID(ctx context.Context, id int) (*position.Position, error)
}

type Service interface {
	AssignInstructor(ctx context.Context, req AssignRequest) (*StudentAssignment, error)
	ListAssignments(ctx context.Context, filter ListFilter) ([]StudentAssignment, error)
	GetInternship(ctx context.Context, studentID int) (*Internship, error)
}

type service struct {
	repo      Repository
	students  StudentFinder
	users     UserFinder
	positions PositionFinder
}

func NewService(repo Repository, students StudentFinder, users UserFinder, positions PositionFinder) Service {
	return &service{
		repo:      repo,
		students:  students,
		users:     users,
		positions: positions,
	}
}

func (s *service) AssignInstructor(ctx context.Context, req AssignRequest) (*StudentAssignment, error) {
	if _, err := s.students.GetByID(ctx, req.StudentID); err != nil {
		return nil, err
	}

	instructor, err := s.users.GetByID(ctx, req.UserID)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrInstructorNotFound
	}
	if err != nil {
		return nil, err
	}
	if !instructor.IsActive || instructor.Role != user.RoleInstructor {
		return nil, ErrInstructorNotFound
	}

	if req.PositionID != nil {
		if _, err := s.positions.GetByID(ctx, *req.PositionID); err != nil {
			return nil, err
		}
	}

	created, err := s.repo.Assign(ctx, &StudentAssignment{
		StudentID:  req.StudentID,
		UserID:     req.UserID,
		PositionID: req.PositionID,
	})
	if err != nil {
		return nil, fmt.Errorf("assign instructor: %w", err)
	}
	return created, nil
}

func (s *service) ListAssignments(ctx context.Context, filter ListFilter) ([]StudentAssignment, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) GetInternship(ctx context.Context, studentID int) (*Internship, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	active, err := s.repo.GetActiveForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	internship := &Internship{Assignment: *active}

	instructor, err := s.users.GetByID(ctx, active.UserID)
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return nil, err
	}
	internship.Instructor = instructor

	if active.PositionID != nil {
		p, err := s.positions.GetByID(ctx, *active.PositionID)
		if err != nil && !errors.Is(err, position.ErrPositionNotFound) {
			return nil, err
		}
		internship.Position = p
	}
	return internship, nil
}
