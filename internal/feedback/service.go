package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HaroldK3/Student-Tracker/internal/position"
	"github.com/HaroldK3/Student-Tracker/internal/student"
)

var ErrEmptyFeedback = errors.New("feedback text is required")

type StudentFinder interface {
	GetByID(ctx context.Context, id int) (*student.Student, error)
}

type PositionFinder interface {
	GetByID(ctx context.Context, id int) (*position.Position, error)
}

type Service interface {
	ForStudent(ctx context.Context, studentID int, text string) (*Feedback, error)
	ForPosition(ctx context.Context, positionID int, text string) (*Feedback, error)
	ListForStudent(ctx context.Context, studentID int) ([]Feedback, error)
}

type service struct {
	repo      Repository
	students  StudentFinder
	positions PositionFinder
}

func NewService(repo Repository, students StudentFinder, positions PositionFinder) Service {
	return &service{
		repo:      repo,
		students:  students,
		positions: positions,
	}
}

func (s *service) ForStudent(ctx context.Context, studentID int, text string) (*Feedback, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyFeedback
	}
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.create(ctx, TargetStudent, studentID, text)
}

func (s *service) ForPosition(ctx context.Context, positionID int, text string) (*Feedback, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyFeedback
	}
	if _, err := s.positions.GetByID(ctx, positionID); err != nil {
		return nil, err
	}
	return s.create(ctx, TargetPosition, positionID, text)
}

func (s *service) ListForStudent(ctx context.Context, studentID int) ([]Feedback, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.repo.ListForTarget(ctx, TargetStudent, studentID)
}

func (s *service) create(ctx context.Context, targetType string, targetID int, text string) (*Feedback, error) {
	fb, err := s.repo.Create(ctx, &Feedback{
		TargetType:   targetType,
		TargetID:     targetID,
		FeedbackText: text,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s feedback: %w", strings.ToLower(targetType), err)
	}
	return fb, nil
}
