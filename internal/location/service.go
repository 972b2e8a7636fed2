package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/HaroldK3/Student-Tracker/internal/events"
	"github.com/HaroldK3/Student-Tracker/internal/student"
)

var ErrInvalidCoordinates = errors.New("lat must be within [-90,90] and lng within [-180,180]")

type StudentFinder interface {
	GetByID(ctx context.Context, id int) (*student.Student, error)
}

type Service interface {
	RecordLocation(ctx context.Context, req RecordRequest) (*StudentLocation, error)
	TodayLocations(ctx context.Context) ([]TodayLocation, error)
	ListForStudent(ctx context.Context, studentID int) ([]StudentLocation, error)
}

type service struct {
	repo      Repository
	students  StudentFinder
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, students StudentFinder, publisher events.Publisher, logger *slog.Logger) Service {
	return &service{
		repo:      repo,
		students:  students,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) RecordLocation(ctx context.Context, req RecordRequest) (*StudentLocation, error) {
	if req.Lat == nil || req.Lng == nil || !ValidCoordinates(*req.Lat, *req.Lng) {
		return nil, ErrInvalidCoordinates
	}
	if _, err := s.students.GetByID(ctx, req.StudentID); err != nil {
		return nil, err
	}

	loc, err := s.repo.Create(ctx, &StudentLocation{
		StudentID:  req.StudentID,
		Lat:        *req.Lat,
		Lng:        *req.Lng,
		CheckInUtc: s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("record location: %w", err)
	}

	events.Emit(ctx, s.publisher, events.Event{
		Type:       events.TypeLocationRecorded,
		LocationID: loc.LocationID,
		StudentID:  loc.StudentID,
		OccurredAt: loc.CheckInUtc,
	}, s.logger)

	return loc, nil
}

func (s *service) TodayLocations(ctx context.Context) ([]TodayLocation, error) {
	now := s.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.repo.ListBetween(ctx, from, from.AddDate(0, 0, 1))
}

func (s *service) ListForStudent(ctx context.Context, studentID int) ([]StudentLocation, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.repo.ListForStudent(ctx, studentID)
}
