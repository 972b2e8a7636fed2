package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/HaroldK3/Student-Tracker/internal/events"
	"github.com/HaroldK3/Student-Tracker/internal/location"
	"github.com/HaroldK3/Student-Tracker/internal/student"
)

var (
	ErrAttendanceNotFound  = errors.New("attendance record not found")
	ErrAlreadyCheckedIn    = errors.New("student already has an open check-in")
	ErrAlreadyCheckedOut   = errors.New("attendance record already checked out")
	ErrInvalidCoordinates  = errors.New("lat and lng must be given together, lat within [-90,90] and lng within [-180,180]")
	ErrInvalidMark         = errors.New("status must be one of Present, Absent, Late, Excused")
	ErrInvalidDate         = errors.New("date must be formatted as YYYY-MM-DD")
	ErrDuplicateSheetEntry = errors.New("student listed more than once on the sheet")
)

type StudentFinder interface {
	GetByID(ctx context.Context, id int) (*student.Student, error)
}

type Service interface {
	CheckIn(ctx context.Context, req CheckInRequest) (*Attendance, error)
	CheckOut(ctx context.Context, id int) (*Attendance, error)
	Approve(ctx context.Context, id int) (*Attendance, error)
	ListForStudent(ctx context.Context, studentID int) ([]Attendance, error)
	OpenIntervals(ctx context.Context) ([]Attendance, error)
	SheetForDate(ctx context.Context, day string) ([]Attendance, error)
	SubmitSheet(ctx context.Context, req SheetRequest) ([]Attendance, error)
	UpdateMark(ctx context.Context, id int, mark string) (*Attendance, error)
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

func (s *service) CheckIn(ctx context.Context, req CheckInRequest) (*Attendance, error) {
	if (req.Lat == nil) != (req.Lng == nil) {
		return nil, ErrInvalidCoordinates
	}
	if req.Lat != nil && !location.ValidCoordinates(*req.Lat, *req.Lng) {
		return nil, ErrInvalidCoordinates
	}

	if _, err := s.students.GetByID(ctx, req.StudentID); err != nil {
		return nil, err
	}

	checkIn := s.now()
	if req.CheckInUtc != nil {
		checkIn = req.CheckInUtc.UTC()
	}

	a := &Attendance{
		StudentID:  req.StudentID,
		CheckInUtc: checkIn,
		Lat:        req.Lat,
		Lng:        req.Lng,
	}

	var loc *location.StudentLocation
	if req.Lat != nil {
		loc = &location.StudentLocation{
			StudentID:  req.StudentID,
			Lat:        *req.Lat,
			Lng:        *req.Lng,
			CheckInUtc: checkIn,
		}
	}

	if err := s.repo.CheckIn(ctx, a, loc); err != nil {
		if errors.Is(err, ErrAlreadyCheckedIn) || errors.Is(err, student.ErrStudentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("check in student %d: %w", req.StudentID, err)
	}

	s.emit(ctx, events.TypeCheckedIn, a)
	return a, nil
}

func (s *service) CheckOut(ctx context.Context, id int) (*Attendance, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.IsOpen() {
		return nil, ErrAlreadyCheckedOut
	}

	if err := s.repo.CheckOut(ctx, a, s.now()); err != nil {
		return nil, err
	}

	s.emit(ctx, events.TypeCheckedOut, a)
	return a, nil
}

func (s *service) Approve(ctx context.Context, id int) (*Attendance, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.IsApproved = true
	if err := s.repo.Update(ctx, a, "is_approved"); err != nil {
		return nil, fmt.Errorf("approve attendance %d: %w", id, err)
	}

	s.emit(ctx, events.TypeApproved, a)
	return a, nil
}

func (s *service) ListForStudent(ctx context.Context, studentID int) ([]Attendance, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.repo.ListForStudent(ctx, studentID)
}

func (s *service) OpenIntervals(ctx context.Context) ([]Attendance, error) {
	return s.repo.ListOpen(ctx)
}

func (s *service) SheetForDate(ctx context.Context, day string) ([]Attendance, error) {
	from, to, err := DayBounds(day)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return s.repo.ListBetween(ctx, from, to)
}

// SubmitSheet stores one closed, marked interval per listed student at the
// start of the sheet's day. Nothing is stored unless every entry is valid.
func (s *service) SubmitSheet(ctx context.Context, req SheetRequest) ([]Attendance, error) {
	day, _, err := DayBounds(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	seen := make(map[int]bool, len(req.Students))
	rows := make([]Attendance, 0, len(req.Students))
	for _, entry := range req.Students {
		mark, ok := NormalizeMark(entry.Status)
		if !ok {
			return nil, ErrInvalidMark
		}
		if seen[entry.StudentID] {
			return nil, ErrDuplicateSheetEntry
		}
		seen[entry.StudentID] = true

		if _, err := s.students.GetByID(ctx, entry.StudentID); err != nil {
			return nil, fmt.Errorf("sheet entry for student %d: %w", entry.StudentID, err)
		}

		checkOut := day
		rows = append(rows, Attendance{
			StudentID:   entry.StudentID,
			CheckInUtc:  day,
			CheckOutUtc: &checkOut,
			Status:      &mark,
		})
	}

	if err := s.repo.InsertSheet(ctx, rows); err != nil {
		return nil, fmt.Errorf("save attendance sheet: %w", err)
	}

	for i := range rows {
		s.emit(ctx, events.TypeMarked, &rows[i])
	}
	return rows, nil
}

func (s *service) UpdateMark(ctx context.Context, id int, mark string) (*Attendance, error) {
	normalized, ok := NormalizeMark(mark)
	if !ok {
		return nil, ErrInvalidMark
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.Status = &normalized
	if err := s.repo.Update(ctx, a, "status"); err != nil {
		return nil, fmt.Errorf("update attendance %d: %w", id, err)
	}

	s.emit(ctx, events.TypeMarked, a)
	return a, nil
}

func (s *service) emit(ctx context.Context, eventType string, a *Attendance) {
	ev := events.Event{
		Type:         eventType,
		AttendanceID: a.AttendanceID,
		StudentID:    a.StudentID,
		OccurredAt:   s.now(),
	}
	if a.Status != nil {
		ev.Status = *a.Status
	}
	events.Emit(ctx, s.publisher, ev, s.logger)
}
