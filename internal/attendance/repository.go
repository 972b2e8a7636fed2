package attendance

import (
	"context"
	"time"

	"github.com/HaroldK3/Student-Tracker/common/metrics"
	"github.com/HaroldK3/Student-Tracker/internal/db"
	"github.com/HaroldK3/Student-Tracker/internal/location"
	"github.com/HaroldK3/Student-Tracker/internal/student"

	"github.com/uptrace/bun"
)

type Repository interface {
	// CheckIn inserts a, and loc when non-nil, in one transaction. It fails with
	// ErrAlreadyCheckedIn while the student has an open interval.
	CheckIn(ctx context.Context, a *Attendance, loc *location.StudentLocation) error
	GetByID(ctx context.Context, id int) (*Attendance, error)
	// CheckOut closes an open interval; it fails with ErrAlreadyCheckedOut otherwise.
	CheckOut(ctx context.Context, a *Attendance, at time.Time) error
	Update(ctx context.Context, a *Attendance, columns ...string) error
	ListForStudent(ctx context.Context, studentID int) ([]Attendance, error)
	ListOpen(ctx context.Context) ([]Attendance, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]Attendance, error)
	InsertSheet(ctx context.Context, rows []Attendance) error
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{
		db:      db,
		metrics: m,
	}
}

func (r *repository) CheckIn(ctx context.Context, a *Attendance, loc *location.StudentLocation) error {
	start := time.Now()
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// Lock the student row so concurrent check-ins for one student serialize.
		var studentID int
		err := tx.NewSelect().
			Model((*student.Student)(nil)).
			Column("student_id").
			Where("s.student_id = ?", a.StudentID).
			For("UPDATE").
			Scan(ctx, &studentID)
		if err != nil {
			if db.IsNoRows(err) {
				return student.ErrStudentNotFound
			}
			return err
		}

		open, err := tx.NewSelect().
			Model((*Attendance)(nil)).
			Where("a.student_id = ?", a.StudentID).
			Where("a.check_out_utc IS NULL").
			Exists(ctx)
		if err != nil {
			return err
		}
		if open {
			return ErrAlreadyCheckedIn
		}

		if _, err := tx.NewInsert().Model(a).Returning("*").Exec(ctx); err != nil {
			return err
		}
		if loc != nil {
			return location.Insert(ctx, tx, loc)
		}
		return nil
	})

	r.metrics.Database.RecordQuery(ctx, "insert", "attendance", time.Since(start), err)

	return err
}

func (r *repository) GetByID(ctx context.Context, id int) (*Attendance, error) {
	start := time.Now()
	a := new(Attendance)
	err := r.db.NewSelect().Model(a).Where("a.attendance_id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "attendance", time.Since(start), err)

	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrAttendanceNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *repository) CheckOut(ctx context.Context, a *Attendance, at time.Time) error {
	start := time.Now()
	a.CheckOutUtc = &at
	result, err := r.db.NewUpdate().
		Model(a).
		Column("check_out_utc").
		WherePK().
		Where("check_out_utc IS NULL").
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "attendance", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrAlreadyCheckedOut
	}
	return nil
}

func (r *repository) Update(ctx context.Context, a *Attendance, columns ...string) error {
	start := time.Now()
	result, err := r.db.NewUpdate().
		Model(a).
		Column(columns...).
		WherePK().
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "attendance", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrAttendanceNotFound
	}
	return nil
}

func (r *repository) ListForStudent(ctx context.Context, studentID int) ([]Attendance, error) {
	return r.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("a.student_id = ?", studentID)
	})
}

func (r *repository) ListOpen(ctx context.Context) ([]Attendance, error) {
	return r.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("a.check_out_utc IS NULL")
	})
}

func (r *repository) ListBetween(ctx context.Context, from, to time.Time) ([]Attendance, error) {
	return r.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("a.check_in_utc >= ?", from).Where("a.check_in_utc < ?", to)
	})
}

func (r *repository) list(ctx context.Context, filter func(*bun.SelectQuery) *bun.SelectQuery) ([]Attendance, error) {
	start := time.Now()
	rows := make([]Attendance, 0)
	err := filter(r.db.NewSelect().Model(&rows)).
		OrderExpr("a.check_in_utc DESC, a.attendance_id DESC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "attendance", time.Since(start), err)

	return rows, err
}

func (r *repository) InsertSheet(ctx context.Context, rows []Attendance) error {
	start := time.Now()
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&rows).Returning("*").Exec(ctx)
		return err
	})

	r.metrics.Database.RecordQuery(ctx, "insert", "attendance", time.Since(start), err)

	return err
}
