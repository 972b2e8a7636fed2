package assignment

import (
	"context"
	"time"

	"github.com/HaroldK3/Student-Tracker/common/metrics"
	"github.com/HaroldK3/Student-Tracker/internal/db"
	"github.com/HaroldK3/Student-Tracker/internal/student"

	"github.com/uptrace/bun"
)

type Repository interface {
	// Assign deactivates the student's current assignment and inserts a in one
	// transaction, holding a lock on the student row.
	Assign(ctx context.Context, a *StudentAssignment) (*StudentAssignment, error)
	List(ctx context.Context, filter ListFilter) ([]StudentAssignment, error)
	GetActiveForStudent(ctx context.Context, studentID int) (*StudentAssignment, error)
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

func (r *repository) Assign(ctx context.Context, a *StudentAssignment) (*StudentAssignment, error) {
	start := time.Now()
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
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

		_, err = tx.NewUpdate().
			Model((*StudentAssignment)(nil)).
			Set("is_active = FALSE").
			Where("student_id = ?", a.StudentID).
			Where("is_active").
			Exec(ctx)
		if err != nil {
			return err
		}

		a.IsActive = true
		_, err = tx.NewInsert().Model(a).Returning("*").Exec(ctx)
		return err
	})

	r.metrics.Database.RecordQuery(ctx, "insert", "student_assignments", time.Since(start), err)

	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrAlreadyAssigned
		}
		return nil, err
	}
	return a, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]StudentAssignment, error) {
	start := time.Now()
	assignments := make([]StudentAssignment, 0)
	q := r.db.NewSelect().Model(&assignments)
	if filter.InstructorID > 0 {
		q = q.Where("sa.user_id = ?", filter.InstructorID)
	}
	if filter.ActiveOnly {
		q = q.Where("sa.is_active")
	}
	err := q.OrderExpr("sa.created_at_utc DESC, sa.assignment_id DESC").Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "student_assignments", time.Since(start), err)

	return assignments, err
}

func (r *repository) GetActiveForStudent(ctx context.Context, studentID int) (*StudentAssignment, error) {
	start := time.Now()
	a := new(StudentAssignment)
	err := r.db.NewSelect().
		Model(a).
		Where("sa.student_id = ?", studentID).
		Where("sa.is_active").
		OrderExpr("sa.assignment_id DESC").
		Limit(1).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "student_assignments", time.Since(start), err)

	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return a, nil
}
