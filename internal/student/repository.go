package student

import (
	"context"
	"strings"
	"time"

	"github.com/HaroldK3/Student-Tracker/common/metrics"
	"github.com/HaroldK3/Student-Tracker/internal/db"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, student *Student) (*Student, error)
	List(ctx context.Context, filter ListFilter) ([]Student, error)
	GetByID(ctx context.Context, id int) (*Student, error)
	GetByEmail(ctx context.Context, email string) (*Student, error)
	GetByUniversityID(ctx context.Context, universityID string) (*Student, error)
	Update(ctx context.Context, student *Student, columns ...string) error
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

func (r *repository) Create(ctx context.Context, student *Student) (*Student, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(student).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "students", time.Since(start), err)

	if err != nil {
		return nil, translateConflict(err)
	}
	return student, nil
}

// likeEscaper makes LIKE metacharacters in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Student, error) {
	start := time.Now()
	students := make([]Student, 0)
	q := r.db.NewSelect().Model(&students)
	if filter.Status != "" {
		q = q.Where("lower(s.status) = lower(?)", filter.Status)
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		pattern := "%" + likeEscaper.Replace(name) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("s.first_name ILIKE ?", pattern).WhereOr("s.last_name ILIKE ?", pattern)
		})
	}
	err := q.OrderExpr("s.created_at_utc DESC, s.student_id DESC").Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "students", time.Since(start), err)

	return students, err
}

func (r *repository) GetByID(ctx context.Context, id int) (*Student, error) {
	return r.getOne(ctx, "s.student_id = ?", id)
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Student, error) {
	return r.getOne(ctx, "lower(s.email) = lower(?)", email)
}

func (r *repository) GetByUniversityID(ctx context.Context, universityID string) (*Student, error) {
	return r.getOne(ctx, "s.university_id = ?", universityID)
}

func (r *repository) getOne(ctx context.Context, where string, arg interface{}) (*Student, error) {
	start := time.Now()
	student := new(Student)
	err := r.db.NewSelect().Model(student).Where(where, arg).Limit(1).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "students", time.Since(start), err)

	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

func (r *repository) Update(ctx context.Context, student *Student, columns ...string) error {
	start := time.Now()
	result, err := r.db.NewUpdate().
		Model(student).
		Column(columns...).
		WherePK().
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "students", time.Since(start), err)

	if err != nil {
		return translateConflict(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrStudentNotFound
	}
	return nil
}

func translateConflict(err error) error {
	if !db.IsUniqueViolation(err) {
		return err
	}
	if strings.Contains(db.ConstraintName(err), "university_id") {
		return ErrUniversityIDExists
	}
	return ErrEmailExists
}
