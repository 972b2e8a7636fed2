package location

import (
	"context"
	"time"

	"github.com/HaroldK3/Student-Tracker/common/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, loc *StudentLocation) (*StudentLocation, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]TodayLocation, error)
	ListForStudent(ctx context.Context, studentID int) ([]StudentLocation, error)
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

// Insert appends loc through idb, which may be a transaction.
func Insert(ctx context.Context, idb bun.IDB, loc *StudentLocation) error {
	_, err := idb.NewInsert().Model(loc).Returning("*").Exec(ctx)
	return err
}

// ExistsNear reports whether the student already has a location at when, or
// within window of it when window is positive.
func ExistsNear(ctx context.Context, idb bun.IDB, studentID int, when time.Time, window time.Duration) (bool, error) {
	q := idb.NewSelect().
		Model((*StudentLocation)(nil)).
		Where("sl.student_id = ?", studentID)
	if window > 0 {
		q = q.Where("sl.check_in_utc BETWEEN ? AND ?", when.Add(-window), when.Add(window))
	} else {
		q = q.Where("sl.check_in_utc = ?", when)
	}
	return q.Exists(ctx)
}

func (r *repository) Create(ctx context.Context, loc *StudentLocation) (*StudentLocation, error) {
	start := time.Now()
	err := Insert(ctx, r.db, loc)

	r.metrics.Database.RecordQuery(ctx, "insert", "student_locations", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return loc, nil
}

func (r *repository) ListBetween(ctx context.Context, from, to time.Time) ([]TodayLocation, error) {
	start := time.Now()
	rows := make([]TodayLocation, 0)
	err := r.db.NewSelect().
		TableExpr("student_locations AS sl").
		Join("JOIN students AS s ON s.student_id = sl.student_id").
		ColumnExpr("sl.student_id, s.first_name, s.last_name, sl.lat, sl.lng, sl.check_in_utc").
		Where("sl.check_in_utc >= ?", from).
		Where("sl.check_in_utc < ?", to).
		OrderExpr("sl.check_in_utc DESC, sl.location_id DESC").
		Scan(ctx, &rows)

	r.metrics.Database.RecordQuery(ctx, "select", "student_locations", time.Since(start), err)

	return rows, err
}

func (r *repository) ListForStudent(ctx context.Context, studentID int) ([]StudentLocation, error) {
	start := time.Now()
	locations := make([]StudentLocation, 0)
	err := r.db.NewSelect().
		Model(&locations).
		Where("sl.student_id = ?", studentID).
		OrderExpr("sl.check_in_utc DESC, sl.location_id DESC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "student_locations", time.Since(start), err)

	return locations, err
}
