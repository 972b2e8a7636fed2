package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/HaroldK3/Student-Tracker/common/metrics"
	"github.com/HaroldK3/Student-Tracker/internal/assignment"
	"github.com/HaroldK3/Student-Tracker/internal/attendance"
	"github.com/HaroldK3/Student-Tracker/internal/position"
	"github.com/HaroldK3/Student-Tracker/internal/student"
	"github.com/HaroldK3/Student-Tracker/internal/user"

	"github.com/uptrace/bun"
)

type Repository interface {
	// Collect counts every metric; today is the UTC [dayStart, dayEnd) range.
	Collect(ctx context.Context, dayStart, dayEnd time.Time) (*Metrics, error)
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

type counter struct {
	table string
	dest  *int
	query *bun.SelectQuery
}

func (r *repository) Collect(ctx context.Context, dayStart, dayEnd time.Time) (*Metrics, error) {
	m := new(Metrics)

	users := func() *bun.SelectQuery { return r.db.NewSelect().Model((*user.User)(nil)) }
	students := func() *bun.SelectQuery { return r.db.NewSelect().Model((*student.Student)(nil)) }
	records := func() *bun.SelectQuery { return r.db.NewSelect().Model((*attendance.Attendance)(nil)) }

	counters := []counter{
		{"users", &m.TotalUsers, users()},
		{"users", &m.ActiveUsers, users().Where("u.is_active")},
		{"users", &m.Instructors, users().Where("u.role = ?", user.RoleInstructor).Where("u.is_active")},
		{"students", &m.TotalStudents, students()},
		{"students", &m.ActiveStudents, students().Where("s.status = ?", student.StatusActive)},
		{"positions", &m.ActivePositions, r.db.NewSelect().Model((*position.Position)(nil)).Where("p.is_active")},
		{"student_assignments", &m.ActiveAssignments, r.db.NewSelect().Model((*assignment.StudentAssignment)(nil)).Where("sa.is_active")},
		{"attendance", &m.OpenCheckIns, records().Where("a.check_out_utc IS NULL")},
		{"attendance", &m.PendingApprovals, records().Where("NOT a.is_approved").Where("a.status IS NULL")},
		{"attendance", &m.TodayCheckIns, records().Where("a.check_in_utc >= ?", dayStart).Where("a.check_in_utc < ?", dayEnd).Where("a.status IS NULL")},
	}

	for _, c := range counters {
		start := time.Now()
		n, err := c.query.Count(ctx)

		r.metrics.Database.RecordQuery(ctx, "count", c.table, time.Since(start), err)

		if err != nil {
			return nil, fmt.Errorf("count %s: %w", c.table, err)
		}
		*c.dest = n
	}
	return m, nil
}
