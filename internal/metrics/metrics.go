package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the domain counters of the tracker.
type Metrics struct {
	usersCreated      metric.Int64Counter
	studentsCreated   metric.Int64Counter
	checkIns          metric.Int64Counter
	checkOuts         metric.Int64Counter
	approvals         metric.Int64Counter
	locationsRecorded metric.Int64Counter
	backfillRows      metric.Int64Counter
}

func New(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.usersCreated, err = meter.Int64Counter(
		"tracker.users.created",
		metric.WithDescription("Total number of staff users created"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return nil, err
	}

	m.studentsCreated, err = meter.Int64Counter(
		"tracker.students.created",
		metric.WithDescription("Total number of students created"),
		metric.WithUnit("{student}"),
	)
	if err != nil {
		return nil, err
	}

	m.checkIns, err = meter.Int64Counter(
		"tracker.attendance.check_ins",
		metric.WithDescription("Total number of attendance check-ins"),
		metric.WithUnit("{check_in}"),
	)
	if err != nil {
		return nil, err
	}

	m.checkOuts, err = meter.Int64Counter(
		"tracker.attendance.check_outs",
		metric.WithDescription("Total number of attendance check-outs"),
		metric.WithUnit("{check_out}"),
	)
	if err != nil {
		return nil, err
	}

	m.approvals, err = meter.Int64Counter(
		"tracker.attendance.approvals",
		metric.WithDescription("Total number of approved attendance records"),
		metric.WithUnit("{approval}"),
	)
	if err != nil {
		return nil, err
	}

	m.locationsRecorded, err = meter.Int64Counter(
		"tracker.locations.recorded",
		metric.WithDescription("Total number of student locations recorded"),
		metric.WithUnit("{location}"),
	)
	if err != nil {
		return nil, err
	}

	m.backfillRows, err = meter.Int64Counter(
		"tracker.backfill.rows",
		metric.WithDescription("Location backfill candidates by outcome"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) RecordUserCreated(ctx context.Context) {
	if m != nil && m.usersCreated != nil {
		m.usersCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordStudentCreated(ctx context.Context) {
	if m != nil && m.studentsCreated != nil {
		m.studentsCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordCheckIn(ctx context.Context, withLocation bool) {
	if m != nil && m.checkIns != nil {
		m.checkIns.Add(ctx, 1, metric.WithAttributes(attribute.Bool("with_location", withLocation)))
	}
}

func (m *Metrics) RecordCheckOut(ctx context.Context) {
	if m != nil && m.checkOuts != nil {
		m.checkOuts.Add(ctx, 1)
	}
}

func (m *Metrics) RecordApproval(ctx context.Context) {
	if m != nil && m.approvals != nil {
		m.approvals.Add(ctx, 1)
	}
}

func (m *Metrics) RecordLocation(ctx context.Context) {
	if m != nil && m.locationsRecorded != nil {
		m.locationsRecorded.Add(ctx, 1)
	}
}

// RecordBackfill adds n rows with the given outcome ("inserted", "skipped").
func (m *Metrics) RecordBackfill(ctx context.Context, outcome string, n int) {
	if m != nil && m.backfillRows != nil && n > 0 {
		m.backfillRows.Add(ctx, int64(n), metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

// NewMock creates a no-op Metrics instance for testing
func NewMock() *Metrics {
	return &Metrics{}
}
