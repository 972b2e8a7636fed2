package feedback

import (
	"context"
	"time"

	"github.com/HaroldK3/Student-Tracker/common/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, fb *Feedback) (*Feedback, error)
	ListForTarget(ctx context.Context, targetType string, targetID int) ([]Feedback, error)
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

func (r *repository) Create(ctx context.Context, fb *Feedback) (*Feedback, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(fb).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "feedback", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return fb, nil
}

func (r *repository) ListForTarget(ctx context.Context, targetType string, targetID int) ([]Feedback, error) {
	start := time.Now()
	items := make([]Feedback, 0)
	err := r.db.NewSelect().
		Model(&items).
		Where("f.target_type = ?", targetType).
		Where("f.target_id = ?", targetID).
		OrderExpr("f.created_at_utc DESC, f.feedback_id DESC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "feedback", time.Since(start), err)

	return items, err
}
