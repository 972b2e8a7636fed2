package resource

import (
	"context"
	"time"

	"github.com/HaroldK3/Student-Tracker/common/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, res *Resource) (*Resource, error)
	List(ctx context.Context) ([]Resource, error)
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

func (r *repository) Create(ctx context.Context, res *Resource) (*Resource, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(res).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "resources", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *repository) List(ctx context.Context) ([]Resource, error) {
	start := time.Now()
	items := make([]Resource, 0)
	err := r.db.NewSelect().
		Model(&items).
		OrderExpr("r.uploaded_at_utc DESC, r.resource_id DESC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "resources", time.Since(start), err)

	return items, err
}
