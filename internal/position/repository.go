package position

import (
	"context"
	"time"

	"github.com/HaroldK3/Student-Tracker/common/metrics"
	"github.com/HaroldK3/Student-Tracker/internal/db"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, position *Position) (*Position, error)
	List(ctx context.Context, includeInactive bool) ([]Position, error)
	GetByID(ctx context.Context, id int) (*Position, error)
	Update(ctx context.Context, position *Position, columns ...string) error
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

func (r *repository) Create(ctx context.Context, position *Position) (*Position, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(position).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "positions", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return position, nil
}

func (r *repository) List(ctx context.Context, includeInactive bool) ([]Position, error) {
	start := time.Now()
	positions := make([]Position, 0)
	q := r.db.NewSelect().Model(&positions)
	if !includeInactive {
		q = q.Where("p.is_active")
	}
	err := q.OrderExpr("p.created_at_utc DESC, p.position_id DESC").Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "positions", time.Since(start), err)

	return positions, err
}

func (r *repository) GetByID(ctx context.Context, id int) (*Position, error) {
	start := time.Now()
	position := new(Position)
	err := r.db.NewSelect().Model(position).Where("p.position_id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "positions", time.Since(start), err)

	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrPositionNotFound
		}
		return nil, err
	}
	return position, nil
}

func (r *repository) Update(ctx context.Context, position *Position, columns ...string) error {
	start := time.Now()
	result, err := r.db.NewUpdate().
		Model(position).
		Column(columns...).
		WherePK().
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "positions", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrPositionNotFound
	}
	return nil
}
