// Package backfill copies historical coordinates from older tables into
// student_locations.
package backfill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/HaroldK3/Student-Tracker/internal/db/migrations"
	"github.com/HaroldK3/Student-Tracker/internal/location"
	"github.com/HaroldK3/Student-Tracker/internal/metrics"

	"github.com/uptrace/bun"
)

// ErrTargetMissing means student_locations does not exist yet.
var ErrTargetMissing = errors.New("student_locations is missing, apply the database migrations first")

type Options struct {
	DryRun  bool
	CSVPath string
	// Window widens duplicate detection to +/- Window around the candidate
	// time. Zero means exact timestamp match.
	Window time.Duration
}

type Report struct {
	Candidates int
	Inserted   int
	Skipped    int
}

type Backfiller struct {
	db      *bun.DB
	sources []Source
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func New(db *bun.DB, sources []Source, m *metrics.Metrics, logger *slog.Logger) *Backfiller {
	return &Backfiller{
		db:      db,
		sources: sources,
		metrics: m,
		logger:  logger,
	}
}

func (b *Backfiller) Run(ctx context.Context, opts Options) (Report, error) {
	candidates, err := b.Collect(ctx)
	if err != nil {
		return Report{}, err
	}

	if opts.DryRun {
		if err := writeCSVFile(opts.CSVPath, candidates); err != nil {
			return Report{}, err
		}
		b.logger.InfoContext(ctx, "dry run complete, no rows inserted", "candidates", len(candidates), "csv", opts.CSVPath)
		return Report{Candidates: len(candidates)}, nil
	}

	report, err := b.Apply(ctx, candidates, opts.Window)
	if err != nil {
		return Report{}, err
	}

	b.metrics.RecordBackfill(ctx, "inserted", report.Inserted)
	b.metrics.RecordBackfill(ctx, "skipped", report.Skipped)
	b.logger.InfoContext(ctx, "backfill finished",
		"candidates", report.Candidates,
		"inserted", report.Inserted,
		"skipped", report.Skipped,
	)
	return report, nil
}

// Collect reads every row with both coordinates from the eligible sources,
// ordered by source table and then id.
func (b *Backfiller) Collect(ctx context.Context) ([]Candidate, error) {
	applied, err := migrations.Applied(ctx, b.db)
	if err != nil {
		return nil, err
	}
	if !applied[migrations.AttendanceLocation] {
		return nil, ErrTargetMissing
	}

	var all []Candidate
	for _, src := range eligible(b.sources, applied) {
		rows := make([]Candidate, 0)
		err := b.db.NewSelect().
			TableExpr("?", bun.Ident(src.Table)).
			ColumnExpr("? AS source_id", bun.Ident(src.IDColumn)).
			ColumnExpr("? AS student_id", bun.Ident(src.StudentColumn)).
			ColumnExpr("? AS lat", bun.Ident(src.LatColumn)).
			ColumnExpr("? AS lng", bun.Ident(src.LngColumn)).
			ColumnExpr("? AS check_in_utc", bun.Ident(src.TimeColumn)).
			Where("? IS NOT NULL", bun.Ident(src.LatColumn)).
			Where("? IS NOT NULL", bun.Ident(src.LngColumn)).
			OrderExpr("? ASC", bun.Ident(src.IDColumn)).
			Scan(ctx, &rows)
		if err != nil {
			return nil, fmt.Errorf("collect from %s: %w", src.Table, err)
		}

		for i := range rows {
			rows[i].SourceTable = src.Table
			rows[i].CheckInUtc = rows[i].CheckInUtc.UTC()
		}
		b.logger.InfoContext(ctx, "collected candidates", "source", src.Table, "count", len(rows))
		all = append(all, rows...)
	}
	return all, nil
}

// Apply inserts the candidates that have no StudentLocation near their time,
// all in one transaction.
func (b *Backfiller) Apply(ctx context.Context, candidates []Candidate, window time.Duration) (Report, error) {
	var report Report
	err := b.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		report, err = apply(ctx, txStore{tx: tx}, candidates, window)
		return err
	})
	if err != nil {
		return Report{}, fmt.Errorf("apply backfill: %w", err)
	}
	return report, nil
}

type locationStore interface {
	ExistsNear(ctx context.Context, studentID int, when time.Time, window time.Duration) (bool, error)
	Insert(ctx context.Context, loc *location.StudentLocation) error
}

type txStore struct {
	tx bun.Tx
}

func (s txStore) ExistsNear(ctx context.Context, studentID int, when time.Time, window time.Duration) (bool, error) {
	return location.ExistsNear(ctx, s.tx, studentID, when, window)
}

func (s txStore) Insert(ctx context.Context, loc *location.StudentLocation) error {
	return location.Insert(ctx, s.tx, loc)
}

func apply(ctx context.Context, store locationStore, candidates []Candidate, window time.Duration) (Report, error) {
	report := Report{Candidates: len(candidates)}
	for _, c := range candidates {
		exists, err := store.ExistsNear(ctx, c.StudentID, c.CheckInUtc, window)
		if err != nil {
			return Report{}, fmt.Errorf("check %s %d: %w", c.SourceTable, c.SourceID, err)
		}
		if exists {
			report.Skipped++
			continue
		}

		err = store.Insert(ctx, &location.StudentLocation{
			StudentID:  c.StudentID,
			Lat:        c.Lat,
			Lng:        c.Lng,
			CheckInUtc: c.CheckInUtc,
		})
		if err != nil {
			return Report{}, fmt.Errorf("insert %s %d: %w", c.SourceTable, c.SourceID, err)
		}
		report.Inserted++
	}
	return report, nil
}

func writeCSVFile(path string, candidates []Candidate) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, candidates); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
