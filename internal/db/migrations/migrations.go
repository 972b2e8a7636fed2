// Package migrations holds the versioned schema of the tracker database.
package migrations

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

// Names of migrations other packages gate behavior on.
const (
	CoreTables         = "20250301000001"
	AttendanceLocation = "20250315000001"
	FeedbackResources  = "20250401000001"
	ActiveAssignment   = "20250415000001"
)

// Migrate applies every pending migration under a migration lock.
func Migrate(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	migrator := migrate.NewMigrator(db, Migrations)

	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	if err := migrator.Lock(ctx); err != nil {
		return fmt.Errorf("lock migrations: %w", err)
	}
	defer migrator.Unlock(ctx) //nolint:errcheck

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if group.IsZero() {
		logger.Info("database schema up to date")
		return nil
	}
	logger.Info("database migrated", "group", group.String())
	return nil
}

// Applied returns the set of applied migration names.
func Applied(ctx context.Context, db *bun.DB) (map[string]bool, error) {
	migrator := migrate.NewMigrator(db, Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("init migrations: %w", err)
	}

	ms, err := migrator.AppliedMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("applied migrations: %w", err)
	}

	applied := make(map[string]bool, len(ms))
	for _, m := range ms {
		applied[m.Name] = true
	}
	return applied, nil
}

func exec(ctx context.Context, db *bun.DB, stmts ...string) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
}
