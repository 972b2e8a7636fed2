package testdb

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/HaroldK3/Student-Tracker/internal/db"
	"github.com/HaroldK3/Student-Tracker/internal/db/migrations"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
)

// Tables lists every application table, children first.
var Tables = []string{
	"student_locations",
	"attendance",
	"student_assignments",
	"feedback",
	"resources",
	"positions",
	"students",
	"users",
}

var (
	sharedContainer *PostgresContainer
	sharedMu        sync.Mutex
)

// PostgresContainer wraps the postgres testcontainer
type PostgresContainer struct {
	Container *postgres.PostgresContainer
	DB        *bun.DB
	DSN       string
}

// SetupSharedPostgres returns the PostgreSQL container shared by the tests of a package,
// starting it on first use.
//
// Tests using the shared container CANNOT run in parallel.
//
// Usage:
//
//	func TestMyHandler(t *testing.T) {
//	    pgContainer := testdb.SetupSharedPostgres(t)
//	    defer pgContainer.Cleanup(t)
//
//	    pgContainer.RunMigrations(t)
//
//	    t.Run("Case", func(t *testing.T) {
//	        testdb.CleanupTables(t, pgContainer.DB, "students")
//	        // ...
//	    })
//	}
func SetupSharedPostgres(t *testing.T) *PostgresContainer {
	t.Helper()

	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedContainer != nil {
		return sharedContainer
	}

	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	bunDB, err := db.NewWithDSN(ctx, connStr)
	require.NoError(t, err)

	sharedContainer = &PostgresContainer{
		Container: pgContainer,
		DB:        bunDB,
		DSN:       connStr,
	}
	return sharedContainer
}

// Cleanup terminates the container; the next SetupSharedPostgres starts a fresh one.
func (pc *PostgresContainer) Cleanup(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	sharedMu.Lock()
	defer sharedMu.Unlock()

	if pc.DB != nil {
		pc.DB.Close()
	}

	if pc.Container != nil {
		if err := pc.Container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	if sharedContainer == pc {
		sharedContainer = nil
	}
}

// RunMigrations applies the versioned schema.
func (pc *PostgresContainer) RunMigrations(t *testing.T) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := migrations.Migrate(context.Background(), pc.DB, logger)
	require.NoError(t, err, "failed to migrate")
}

func CleanupTables(t *testing.T, db *bun.DB, tables ...string) {
	t.Helper()

	ctx := context.Background()

	for _, table := range tables {
		_, err := db.ExecContext(ctx, "TRUNCATE "+table+" RESTART IDENTITY CASCADE")
		require.NoError(t, err, "failed to truncate table: %s", table)
	}
}

// CleanupAll truncates every application table.
func CleanupAll(t *testing.T, db *bun.DB) {
	t.Helper()
	CleanupTables(t, db, Tables...)
}
