// Command backfill copies historical coordinates into student_locations.
//
//	backfill [--dry-run] [--csv path] [--dedupe-window seconds]
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HaroldK3/Student-Tracker/common/logger"
	"github.com/HaroldK3/Student-Tracker/common/telemetry"
	"github.com/HaroldK3/Student-Tracker/internal/backfill"
	"github.com/HaroldK3/Student-Tracker/internal/config"
	"github.com/HaroldK3/Student-Tracker/internal/db"
	"github.com/HaroldK3/Student-Tracker/internal/metrics"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

const serviceName = "student-tracker-backfill"

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		log.Fatalf("backfill failed: %v", err)
	}
}

func run() error {
	flags := pflag.NewFlagSet("backfill", pflag.ExitOnError)
	flags.Bool("dry-run", false, "do not insert rows; write candidates to CSV instead")
	flags.String("csv", "backfill_candidates.csv", "CSV output path for --dry-run")
	flags.Int("dedupe-window", 0, "seconds around a candidate that count as a duplicate (0 = exact match)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	v := viper.New()
	for key, name := range map[string]string{
		"backfill.dry_run":       "dry-run",
		"backfill.csv":           "csv",
		"backfill.dedupe_window": "dedupe-window",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}

	cfg, err := config.LoadFrom(v)
	if err != nil {
		return err
	}

	slogLogger := logger.NewWithServiceContext(serviceName, "dev", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Init(ctx, cfg.Telemetry.OTLPEndpoint, serviceName, "dev", cfg.Env, slogLogger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tel.Shutdown(shutdownCtx, slogLogger)
	}()

	database, err := db.New(ctx, cfg.Database, slogLogger)
	if err != nil {
		return err
	}
	defer db.Close(database)

	domainMetrics, err := metrics.New(otel.Meter(serviceName))
	if err != nil {
		return err
	}

	slogLogger.Info("backfill starting",
		"dry_run", cfg.Backfill.DryRun,
		"csv", cfg.Backfill.CSVPath,
		"dedupe_window_seconds", cfg.Backfill.DedupeWindowSeconds,
	)

	report, err := backfill.New(database, backfill.Sources, domainMetrics, slogLogger).Run(ctx, backfill.Options{
		DryRun:  cfg.Backfill.DryRun,
		CSVPath: cfg.Backfill.CSVPath,
		Window:  time.Duration(cfg.Backfill.DedupeWindowSeconds) * time.Second,
	})
	if err != nil {
		return err
	}

	if cfg.Backfill.DryRun {
		fmt.Printf("Dry run: %d candidates written to %s. No inserts performed.\n", report.Candidates, cfg.Backfill.CSVPath)
		return nil
	}
	fmt.Printf("Backfill finished: %d candidates, %d inserted, %d skipped.\n", report.Candidates, report.Inserted, report.Skipped)
	return nil
}
