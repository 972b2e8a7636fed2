// Command reset-attendance drops the attendance table and recreates it from
// the current model. It refuses to run without --yes.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/HaroldK3/Student-Tracker/common/logger"
	"github.com/HaroldK3/Student-Tracker/internal/attendance"
	"github.com/HaroldK3/Student-Tracker/internal/config"
	"github.com/HaroldK3/Student-Tracker/internal/db"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

var errNotConfirmed = errors.New("refusing to reset the attendance table without --yes")

func main() {
	_ = godotenv.Load()

	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("reset-attendance", pflag.ExitOnError)
	yes := flags.Bool("yes", false, "confirm that every attendance row may be deleted")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return errNotConfirmed
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slogLogger := logger.New(cfg.Env)

	ctx := context.Background()
	database, err := db.New(ctx, cfg.Database, slogLogger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close(database)

	if err := attendance.ResetTable(ctx, database); err != nil {
		return err
	}

	slogLogger.Info("attendance table reset to match the model")
	return nil
}
