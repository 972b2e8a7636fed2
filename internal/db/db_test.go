package db_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/HaroldK3/Student-Tracker/internal/config"
	"github.com/HaroldK3/Student-Tracker/internal/db"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	dsn := db.DSN(config.DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "tracker",
		Password: "pw",
		DBName:   "tracker",
	})
	assert.Equal(t, "postgres://tracker:pw@db.internal:5433/tracker?sslmode=disable", dsn)

	dsn = db.DSN(config.DatabaseConfig{Host: "h", Port: "1", User: "u", Password: "p", DBName: "d", SSLMode: "require"})
	assert.Equal(t, "postgres://u:p@h:1/d?sslmode=require", dsn)
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, db.IsNoRows(fmt.Errorf("get user: %w", sql.ErrNoRows)))
	assert.False(t, db.IsNoRows(errors.New("boom")))
}

func TestIsUniqueViolation_PlainError(t *testing.T) {
	assert.False(t, db.IsUniqueViolation(errors.New("duplicate key value")))
	assert.False(t, db.IsUniqueViolation(nil))
}
