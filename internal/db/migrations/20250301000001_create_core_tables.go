package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return exec(ctx, db,
			`CREATE TABLE IF NOT EXISTS users (
				user_id        BIGSERIAL PRIMARY KEY,
				first_name     VARCHAR(100) NOT NULL,
				last_name      VARCHAR(100) NOT NULL,
				email          VARCHAR(255) NOT NULL UNIQUE,
				role           VARCHAR(20)  NOT NULL,
				is_active      BOOLEAN      NOT NULL DEFAULT TRUE,
				created_at_utc TIMESTAMPTZ  NOT NULL DEFAULT now()
			)`,
			`CREATE TABLE IF NOT EXISTS students (
				student_id     BIGSERIAL PRIMARY KEY,
				university_id  VARCHAR(50)  NOT NULL UNIQUE,
				first_name     VARCHAR(100) NOT NULL,
				last_name      VARCHAR(100) NOT NULL,
				email          VARCHAR(255) NOT NULL UNIQUE,
				phone_e164     VARCHAR(20),
				program        VARCHAR(100),
				year           INTEGER,
				status         VARCHAR(20)  NOT NULL DEFAULT 'Active',
				gpa            DOUBLE PRECISION,
				created_at_utc TIMESTAMPTZ  NOT NULL DEFAULT now()
			)`,
			`CREATE TABLE IF NOT EXISTS positions (
				position_id      BIGSERIAL PRIMARY KEY,
				title            VARCHAR(200) NOT NULL,
				company          VARCHAR(200) NOT NULL,
				site_location    VARCHAR(255),
				supervisor_name  VARCHAR(200),
				supervisor_email VARCHAR(255),
				start_date       DATE,
				end_date         DATE,
				is_active        BOOLEAN     NOT NULL DEFAULT TRUE,
				created_at_utc   TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
			`CREATE TABLE IF NOT EXISTS student_assignments (
				assignment_id  BIGSERIAL PRIMARY KEY,
				student_id     BIGINT      NOT NULL REFERENCES students (student_id) ON DELETE CASCADE,
				user_id        BIGINT      NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
				is_active      BOOLEAN     NOT NULL DEFAULT TRUE,
				created_at_utc TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
			`CREATE INDEX IF NOT EXISTS idx_student_assignments_student ON student_assignments (student_id)`,
			`CREATE TABLE IF NOT EXISTS attendance (
				attendance_id  BIGSERIAL PRIMARY KEY,
				student_id     BIGINT      NOT NULL REFERENCES students (student_id) ON DELETE CASCADE,
				check_in_utc   TIMESTAMPTZ NOT NULL,
				check_out_utc  TIMESTAMPTZ,
				is_approved    BOOLEAN     NOT NULL DEFAULT FALSE,
				created_at_utc TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
			`CREATE INDEX IF NOT EXISTS idx_attendance_student ON attendance (student_id)`,
		)
	}, func(ctx context.Context, db *bun.DB) error {
		return exec(ctx, db,
			`DROP TABLE IF EXISTS attendance`,
			`DROP TABLE IF EXISTS student_assignments`,
			`DROP TABLE IF EXISTS positions`,
			`DROP TABLE IF EXISTS students`,
			`DROP TABLE IF EXISTS users`,
		)
	})
}
