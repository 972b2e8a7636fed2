package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return exec(ctx, db,
			`ALTER TABLE attendance ADD COLUMN IF NOT EXISTS lat DOUBLE PRECISION`,
			`ALTER TABLE attendance ADD COLUMN IF NOT EXISTS lng DOUBLE PRECISION`,
			`CREATE TABLE IF NOT EXISTS student_locations (
				location_id    BIGSERIAL PRIMARY KEY,
				student_id     BIGINT           NOT NULL REFERENCES students (student_id) ON DELETE CASCADE,
				lat            DOUBLE PRECISION NOT NULL,
				lng            DOUBLE PRECISION NOT NULL,
				check_in_utc   TIMESTAMPTZ      NOT NULL,
				created_at_utc TIMESTAMPTZ      NOT NULL DEFAULT now()
			)`,
			`CREATE INDEX IF NOT EXISTS idx_student_locations_student_time ON student_locations (student_id, check_in_utc)`,
		)
	}, func(ctx context.Context, db *bun.DB) error {
		return exec(ctx, db,
			`DROP TABLE IF EXISTS student_locations`,
			`ALTER TABLE attendance DROP COLUMN IF EXISTS lng`,
			`ALTER TABLE attendance DROP COLUMN IF EXISTS lat`,
		)
	})
}
