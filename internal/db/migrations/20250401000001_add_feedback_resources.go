package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return exec(ctx, db,
			`ALTER TABLE attendance ADD COLUMN IF NOT EXISTS status VARCHAR(20)`,
			`ALTER TABLE student_assignments ADD COLUMN IF NOT EXISTS position_id BIGINT REFERENCES positions (position_id) ON DELETE SET NULL`,
			`CREATE TABLE IF NOT EXISTS feedback (
				feedback_id    BIGSERIAL PRIMARY KEY,
				target_type    VARCHAR(20) NOT NULL,
				target_id      BIGINT      NOT NULL,
				feedback_text  TEXT        NOT NULL,
				created_at_utc TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
			`CREATE INDEX IF NOT EXISTS idx_feedback_target ON feedback (target_type, target_id)`,
			`CREATE TABLE IF NOT EXISTS resources (
				resource_id     BIGSERIAL PRIMARY KEY,
				file_name       VARCHAR(255) NOT NULL,
				file_path       VARCHAR(500) NOT NULL,
				content_type    VARCHAR(100),
				size_bytes      BIGINT       NOT NULL DEFAULT 0,
				uploaded_at_utc TIMESTAMPTZ  NOT NULL DEFAULT now()
			)`,
		)
	}, func(ctx context.Context, db *bun.DB) error {
		return exec(ctx, db,
			`DROP TABLE IF EXISTS resources`,
			`DROP TABLE IF EXISTS feedback`,
			`ALTER TABLE student_assignments DROP COLUMN IF EXISTS position_id`,
			`ALTER TABLE attendance DROP COLUMN IF EXISTS status`,
		)
	})
}
