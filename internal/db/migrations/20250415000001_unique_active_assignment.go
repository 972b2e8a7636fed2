package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return exec(ctx, db,
			`UPDATE student_assignments sa SET is_active = FALSE
			WHERE sa.is_active AND EXISTS (
				SELECT 1 FROM student_assignments newer
				WHERE newer.student_id = sa.student_id
				AND newer.is_active
				AND newer.assignment_id > sa.assignment_id
			)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS uq_student_assignments_active
			ON student_assignments (student_id) WHERE is_active`,
		)
	}, func(ctx context.Context, db *bun.DB) error {
		return exec(ctx, db, `DROP INDEX IF EXISTS uq_student_assignments_active`)
	})
}
