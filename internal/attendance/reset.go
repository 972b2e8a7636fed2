package attendance

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// ResetTable drops the attendance table and recreates it from the Attendance
// model. Every attendance row is lost.
func ResetTable(ctx context.Context, db *bun.DB) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDropTable().Model((*Attendance)(nil)).IfExists().Cascade().Exec(ctx); err != nil {
			return fmt.Errorf("drop attendance: %w", err)
		}

		_, err := tx.NewCreateTable().
			Model((*Attendance)(nil)).
			ForeignKey(`("student_id") REFERENCES "students" ("student_id") ON DELETE CASCADE`).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("create attendance: %w", err)
		}

		_, err = tx.NewCreateIndex().
			Model((*Attendance)(nil)).
			Index("idx_attendance_student").
			Column("student_id").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("index attendance: %w", err)
		}
		return nil
	})
}
