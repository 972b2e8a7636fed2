package attendance_test

import (
	"context"
	"testing"

	"github.com/HaroldK3/Student-Tracker/internal/attendance"
	"github.com/HaroldK3/Student-Tracker/internal/student"
	"github.com/HaroldK3/Student-Tracker/testing/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetTable(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t)

	db := pgContainer.DB
	ctx := context.Background()
	testdb.CleanupAll(t, db)

	_, err := db.NewInsert().Model(&student.Student{
		UniversityID: "U1", FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Status: student.StatusActive,
	}).Exec(ctx)
	require.NoError(t, err)

	_, err = db.NewInsert().Model(&attendance.Attendance{StudentID: 1}).Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, attendance.ResetTable(ctx, db))

	n, err := db.NewSelect().Model((*attendance.Attendance)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	a := &attendance.Attendance{StudentID: 1}
	_, err = db.NewInsert().Model(a).Returning("*").Exec(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, a.AttendanceID)
	assert.False(t, a.CreatedAtUtc.IsZero())

	_, err = db.NewInsert().Model(&attendance.Attendance{StudentID: 99}).Exec(ctx)
	assert.Error(t, err, "student foreign key must survive the reset")
}
