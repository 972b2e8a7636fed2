package assignment

import (
	"time"

	"github.com/HaroldK3/Student-Tracker/internal/position"
	"github.com/HaroldK3/Student-Tracker/internal/user"

	"github.com/uptrace/bun"
)

type StudentAssignment struct {
	bun.BaseModel `bun:"table:student_assignments,alias:sa"`

	AssignmentID int       `bun:"assignment_id,pk,autoincrement" json:"AssignmentId"`
	StudentID    int       `bun:"student_id,notnull" json:"StudentId"`
	UserID       int       `bun:"user_id,notnull" json:"UserId"`
	PositionID   *int      `bun:"position_id" json:"PositionId"`
	IsActive     bool      `bun:"is_active,notnull" json:"IsActive"`
	CreatedAtUtc time.Time `bun:"created_at_utc,nullzero,notnull,default:current_timestamp" json:"CreatedAtUtc"`
}

type AssignRequest struct {
	StudentID  int  `json:"StudentId" validate:"required,gt=0"`
	UserID     int  `json:"UserId" validate:"required,gt=0"`
	PositionID *int `json:"PositionId" validate:"omitempty,gt=0"`
}

type ListFilter struct {
	InstructorID int
	ActiveOnly   bool
}

// Internship is a student's active assignment with its instructor and position.
type Internship struct {
	Assignment StudentAssignment  `json:"Assignment"`
	Instructor *user.User         `json:"Instructor"`
	Position   *position.Position `json:"Position"`
}
