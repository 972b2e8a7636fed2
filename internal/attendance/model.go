package attendance

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Attendance sheet marks.
const (
	MarkPresent = "Present"
	MarkAbsent  = "Absent"
	MarkLate    = "Late"
	MarkExcused = "Excused"
)

const DateLayout = "2006-01-02"

// NormalizeMark maps any casing of a known mark to its canonical form.
func NormalizeMark(mark string) (string, bool) {
	for _, m := range []string{MarkPresent, MarkAbsent, MarkLate, MarkExcused} {
		if strings.EqualFold(strings.TrimSpace(mark), m) {
			return m, true
		}
	}
	return "", false
}

// Attendance is one presence interval; CheckOutUtc is nil while it is open.
type Attendance struct {
	bun.BaseModel `bun:"table:attendance,alias:a"`

	AttendanceID int        `bun:"attendance_id,pk,autoincrement" json:"AttendanceId"`
	StudentID    int        `bun:"student_id,notnull" json:"StudentId"`
	CheckInUtc   time.Time  `bun:"check_in_utc,notnull" json:"CheckInUtc"`
	CheckOutUtc  *time.Time `bun:"check_out_utc" json:"CheckOutUtc"`
	IsApproved   bool       `bun:"is_approved,notnull" json:"IsApproved"`
	Lat          *float64   `bun:"lat" json:"Lat"`
	Lng          *float64   `bun:"lng" json:"Lng"`
	Status       *string    `bun:"status" json:"Status"`
	CreatedAtUtc time.Time  `bun:"created_at_utc,nullzero,notnull,default:current_timestamp" json:"CreatedAtUtc"`
}

func (a *Attendance) IsOpen() bool {
	return a.CheckOutUtc == nil
}

type CheckInRequest struct {
	StudentID  int        `json:"StudentId" validate:"required,gt=0"`
	CheckInUtc *time.Time `json:"CheckInUtc"`
	Lat        *float64   `json:"Lat" validate:"omitempty,min=-90,max=90"`
	Lng        *float64   `json:"Lng" validate:"omitempty,min=-180,max=180"`
}

type SheetEntry struct {
	StudentID int    `json:"StudentId" validate:"required,gt=0"`
	Status    string `json:"Status" validate:"required"`
}

// SheetRequest records one mark per student for a day.
type SheetRequest struct {
	Date     string       `json:"Date" validate:"required"`
	Students []SheetEntry `json:"students" validate:"required,min=1,dive"`
}

type MarkRequest struct {
	Status string `json:"Status"`
}

// DayBounds returns the UTC [start, end) interval of a YYYY-MM-DD day.
func DayBounds(day string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(DateLayout, day, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 0, 1), nil
}
