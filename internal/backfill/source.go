package backfill

import (
	"sort"
	"time"

	"github.com/HaroldK3/Student-Tracker/internal/db/migrations"
)

// Source is a table that may hold historical coordinates. A source is read
// only once the migration that introduced its coordinate columns is applied.
type Source struct {
	Table         string
	IDColumn      string
	StudentColumn string
	LatColumn     string
	LngColumn     string
	TimeColumn    string
	Migration     string
}

// Sources lists every known coordinate source. student_locations is the
// target and never a source.
var Sources = []Source{
	{
		Table:         "attendance",
		IDColumn:      "attendance_id",
		StudentColumn: "student_id",
		LatColumn:     "lat",
		LngColumn:     "lng",
		TimeColumn:    "check_in_utc",
		Migration:     migrations.AttendanceLocation,
	},
}

// Candidate is one source row that could become a StudentLocation.
type Candidate struct {
	SourceTable string    `bun:"-"`
	SourceID    int64     `bun:"source_id"`
	StudentID   int       `bun:"student_id"`
	Lat         float64   `bun:"lat"`
	Lng         float64   `bun:"lng"`
	CheckInUtc  time.Time `bun:"check_in_utc"`
}

// eligible keeps the sources whose migration is applied, ordered by table.
func eligible(sources []Source, applied map[string]bool) []Source {
	out := make([]Source, 0, len(sources))
	for _, s := range sources {
		if applied[s.Migration] {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Table < out[j].Table })
	return out
}
