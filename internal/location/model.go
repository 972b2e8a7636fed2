package location

import (
	"time"

	"github.com/uptrace/bun"
)

type StudentLocation struct {
	bun.BaseModel `bun:"table:student_locations,alias:sl"`

	LocationID   int       `bun:"location_id,pk,autoincrement" json:"LocationId"`
	StudentID    int       `bun:"student_id,notnull" json:"StudentId"`
	Lat          float64   `bun:"lat,notnull" json:"Lat"`
	Lng          float64   `bun:"lng,notnull" json:"Lng"`
	CheckInUtc   time.Time `bun:"check_in_utc,notnull" json:"CheckInUtc"`
	CreatedAtUtc time.Time `bun:"created_at_utc,nullzero,notnull,default:current_timestamp" json:"CreatedAtUtc"`
}

type RecordRequest struct {
	StudentID int      `json:"StudentId" validate:"required,gt=0"`
	Lat       *float64 `json:"Lat" validate:"required,min=-90,max=90"`
	Lng       *float64 `json:"Lng" validate:"required,min=-180,max=180"`
}

// TodayLocation is a location joined with the student's name.
type TodayLocation struct {
	StudentID   int       `bun:"student_id" json:"StudentId"`
	FirstName   string    `bun:"first_name" json:"FirstName"`
	LastName    string    `bun:"last_name" json:"LastName"`
	Lat         float64   `bun:"lat" json:"Lat"`
	Lng         float64   `bun:"lng" json:"Lng"`
	CheckInTime time.Time `bun:"check_in_utc" json:"CheckInTime"`
}

// ValidCoordinates reports whether lat/lng lie on the globe.
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
