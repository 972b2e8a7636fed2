package position

import (
	"strings"
	"time"

	"github.com/HaroldK3/Student-Tracker/common/httputil"

	"github.com/uptrace/bun"
)

type Position struct {
	bun.BaseModel `bun:"table:positions,alias:p"`

	PositionID      int       `bun:"position_id,pk,autoincrement" json:"PositionId"`
	Title           string    `bun:"title,notnull" json:"Title"`
	Company         string    `bun:"company,notnull" json:"Company"`
	SiteLocation    *string   `bun:"site_location" json:"SiteLocation"`
	SupervisorName  *string   `bun:"supervisor_name" json:"SupervisorName"`
	SupervisorEmail *string   `bun:"supervisor_email" json:"SupervisorEmail"`
	StartDate       *Date     `bun:"start_date,type:date" json:"StartDate"`
	EndDate         *Date     `bun:"end_date,type:date" json:"EndDate"`
	IsActive        bool      `bun:"is_active,notnull" json:"IsActive"`
	CreatedAtUtc    time.Time `bun:"created_at_utc,nullzero,notnull,default:current_timestamp" json:"CreatedAtUtc"`
}

type CreatePositionRequest struct {
	Title           string  `json:"Title" validate:"required,max=200"`
	Company         string  `json:"Company" validate:"required,max=200"`
	SiteLocation    *string `json:"SiteLocation" validate:"omitempty,max=255"`
	SupervisorName  *string `json:"SupervisorName" validate:"omitempty,max=200"`
	SupervisorEmail *string `json:"SupervisorEmail" validate:"omitempty,email"`
	StartDate       *Date   `json:"StartDate"`
	EndDate         *Date   `json:"EndDate"`
	IsActive        *bool   `json:"IsActive"`
}

// Normalize trims the text fields so that blank values fail validation.
func (r *CreatePositionRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Company = strings.TrimSpace(r.Company)
	httputil.TrimPtr(r.SiteLocation)
	httputil.TrimPtr(r.SupervisorName)
	httputil.TrimPtr(r.SupervisorEmail)
}

func (r CreatePositionRequest) toPosition() *Position {
	r.Normalize()
	p := &Position{
		Title:           r.Title,
		Company:         r.Company,
		SiteLocation:    r.SiteLocation,
		SupervisorName:  r.SupervisorName,
		SupervisorEmail: r.SupervisorEmail,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IsActive:        true,
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	return p
}

// UpdatePositionRequest carries a partial update; nil fields are left unchanged.
// The dates can be cleared with an explicit null.
type UpdatePositionRequest struct {
	Title           *string      `json:"Title" validate:"omitempty,min=1,max=200"`
	Company         *string      `json:"Company" validate:"omitempty,min=1,max=200"`
	SiteLocation    *string      `json:"SiteLocation" validate:"omitempty,max=255"`
	SupervisorName  *string      `json:"SupervisorName" validate:"omitempty,max=200"`
	SupervisorEmail *string      `json:"SupervisorEmail" validate:"omitempty,email"`
	StartDate       OptionalDate `json:"StartDate"`
	EndDate         OptionalDate `json:"EndDate"`
	IsActive        *bool        `json:"IsActive"`
}

func (r *UpdatePositionRequest) Normalize() {
	httputil.TrimPtr(r.Title)
	httputil.TrimPtr(r.Company)
	httputil.TrimPtr(r.SiteLocation)
	httputil.TrimPtr(r.SupervisorName)
	httputil.TrimPtr(r.SupervisorEmail)
}

// Apply copies the present fields onto p and returns the changed columns.
func (r UpdatePositionRequest) Apply(p *Position) []string {
	r.Normalize()
	var columns []string
	if r.Title != nil {
		p.Title = *r.Title
		columns = append(columns, "title")
	}
	if r.Company != nil {
		p.Company = *r.Company
		columns = append(columns, "company")
	}
	if r.SiteLocation != nil {
		p.SiteLocation = r.SiteLocation
		columns = append(columns, "site_location")
	}
	if r.SupervisorName != nil {
		p.SupervisorName = r.SupervisorName
		columns = append(columns, "supervisor_name")
	}
	if r.SupervisorEmail != nil {
		p.SupervisorEmail = r.SupervisorEmail
		columns = append(columns, "supervisor_email")
	}
	if r.StartDate.Set {
		p.StartDate = r.StartDate.Date
		columns = append(columns, "start_date")
	}
	if r.EndDate.Set {
		p.EndDate = r.EndDate.Date
		columns = append(columns, "end_date")
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
		columns = append(columns, "is_active")
	}
	return columns
}

func validDates(p *Position) bool {
	if p.StartDate == nil || p.EndDate == nil {
		return true
	}
	return !p.EndDate.Before(p.StartDate.Time)
}
