package student

import (
	"strings"
	"time"

	"github.com/HaroldK3/Student-Tracker/common/httputil"

	"github.com/uptrace/bun"
)

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusGone     = "Gone"
)

// NormalizeStatus maps any casing of a known status to its canonical form.
func NormalizeStatus(status string) (string, bool) {
	for _, s := range []string{StatusActive, StatusInactive, StatusGone} {
		if strings.EqualFold(strings.TrimSpace(status), s) {
			return s, true
		}
	}
	return "", false
}

type Student struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	StudentID    int       `bun:"student_id,pk,autoincrement" json:"StudentId"`
	UniversityID string    `bun:"university_id,notnull,unique" json:"UniversityId"`
	FirstName    string    `bun:"first_name,notnull" json:"FirstName"`
	LastName     string    `bun:"last_name,notnull" json:"LastName"`
	Email        string    `bun:"email,notnull,unique" json:"Email"`
	PhoneE164    *string   `bun:"phone_e164" json:"PhoneE164"`
	Program      *string   `bun:"program" json:"Program"`
	Year         *int      `bun:"year" json:"Year"`
	Status       string    `bun:"status,notnull" json:"Status"`
	GPA          *float64  `bun:"gpa" json:"GPA"`
	CreatedAtUtc time.Time `bun:"created_at_utc,nullzero,notnull,default:current_timestamp" json:"CreatedAtUtc"`
}

// FullName is used by views that list students by name.
func (s *Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

type CreateStudentRequest struct {
	UniversityID string   `json:"UniversityId" validate:"required,max=50"`
	FirstName    string   `json:"FirstName" validate:"required,max=100"`
	LastName     string   `json:"LastName" validate:"required,max=100"`
	Email        string   `json:"Email" validate:"required,email,max=255"`
	PhoneE164    *string  `json:"PhoneE164" validate:"omitempty,e164"`
	Program      *string  `json:"Program" validate:"omitempty,max=100"`
	Year         *int     `json:"Year" validate:"omitempty,min=1,max=10"`
	Status       string   `json:"Status"`
	GPA          *float64 `json:"GPA" validate:"omitempty,min=0,max=4"`
}

// Normalize trims the text fields so that blank values fail validation.
func (r *CreateStudentRequest) Normalize() {
	r.UniversityID = strings.TrimSpace(r.UniversityID)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	httputil.TrimPtr(r.PhoneE164)
	httputil.TrimPtr(r.Program)
}

func (r CreateStudentRequest) toStudent() (*Student, error) {
	r.Normalize()
	status := StatusActive
	if r.Status != "" {
		normalized, ok := NormalizeStatus(r.Status)
		if !ok {
			return nil, ErrInvalidStatus
		}
		status = normalized
	}
	return &Student{
		UniversityID: r.UniversityID,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		PhoneE164:    r.PhoneE164,
		Program:      r.Program,
		Year:         r.Year,
		Status:       status,
		GPA:          r.GPA,
	}, nil
}

// UpdateStudentRequest carries a partial update; nil fields are left unchanged.
type UpdateStudentRequest struct {
	UniversityID *string  `json:"UniversityId" validate:"omitempty,min=1,max=50"`
	FirstName    *string  `json:"FirstName" validate:"omitempty,min=1,max=100"`
	LastName     *string  `json:"LastName" validate:"omitempty,min=1,max=100"`
	Email        *string  `json:"Email" validate:"omitempty,email,max=255"`
	PhoneE164    *string  `json:"PhoneE164" validate:"omitempty,e164"`
	Program      *string  `json:"Program" validate:"omitempty,max=100"`
	Year         *int     `json:"Year" validate:"omitempty,min=1,max=10"`
	Status       *string  `json:"Status"`
	GPA          *float64 `json:"GPA" validate:"omitempty,min=0,max=4"`
}

func (r *UpdateStudentRequest) Normalize() {
	httputil.TrimPtr(r.UniversityID)
	httputil.TrimPtr(r.FirstName)
	httputil.TrimPtr(r.LastName)
	httputil.TrimPtr(r.Email)
	httputil.TrimPtr(r.PhoneE164)
	httputil.TrimPtr(r.Program)
}

// Apply copies the present fields onto s and returns the changed columns.
func (r UpdateStudentRequest) Apply(s *Student) ([]string, error) {
	r.Normalize()
	var columns []string
	if r.UniversityID != nil {
		s.UniversityID = *r.UniversityID
		columns = append(columns, "university_id")
	}
	if r.FirstName != nil {
		s.FirstName = *r.FirstName
		columns = append(columns, "first_name")
	}
	if r.LastName != nil {
		s.LastName = *r.LastName
		columns = append(columns, "last_name")
	}
	if r.Email != nil {
		s.Email = *r.Email
		columns = append(columns, "email")
	}
	if r.PhoneE164 != nil {
		s.PhoneE164 = r.PhoneE164
		columns = append(columns, "phone_e164")
	}
	if r.Program != nil {
		s.Program = r.Program
		columns = append(columns, "program")
	}
	if r.Year != nil {
		s.Year = r.Year
		columns = append(columns, "year")
	}
	if r.Status != nil {
		status, ok := NormalizeStatus(*r.Status)
		if !ok {
			return nil, ErrInvalidStatus
		}
		s.Status = status
		columns = append(columns, "status")
	}
	if r.GPA != nil {
		s.GPA = r.GPA
		columns = append(columns, "gpa")
	}
	return columns, nil
}

// ProfileUpdateRequest is the subset a student may change on their own profile.
type ProfileUpdateRequest struct {
	FirstName *string `json:"FirstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"LastName" validate:"omitempty,min=1,max=100"`
	Email     *string `json:"Email" validate:"omitempty,email,max=255"`
	PhoneE164 *string `json:"PhoneE164" validate:"omitempty,e164"`
	Program   *string `json:"Program" validate:"omitempty,max=100"`
	Year      *int    `json:"Year" validate:"omitempty,min=1,max=10"`
}

func (r *ProfileUpdateRequest) Normalize() {
	httputil.TrimPtr(r.FirstName)
	httputil.TrimPtr(r.LastName)
	httputil.TrimPtr(r.Email)
	httputil.TrimPtr(r.PhoneE164)
	httputil.TrimPtr(r.Program)
}

func (r ProfileUpdateRequest) toUpdate() UpdateStudentRequest {
	return UpdateStudentRequest{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		PhoneE164: r.PhoneE164,
		Program:   r.Program,
		Year:      r.Year,
	}
}

type ListFilter struct {
	Status string
	Name   string
}
