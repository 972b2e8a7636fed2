package user

import (
	"strings"
	"time"

	"github.com/HaroldK3/Student-Tracker/common/httputil"

	"github.com/uptrace/bun"
)

const (
	RoleAdmin      = "ADMIN"
	RoleInstructor = "INSTRUCTOR"
	RoleIT         = "IT"
)

// ValidRole reports whether role is one of the fixed staff roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleInstructor, RoleIT:
		return true
	}
	return false
}

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	UserID       int       `bun:"user_id,pk,autoincrement" json:"UserId"`
	FirstName    string    `bun:"first_name,notnull" json:"FirstName"`
	LastName     string    `bun:"last_name,notnull" json:"LastName"`
	Email        string    `bun:"email,notnull,unique" json:"Email"`
	Role         string    `bun:"role,notnull" json:"Role"`
	IsActive     bool      `bun:"is_active,notnull" json:"IsActive"`
	CreatedAtUtc time.Time `bun:"created_at_utc,nullzero,notnull,default:current_timestamp" json:"CreatedAtUtc"`
}

type CreateUserRequest struct {
	FirstName string `json:"FirstName" validate:"required,max=100"`
	LastName  string `json:"LastName" validate:"required,max=100"`
	Email     string `json:"Email" validate:"required,email,max=255"`
	Role      string `json:"Role" validate:"required"`
	IsActive  *bool  `json:"IsActive"`
}

// Normalize trims the text fields so that blank values fail validation.
func (r *CreateUserRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
}

func (r CreateUserRequest) toUser() *User {
	r.Normalize()
	u := &User{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Role:      r.Role,
		IsActive:  true,
	}
	if r.IsActive != nil {
		u.IsActive = *r.IsActive
	}
	return u
}

// UpdateUserRequest carries a partial update; nil fields are left unchanged.
type UpdateUserRequest struct {
	FirstName *string `json:"FirstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"LastName" validate:"omitempty,min=1,max=100"`
	Email     *string `json:"Email" validate:"omitempty,email,max=255"`
	Role      *string `json:"Role"`
	IsActive  *bool   `json:"IsActive"`
}

func (r *UpdateUserRequest) Normalize() {
	httputil.TrimPtr(r.FirstName)
	httputil.TrimPtr(r.LastName)
	httputil.TrimPtr(r.Email)
	if r.Role != nil {
		role := strings.ToUpper(strings.TrimSpace(*r.Role))
		r.Role = &role
	}
}

// Apply copies the present fields onto u and returns the changed columns.
func (r UpdateUserRequest) Apply(u *User) []string {
	r.Normalize()
	var columns []string
	if r.FirstName != nil {
		u.FirstName = *r.FirstName
		columns = append(columns, "first_name")
	}
	if r.LastName != nil {
		u.LastName = *r.LastName
		columns = append(columns, "last_name")
	}
	if r.Email != nil {
		u.Email = *r.Email
		columns = append(columns, "email")
	}
	if r.Role != nil {
		u.Role = *r.Role
		columns = append(columns, "role")
	}
	if r.IsActive != nil {
		u.IsActive = *r.IsActive
		columns = append(columns, "is_active")
	}
	return columns
}

type ListFilter struct {
	Role   string
	Active *bool
}
