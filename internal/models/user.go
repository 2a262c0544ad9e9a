package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleVolunteer = "volunteer"
	RoleAdmin     = "admin"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func ValidRole(role string) bool {
	return role == RoleVolunteer || role == RoleAdmin
}

// Volunteer is a user together with their profile. Profile is nil until the
// user has saved one.
type Volunteer struct {
	User
	Profile *Profile `json:"profile,omitempty"`
}

// UserSummary is the admin listing row.
type UserSummary struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	Name            *string   `json:"name,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	ProfileComplete bool      `json:"profile_complete"`
}
