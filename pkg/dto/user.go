package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateUserRequest changes only the fields that are present.
type UpdateUserRequest struct {
	Role *string `json:"role,omitempty" validate:"omitempty,oneof=volunteer admin"`
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
}

type ProfileRequest struct {
	FullName         string   `json:"full_name" validate:"required,max=50"`
	Address1         string   `json:"address1" validate:"required,max=100"`
	Address2         *string  `json:"address2,omitempty" validate:"omitempty,max=100"`
	City             string   `json:"city" validate:"required,max=100"`
	State            string   `json:"state" validate:"required,len=2,alpha"`
	ZipCode          string   `json:"zip_code" validate:"required,numeric,min=5,max=9"`
	Phone            *string  `json:"phone,omitempty" validate:"omitempty,max=25"`
	Skills           []string `json:"skills" validate:"required,min=1,dive,required"`
	Availability     []string `json:"availability" validate:"dive,datetime=2006-01-02"`
	AvailabilityRule string   `json:"availability_rule,omitempty"`
	Preferences      *string  `json:"preferences,omitempty"`
}

type ProfileResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	FullName     string    `json:"full_name"`
	Address1     string    `json:"address1"`
	Address2     *string   `json:"address2,omitempty"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	ZipCode      string    `json:"zip_code"`
	Phone        *string   `json:"phone,omitempty"`
	Skills       []string  `json:"skills"`
	Availability []string  `json:"availability"`
	Preferences  *string   `json:"preferences,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// VolunteerResponse is a matching candidate.
type VolunteerResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Skills       []string  `json:"skills"`
	Availability []string  `json:"availability"`
}

type HistoryResponse struct {
	ID                uuid.UUID     `json:"id"`
	EventID           uuid.UUID     `json:"event_id"`
	ParticipationDate time.Time     `json:"participation_date"`
	Event             EventResponse `json:"event"`
}
