package dto

import (
	"time"

	"github.com/google/uuid"
)

type EventRequest struct {
	Name           string   `json:"name" validate:"required,max=100"`
	Description    string   `json:"description" validate:"required"`
	Location       string   `json:"location" validate:"required"`
	RequiredSkills []string `json:"required_skills" validate:"required,min=1,dive,required"`
	Urgency        string   `json:"urgency" validate:"required"`
	EventDate      string   `json:"event_date" validate:"required,datetime=2006-01-02"`
	VolunteerLimit *int     `json:"volunteer_limit,omitempty" validate:"omitempty,min=1"`
}

type EventResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Location          string    `json:"location"`
	RequiredSkills    []string  `json:"required_skills"`
	Urgency           string    `json:"urgency"`
	EventDate         string    `json:"event_date"`
	VolunteerLimit    *int      `json:"volunteer_limit"`
	Status            string    `json:"status"`
	CurrentVolunteers int       `json:"current_volunteers"`
	CreatedAt         time.Time `json:"created_at"`
}

type SignedUpEventResponse struct {
	EventResponse
	InviteID  uuid.UUID `json:"invite_id"`
	Completed bool      `json:"completed"`
}
