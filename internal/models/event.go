package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventStatusOpen   = "open"
	EventStatusClosed = "closed"
)

type Event struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	RequiredSkills []string  `json:"required_skills"`
	Urgency        string    `json:"urgency"`
	EventDate      time.Time `json:"event_date"`
	// VolunteerLimit is nil for unlimited capacity.
	VolunteerLimit *int      `json:"volunteer_limit"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// CurrentVolunteers is the accepted invite count, filled in on listing.
	CurrentVolunteers int `json:"current_volunteers"`
}

func (e *Event) IsClosed() bool {
	return e.Status == EventStatusClosed
}
