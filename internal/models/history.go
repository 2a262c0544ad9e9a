package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry records that a volunteer completed an event. It exists only
// while the owning invite is accepted and completed.
type HistoryEntry struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	EventID           uuid.UUID `json:"event_id"`
	ParticipationDate time.Time `json:"participation_date"`
	Event             *Event    `json:"event,omitempty"`
}
