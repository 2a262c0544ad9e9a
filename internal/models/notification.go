package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

type Notification struct {
	ID          int64      `json:"id"`
	RecipientID *uuid.UUID `json:"recipient_id,omitempty"`
	Message     string     `json:"message"`
	Severity    string     `json:"severity"`
	Read        bool       `json:"read"`
	CreatedAt   time.Time  `json:"time"`
}

const (
	ActivityRegistration   = "registration"
	ActivityEventCreated   = "event_created"
	ActivityInviteCreated  = "invite_created"
	ActivityInviteUpdated  = "invite_updated"
	ActivityInviteComplete = "invite_completed"
	ActivityEventClosed    = "event_closed"
)

type Activity struct {
	ID        int64           `json:"id"`
	Kind      string          `json:"type"`
	Meta      json.RawMessage `json:"meta"`
	CreatedAt time.Time       `json:"time"`
}
