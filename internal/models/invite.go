package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusDeclined = "declined"
)

const (
	InviteTypeUserRequest = "user_request"
	InviteTypeAdminInvite = "admin_invite"
)

type Invite struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"event_id"`
	UserID    uuid.UUID `json:"user_id"`
	Status    string    `json:"status"`
	Type      string    `json:"type"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Event *Event `json:"event,omitempty"`
}

// IsActive reports whether the invite blocks a new one for the same volunteer and event.
func (i *Invite) IsActive() bool {
	return i.Status == InviteStatusPending || i.Status == InviteStatusAccepted
}

func ValidInviteType(t string) bool {
	return t == InviteTypeUserRequest || t == InviteTypeAdminInvite
}

// InviteFilter narrows invite listings. Zero values match everything.
type InviteFilter struct {
	UserID *uuid.UUID
	Status string
	Type   string
}

// SignedUpEvent is an event the volunteer has an accepted invite for.
type SignedUpEvent struct {
	Event
	InviteID  uuid.UUID `json:"invite_id"`
	Completed bool      `json:"completed"`
}
