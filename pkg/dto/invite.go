package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateInviteRequest omits user_id for a volunteer requesting a spot for themselves.
type CreateInviteRequest struct {
	EventID uuid.UUID  `json:"event_id" validate:"required"`
	UserID  *uuid.UUID `json:"user_id,omitempty"`
	Type    string     `json:"type" validate:"required,oneof=user_request admin_invite"`
}

type UpdateInviteRequest struct {
	Status string `json:"status" validate:"required"`
}

type CompleteInviteRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

type InviteResponse struct {
	ID        uuid.UUID      `json:"id"`
	EventID   uuid.UUID      `json:"event_id"`
	UserID    uuid.UUID      `json:"user_id"`
	Status    string         `json:"status"`
	Type      string         `json:"type"`
	Completed bool           `json:"completed"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Event     *EventResponse `json:"event,omitempty"`
}
