package models

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
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
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
