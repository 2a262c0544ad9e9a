// Package lifecycle holds the auto-close rule for events. Events only move
// from open to closed; nothing here reopens them.
package lifecycle

import (
	"time"

	"github.com/dimitrije/volunteer-api/internal/models"
)

// Evaluate returns the status event should have given today's date and the
// number of accepted volunteers, and whether that differs from its current
// status. The caller persists the new status when changed is true.
func Evaluate(event *models.Event, today time.Time, acceptedCount int) (status string, changed bool) {
	if event.Status == models.EventStatusClosed {
		return models.EventStatusClosed, false
	}

	if models.DateOf(event.EventDate).Before(models.DateOf(today)) {
		return models.EventStatusClosed, true
	}

	if event.VolunteerLimit != nil && acceptedCount >= *event.VolunteerLimit {
		return models.EventStatusClosed, true
	}

	return models.EventStatusOpen, false
}
