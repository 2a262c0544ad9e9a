package services

import (
	"context"

	"github.com/dimitrije/volunteer-api/internal/database"
	"github.com/dimitrije/volunteer-api/internal/models"
	"github.com/google/uuid"
)

type HistoryService struct {
	db *database.DB
}

func NewHistoryService(db *database.DB) *HistoryService {
	return &HistoryService{db: db}
}

// ListForUser returns the events the volunteer completed, most recent event first.
func (s *HistoryService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.HistoryEntry, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT h.id, h.user_id, h.event_id, h.participation_date, `+eventColumns+`
		FROM volunteer_history h
		JOIN events e ON e.id = h.event_id
		WHERE h.user_id = $1
		ORDER BY e.event_date DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.HistoryEntry{}
	for rows.Next() {
		var h models.HistoryEntry
		var e models.Event
		if err := rows.Scan(
			&h.ID, &h.UserID, &h.EventID, &h.ParticipationDate,
			&e.ID, &e.Name, &e.Description, &e.Location, &e.RequiredSkills, &e.Urgency,
			&e.EventDate, &e.VolunteerLimit, &e.Status, &e.CreatedAt, &e.UpdatedAt, &e.CurrentVolunteers,
		); err != nil {
			return nil, err
		}
		h.Event = &e
		entries = append(entries, h)
	}
	return entries, rows.Err()
}
