package services

import (
	"context"

	"github.com/dimitrije/volunteer-api/internal/matching"
	"github.com/dimitrije/volunteer-api/internal/models"
	"github.com/google/uuid"
)

// MatchingService feeds stored events and volunteers to the matcher. It only
// reads: a due event is reported as stored and left for the next sweep.
type MatchingService struct {
	events *EventService
	users  *UserService
}

func NewMatchingService(events *EventService, users *UserService) *MatchingService {
	return &MatchingService{events: events, users: users}
}

func (s *MatchingService) FindMatches(ctx context.Context, eventID uuid.UUID) ([]models.Volunteer, error) {
	event, err := s.events.load(ctx, eventID)
	if err != nil {
		return nil, err
	}

	volunteers, err := s.users.ListVolunteers(ctx)
	if err != nil {
		return nil, err
	}

	return matching.FindMatches(event, volunteers), nil
}
