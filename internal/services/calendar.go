package services

import (
	"context"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/dimitrije/volunteer-api/internal/models"
	"github.com/google/uuid"
)

const calendarProductID = "-//volunteer-api//signed-up events//EN"

type signedUpLister interface {
	SignedUpEvents(ctx context.Context, userID uuid.UUID) ([]models.SignedUpEvent, error)
}

// CalendarService renders a volunteer's accepted events as an iCalendar feed.
type CalendarService struct {
	invites signedUpLister
	now     func() time.Time
}

func NewCalendarService(invites *InviteService) *CalendarService {
	return &CalendarService{invites: invites, now: time.Now}
}

func (s *CalendarService) Feed(ctx context.Context, userID uuid.UUID) (string, error) {
	events, err := s.invites.SignedUpEvents(ctx, userID)
	if err != nil {
		return "", err
	}
	return BuildCalendar(events, s.now()), nil
}

// BuildCalendar emits one all-day VEVENT per signed-up event.
func BuildCalendar(events []models.SignedUpEvent, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(calendarProductID)

	for _, e := range events {
		day := models.DateOf(e.EventDate)
		ev := cal.AddEvent(fmt.Sprintf("%s@volunteer-api", e.InviteID))
		ev.SetDtStampTime(stamp.UTC())
		ev.SetSummary(e.Name)
		ev.SetDescription(e.Description)
		ev.SetLocation(e.Location)
		ev.SetAllDayStartAt(day)
		ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
	}

	return cal.Serialize()
}
