package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dimitrije/volunteer-api/internal/database"
	"github.com/dimitrije/volunteer-api/internal/models"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newMockDB(t *testing.T) (*database.DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return &database.DB{Pool: mock}, mock
}

type sentNotification struct {
	recipient *uuid.UUID
	message   string
	severity  string
}

type recordingSink struct {
	mu            sync.Mutex
	notifications []sentNotification
	activity      []string
}

func (s *recordingSink) Notify(_ context.Context, recipientID *uuid.UUID, message, severity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, sentNotification{recipientID, message, severity})
}

func (s *recordingSink) Record(_ context.Context, kind string, _ map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activity = append(s.activity, kind)
}

var userCols = []string{"id", "email", "password_hash", "role", "created_at", "updated_at"}

func userRows(users ...*models.User) *pgxmock.Rows {
	rows := pgxmock.NewRows(userCols)
	for _, u := range users {
		rows.AddRow(u.ID, u.Email, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt)
	}
	return rows
}

func newTestUser(role string) *models.User {
	return &models.User{
		ID:           uuid.New(),
		Email:        "volunteer@example.com",
		PasswordHash: "hash",
		Role:         role,
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}
}

var eventCols = []string{
	"id", "name", "description", "location", "required_skills", "urgency",
	"event_date", "volunteer_limit", "status", "created_at", "updated_at", "current_volunteers",
}

func eventValues(e *models.Event) []any {
	return []any{
		e.ID, e.Name, e.Description, e.Location, e.RequiredSkills, e.Urgency,
		e.EventDate, e.VolunteerLimit, e.Status, e.CreatedAt, e.UpdatedAt, e.CurrentVolunteers,
	}
}

func eventRows(events ...*models.Event) *pgxmock.Rows {
	rows := pgxmock.NewRows(eventCols)
	for _, e := range events {
		rows.AddRow(eventValues(e)...)
	}
	return rows
}

func intPtr(n int) *int { return &n }

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

// newTestEvent is an open event a week after testNow.
func newTestEvent(limit *int, accepted int) *models.Event {
	return &models.Event{
		ID:                uuid.New(),
		Name:              "Food Drive",
		Description:       "Sort donations",
		Location:          "Community Hall",
		RequiredSkills:    []string{"Cooking"},
		Urgency:           "High",
		EventDate:         time.Date(2026, time.March, 17, 0, 0, 0, 0, time.UTC),
		VolunteerLimit:    limit,
		Status:            models.EventStatusOpen,
		CreatedAt:         testNow,
		UpdatedAt:         testNow,
		CurrentVolunteers: accepted,
	}
}

var inviteCols = []string{"id", "event_id", "user_id", "status", "type", "completed", "created_at", "updated_at"}

func inviteRows(invites ...*models.Invite) *pgxmock.Rows {
	rows := pgxmock.NewRows(inviteCols)
	for _, i := range invites {
		rows.AddRow(i.ID, i.EventID, i.UserID, i.Status, i.Type, i.Completed, i.CreatedAt, i.UpdatedAt)
	}
	return rows
}

func newTestInvite(eventID, userID uuid.UUID, status string, completed bool) *models.Invite {
	return &models.Invite{
		ID:        uuid.New(),
		EventID:   eventID,
		UserID:    userID,
		Status:    status,
		Type:      models.InviteTypeUserRequest,
		Completed: completed,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
}
