package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/volunteer-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEventService(t *testing.T) (*EventService, pgxmock.PgxPoolIface, *recordingSink) {
	t.Helper()
	db, mock := newMockDB(t)
	sink := &recordingSink{}
	svc := NewEventService(db, sink, []string{"Low", "Medium", "High", "Critical"})
	svc.now = fixedClock
	return svc, mock, sink
}

func validEventInput() EventInput {
	return EventInput{
		Name:           "Food Drive",
		Description:    "Sort donations",
		Location:       "Community Hall",
		RequiredSkills: []string{"Cooking"},
		Urgency:        "High",
		EventDate:      time.Date(2026, time.March, 17, 0, 0, 0, 0, time.UTC),
	}
}

func TestEventService_Create(t *testing.T) {
	svc, mock, sink := setupEventService(t)
	in := validEventInput()
	in.VolunteerLimit = intPtr(3)
	event := newTestEvent(intPtr(3), 0)

	mock.ExpectQuery(`INSERT INTO events`).
		WithArgs(in.Name, in.Description, in.Location, in.RequiredSkills, in.Urgency,
			in.EventDate, in.VolunteerLimit, models.EventStatusOpen).
		WillReturnRows(eventRows(event))

	created, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, models.EventStatusOpen, created.Status)
	assert.Equal(t, 3, *created.VolunteerLimit)
	require.Len(t, sink.notifications, 1)
	assert.Contains(t, sink.notifications[0].message, "Food Drive")
	assert.Equal(t, []string{models.ActivityEventCreated}, sink.activity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_Create_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*EventInput)
		want   error
	}{
		{"zero capacity", func(in *EventInput) { in.VolunteerLimit = intPtr(0) }, ErrInvalidCapacity},
		{"negative capacity", func(in *EventInput) { in.VolunteerLimit = intPtr(-2) }, ErrInvalidCapacity},
		{"unknown urgency", func(in *EventInput) { in.Urgency = "Whenever" }, ErrInvalidUrgency},
		{"no skills", func(in *EventInput) { in.RequiredSkills = nil }, ErrSkillsRequired},
		{"missing date", func(in *EventInput) { in.EventDate = time.Time{} }, ErrInvalidDate},
		{"blank name", func(in *EventInput) { in.Name = "   " }, ErrValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, mock, _ := setupEventService(t)
			in := validEventInput()
			tc.mutate(&in)

			_, err := svc.Create(context.Background(), in)

			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, ErrValidation)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventService_GetByID_ClosesPastEvent(t *testing.T) {
	svc, mock, sink := setupEventService(t)
	event := newTestEvent(nil, 0)
	event.EventDate = time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM events e WHERE e.id`).
		WithArgs(event.ID).
		WillReturnRows(eventRows(event))
	mock.ExpectExec(`UPDATE events SET status = 'closed'`).
		WithArgs(event.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	got, err := svc.GetByID(context.Background(), event.ID)

	require.NoError(t, err)
	assert.True(t, got.IsClosed())
	assert.Equal(t, []string{models.ActivityEventClosed}, sink.activity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_GetByID_NotFound(t *testing.T) {
	svc, mock, _ := setupEventService(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM events e WHERE e.id`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(context.Background(), id)

	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_SweepStatuses(t *testing.T) {
	svc, mock, sink := setupEventService(t)
	past := newTestEvent(nil, 0)
	past.EventDate = time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	full := newTestEvent(intPtr(2), 2)
	today := newTestEvent(nil, 0)
	today.EventDate = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	roomy := newTestEvent(intPtr(5), 1)

	mock.ExpectQuery(`SELECT .+ FROM events e WHERE e.status = 'open'`).
		WillReturnRows(eventRows(past, full, today, roomy))
	mock.ExpectExec(`UPDATE events SET status = 'closed'.+ANY`).
		WithArgs([]uuid.UUID{past.ID, full.ID}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	closed, err := svc.SweepStatuses(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, closed)
	assert.Equal(t, []string{models.ActivityEventClosed, models.ActivityEventClosed}, sink.activity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_SweepStatuses_NothingDue(t *testing.T) {
	svc, mock, _ := setupEventService(t)

	mock.ExpectQuery(`SELECT .+ FROM events e WHERE e.status = 'open'`).
		WillReturnRows(eventRows(newTestEvent(nil, 4)))

	closed, err := svc.SweepStatuses(context.Background())

	require.NoError(t, err)
	assert.Zero(t, closed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_List_SweepsFirst(t *testing.T) {
	svc, mock, _ := setupEventService(t)
	past := newTestEvent(nil, 0)
	past.EventDate = time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	closedPast := *past
	closedPast.Status = models.EventStatusClosed
	upcoming := newTestEvent(nil, 1)

	mock.ExpectQuery(`WHERE e.status = 'open'`).
		WillReturnRows(eventRows(past, upcoming))
	mock.ExpectExec(`UPDATE events SET status = 'closed'`).
		WithArgs([]uuid.UUID{past.ID}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`SELECT .+ FROM events e ORDER BY e.event_date`).
		WillReturnRows(eventRows(&closedPast, upcoming))

	events, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.True(t, events[0].IsClosed())
	assert.Equal(t, 1, events[1].CurrentVolunteers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_Update_ReappliesLifecycle(t *testing.T) {
	svc, mock, sink := setupEventService(t)
	event := newTestEvent(intPtr(2), 0)
	in := validEventInput()
	in.VolunteerLimit = intPtr(2)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE events SET name`).
		WithArgs(in.Name, in.Description, in.Location, in.RequiredSkills, in.Urgency,
			in.EventDate, in.VolunteerLimit, event.ID).
		WillReturnRows(eventRows(event))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM invites`).
		WithArgs(event.ID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(`UPDATE events SET status = 'closed'`).
		WithArgs(event.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	got, err := svc.Update(context.Background(), event.ID, in)

	require.NoError(t, err)
	assert.True(t, got.IsClosed())
	assert.Equal(t, 2, got.CurrentVolunteers)
	assert.Equal(t, []string{models.ActivityEventClosed}, sink.activity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_Update_NotFound(t *testing.T) {
	svc, mock, _ := setupEventService(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE events SET name`).
		WithArgs(anyArgs(8)...).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.Update(context.Background(), id, validEventInput())

	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_Delete(t *testing.T) {
	svc, mock, _ := setupEventService(t)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM events`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, svc.Delete(context.Background(), id), ErrEventNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
