//go:build integration

package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dimitrije/volunteer-api/internal/models"
	"github.com/dimitrije/volunteer-api/internal/services"
	"github.com/dimitrije/volunteer-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type integrationEnv struct {
	tdb      *testutil.TestDB
	fixtures *testutil.Fixtures
	users    *services.UserService
	events   *services.EventService
	invites  *services.InviteService
	history  *services.HistoryService
	feed     *services.NotificationService
}

func setupIntegration(t *testing.T) *integrationEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := testutil.SetupTestDB(t)
	notifications := services.NewNotificationService(tdb.DB, 50, nil)
	activity := services.NewActivityService(tdb.DB, 50)
	sink := services.NewFeedSink(notifications, activity, zap.NewNop())

	return &integrationEnv{
		tdb:      tdb,
		fixtures: testutil.NewFixtures(tdb.DB),
		users:    services.NewUserService(tdb.DB, sink),
		events:   services.NewEventService(tdb.DB, sink, []string{"Low", "Medium", "High", "Critical"}),
		invites:  services.NewInviteService(tdb.DB, sink, nil, "http://localhost:8080", zap.NewNop()),
		history:  services.NewHistoryService(tdb.DB),
		feed:     notifications,
	}
}

func TestServices_Integration(t *testing.T) {
	env := setupIntegration(t)

	cases := []struct {
		name string
		run  func(t *testing.T, env *integrationEnv)
	}{
		{"DuplicateThenRecreateAfterDecline", duplicateThenRecreateAfterDecline},
		{"CapacityClosesEvent", capacityClosesEvent},
		{"ConcurrentAcceptsRespectLimit", concurrentAcceptsRespectLimit},
		{"SweepClosesPastEvents", sweepClosesPastEvents},
		{"CompletionHistory", completionHistory},
		{"DeleteRemovesHistory", deleteRemovesHistory},
		{"DeleteCascades", deleteCascades},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env.tdb.CleanTables(t)
			tc.run(t, env)
		})
	}
}

func nextWeek() time.Time {
	return time.Now().AddDate(0, 0, 7)
}

func duplicateThenRecreateAfterDecline(t *testing.T, env *integrationEnv) {
	ctx := context.Background()

	volunteer := env.fixtures.CreateUser(t)
	event := env.fixtures.CreateEvent(t, nextWeek(), nil)

	invite, err := env.invites.Create(ctx, volunteer.ID, event.ID, models.InviteTypeUserRequest)
	require.NoError(t, err)
	assert.Equal(t, models.InviteStatusPending, invite.Status)
	assert.False(t, invite.Completed)

	_, err = env.invites.Create(ctx, volunteer.ID, event.ID, models.InviteTypeAdminInvite)
	assert.ErrorIs(t, err, services.ErrInviteAlreadyPending)
	assert.ErrorIs(t, err, services.ErrConflict)

	declined, err := env.invites.Transition(ctx, invite.ID, models.InviteStatusDeclined)
	require.NoError(t, err)
	assert.Equal(t, models.InviteStatusDeclined, declined.Status)

	_, err = env.invites.Transition(ctx, invite.ID, models.InviteStatusAccepted)
	assert.ErrorIs(t, err, services.ErrInviteDeclined)

	again, err := env.invites.Create(ctx, volunteer.ID, event.ID, models.InviteTypeAdminInvite)
	require.NoError(t, err)
	assert.NotEqual(t, invite.ID, again.ID)

	_, err = env.invites.Transition(ctx, again.ID, models.InviteStatusAccepted)
	require.NoError(t, err)

	_, err = env.invites.Create(ctx, volunteer.ID, event.ID, models.InviteTypeUserRequest)
	assert.ErrorIs(t, err, services.ErrAlreadySignedUp)

	// admin feed got the request, the volunteer got the admin invite
	adminFeed, err := env.feed.List(ctx, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, adminFeed)

	own, err := env.feed.List(ctx, &volunteer.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, own)
}

func capacityClosesEvent(t *testing.T, env *integrationEnv) {
	ctx := context.Background()

	first := env.fixtures.CreateUser(t)
	second := env.fixtures.CreateUser(t)
	event := env.fixtures.CreateEvent(t, nextWeek(), testutil.IntPtr(1))

	a, err := env.invites.Create(ctx, first.ID, event.ID, models.InviteTypeUserRequest)
	require.NoError(t, err)
	b, err := env.invites.Create(ctx, second.ID, event.ID, models.InviteTypeUserRequest)
	require.NoError(t, err)

	_, err = env.invites.Transition(ctx, a.ID, models.InviteStatusAccepted)
	require.NoError(t, err)

	closed, err := env.events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusClosed, closed.Status)

	_, err = env.invites.Transition(ctx, b.ID, models.InviteStatusAccepted)
	assert.ErrorIs(t, err, services.ErrEventClosed)

	third := env.fixtures.CreateUser(t)
	_, err = env.invites.Create(ctx, third.ID, event.ID, models.InviteTypeUserRequest)
	assert.ErrorIs(t, err, services.ErrEventClosed)
}

func concurrentAcceptsRespectLimit(t *testing.T, env *integrationEnv) {
	ctx := context.Background()

	event := env.fixtures.CreateEvent(t, nextWeek(), testutil.IntPtr(2))

	var pending []*models.Invite
	for range 3 {
		volunteer := env.fixtures.CreateUser(t)
		invite, err := env.invites.Create(ctx, volunteer.ID, event.ID, models.InviteTypeUserRequest)
		require.NoError(t, err)
		pending = append(pending, invite)
	}

	errs := make([]error, len(pending))
	var wg sync.WaitGroup
	for i, invite := range pending {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = env.invites.Transition(ctx, invite.ID, models.InviteStatusAccepted)
		}()
	}
	wg.Wait()

	accepted, rejected := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			accepted++
		case assert.ErrorIs(t, err, services.ErrEventClosed):
			rejected++
		}
	}
	assert.Equal(t, 2, accepted)
	assert.Equal(t, 1, rejected)

	var stored int
	err := env.tdb.DB.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM invites WHERE event_id = $1 AND status = 'accepted'`, event.ID,
	).Scan(&stored)
	require.NoError(t, err)
	assert.Equal(t, 2, stored)

	got, err := env.events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusClosed, got.Status)
}

func sweepClosesPastEvents(t *testing.T, env *integrationEnv) {
	ctx := context.Background()

	past := env.fixtures.CreateEvent(t, time.Now().AddDate(0, 0, -2), nil)
	upcoming := env.fixtures.CreateEvent(t, nextWeek(), nil)

	closed, err := env.events.SweepStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	got, err := env.events.GetByID(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusClosed, got.Status)

	got, err = env.events.GetByID(ctx, upcoming.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusOpen, got.Status)

	closed, err = env.events.SweepStatuses(ctx)
	require.NoError(t, err)
	assert.Zero(t, closed)
}

func completionHistory(t *testing.T, env *integrationEnv) {
	ctx := context.Background()

	volunteer := env.fixtures.CreateUser(t)
	event := env.fixtures.CreateEvent(t, nextWeek(), nil)

	invite, err := env.invites.Create(ctx, volunteer.ID, event.ID, models.InviteTypeAdminInvite)
	require.NoError(t, err)

	// a pending invite keeps the flag but gets no history
	_, err = env.invites.SetCompleted(ctx, invite.ID, true)
	require.NoError(t, err)
	entries, err := env.history.ListForUser(ctx, volunteer.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = env.invites.Transition(ctx, invite.ID, models.InviteStatusAccepted)
	require.NoError(t, err)

	done, err := env.invites.SetCompleted(ctx, invite.ID, true)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	_, err = env.invites.SetCompleted(ctx, invite.ID, true)
	require.NoError(t, err)

	entries, err = env.history.ListForUser(ctx, volunteer.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, event.ID, entries[0].EventID)

	undone, err := env.invites.SetCompleted(ctx, invite.ID, false)
	require.NoError(t, err)
	assert.False(t, undone.Completed)

	entries, err = env.history.ListForUser(ctx, volunteer.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func deleteRemovesHistory(t *testing.T, env *integrationEnv) {
	ctx := context.Background()

	volunteer := env.fixtures.CreateUser(t)
	event := env.fixtures.CreateEvent(t, nextWeek(), nil)

	invite, err := env.invites.Create(ctx, volunteer.ID, event.ID, models.InviteTypeUserRequest)
	require.NoError(t, err)
	_, err = env.invites.Transition(ctx, invite.ID, models.InviteStatusAccepted)
	require.NoError(t, err)
	_, err = env.invites.SetCompleted(ctx, invite.ID, true)
	require.NoError(t, err)

	require.NoError(t, env.invites.Delete(ctx, invite.ID))

	_, err = env.invites.GetByID(ctx, invite.ID)
	assert.ErrorIs(t, err, services.ErrInviteNotFound)

	entries, err := env.history.ListForUser(ctx, volunteer.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.ErrorIs(t, env.invites.Delete(ctx, invite.ID), services.ErrInviteNotFound)
}

func deleteCascades(t *testing.T, env *integrationEnv) {
	ctx := context.Background()

	volunteer := env.fixtures.CreateUser(t)
	env.fixtures.CreateProfile(t, volunteer, []string{"Logistics"}, []string{"2026-03-17"})
	event := env.fixtures.CreateEvent(t, nextWeek(), nil)

	invite, err := env.invites.Create(ctx, volunteer.ID, event.ID, models.InviteTypeUserRequest)
	require.NoError(t, err)

	require.NoError(t, env.users.Delete(ctx, volunteer.ID))

	_, err = env.invites.GetByID(ctx, invite.ID)
	assert.ErrorIs(t, err, services.ErrInviteNotFound)

	_, err = env.users.GetByID(ctx, volunteer.ID)
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}
