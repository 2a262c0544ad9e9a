package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dimitrije/volunteer-api/internal/models"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestActivityService_Record(t *testing.T) {
	db, pool := newMockDB(t)
	svc := NewActivityService(db, 50)

	pool.ExpectBegin()
	pool.ExpectExec(`INSERT INTO activity_log`).
		WithArgs(models.ActivityEventCreated, []byte(`{"name":"Food Drive"}`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectExec(`DELETE FROM activity_log`).
		WithArgs(50).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	pool.ExpectCommit()

	err := svc.Record(context.Background(), models.ActivityEventCreated, map[string]any{"name": "Food Drive"})

	assert.NoError(t, err)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestActivityService_List(t *testing.T) {
	db, pool := newMockDB(t)
	svc := NewActivityService(db, 50)

	rows := pgxmock.NewRows([]string{"id", "kind", "meta", "created_at"}).
		AddRow(int64(5), models.ActivityInviteCreated, []byte(`{"type":"user_request"}`), testNow)
	pool.ExpectQuery(`SELECT id, kind, meta, created_at FROM activity_log`).
		WithArgs(50).
		WillReturnRows(rows)

	entries, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActivityInviteCreated, entries[0].Kind)
	assert.JSONEq(t, `{"type":"user_request"}`, string(entries[0].Meta))
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestFeedSink_SwallowsStoreFailures(t *testing.T) {
	db, pool := newMockDB(t)
	sink := NewFeedSink(NewNotificationService(db, 50, nil), NewActivityService(db, 50), zap.NewNop())

	pool.ExpectBegin().WillReturnError(errors.New("pool exhausted"))
	pool.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	assert.NotPanics(t, func() {
		sink.Notify(context.Background(), nil, "New user registered", models.SeverityInfo)
		sink.Record(context.Background(), models.ActivityRegistration, nil)
	})
	assert.NoError(t, pool.ExpectationsWereMet())
}
