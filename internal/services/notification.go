package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/volunteer-api/internal/database"
	"github.com/dimitrije/volunteer-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const DefaultFeedLimit = 50

// Publisher receives every notification after it is stored.
type Publisher interface {
	Publish(n *models.Notification)
}

// NotificationService keeps a bounded feed per audience. A nil recipient is
// the shared admin feed.
type NotificationService struct {
	db        *database.DB
	limit     int
	publisher Publisher
}

func NewNotificationService(db *database.DB, limit int, publisher Publisher) *NotificationService {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	return &NotificationService{db: db, limit: limit, publisher: publisher}
}

func (s *NotificationService) Record(ctx context.Context, recipientID *uuid.UUID, message, severity string) (*models.Notification, error) {
	if severity == "" {
		severity = models.SeverityInfo
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	n := models.Notification{RecipientID: recipientID, Message: message, Severity: severity}
	err = tx.QueryRow(ctx, `
		INSERT INTO notifications (recipient_id, message, severity)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, recipientID, message, severity).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert notification: %w", err)
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM notifications
		WHERE recipient_id IS NOT DISTINCT FROM $1
		  AND id NOT IN (
			SELECT id FROM notifications
			WHERE recipient_id IS NOT DISTINCT FROM $1
			ORDER BY id DESC
			LIMIT $2
		  )
	`, recipientID, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to trim notifications: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(&n)
	}
	return &n, nil
}

// List returns the audience's feed, newest first.
func (s *NotificationService) List(ctx context.Context, recipientID *uuid.UUID) ([]models.Notification, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, recipient_id, message, severity, read, created_at
		FROM notifications
		WHERE recipient_id IS NOT DISTINCT FROM $1
		ORDER BY id DESC
		LIMIT $2
	`, recipientID, s.limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Message, &n.Severity, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead flags a notification in the given audience as read.
func (s *NotificationService) MarkRead(ctx context.Context, id int64, recipientID *uuid.UUID) (*models.Notification, error) {
	var n models.Notification
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE id = $1 AND recipient_id IS NOT DISTINCT FROM $2
		RETURNING id, recipient_id, message, severity, read, created_at
	`, id, recipientID).Scan(&n.ID, &n.RecipientID, &n.Message, &n.Severity, &n.Read, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return &n, nil
}
