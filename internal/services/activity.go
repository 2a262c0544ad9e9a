package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dimitrije/volunteer-api/internal/database"
	"github.com/dimitrije/volunteer-api/internal/models"
)

type ActivityService struct {
	db    *database.DB
	limit int
}

func NewActivityService(db *database.DB, limit int) *ActivityService {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	return &ActivityService{db: db, limit: limit}
}

func (s *ActivityService) Record(ctx context.Context, kind string, meta map[string]any) error {
	if meta == nil {
		meta = map[string]any{}
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode activity meta: %w", err)
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `INSERT INTO activity_log (kind, meta) VALUES ($1, $2)`, kind, raw); err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM activity_log
		WHERE id NOT IN (SELECT id FROM activity_log ORDER BY id DESC LIMIT $1)
	`, s.limit)
	if err != nil {
		return fmt.Errorf("failed to trim activity log: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *ActivityService) List(ctx context.Context) ([]models.Activity, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, kind, meta, created_at
		FROM activity_log
		ORDER BY id DESC
		LIMIT $1
	`, s.limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		var meta []byte
		if err := rows.Scan(&a.ID, &a.Kind, &meta, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Meta = json.RawMessage(meta)
		entries = append(entries, a)
	}
	return entries, rows.Err()
}
