package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dimitrije/volunteer-api/internal/database"
	"github.com/dimitrije/volunteer-api/internal/lifecycle"
	"github.com/dimitrije/volunteer-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const inviteColumns = `id, event_id, user_id, status, type, completed, created_at, updated_at`

const activeInviteIndex = "uq_invites_active"

// InviteMailer delivers admin invitations by email.
type InviteMailer interface {
	IsConfigured() bool
	SendEventInvite(to, eventName, eventDate, location, eventURL string) error
}

// InviteService runs the invite state machine: pending to accepted or
// declined, with completion tracked separately on accepted invites.
type InviteService struct {
	db      *database.DB
	sink    Sink
	mailer  InviteMailer
	baseURL string
	logger  *zap.Logger
	now     func() time.Time
}

func NewInviteService(db *database.DB, sink Sink, mailer InviteMailer, baseURL string, logger *zap.Logger) *InviteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InviteService{
		db:      db,
		sink:    sinkOrNop(sink),
		mailer:  mailer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		now:     time.Now,
	}
}

func scanInvite(row pgx.Row) (*models.Invite, error) {
	var inv models.Invite
	err := row.Scan(&inv.ID, &inv.EventID, &inv.UserID, &inv.Status, &inv.Type, &inv.Completed, &inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInviteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *InviteService) GetByID(ctx context.Context, id uuid.UUID) (*models.Invite, error) {
	return scanInvite(s.db.Pool.QueryRow(ctx, `SELECT `+inviteColumns+` FROM invites WHERE id = $1`, id))
}

// Create opens a pending invite for the volunteer. The event row stays locked
// until commit, so concurrent creates and accepts on the same event run one
// after another and each counts the accepts committed before it.
func (s *InviteService) Create(ctx context.Context, userID, eventID uuid.UUID, inviteType string) (*models.Invite, error) {
	if !models.ValidInviteType(inviteType) {
		return nil, ErrInvalidInviteType
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	event, err := lockEvent(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	user, err := scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleVolunteer {
		return nil, ErrNotVolunteer
	}

	status, changed := lifecycle.Evaluate(event, s.now(), event.CurrentVolunteers)
	if changed {
		if err := s.persistClosure(ctx, tx, event); err != nil {
			return nil, err
		}
		return nil, ErrEventClosed
	}
	if status == models.EventStatusClosed {
		return nil, ErrEventClosed
	}

	var existing string
	err = tx.QueryRow(ctx, `
		SELECT status FROM invites
		WHERE user_id = $1 AND event_id = $2 AND status <> 'declined'
		LIMIT 1
	`, userID, eventID).Scan(&existing)
	switch {
	case err == nil && existing == models.InviteStatusAccepted:
		return nil, ErrAlreadySignedUp
	case err == nil:
		return nil, ErrInviteAlreadyPending
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("failed to check existing invites: %w", err)
	}

	invite, err := scanInvite(tx.QueryRow(ctx, `
		INSERT INTO invites (event_id, user_id, status, type, completed)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING `+inviteColumns,
		eventID, userID, models.InviteStatusPending, inviteType,
	))
	if database.IsUniqueViolation(err, activeInviteIndex) {
		return nil, ErrDuplicateActiveInvite
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.announceCreated(ctx, invite, event, user)
	invite.Event = event
	return invite, nil
}

// persistClosure commits the closure of an event found due mid-operation, so
// the rejection that follows does not roll it back.
func (s *InviteService) persistClosure(ctx context.Context, tx pgx.Tx, event *models.Event) error {
	if err := closeEvent(ctx, tx, event.ID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	event.Status = models.EventStatusClosed
	recordEventClosed(ctx, s.sink, event)
	return nil
}

func (s *InviteService) announceCreated(ctx context.Context, invite *models.Invite, event *models.Event, user *models.User) {
	s.sink.Record(ctx, models.ActivityInviteCreated, map[string]any{
		"invite_id": invite.ID,
		"event_id":  event.ID,
		"user_id":   user.ID,
		"type":      invite.Type,
	})

	if invite.Type == models.InviteTypeUserRequest {
		s.sink.Notify(ctx, nil, fmt.Sprintf("%s requested to join %s", user.Email, event.Name), models.SeverityInfo)
		return
	}

	s.sink.Notify(ctx, &user.ID, fmt.Sprintf("You have been invited to %s", event.Name), models.SeverityInfo)

	if s.mailer == nil || !s.mailer.IsConfigured() {
		return
	}
	eventURL := fmt.Sprintf("%s/events/%s", s.baseURL, event.ID)
	if err := s.mailer.SendEventInvite(user.Email, event.Name, models.FormatDate(event.EventDate), event.Location, eventURL); err != nil {
		s.logger.Warn("failed to send invite email",
			zap.String("invite_id", invite.ID.String()),
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}
}

// Transition moves an invite to accepted or declined. Declined is final.
// Accepting re-checks the event first and may close it afterwards when the
// volunteer limit is reached. The completed flag is never written here, but
// history is kept equal to accepted && completed, so leaving or entering
// accepted with the flag set removes or restores the history entry.
func (s *InviteService) Transition(ctx context.Context, inviteID uuid.UUID, status string) (*models.Invite, error) {
	if status != models.InviteStatusAccepted && status != models.InviteStatusDeclined {
		return nil, ErrInvalidStatus
	}

	current, err := s.GetByID(ctx, inviteID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	event, err := lockEvent(ctx, tx, current.EventID)
	if err != nil {
		return nil, err
	}

	invite, err := scanInvite(tx.QueryRow(ctx, `SELECT `+inviteColumns+` FROM invites WHERE id = $1 FOR UPDATE`, inviteID))
	if err != nil {
		return nil, err
	}
	if invite.Status == status {
		invite.Event = event
		return invite, nil
	}
	if invite.Status == models.InviteStatusDeclined {
		return nil, ErrInviteDeclined
	}

	today := s.now()
	if status == models.InviteStatusAccepted {
		eventStatus, changed := lifecycle.Evaluate(event, today, event.CurrentVolunteers)
		if changed {
			if err := s.persistClosure(ctx, tx, event); err != nil {
				return nil, err
			}
			return nil, ErrEventClosed
		}
		if eventStatus == models.EventStatusClosed {
			return nil, ErrEventClosed
		}
	}

	updated, err := scanInvite(tx.QueryRow(ctx, `
		UPDATE invites SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+inviteColumns,
		status, inviteID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to update invite: %w", err)
	}

	closed := false
	if status == models.InviteStatusAccepted {
		event.CurrentVolunteers++
		if _, changed := lifecycle.Evaluate(event, today, event.CurrentVolunteers); changed {
			if err := closeEvent(ctx, tx, event.ID); err != nil {
				return nil, err
			}
			event.Status = models.EventStatusClosed
			closed = true
		}
	} else if invite.Status == models.InviteStatusAccepted {
		event.CurrentVolunteers--
	}

	if updated.Completed {
		if err := syncHistory(ctx, tx, updated); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.sink.Record(ctx, models.ActivityInviteUpdated, map[string]any{
		"invite_id": updated.ID,
		"event_id":  updated.EventID,
		"user_id":   updated.UserID,
		"status":    updated.Status,
	})
	s.sink.Notify(ctx, nil, fmt.Sprintf("Invite for %s was %s", event.Name, updated.Status), severityFor(updated.Status))
	if closed {
		recordEventClosed(ctx, s.sink, event)
	}

	updated.Event = event
	return updated, nil
}

func severityFor(status string) string {
	if status == models.InviteStatusAccepted {
		return models.SeveritySuccess
	}
	return models.SeverityWarning
}

// SetCompleted records whether the volunteer took part. Only accepted invites
// produce history.
func (s *InviteService) SetCompleted(ctx context.Context, inviteID uuid.UUID, completed bool) (*models.Invite, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	invite, err := scanInvite(tx.QueryRow(ctx, `
		UPDATE invites SET completed = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+inviteColumns,
		completed, inviteID,
	))
	if err != nil {
		return nil, err
	}

	if invite.Status == models.InviteStatusAccepted {
		if err := syncHistory(ctx, tx, invite); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if completed {
		s.sink.Record(ctx, models.ActivityInviteComplete, map[string]any{
			"invite_id": invite.ID,
			"event_id":  invite.EventID,
			"user_id":   invite.UserID,
		})
	}
	return invite, nil
}

// syncHistory makes the history entry for the invite's pair exist exactly
// when the invite is accepted and completed.
func syncHistory(ctx context.Context, tx pgx.Tx, invite *models.Invite) error {
	if invite.Status == models.InviteStatusAccepted && invite.Completed {
		_, err := tx.Exec(ctx, `
			INSERT INTO volunteer_history (user_id, event_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, event_id) DO NOTHING
		`, invite.UserID, invite.EventID)
		if err != nil {
			return fmt.Errorf("failed to record history: %w", err)
		}
		return nil
	}
	return removeHistory(ctx, tx, invite.UserID, invite.EventID)
}

// removeHistory drops the pair's history unless another accepted, completed
// invite still backs it.
func removeHistory(ctx context.Context, tx pgx.Tx, userID, eventID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		DELETE FROM volunteer_history h
		WHERE h.user_id = $1 AND h.event_id = $2
		  AND NOT EXISTS (
			SELECT 1 FROM invites i
			WHERE i.user_id = $1 AND i.event_id = $2 AND i.status = 'accepted' AND i.completed
		  )
	`, userID, eventID)
	if err != nil {
		return fmt.Errorf("failed to remove history: %w", err)
	}
	return nil
}

func (s *InviteService) Delete(ctx context.Context, inviteID uuid.UUID) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID, eventID uuid.UUID
	err = tx.QueryRow(ctx, `DELETE FROM invites WHERE id = $1 RETURNING user_id, event_id`, inviteID).Scan(&userID, &eventID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrInviteNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete invite: %w", err)
	}

	if err := removeHistory(ctx, tx, userID, eventID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

const inviteEventColumns = `i.id, i.event_id, i.user_id, i.status, i.type, i.completed, i.created_at, i.updated_at, ` + eventColumns

func scanInviteWithEvent(rows pgx.Rows) (models.Invite, error) {
	var inv models.Invite
	var e models.Event
	err := rows.Scan(
		&inv.ID, &inv.EventID, &inv.UserID, &inv.Status, &inv.Type, &inv.Completed, &inv.CreatedAt, &inv.UpdatedAt,
		&e.ID, &e.Name, &e.Description, &e.Location, &e.RequiredSkills, &e.Urgency,
		&e.EventDate, &e.VolunteerLimit, &e.Status, &e.CreatedAt, &e.UpdatedAt, &e.CurrentVolunteers,
	)
	inv.Event = &e
	return inv, err
}

// List returns invites matching filter, newest first, each with its event.
func (s *InviteService) List(ctx context.Context, filter models.InviteFilter) ([]models.Invite, error) {
	var conds []string
	var args []any
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conds = append(conds, fmt.Sprintf("i.user_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("i.status = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("i.type = $%d", len(args)))
	}

	query := `SELECT ` + inviteEventColumns + ` FROM invites i JOIN events e ON e.id = i.event_id`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY i.created_at DESC"

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invites := []models.Invite{}
	for rows.Next() {
		inv, err := scanInviteWithEvent(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

// SignedUpEvents lists the events the volunteer has accepted, soonest first.
func (s *InviteService) SignedUpEvents(ctx context.Context, userID uuid.UUID) ([]models.SignedUpEvent, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+inviteEventColumns+`
		FROM invites i JOIN events e ON e.id = i.event_id
		WHERE i.user_id = $1 AND i.status = 'accepted'
		ORDER BY e.event_date
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.SignedUpEvent{}
	for rows.Next() {
		inv, err := scanInviteWithEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, models.SignedUpEvent{Event: *inv.Event, InviteID: inv.ID, Completed: inv.Completed})
	}
	return events, rows.Err()
}
