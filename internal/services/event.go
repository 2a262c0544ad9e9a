package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dimitrije/volunteer-api/internal/database"
	"github.com/dimitrije/volunteer-api/internal/lifecycle"
	"github.com/dimitrije/volunteer-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const eventColumns = `e.id, e.name, e.description, e.location, e.required_skills, e.urgency,
	e.event_date, e.volunteer_limit, e.status, e.created_at, e.updated_at,
	(SELECT COUNT(*) FROM invites i WHERE i.event_id = e.id AND i.status = 'accepted')`

const eventReturning = `id, name, description, location, required_skills, urgency,
	event_date, volunteer_limit, status, created_at, updated_at, 0`

type EventInput struct {
	Name           string
	Description    string
	Location       string
	RequiredSkills []string
	Urgency        string
	EventDate      time.Time
	VolunteerLimit *int
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type EventService struct {
	db        *database.DB
	sink      Sink
	urgencies []string
	now       func() time.Time
}

// NewEventService builds the service. An empty urgencies list accepts any urgency.
func NewEventService(db *database.DB, sink Sink, urgencies []string) *EventService {
	return &EventService{db: db, sink: sinkOrNop(sink), urgencies: urgencies, now: time.Now}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(
		&e.ID, &e.Name, &e.Description, &e.Location, &e.RequiredSkills, &e.Urgency,
		&e.EventDate, &e.VolunteerLimit, &e.Status, &e.CreatedAt, &e.UpdatedAt, &e.CurrentVolunteers,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

const acceptedCountSQL = `SELECT COUNT(*) FROM invites WHERE event_id = $1 AND status = 'accepted'`

// lockEvent takes the event row lock for the rest of tx, then counts accepted
// invites. The count is a separate statement so its snapshot is taken after
// the lock is granted and includes accepts committed by the previous holder.
func lockEvent(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Event, error) {
	event, err := scanEvent(tx.QueryRow(ctx, `SELECT `+eventReturning+` FROM events WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}
	if err := tx.QueryRow(ctx, acceptedCountSQL, id).Scan(&event.CurrentVolunteers); err != nil {
		return nil, fmt.Errorf("failed to count volunteers: %w", err)
	}
	return event, nil
}

func closeEvent(ctx context.Context, q execer, id uuid.UUID) error {
	_, err := q.Exec(ctx, `
		UPDATE events SET status = 'closed', updated_at = NOW()
		WHERE id = $1 AND status = 'open'
	`, id)
	if err != nil {
		return fmt.Errorf("failed to close event: %w", err)
	}
	return nil
}

func (s *EventService) validate(in *EventInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.RequiredSkills = NormalizeSkills(in.RequiredSkills)

	if in.Name == "" || utf8.RuneCountInString(in.Name) > 100 {
		return fmt.Errorf("%w: name must be between 1 and 100 characters", ErrValidation)
	}
	if in.Description == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if in.Location == "" {
		return fmt.Errorf("%w: location is required", ErrValidation)
	}
	if len(in.RequiredSkills) == 0 {
		return ErrSkillsRequired
	}
	if len(s.urgencies) > 0 && !slices.Contains(s.urgencies, in.Urgency) {
		return ErrInvalidUrgency
	}
	if in.EventDate.IsZero() {
		return ErrInvalidDate
	}
	if in.VolunteerLimit != nil && *in.VolunteerLimit < 1 {
		return ErrInvalidCapacity
	}
	return nil
}

// Create stores a new event. New events are always open.
func (s *EventService) Create(ctx context.Context, in EventInput) (*models.Event, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	event, err := scanEvent(s.db.Pool.QueryRow(ctx, `
		INSERT INTO events (name, description, location, required_skills, urgency, event_date, volunteer_limit, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+eventReturning,
		in.Name, in.Description, in.Location, in.RequiredSkills, in.Urgency,
		models.DateOf(in.EventDate), in.VolunteerLimit, models.EventStatusOpen,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.sink.Notify(ctx, nil, fmt.Sprintf("New event created: %s", event.Name), models.SeverityInfo)
	s.sink.Record(ctx, models.ActivityEventCreated, map[string]any{"event_id": event.ID, "name": event.Name})

	return event, nil
}

// load reads the event and its accepted count without applying the lifecycle rule.
func (s *EventService) load(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return scanEvent(s.db.Pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.id = $1`, id))
}

// GetByID returns the event, closing it first if it is due.
func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	event, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	closed, err := s.refresh(ctx, s.db.Pool, event)
	if err != nil {
		return nil, err
	}
	if closed {
		s.recordClosed(ctx, event)
	}
	return event, nil
}

// List sweeps statuses and returns every event ordered by date.
func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	if _, err := s.SweepStatuses(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.Pool.Query(ctx, `SELECT `+eventColumns+` FROM events e ORDER BY e.event_date, e.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// SweepStatuses closes every open event that is past its date or full. It
// returns how many events were closed.
func (s *EventService) SweepStatuses(ctx context.Context) (int, error) {
	rows, err := s.db.Pool.Query(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.status = 'open'`)
	if err != nil {
		return 0, fmt.Errorf("failed to load open events: %w", err)
	}

	today := s.now()
	var due []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			rows.Close()
			return 0, err
		}
		if _, changed := lifecycle.Evaluate(e, today, e.CurrentVolunteers); changed {
			due = append(due, *e)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if len(due) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, len(due))
	for i := range due {
		ids[i] = due[i].ID
	}
	if _, err := s.db.Pool.Exec(ctx, `
		UPDATE events SET status = 'closed', updated_at = NOW()
		WHERE id = ANY($1) AND status = 'open'
	`, ids); err != nil {
		return 0, fmt.Errorf("failed to close events: %w", err)
	}

	for i := range due {
		s.recordClosed(ctx, &due[i])
	}
	return len(due), nil
}

// refresh applies the lifecycle rule to event and persists a closure through q.
func (s *EventService) refresh(ctx context.Context, q execer, event *models.Event) (bool, error) {
	status, changed := lifecycle.Evaluate(event, s.now(), event.CurrentVolunteers)
	if !changed {
		return false, nil
	}
	if err := closeEvent(ctx, q, event.ID); err != nil {
		return false, err
	}
	event.Status = status
	return true, nil
}

func (s *EventService) recordClosed(ctx context.Context, event *models.Event) {
	recordEventClosed(ctx, s.sink, event)
}

func recordEventClosed(ctx context.Context, sink Sink, event *models.Event) {
	sink.Record(ctx, models.ActivityEventClosed, map[string]any{"event_id": event.ID, "name": event.Name})
}

// Update replaces the editable fields. Status is never written directly; the
// lifecycle rule is re-applied afterwards.
func (s *EventService) Update(ctx context.Context, id uuid.UUID, in EventInput) (*models.Event, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	event, err := scanEvent(tx.QueryRow(ctx, `
		UPDATE events SET name = $1, description = $2, location = $3, required_skills = $4,
			urgency = $5, event_date = $6, volunteer_limit = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING `+eventReturning,
		in.Name, in.Description, in.Location, in.RequiredSkills, in.Urgency,
		models.DateOf(in.EventDate), in.VolunteerLimit, id,
	))
	if err != nil {
		return nil, err
	}

	if err := tx.QueryRow(ctx, acceptedCountSQL, id).Scan(&event.CurrentVolunteers); err != nil {
		return nil, fmt.Errorf("failed to count volunteers: %w", err)
	}

	closed, err := s.refresh(ctx, tx, event)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	if closed {
		s.recordClosed(ctx, event)
	}
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}
