package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/volunteer-api/internal/database"
	"github.com/dimitrije/volunteer-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a volunteer with password "Password1" unless options say otherwise
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email: fmt.Sprintf("user%d@example.com", f.counter),
		Role:  models.RoleVolunteer,
	}

	for _, opt := range opts {
		opt(user)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	err = f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO users (email, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, user.Email, string(hash), user.Role).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	user.PasswordHash = string(hash)

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// AsAdmin makes the user an admin
func AsAdmin() UserOption {
	return func(u *models.User) {
		u.Role = models.RoleAdmin
	}
}

// CreateProfile stores a profile for the user with the given skills and dates
func (f *Fixtures) CreateProfile(t *testing.T, user *models.User, skills, availability []string) *models.Profile {
	t.Helper()

	p := &models.Profile{UserID: user.ID}
	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO profiles (user_id, full_name, address1, city, state, zip_code, skills, availability)
		VALUES ($1, $2, '1 Main St', 'Houston', 'TX', '77001', $3, $4)
		RETURNING full_name, skills, availability, created_at, updated_at
	`, user.ID, fmt.Sprintf("Volunteer %d", f.counter), skills, availability).Scan(
		&p.FullName, &p.Skills, &p.Availability, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	return p
}

// CreateEvent creates an open event on date with an optional volunteer limit
func (f *Fixtures) CreateEvent(t *testing.T, date time.Time, limit *int, opts ...EventOption) *models.Event {
	t.Helper()
	f.counter++

	event := &models.Event{
		Name:           fmt.Sprintf("Test Event %d", f.counter),
		Description:    "Helping out",
		Location:       "Community Center",
		RequiredSkills: []string{"Logistics"},
		Urgency:        "Medium",
		EventDate:      models.DateOf(date),
		VolunteerLimit: limit,
		Status:         models.EventStatusOpen,
	}

	for _, opt := range opts {
		opt(event)
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO events (name, description, location, required_skills, urgency, event_date, volunteer_limit, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, event.Name, event.Description, event.Location, event.RequiredSkills, event.Urgency,
		event.EventDate, event.VolunteerLimit, event.Status,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	return event
}

// EventOption configures a test event
type EventOption func(*models.Event)

// WithSkills sets the event's required skills
func WithSkills(skills ...string) EventOption {
	return func(e *models.Event) {
		e.RequiredSkills = skills
	}
}

// Closed creates the event already closed
func Closed() EventOption {
	return func(e *models.Event) {
		e.Status = models.EventStatusClosed
	}
}

// IntPtr returns a pointer to n
func IntPtr(n int) *int {
	return &n
}
