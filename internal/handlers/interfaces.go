package handlers

import (
	"context"
	"time"

	"github.com/dimitrije/volunteer-api/internal/models"
	"github.com/dimitrije/volunteer-api/internal/services"
	"github.com/dimitrije/volunteer-api/internal/sse"
	"github.com/google/uuid"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	IsProfileComplete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context) ([]models.UserSummary, error)
	Update(ctx context.Context, id uuid.UUID, role, name *string) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	Store(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	Validate(ctx context.Context, tokenHash string) (uuid.UUID, error)
	Rotate(ctx context.Context, userID uuid.UUID, oldHash, newHash string, expiresAt time.Time) error
	Revoke(ctx context.Context, tokenHash string) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID uuid.UUID, email, role string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}

// ProfileServiceInterface defines the methods used by handlers from ProfileService
type ProfileServiceInterface interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	Upsert(ctx context.Context, userID uuid.UUID, in services.ProfileInput) (*models.Profile, error)
}

// EventServiceInterface defines the methods used by handlers from EventService
type EventServiceInterface interface {
	Create(ctx context.Context, in services.EventInput) (*models.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	Update(ctx context.Context, id uuid.UUID, in services.EventInput) (*models.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// InviteServiceInterface defines the methods used by handlers from InviteService
type InviteServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invite, error)
	Create(ctx context.Context, userID, eventID uuid.UUID, inviteType string) (*models.Invite, error)
	Transition(ctx context.Context, inviteID uuid.UUID, status string) (*models.Invite, error)
	SetCompleted(ctx context.Context, inviteID uuid.UUID, completed bool) (*models.Invite, error)
	Delete(ctx context.Context, inviteID uuid.UUID) error
	List(ctx context.Context, filter models.InviteFilter) ([]models.Invite, error)
	SignedUpEvents(ctx context.Context, userID uuid.UUID) ([]models.SignedUpEvent, error)
}

// MatchingServiceInterface defines the methods used by handlers from MatchingService
type MatchingServiceInterface interface {
	FindMatches(ctx context.Context, eventID uuid.UUID) ([]models.Volunteer, error)
}

// HistoryServiceInterface defines the methods used by handlers from HistoryService
type HistoryServiceInterface interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.HistoryEntry, error)
}

// CalendarServiceInterface defines the methods used by handlers from CalendarService
type CalendarServiceInterface interface {
	Feed(ctx context.Context, userID uuid.UUID) (string, error)
}

// NotificationServiceInterface defines the methods used by handlers from NotificationService
type NotificationServiceInterface interface {
	List(ctx context.Context, recipientID *uuid.UUID) ([]models.Notification, error)
	MarkRead(ctx context.Context, id int64, recipientID *uuid.UUID) (*models.Notification, error)
}

// ActivityServiceInterface defines the methods used by handlers from ActivityService
type ActivityServiceInterface interface {
	List(ctx context.Context) ([]models.Activity, error)
}

// SSEHubInterface defines the methods used by handlers from the SSE Hub
type SSEHubInterface interface {
	Register(client *sse.Client)
	Unregister(client *sse.Client)
}
