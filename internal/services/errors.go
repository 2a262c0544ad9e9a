package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every error a service returns on purpose wraps exactly one of
// these; anything else is an internal failure.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("invalid argument")
)

var (
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrProfileNotFound      = fmt.Errorf("profile %w", ErrNotFound)
	ErrEventNotFound        = fmt.Errorf("event %w", ErrNotFound)
	ErrInviteNotFound       = fmt.Errorf("invite %w", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification %w", ErrNotFound)

	ErrEmailTaken            = fmt.Errorf("%w: user with this email already exists", ErrConflict)
	ErrEventClosed           = fmt.Errorf("%w: this event is closed and no longer accepting volunteers", ErrConflict)
	ErrDuplicateActiveInvite = fmt.Errorf("%w: an active invite already exists for this volunteer and event", ErrConflict)
	ErrInviteAlreadyPending  = fmt.Errorf("%w: already pending", ErrDuplicateActiveInvite)
	ErrAlreadySignedUp       = fmt.Errorf("%w: already signed up", ErrDuplicateActiveInvite)
	ErrInviteDeclined        = fmt.Errorf("%w: a declined invite cannot be reopened, create a new one", ErrConflict)

	ErrInvalidStatus       = fmt.Errorf("%w: status must be accepted or declined", ErrValidation)
	ErrInvalidInviteType   = fmt.Errorf("%w: type must be user_request or admin_invite", ErrValidation)
	ErrInvalidCapacity     = fmt.Errorf("%w: volunteer limit must be at least 1", ErrValidation)
	ErrInvalidRole         = fmt.Errorf("%w: role must be volunteer or admin", ErrValidation)
	ErrInvalidAvailability = fmt.Errorf("%w: availability rule", ErrValidation)
	ErrNotVolunteer        = fmt.Errorf("%w: invites can only be created for volunteers", ErrValidation)
	ErrWeakPassword        = fmt.Errorf("%w: password must be at least 8 characters and contain a digit and an uppercase letter", ErrValidation)
	ErrInvalidUrgency      = fmt.Errorf("%w: unknown urgency level", ErrValidation)
	ErrInvalidDate         = fmt.Errorf("%w: dates must use YYYY-MM-DD", ErrValidation)
	ErrSkillsRequired      = fmt.Errorf("%w: at least one skill is required", ErrValidation)
	ErrAvailabilityNeeded  = fmt.Errorf("%w: at least one available date is required", ErrValidation)
	ErrInvalidCredentials  = errors.New("invalid email or password")
)
