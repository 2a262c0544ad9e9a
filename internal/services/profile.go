package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dimitrije/volunteer-api/internal/database"
	"github.com/dimitrije/volunteer-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const profileColumns = `user_id, full_name, address1, address2, city, state, zip_code,
	phone, skills, availability, preferences, created_at, updated_at`

type ProfileInput struct {
	FullName         string
	Address1         string
	Address2         *string
	City             string
	State            string
	ZipCode          string
	Phone            *string
	Skills           []string
	Availability     []string
	AvailabilityRule string
	Preferences      *string
}

type ProfileService struct {
	db          *database.DB
	horizonDays int
	now         func() time.Time
}

func NewProfileService(db *database.DB, horizonDays int) *ProfileService {
	return &ProfileService{db: db, horizonDays: horizonDays, now: time.Now}
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.UserID, &p.FullName, &p.Address1, &p.Address2, &p.City, &p.State, &p.ZipCode,
		&p.Phone, &p.Skills, &p.Availability, &p.Preferences, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return scanProfile(s.db.Pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
}

// Upsert creates the profile on first save and replaces it afterwards.
func (s *ProfileService) Upsert(ctx context.Context, userID uuid.UUID, in ProfileInput) (*models.Profile, error) {
	skills := NormalizeSkills(in.Skills)
	if len(skills) == 0 {
		return nil, ErrSkillsRequired
	}

	dates := in.Availability
	if strings.TrimSpace(in.AvailabilityRule) != "" {
		expanded, err := ExpandAvailabilityRule(in.AvailabilityRule, s.now(), s.horizonDays)
		if err != nil {
			return nil, err
		}
		dates = append(append([]string{}, dates...), expanded...)
	}
	availability, err := NormalizeAvailability(dates)
	if err != nil {
		return nil, err
	}
	if len(availability) == 0 {
		return nil, ErrAvailabilityNeeded
	}

	profile, err := scanProfile(s.db.Pool.QueryRow(ctx, `
		INSERT INTO profiles (user_id, full_name, address1, address2, city, state, zip_code,
			phone, skills, availability, preferences)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			address1 = EXCLUDED.address1,
			address2 = EXCLUDED.address2,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip_code = EXCLUDED.zip_code,
			phone = EXCLUDED.phone,
			skills = EXCLUDED.skills,
			availability = EXCLUDED.availability,
			preferences = EXCLUDED.preferences,
			updated_at = NOW()
		RETURNING `+profileColumns,
		userID, strings.TrimSpace(in.FullName), strings.TrimSpace(in.Address1), in.Address2,
		strings.TrimSpace(in.City), strings.ToUpper(strings.TrimSpace(in.State)), strings.TrimSpace(in.ZipCode),
		in.Phone, skills, availability, in.Preferences,
	))
	if database.IsForeignKeyViolation(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}

// nullableProfile scans the profile half of a users LEFT JOIN profiles row.
type nullableProfile struct {
	UserID       *uuid.UUID
	FullName     *string
	Address1     *string
	Address2     *string
	City         *string
	State        *string
	ZipCode      *string
	Phone        *string
	Skills       []string
	Availability []string
	Preferences  *string
	CreatedAt    *time.Time
	UpdatedAt    *time.Time
}

func (n nullableProfile) profile() *models.Profile {
	if n.UserID == nil {
		return nil
	}
	p := &models.Profile{
		UserID:       *n.UserID,
		Address2:     n.Address2,
		Phone:        n.Phone,
		Skills:       n.Skills,
		Availability: n.Availability,
		Preferences:  n.Preferences,
	}
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	p.FullName = deref(n.FullName)
	p.Address1 = deref(n.Address1)
	p.City = deref(n.City)
	p.State = deref(n.State)
	p.ZipCode = deref(n.ZipCode)
	if n.CreatedAt != nil {
		p.CreatedAt = *n.CreatedAt
	}
	if n.UpdatedAt != nil {
		p.UpdatedAt = *n.UpdatedAt
	}
	return p
}
