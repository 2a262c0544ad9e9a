package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/dimitrije/volunteer-api/internal/database"
	"github.com/dimitrije/volunteer-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const userColumns = `id, email, password_hash, role, created_at, updated_at`

type UserService struct {
	db   *database.DB
	sink Sink
}

func NewUserService(db *database.DB, sink Sink) *UserService {
	return &UserService{db: db, sink: sinkOrNop(sink)}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	var digit, upper bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsUpper(r):
			upper = true
		}
	}
	if !digit || !upper {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a volunteer account.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		email, string(hash), models.RoleVolunteer))
	if database.IsUniqueViolation(err, "users_email_key") {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.sink.Notify(ctx, nil, fmt.Sprintf("New user registered: %s", user.Email), models.SeverityInfo)
	s.sink.Record(ctx, models.ActivityRegistration, map[string]any{"user_id": user.ID, "email": user.Email})

	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(s.db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(s.db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, NormalizeEmail(email)))
}

func (s *UserService) IsProfileComplete(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM profiles WHERE user_id = $1)`, id).Scan(&exists)
	return exists, err
}

func (s *UserService) List(ctx context.Context) ([]models.UserSummary, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT u.id, u.email, u.role, p.full_name, p.phone, p.user_id IS NOT NULL
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		ORDER BY u.created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.UserSummary{}
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Email, &u.Role, &u.Name, &u.Phone, &u.ProfileComplete); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update changes a user's role and, when they have a profile, their display name.
// Nil fields are left alone.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, role, name *string) (*models.User, error) {
	if role != nil && !models.ValidRole(*role) {
		return nil, ErrInvalidRole
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	user, err := scanUser(tx.QueryRow(ctx, `
		UPDATE users SET role = COALESCE($1, role), updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns,
		role, id))
	if err != nil {
		return nil, err
	}

	if name != nil {
		if _, err := tx.Exec(ctx, `
			UPDATE profiles SET full_name = $1, updated_at = NOW() WHERE user_id = $2
		`, strings.TrimSpace(*name), id); err != nil {
			return nil, fmt.Errorf("failed to update name: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return user, nil
}

func (s *UserService) SetRoleByEmail(ctx context.Context, email, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	return scanUser(s.db.Pool.QueryRow(ctx, `
		UPDATE users SET role = $1, updated_at = NOW()
		WHERE email = $2
		RETURNING `+userColumns,
		role, NormalizeEmail(email)))
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListVolunteers returns every volunteer account with its profile, if any.
func (s *UserService) ListVolunteers(ctx context.Context) ([]models.Volunteer, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT u.id, u.email, u.role, u.created_at, u.updated_at,
		       p.user_id, p.full_name, p.address1, p.address2, p.city, p.state, p.zip_code,
		       p.phone, p.skills, p.availability, p.preferences, p.created_at, p.updated_at
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE u.role = $1
		ORDER BY u.id
	`, models.RoleVolunteer)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	volunteers := []models.Volunteer{}
	for rows.Next() {
		var v models.Volunteer
		var p nullableProfile
		if err := rows.Scan(
			&v.ID, &v.Email, &v.Role, &v.CreatedAt, &v.UpdatedAt,
			&p.UserID, &p.FullName, &p.Address1, &p.Address2, &p.City, &p.State, &p.ZipCode,
			&p.Phone, &p.Skills, &p.Availability, &p.Preferences, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		v.Profile = p.profile()
		volunteers = append(volunteers, v)
	}
	return volunteers, rows.Err()
}
