package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dimitrije/volunteer-api/internal/models"
	"github.com/dimitrije/volunteer-api/internal/services"
	"github.com/dimitrije/volunteer-api/internal/testutil"
	"github.com/dimitrije/volunteer-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authMocks struct {
	users  *testutil.MockUserService
	tokens *testutil.MockTokenService
	jwt    *testutil.MockJWTService
}

func setupAuthTest(t *testing.T) (*authMocks, http.Handler) {
	t.Helper()
	m := &authMocks{
		users:  new(testutil.MockUserService),
		tokens: new(testutil.MockTokenService),
		jwt:    new(testutil.MockJWTService),
	}
	handler := NewAuthHandler(m.users, m.tokens, m.jwt, testLogger)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/register", handler.Register)
	app.Post("/auth/login", handler.Login)
	app.Post("/auth/refresh", handler.RefreshToken)
	app.Post("/auth/logout", handler.Logout)
	return m, app
}

func (m *authMocks) assertExpectations(t *testing.T) {
	m.users.AssertExpectations(t)
	m.tokens.AssertExpectations(t)
	m.jwt.AssertExpectations(t)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	m, app := setupAuthTest(t)

	user := &models.User{ID: uuid.New(), Email: "new@example.com", Role: models.RoleVolunteer}
	m.users.On("Register", mock.Anything, "new@example.com", "Password1").Return(user, nil)

	rec := doRequest(t, app, http.MethodPost, "/auth/register",
		dto.RegisterRequest{Email: "new@example.com", Password: "Password1"}, "")

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response dto.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, user.ID, response.ID)
	assert.Equal(t, models.RoleVolunteer, response.Role)

	m.assertExpectations(t)
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	tests := []struct {
		name string
		body any
		code int
	}{
		{"malformed json", `{"email":`, http.StatusBadRequest},
		{"bad email", dto.RegisterRequest{Email: "nope", Password: "Password1"}, http.StatusUnprocessableEntity},
		{"short password", dto.RegisterRequest{Email: "a@example.com", Password: "short"}, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, app := setupAuthTest(t)

			rec := doRequest(t, app, http.MethodPost, "/auth/register", tt.body, "")

			assert.Equal(t, tt.code, rec.Code)
			m.users.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	m, app := setupAuthTest(t)

	m.users.On("Register", mock.Anything, "taken@example.com", "Password1").Return(nil, services.ErrEmailTaken)

	rec := doRequest(t, app, http.MethodPost, "/auth/register",
		dto.RegisterRequest{Email: "taken@example.com", Password: "Password1"}, "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "conflict", resp.Code)
	assert.Equal(t, "user with this email already exists", resp.Message)
}

func TestAuthHandler_Register_WeakPassword(t *testing.T) {
	m, app := setupAuthTest(t)

	m.users.On("Register", mock.Anything, "a@example.com", "password1").Return(nil, services.ErrWeakPassword)

	rec := doRequest(t, app, http.MethodPost, "/auth/register",
		dto.RegisterRequest{Email: "a@example.com", Password: "password1"}, "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation", decodeError(t, rec).Code)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	m, app := setupAuthTest(t)

	user := &models.User{ID: uuid.New(), Email: "v@example.com", Role: models.RoleVolunteer}
	pair := &services.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900}

	m.users.On("Authenticate", mock.Anything, "v@example.com", "Password1").Return(user, nil)
	m.users.On("IsProfileComplete", mock.Anything, user.ID).Return(true, nil)
	m.jwt.On("GenerateTokenPair", user.ID, user.Email, models.RoleVolunteer).Return(pair, nil)
	m.jwt.On("RefreshExpiry").Return(24 * time.Hour)
	m.tokens.On("Store", mock.Anything, user.ID, services.HashToken("refresh"), mock.Anything).Return(nil)

	rec := doRequest(t, app, http.MethodPost, "/auth/login",
		dto.LoginRequest{Email: "v@example.com", Password: "Password1"}, "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "access", response.AccessToken)
	assert.Equal(t, "refresh", response.RefreshToken)
	assert.Equal(t, user.ID, response.User.ID)
	assert.True(t, response.User.ProfileComplete)

	m.assertExpectations(t)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	m, app := setupAuthTest(t)

	m.users.On("Authenticate", mock.Anything, "v@example.com", "wrong").Return(nil, services.ErrInvalidCredentials)

	rec := doRequest(t, app, http.MethodPost, "/auth/login",
		dto.LoginRequest{Email: "v@example.com", Password: "wrong"}, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeError(t, rec).Code)
	m.jwt.AssertNotCalled(t, "GenerateTokenPair", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthHandler_Login_StoreFailure(t *testing.T) {
	m, app := setupAuthTest(t)

	user := &models.User{ID: uuid.New(), Email: "v@example.com", Role: models.RoleVolunteer}
	m.users.On("Authenticate", mock.Anything, user.Email, "Password1").Return(user, nil)
	m.users.On("IsProfileComplete", mock.Anything, user.ID).Return(false, nil)
	m.jwt.On("GenerateTokenPair", user.ID, user.Email, user.Role).Return(&services.TokenPair{RefreshToken: "r"}, nil)
	m.jwt.On("RefreshExpiry").Return(time.Hour)
	m.tokens.On("Store", mock.Anything, user.ID, mock.Anything, mock.Anything).Return(errors.New("db down"))

	rec := doRequest(t, app, http.MethodPost, "/auth/login",
		dto.LoginRequest{Email: user.Email, Password: "Password1"}, "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "internal", resp.Code)
	assert.NotContains(t, resp.Message, "db down")
}

func TestAuthHandler_RefreshToken_Success(t *testing.T) {
	m, app := setupAuthTest(t)

	user := &models.User{ID: uuid.New(), Email: "v@example.com", Role: models.RoleAdmin}
	newPair := &services.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh", ExpiresIn: 900}

	m.jwt.On("ValidateRefreshToken", "old-refresh").Return(user.ID, nil)
	m.tokens.On("Validate", mock.Anything, services.HashToken("old-refresh")).Return(user.ID, nil)
	m.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	m.jwt.On("GenerateTokenPair", user.ID, user.Email, models.RoleAdmin).Return(newPair, nil)
	m.jwt.On("RefreshExpiry").Return(24 * time.Hour)
	m.tokens.On("Rotate", mock.Anything, user.ID, services.HashToken("old-refresh"), services.HashToken("new-refresh"), mock.Anything).Return(nil)

	rec := doRequest(t, app, http.MethodPost, "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "old-refresh"}, "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "new-access", response.AccessToken)
	assert.Equal(t, "new-refresh", response.RefreshToken)

	m.assertExpectations(t)
}

func TestAuthHandler_RefreshToken_InvalidToken(t *testing.T) {
	m, app := setupAuthTest(t)

	m.jwt.On("ValidateRefreshToken", "invalid-token").Return(uuid.Nil, errors.New("invalid token"))

	rec := doRequest(t, app, http.MethodPost, "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "invalid-token"}, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	m.tokens.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
}

func TestAuthHandler_RefreshToken_Reused(t *testing.T) {
	m, app := setupAuthTest(t)

	user := &models.User{ID: uuid.New(), Email: "v@example.com", Role: models.RoleVolunteer}

	m.jwt.On("ValidateRefreshToken", "old-refresh").Return(user.ID, nil)
	m.tokens.On("Validate", mock.Anything, mock.Anything).Return(user.ID, nil)
	m.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	m.jwt.On("GenerateTokenPair", user.ID, user.Email, user.Role).Return(&services.TokenPair{RefreshToken: "n"}, nil)
	m.jwt.On("RefreshExpiry").Return(time.Hour)
	m.tokens.On("Rotate", mock.Anything, user.ID, mock.Anything, mock.Anything, mock.Anything).Return(services.ErrRefreshTokenInvalid)

	rec := doRequest(t, app, http.MethodPost, "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "old-refresh"}, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_RefreshToken_MissingToken(t *testing.T) {
	_, app := setupAuthTest(t)

	rec := doRequest(t, app, http.MethodPost, "/auth/refresh", dto.RefreshTokenRequest{}, "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	m, app := setupAuthTest(t)

	m.tokens.On("Revoke", mock.Anything, services.HashToken("refresh")).Return(nil)

	rec := doRequest(t, app, http.MethodPost, "/auth/logout", dto.LogoutRequest{RefreshToken: "refresh"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, app, http.MethodPost, "/auth/logout", dto.LogoutRequest{}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	m.tokens.AssertNumberOfCalls(t, "Revoke", 1)
}
