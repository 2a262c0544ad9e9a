package handlers

import (
	"errors"
	"time"

	"github.com/dimitrije/volunteer-api/internal/models"
	"github.com/dimitrije/volunteer-api/internal/services"
	"github.com/dimitrije/volunteer-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userService  UserServiceInterface
	tokenService TokenServiceInterface
	jwtService   JWTServiceInterface
	logger       *zap.Logger
}

func NewAuthHandler(
	userService UserServiceInterface,
	tokenService TokenServiceInterface,
	jwtService JWTServiceInterface,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		tokenService: tokenService,
		jwtService:   jwtService,
		logger:       logger,
	}
}

func (h *AuthHandler) Register(c *drift.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, "register", err)
		return
	}

	_ = c.JSON(201, dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	})
}

func (h *AuthHandler) Login(c *drift.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	user, err := h.userService.Authenticate(ctx, req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		writeError(c, 401, codeUnauthorized, err.Error())
		return
	}
	if err != nil {
		respondError(c, h.logger, "login", err)
		return
	}

	complete, err := h.userService.IsProfileComplete(ctx, user.ID)
	if err != nil {
		respondError(c, h.logger, "login", err, zap.String("user_id", user.ID.String()))
		return
	}

	tokens, ok := h.issueTokens(c, user, func(hash string, expiresAt time.Time) error {
		return h.tokenService.Store(ctx, user.ID, hash, expiresAt)
	})
	if !ok {
		return
	}

	_ = c.JSON(200, dto.LoginResponse{
		TokenResponse: tokens,
		User: dto.AuthUser{
			ID:              user.ID,
			Email:           user.Email,
			Role:            user.Role,
			ProfileComplete: complete,
		},
	})
}

func (h *AuthHandler) RefreshToken(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		writeError(c, 401, codeUnauthorized, "invalid refresh token")
		return
	}

	ctx := c.Request.Context()
	oldHash := services.HashToken(req.RefreshToken)

	storedUserID, err := h.tokenService.Validate(ctx, oldHash)
	if err != nil || storedUserID != userID {
		writeError(c, 401, codeUnauthorized, "refresh token not found or expired")
		return
	}

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		writeError(c, 401, codeUnauthorized, "user not found")
		return
	}

	tokens, ok := h.issueTokens(c, user, func(hash string, expiresAt time.Time) error {
		return h.tokenService.Rotate(ctx, user.ID, oldHash, hash, expiresAt)
	})
	if !ok {
		return
	}

	_ = c.JSON(200, tokens)
}

// issueTokens signs a fresh pair and hands the refresh token hash to persist.
func (h *AuthHandler) issueTokens(c *drift.Context, user *models.User, persist func(hash string, expiresAt time.Time) error) (dto.TokenResponse, bool) {
	pair, err := h.jwtService.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		respondError(c, h.logger, "generate tokens", err, zap.String("user_id", user.ID.String()))
		return dto.TokenResponse{}, false
	}

	expiresAt := time.Now().Add(h.jwtService.RefreshExpiry())
	err = persist(services.HashToken(pair.RefreshToken), expiresAt)
	if errors.Is(err, services.ErrRefreshTokenInvalid) {
		writeError(c, 401, codeUnauthorized, "refresh token not found or expired")
		return dto.TokenResponse{}, false
	}
	if err != nil {
		respondError(c, h.logger, "store refresh token", err, zap.String("user_id", user.ID.String()))
		return dto.TokenResponse{}, false
	}

	return dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, true
}

func (h *AuthHandler) Logout(c *drift.Context) {
	var req dto.LogoutRequest
	if err := c.BindJSON(&req); err != nil {
		writeError(c, 400, codeBadRequest, "invalid request body")
		return
	}

	if req.RefreshToken != "" {
		if err := h.tokenService.Revoke(c.Request.Context(), services.HashToken(req.RefreshToken)); err != nil {
			h.logger.Warn("failed to revoke refresh token", zap.Error(err))
		}
	}

	_ = c.JSON(200, dto.MessageResponse{Message: "logged out"})
}
