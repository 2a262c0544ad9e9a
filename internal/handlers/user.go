package handlers

import (
	"github.com/dimitrije/volunteer-api/internal/middleware"
	"github.com/dimitrije/volunteer-api/internal/models"
	"github.com/dimitrije/volunteer-api/internal/services"
	"github.com/dimitrije/volunteer-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService     UserServiceInterface
	profileService  ProfileServiceInterface
	historyService  HistoryServiceInterface
	inviteService   InviteServiceInterface
	calendarService CalendarServiceInterface
	logger          *zap.Logger
}

func NewUserHandler(
	userService UserServiceInterface,
	profileService ProfileServiceInterface,
	historyService HistoryServiceInterface,
	inviteService InviteServiceInterface,
	calendarService CalendarServiceInterface,
	logger *zap.Logger,
) *UserHandler {
	return &UserHandler{
		userService:     userService,
		profileService:  profileService,
		historyService:  historyService,
		inviteService:   inviteService,
		calendarService: calendarService,
		logger:          logger,
	}
}

// targetUser resolves the :id path parameter, where "me" is the caller, and
// rejects callers that are neither that user nor an admin.
func targetUser(c *drift.Context) (uuid.UUID, bool) {
	var id uuid.UUID
	if c.Param("id") == "me" {
		id = middleware.GetUserID(c)
	} else {
		var ok bool
		if id, ok = parseID(c, "id"); !ok {
			return uuid.Nil, false
		}
	}

	if !middleware.CanActFor(c, id) {
		writeError(c, 403, codeForbidden, "not allowed to access this user")
		return uuid.Nil, false
	}
	return id, true
}

func (h *UserHandler) List(c *drift.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list users", err)
		return
	}
	_ = c.JSON(200, users)
}

func (h *UserHandler) Update(c *drift.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, req.Role, req.Name)
	if err != nil {
		respondError(c, h.logger, "update user", err, zap.String("user_id", id.String()))
		return
	}

	_ = c.JSON(200, dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	})
}

func (h *UserHandler) Delete(c *drift.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if id == middleware.GetUserID(c) {
		writeError(c, 422, codeValidation, "admins cannot delete their own account")
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "delete user", err, zap.String("user_id", id.String()))
		return
	}

	_ = c.JSON(200, dto.MessageResponse{Message: "user deleted"})
}

func (h *UserHandler) GetProfile(c *drift.Context) {
	id, ok := targetUser(c)
	if !ok {
		return
	}

	profile, err := h.profileService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get profile", err, zap.String("user_id", id.String()))
		return
	}

	_ = c.JSON(200, toProfileResponse(profile))
}

func (h *UserHandler) UpdateProfile(c *drift.Context) {
	id, ok := targetUser(c)
	if !ok {
		return
	}

	var req dto.ProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.profileService.Upsert(c.Request.Context(), id, services.ProfileInput{
		FullName:         req.FullName,
		Address1:         req.Address1,
		Address2:         req.Address2,
		City:             req.City,
		State:            req.State,
		ZipCode:          req.ZipCode,
		Phone:            req.Phone,
		Skills:           req.Skills,
		Availability:     req.Availability,
		AvailabilityRule: req.AvailabilityRule,
		Preferences:      req.Preferences,
	})
	if err != nil {
		respondError(c, h.logger, "update profile", err, zap.String("user_id", id.String()))
		return
	}

	_ = c.JSON(200, toProfileResponse(profile))
}

func (h *UserHandler) History(c *drift.Context) {
	id, ok := targetUser(c)
	if !ok {
		return
	}

	entries, err := h.historyService.ListForUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "list history", err, zap.String("user_id", id.String()))
		return
	}

	response := make([]dto.HistoryResponse, 0, len(entries))
	for _, entry := range entries {
		item := dto.HistoryResponse{
			ID:                entry.ID,
			EventID:           entry.EventID,
			ParticipationDate: entry.ParticipationDate,
		}
		if entry.Event != nil {
			item.Event = toEventResponse(entry.Event)
		}
		response = append(response, item)
	}

	_ = c.JSON(200, response)
}

func (h *UserHandler) SignedUpEvents(c *drift.Context) {
	id, ok := targetUser(c)
	if !ok {
		return
	}

	events, err := h.inviteService.SignedUpEvents(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "list signed-up events", err, zap.String("user_id", id.String()))
		return
	}

	response := make([]dto.SignedUpEventResponse, 0, len(events))
	for i := range events {
		response = append(response, dto.SignedUpEventResponse{
			EventResponse: toEventResponse(&events[i].Event),
			InviteID:      events[i].InviteID,
			Completed:     events[i].Completed,
		})
	}

	_ = c.JSON(200, response)
}

func (h *UserHandler) Invites(c *drift.Context) {
	id, ok := targetUser(c)
	if !ok {
		return
	}

	filter, ok := inviteFilter(c)
	if !ok {
		return
	}
	filter.UserID = &id

	invites, err := h.inviteService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, "list user invites", err, zap.String("user_id", id.String()))
		return
	}

	_ = c.JSON(200, toInviteResponses(invites))
}

// Calendar serves the caller's accepted events as text/calendar.
func (h *UserHandler) Calendar(c *drift.Context) {
	id, ok := targetUser(c)
	if !ok {
		return
	}

	feed, err := h.calendarService.Feed(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "calendar feed", err, zap.String("user_id", id.String()))
		return
	}

	c.Response.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	c.Response.Header().Set("Content-Disposition", `inline; filename="volunteer-events.ics"`)
	c.Response.WriteHeader(200)
	_, _ = c.Response.Write([]byte(feed))
}

func toInviteResponses(invites []models.Invite) []dto.InviteResponse {
	response := make([]dto.InviteResponse, 0, len(invites))
	for i := range invites {
		response = append(response, toInviteResponse(&invites[i]))
	}
	return response
}
