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

type InviteHandler struct {
	inviteService InviteServiceInterface
	logger        *zap.Logger
}

func NewInviteHandler(inviteService InviteServiceInterface, logger *zap.Logger) *InviteHandler {
	return &InviteHandler{inviteService: inviteService, logger: logger}
}

// inviteFilter reads the optional status and type query parameters.
func inviteFilter(c *drift.Context) (models.InviteFilter, bool) {
	filter := models.InviteFilter{
		Status: c.QueryParam("status"),
		Type:   c.QueryParam("type"),
	}

	switch filter.Status {
	case "", models.InviteStatusPending, models.InviteStatusAccepted, models.InviteStatusDeclined:
	default:
		writeError(c, 422, codeValidation, "status must be pending, accepted or declined")
		return filter, false
	}
	if filter.Type != "" && !models.ValidInviteType(filter.Type) {
		writeError(c, 422, codeValidation, "type must be user_request or admin_invite")
		return filter, false
	}
	return filter, true
}

func (h *InviteHandler) List(c *drift.Context) {
	filter, ok := inviteFilter(c)
	if !ok {
		return
	}

	invites, err := h.inviteService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, "list invites", err)
		return
	}

	_ = c.JSON(200, toInviteResponses(invites))
}

// Create lets volunteers request a spot for themselves and admins invite anyone.
func (h *InviteHandler) Create(c *drift.Context) {
	var req dto.CreateInviteRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID := middleware.GetUserID(c)
	userID := callerID
	if req.UserID != nil {
		userID = *req.UserID
	}

	if middleware.IsAdmin(c) {
		if req.Type != models.InviteTypeAdminInvite {
			writeError(c, 422, codeValidation, "admins create admin_invite invites")
			return
		}
		if req.UserID == nil {
			writeError(c, 422, codeValidation, "user_id is required")
			return
		}
	} else {
		if req.Type != models.InviteTypeUserRequest {
			writeError(c, 403, codeForbidden, "only admins can send invites")
			return
		}
		if userID != callerID {
			writeError(c, 403, codeForbidden, "volunteers can only request a spot for themselves")
			return
		}
	}

	invite, err := h.inviteService.Create(c.Request.Context(), userID, req.EventID, req.Type)
	if err != nil {
		respondError(c, h.logger, "create invite", err,
			zap.String("user_id", userID.String()), zap.String("event_id", req.EventID.String()))
		return
	}

	_ = c.JSON(201, toInviteResponse(invite))
}

// authorizeInvite loads the invite and checks that the caller is its invitee or an admin.
func (h *InviteHandler) authorizeInvite(c *drift.Context, op string) (uuid.UUID, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return uuid.Nil, false
	}
	if middleware.IsAdmin(c) {
		return id, true
	}

	invite, err := h.inviteService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, op, err, zap.String("invite_id", id.String()))
		return uuid.Nil, false
	}
	if invite.UserID != middleware.GetUserID(c) {
		writeError(c, 403, codeForbidden, "not allowed to change this invite")
		return uuid.Nil, false
	}
	return id, true
}

func (h *InviteHandler) Update(c *drift.Context) {
	var req dto.UpdateInviteRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Status != models.InviteStatusAccepted && req.Status != models.InviteStatusDeclined {
		respondError(c, h.logger, "transition invite", services.ErrInvalidStatus)
		return
	}

	id, ok := h.authorizeInvite(c, "transition invite")
	if !ok {
		return
	}

	invite, err := h.inviteService.Transition(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, h.logger, "transition invite", err,
			zap.String("invite_id", id.String()), zap.String("status", req.Status))
		return
	}

	_ = c.JSON(200, toInviteResponse(invite))
}

func (h *InviteHandler) Complete(c *drift.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.CompleteInviteRequest
	if !bindJSON(c, &req) {
		return
	}

	invite, err := h.inviteService.SetCompleted(c.Request.Context(), id, *req.Completed)
	if err != nil {
		respondError(c, h.logger, "complete invite", err, zap.String("invite_id", id.String()))
		return
	}

	_ = c.JSON(200, toInviteResponse(invite))
}

func (h *InviteHandler) Delete(c *drift.Context) {
	id, ok := h.authorizeInvite(c, "delete invite")
	if !ok {
		return
	}

	if err := h.inviteService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "delete invite", err, zap.String("invite_id", id.String()))
		return
	}

	_ = c.JSON(200, dto.MessageResponse{Message: "invite deleted"})
}
