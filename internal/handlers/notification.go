package handlers

import (
	"strconv"

	"github.com/dimitrije/volunteer-api/internal/middleware"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notificationService NotificationServiceInterface
	activityService     ActivityServiceInterface
	logger              *zap.Logger
}

func NewNotificationHandler(
	notificationService NotificationServiceInterface,
	activityService ActivityServiceInterface,
	logger *zap.Logger,
) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		activityService:     activityService,
		logger:              logger,
	}
}

// audience is the admin feed for admins and the caller's own feed otherwise.
func audience(c *drift.Context) *uuid.UUID {
	if middleware.IsAdmin(c) {
		return nil
	}
	id := middleware.GetUserID(c)
	return &id
}

func (h *NotificationHandler) List(c *drift.Context) {
	notifications, err := h.notificationService.List(c.Request.Context(), audience(c))
	if err != nil {
		respondError(c, h.logger, "list notifications", err)
		return
	}
	_ = c.JSON(200, notifications)
}

func (h *NotificationHandler) MarkRead(c *drift.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, 400, codeBadRequest, "invalid id")
		return
	}

	notification, err := h.notificationService.MarkRead(c.Request.Context(), id, audience(c))
	if err != nil {
		respondError(c, h.logger, "mark notification read", err, zap.Int64("notification_id", id))
		return
	}
	_ = c.JSON(200, notification)
}

func (h *NotificationHandler) Activity(c *drift.Context) {
	activity, err := h.activityService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list activity", err)
		return
	}
	_ = c.JSON(200, activity)
}
