package handlers

import (
	"github.com/dimitrije/volunteer-api/internal/middleware"
	"github.com/dimitrije/volunteer-api/internal/sse"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type SSEHandler struct {
	hub SSEHubInterface
}

func NewSSEHandler(hub SSEHubInterface) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// Connect streams the caller's notifications until the client goes away.
func (h *SSEHandler) Connect(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		writeError(c, 401, codeUnauthorized, "not authenticated")
		return
	}

	sseCtx := c.SSE()

	clientID := uuid.New().String()
	client := &sse.Client{
		ID:     clientID,
		UserID: userID,
		Admin:  middleware.IsAdmin(c),
		Send:   make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := sseCtx.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": clientID,
	}, "system", ""); err != nil {
		return
	}

	done := c.Request.Context().Done()
	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "notification", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
