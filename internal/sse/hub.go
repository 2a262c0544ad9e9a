// Package sse fans stored notifications out to connected EventSource clients.
package sse

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dimitrije/volunteer-api/internal/models"
	"github.com/google/uuid"
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Client is one open stream. Admin clients follow the shared admin feed;
// everyone follows notifications addressed to them.
type Client struct {
	ID     string
	UserID uuid.UUID
	Admin  bool
	Send   chan []byte
}

func (c *Client) wants(n *models.Notification) bool {
	if n.RecipientID == nil {
		return c.Admin
	}
	return *n.RecipientID == c.UserID
}

type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *models.Notification
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *models.Notification, 256),
	}
}

// Run serves registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.Send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case n := <-h.broadcast:
			data, err := json.Marshal(Event{Type: "notification", Data: n})
			if err != nil {
				continue
			}
			h.mu.RLock()
			for _, client := range h.clients {
				if !client.wants(n) {
					continue
				}
				select {
				case client.Send <- data:
				default:
					// slow client, drop
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish queues n for delivery. It never blocks; when the queue is full the
// live push is skipped and clients still see n on their next fetch.
func (h *Hub) Publish(n *models.Notification) {
	select {
	case h.broadcast <- n:
	default:
	}
}
