// Package web serves the note pad over HTTP: a small JSON API for
// mutations, a WebSocket feed that pushes the full list after every
// change, and the embedded single-page UI.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/jotkit/jot/pkg/core"
)

const broadcastBuffer = 16

// Hub fans the current note list out to every connected client. There is
// one shared list, so there is one room.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client

	logger *slog.Logger

	mu     sync.Mutex
	latest []byte // last payload sent, replayed to joiners
}

// NewHub builds a hub. Call Run to start the fan-out loop.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, broadcastBuffer),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run drives the hub until ctx is canceled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.Clients {
				close(client.Send)
				delete(h.Clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client] = true
			latest := h.latest
			h.mu.Unlock()

			// A joiner starts from the current list, not from silence.
			if latest != nil {
				select {
				case client.Send <- latest:
				default:
				}
			}
			h.logger.Debug("client connected", "client", client.ID)

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			h.logger.Debug("client disconnected", "client", client.ID)

		case payload := <-h.Broadcast:
			h.mu.Lock()
			h.latest = payload
			clients := make([]*Client, 0, len(h.Clients))
			for client := range h.Clients {
				clients = append(clients, client)
			}
			h.mu.Unlock()

			for _, client := range clients {
				select {
				case client.Send <- payload:
				default:
					// The client is lagging. Cut it loose rather than
					// block everyone else.
					h.logger.Warn("client send buffer full, dropping", "client", client.ID)
					h.drop(client)
				}
			}
		}
	}
}

// BroadcastNotes queues the full list for fan-out. It never blocks: the
// next change carries the whole state again, so a dropped frame heals
// itself.
func (h *Hub) BroadcastNotes(notes core.Notes) {
	if notes == nil {
		notes = core.Notes{}
	}
	payload, err := json.Marshal(notes)
	if err != nil {
		h.logger.Error("failed to encode broadcast", "error", err)
		return
	}

	select {
	case h.Broadcast <- payload:
	default:
		h.logger.Warn("broadcast queue full, dropping frame")
	}
}

func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.Clients[client]; ok {
		delete(h.Clients, client)
		close(client.Send)
	}
}

// Len reports the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.Clients)
}
