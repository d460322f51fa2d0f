// Package telemetry publishes a read-only feed of the running session
// (whatever its publisher sends; the controller sends one JSON record per
// tick with the scene, dispatch path and a session snapshot) to any
// number of connected dashboard clients over a websocket, the way
// LuKev-tm_server's internal/websocket hub fans game-state updates out to
// spectators, generalized here from "game room" subscriptions to a single
// session-wide broadcast since a produce session has exactly one spectated
// subject.
package telemetry

import (
	"log"
	"sync"
)

// Hub maintains connected dashboard clients and fans out published events.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the hub loop; call it in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("[telemetry] client connected, total=%d", h.ClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			h.unregisterLocked(client)
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				h.sendLocked(client, message)
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) unregisterLocked(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	log.Printf("[telemetry] client disconnected, total=%d", len(h.clients))
}

func (h *Hub) sendLocked(client *Client, message []byte) {
	select {
	case client.send <- message:
	default:
		close(client.send)
		delete(h.clients, client)
	}
}

// Publish broadcasts message to every connected client. Non-blocking: a
// full broadcast buffer drops the event rather than stall the controller's
// main loop, since telemetry is observational only (spec.md §9).
func (h *Hub) Publish(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		log.Printf("[telemetry] broadcast buffer full, dropping event")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
