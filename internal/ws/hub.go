package ws

import (
	"context"
	"log/slog"
	"sync"
)

// Hub tracks connected spectators and routes their requests.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Incoming   chan *ClientMessage
	mu         sync.RWMutex
	done       chan struct{}

	// OnMessage is called for each incoming spectator request. The client
	// may already be unregistered; replies to it are dropped.
	OnMessage func(cm *ClientMessage)
	// OnConnect is called after a spectator is registered.
	OnConnect func(client *Client)
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Incoming:   make(chan *ClientMessage, 64),
		done:       make(chan struct{}),
	}
}

// Run serves registrations and requests until ctx is cancelled, then
// disconnects every spectator.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client] = true
			h.mu.Unlock()
			slog.Info("spectator connected", "client", client.ID)
			if h.OnConnect != nil {
				h.OnConnect(client)
			}

		case client := <-h.Unregister:
			h.remove(client)
			slog.Info("spectator disconnected", "client", client.ID)

		case cm := <-h.Incoming:
			if h.OnMessage != nil {
				h.OnMessage(cm)
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.Clients[client]; ok {
		delete(h.Clients, client)
		client.close()
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.Clients {
		delete(h.Clients, client)
		client.close()
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Broadcast sends a message to all connected spectators.
func (h *Hub) Broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.Clients {
		if !client.enqueue(data) {
			slog.Warn("broadcast: dropping message", "client", client.ID)
		}
	}
}

// ClientCount returns the number of connected spectators.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.Clients)
}
