package handler

import (
	"log/slog"

	"github.com/ugaemi/cubechase/internal/game"
	"github.com/ugaemi/cubechase/internal/ws"
)

// Broadcaster relays match events to every spectator.
type Broadcaster struct {
	hub *ws.Hub
}

// NewBroadcaster creates a Broadcaster on hub.
func NewBroadcaster(hub *ws.Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

func (b *Broadcaster) Snapshot(s game.Snapshot) { b.send(ws.TypeGameState, s) }
func (b *Broadcaster) Hit(s game.Snapshot)      { b.send(ws.TypeHit, s) }
func (b *Broadcaster) GameOver(s game.Snapshot) { b.send(ws.TypeGameOver, s) }

func (b *Broadcaster) send(msgType string, s game.Snapshot) {
	msg, err := ws.NewMessage(msgType, s)
	if err != nil {
		slog.Error("failed to encode snapshot", "type", msgType, "error", err)
		return
	}
	data, err := ws.Encode(msg)
	if err != nil {
		slog.Error("failed to encode message", "type", msgType, "error", err)
		return
	}
	b.hub.Broadcast(data)
}
