package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ugaemi/cubechase/internal/game"
	"github.com/ugaemi/cubechase/internal/store"
	"github.com/ugaemi/cubechase/internal/ws"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 50
	historyTimeout      = 2 * time.Second
)

// Router dispatches spectator requests.
type Router struct {
	state   *game.State
	matches store.MatchStore
	feed    *Broadcaster
}

// NewRouter creates a router. matches may be nil when history is disabled.
func NewRouter(state *game.State, matches store.MatchStore, feed *Broadcaster) *Router {
	return &Router{state: state, matches: matches, feed: feed}
}

type historyRequest struct {
	Limit int `json:"limit"`
}

// HandleMessage parses and routes an incoming spectator request.
func (r *Router) HandleMessage(cm *ws.ClientMessage) {
	var msg ws.Message
	if err := json.Unmarshal(cm.Data, &msg); err != nil {
		slog.Warn("invalid message format", "client", cm.Client.ID, "error", err)
		cm.Client.SendMessage(ws.NewErrorMessage("invalid message format"))
		return
	}

	switch msg.Type {
	case ws.TypeTogglePause:
		r.handleTogglePause(cm.Client)
	case ws.TypeStatus:
		r.sendSnapshot(cm.Client)
	case ws.TypeHistory:
		r.handleHistory(cm.Client, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", cm.Client.ID)
		cm.Client.SendMessage(ws.NewErrorMessage("unknown message type: " + msg.Type))
	}
}

// HandleConnect greets a new spectator with the current state.
func (r *Router) HandleConnect(client *ws.Client) {
	r.sendSnapshot(client)
}

func (r *Router) handleTogglePause(client *ws.Client) {
	if r.state.IsGameOver() {
		client.SendMessage(ws.NewErrorMessage("game is over"))
		return
	}
	r.state.TogglePause()
	s := r.state.Snapshot()
	slog.Info("pause toggled by spectator", "client", client.ID, "paused", s.Paused)
	if r.feed != nil {
		r.feed.Snapshot(s)
	}
}

func (r *Router) sendSnapshot(client *ws.Client) {
	msg, err := ws.NewMessage(ws.TypeGameState, r.state.Snapshot())
	if err != nil {
		slog.Error("failed to encode snapshot", "error", err)
		return
	}
	client.SendMessage(msg)
}

func (r *Router) handleHistory(client *ws.Client, msg ws.Message) {
	if r.matches == nil {
		client.SendMessage(ws.NewErrorMessage("match history is disabled"))
		return
	}

	req := historyRequest{Limit: defaultHistoryLimit}
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			client.SendMessage(ws.NewErrorMessage("invalid history request"))
			return
		}
	}
	if req.Limit <= 0 {
		req.Limit = defaultHistoryLimit
	}
	if req.Limit > maxHistoryLimit {
		req.Limit = maxHistoryLimit
	}

	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()

	results, err := r.matches.Recent(ctx, req.Limit)
	if err != nil {
		slog.Error("failed to load match history", "client", client.ID, "error", err)
		client.SendMessage(ws.NewErrorMessage("failed to load match history"))
		return
	}

	reply, err := ws.NewMessage(ws.TypeHistory, results)
	if err != nil {
		slog.Error("failed to encode match history", "error", err)
		return
	}
	client.SendMessage(reply)
}
