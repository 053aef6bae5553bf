package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ugaemi/cubechase/internal/game"
	"github.com/ugaemi/cubechase/internal/ws"
)

func TestBroadcaster_Events(t *testing.T) {
	hub := ws.NewHub()
	a, chA := newTestClient("a")
	b, chB := newTestClient("b")
	hub.Clients[a] = true
	hub.Clients[b] = true
	feed := NewBroadcaster(hub)

	s := game.Snapshot{Health: 80, Status: game.StatusFine, Hits: 2}

	tests := []struct {
		name     string
		emit     func(game.Snapshot)
		wantType string
	}{
		{name: "snapshot", emit: feed.Snapshot, wantType: ws.TypeGameState},
		{name: "hit", emit: feed.Hit, wantType: ws.TypeHit},
		{name: "game over", emit: feed.GameOver, wantType: ws.TypeGameOver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.emit(s)
			for _, ch := range []chan sentMessage{chA, chB} {
				resp := readResponse(t, ch)
				assert.Equal(t, tt.wantType, resp.Type)
				assert.Equal(t, s, decodeSnapshot(t, resp))
			}
		})
	}
}

func TestRouter_TogglePauseBroadcasts(t *testing.T) {
	hub := ws.NewHub()
	watcher, ch := newTestClient("watcher")
	hub.Clients[watcher] = true

	state := game.NewState()
	router := NewRouter(state, nil, NewBroadcaster(hub))
	requester, _ := newTestClient("requester")

	router.HandleMessage(&ws.ClientMessage{Client: requester, Data: request(t, ws.TypeTogglePause, nil)})

	resp := readResponse(t, ch)
	assert.Equal(t, ws.TypeGameState, resp.Type)
	assert.True(t, decodeSnapshot(t, resp).Paused)
}
