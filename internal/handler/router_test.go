package handler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugaemi/cubechase/internal/game"
	"github.com/ugaemi/cubechase/internal/match"
	"github.com/ugaemi/cubechase/internal/ws"
)

type mockMatchStore struct {
	results []match.Result
	err     error
	limits  []int
}

func (m *mockMatchStore) Save(_ context.Context, r *match.Result) error {
	m.results = append([]match.Result{*r}, m.results...)
	return m.err
}

func (m *mockMatchStore) Recent(_ context.Context, limit int) ([]match.Result, error) {
	m.limits = append(m.limits, limit)
	if m.err != nil {
		return nil, m.err
	}
	if limit > len(m.results) {
		limit = len(m.results)
	}
	return m.results[:limit], nil
}

func (m *mockMatchStore) Close() error { return nil }

type sentMessage struct {
	Type string
	Data json.RawMessage
}

func newTestClient(id string) (*ws.Client, chan sentMessage) {
	ch := make(chan sentMessage, 10)
	client := &ws.Client{
		ID:   id,
		Send: make(chan []byte, 256),
	}

	// Read sent messages in background
	go func() {
		for data := range client.Send {
			var msg sentMessage
			json.Unmarshal(data, &msg)
			ch <- msg
		}
	}()

	return client, ch
}

func readResponse(t *testing.T, ch chan sentMessage) sentMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for response")
		return sentMessage{}
	}
}

func request(t *testing.T, msgType string, payload any) []byte {
	t.Helper()
	msg := ws.Message{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		msg.Data = data
	}
	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	return raw
}

func decodeSnapshot(t *testing.T, msg sentMessage) game.Snapshot {
	t.Helper()
	var s game.Snapshot
	require.NoError(t, json.Unmarshal(msg.Data, &s))
	return s
}

func TestHandleMessage_Status(t *testing.T) {
	state := game.NewState()
	state.ApplyDamage(30)
	router := NewRouter(state, nil, nil)
	client, ch := newTestClient("spectator")

	router.HandleMessage(&ws.ClientMessage{Client: client, Data: request(t, ws.TypeStatus, nil)})

	resp := readResponse(t, ch)
	assert.Equal(t, ws.TypeGameState, resp.Type)
	s := decodeSnapshot(t, resp)
	assert.Equal(t, 70, s.Health)
	assert.Equal(t, game.StatusFine, s.Status)
	assert.Equal(t, 1, s.Hits)
}

func TestHandleMessage_TogglePause(t *testing.T) {
	state := game.NewState()
	router := NewRouter(state, nil, nil)
	client, _ := newTestClient("spectator")

	router.HandleMessage(&ws.ClientMessage{Client: client, Data: request(t, ws.TypeTogglePause, nil)})
	assert.True(t, state.IsPaused())

	router.HandleMessage(&ws.ClientMessage{Client: client, Data: request(t, ws.TypeTogglePause, nil)})
	assert.False(t, state.IsPaused())
}

func TestHandleMessage_TogglePauseAfterGameOver(t *testing.T) {
	state := game.NewState()
	state.ApplyDamage(game.MaxHealth)
	router := NewRouter(state, nil, nil)
	client, ch := newTestClient("spectator")

	router.HandleMessage(&ws.ClientMessage{Client: client, Data: request(t, ws.TypeTogglePause, nil)})

	resp := readResponse(t, ch)
	assert.Equal(t, ws.TypeError, resp.Type)
	assert.False(t, state.IsPaused())
}

func TestHandleMessage_History(t *testing.T) {
	results := []match.Result{
		{ID: "m3", Outcome: match.OutcomeCaught},
		{ID: "m2", Outcome: match.OutcomeAborted},
		{ID: "m1", Outcome: match.OutcomeCaught},
	}

	tests := []struct {
		name      string
		payload   any
		wantLimit int
		wantIDs   []string
	}{
		{name: "default limit", payload: nil, wantLimit: defaultHistoryLimit, wantIDs: []string{"m3", "m2", "m1"}},
		{name: "explicit limit", payload: historyRequest{Limit: 2}, wantLimit: 2, wantIDs: []string{"m3", "m2"}},
		{name: "zero limit", payload: historyRequest{Limit: 0}, wantLimit: defaultHistoryLimit, wantIDs: []string{"m3", "m2", "m1"}},
		{name: "capped limit", payload: historyRequest{Limit: 500}, wantLimit: maxHistoryLimit, wantIDs: []string{"m3", "m2", "m1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockMatchStore{results: results}
			router := NewRouter(game.NewState(), store, nil)
			client, ch := newTestClient("spectator")

			router.HandleMessage(&ws.ClientMessage{Client: client, Data: request(t, ws.TypeHistory, tt.payload)})

			resp := readResponse(t, ch)
			require.Equal(t, ws.TypeHistory, resp.Type)

			var got []struct {
				ID      string `json:"id"`
				Outcome string `json:"outcome"`
			}
			require.NoError(t, json.Unmarshal(resp.Data, &got))

			ids := make([]string, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, "caught", got[0].Outcome)
			assert.Equal(t, []int{tt.wantLimit}, store.limits)
		})
	}
}

func TestHandleMessage_HistoryErrors(t *testing.T) {
	tests := []struct {
		name  string
		store *mockMatchStore
		data  []byte
	}{
		{name: "history disabled", store: nil, data: []byte(`{"type":"history"}`)},
		{name: "store failure", store: &mockMatchStore{err: errors.New("connection refused")}, data: []byte(`{"type":"history"}`)},
		{name: "bad payload", store: &mockMatchStore{}, data: []byte(`{"type":"history","data":"ten"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var router *Router
			if tt.store == nil {
				router = NewRouter(game.NewState(), nil, nil)
			} else {
				router = NewRouter(game.NewState(), tt.store, nil)
			}
			client, ch := newTestClient("spectator")

			router.HandleMessage(&ws.ClientMessage{Client: client, Data: tt.data})

			resp := readResponse(t, ch)
			assert.Equal(t, ws.TypeError, resp.Type)
		})
	}
}

func TestHandleMessage_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{name: "not json", data: []byte("pause!"), want: "invalid message format"},
		{name: "unknown type", data: []byte(`{"type":"player_move"}`), want: "unknown message type: player_move"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewRouter(game.NewState(), nil, nil)
			client, ch := newTestClient("spectator")

			router.HandleMessage(&ws.ClientMessage{Client: client, Data: tt.data})

			resp := readResponse(t, ch)
			require.Equal(t, ws.TypeError, resp.Type)
			var body ws.ErrorMessage
			require.NoError(t, json.Unmarshal(resp.Data, &body))
			assert.Equal(t, tt.want, body.Message)
		})
	}
}

func TestHandleConnect_SendsSnapshot(t *testing.T) {
	router := NewRouter(game.NewState(), nil, nil)
	client, ch := newTestClient("spectator")

	router.HandleConnect(client)

	resp := readResponse(t, ch)
	assert.Equal(t, ws.TypeGameState, resp.Type)
	assert.Equal(t, game.MaxHealth, decodeSnapshot(t, resp).Health)
}
