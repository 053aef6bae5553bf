package ws

import "encoding/json"

// Message represents a spectator message with type-based routing.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Message types - server to spectator
const (
	TypeGameState = "game_state"
	TypeHit       = "hit"
	TypeGameOver  = "game_over"
	TypeHistory   = "history"
	TypeError     = "error"
)

// Message types - spectator to server
const (
	TypeTogglePause = "toggle_pause"
	TypeStatus      = "status"
)

// ErrorMessage is sent when a request cannot be served.
type ErrorMessage struct {
	Message string `json:"message"`
}

// NewErrorMessage creates a Message with an error payload.
func NewErrorMessage(msg string) Message {
	data, _ := json.Marshal(ErrorMessage{Message: msg})
	return Message{Type: TypeError, Data: data}
}

// NewMessage creates a Message with a typed payload.
func NewMessage(msgType string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Data: data}, nil
}

// Encode marshals a Message for Broadcast.
func Encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
