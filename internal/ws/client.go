package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBuffer     = 64
)

// Client is one spectator connection.
type Client struct {
	ID   string
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte

	// mu guards closed and every send on Send, so a message routed after
	// the spectator left is dropped instead of hitting a closed channel.
	mu     sync.Mutex
	closed bool
}

// NewClient creates a spectator with a fresh id.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		Hub:  hub,
		Conn: conn,
		Send: make(chan []byte, sendBuffer),
	}
}

// enqueue queues data without blocking. It reports false when the client
// is gone or its buffer is full.
func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// close ends the Send stream once; WritePump then says goodbye.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// Closed reports whether the hub has let go of the client.
func (c *Client) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// SendMessage queues a Message for this client. Messages for a slow or
// departed client are dropped.
func (c *Client) SendMessage(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal message", "error", err)
		return
	}
	if !c.enqueue(data) {
		slog.Warn("dropping message for spectator", "client", c.ID, "type", msg.Type, "closed", c.Closed())
	}
}

// ReadPump forwards requests to the hub until the connection fails, then
// hands the client back for unregistering.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.Hub.Unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Error("spectator read error", "client", c.ID, "error", err)
			}
			return
		}

		select {
		case c.Hub.Incoming <- &ClientMessage{Client: c, Data: data}:
		case <-c.Hub.done:
			return
		}
	}
}

// WritePump drains Send to the connection and pings between messages. It
// returns once Send is closed or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		var err error
		select {
		case data, ok := <-c.Send:
			if !ok {
				c.write(websocket.CloseMessage, []byte{})
				return
			}
			err = c.write(websocket.TextMessage, data)
		case <-ticker.C:
			err = c.write(websocket.PingMessage, nil)
		}
		if err != nil {
			slog.Debug("spectator write failed", "client", c.ID, "error", err)
			return
		}
	}
}

func (c *Client) write(kind int, data []byte) error {
	c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.Conn.WriteMessage(kind, data)
}

// ClientMessage wraps a raw request with its source client.
type ClientMessage struct {
	Client *Client
	Data   []byte
}
