package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ugaemi/cubechase/internal/cube"
)

const (
	writeWait    = 2 * time.Second
	pongWait     = 10 * time.Second
	pingPeriod   = (pongWait * 9) / 10
	maxFrameSize = 4096
	feedBuffer   = 64
)

// DefaultPositionTTL is how long a position fix stays usable.
const DefaultPositionTTL = 500 * time.Millisecond

// ErrClosed is returned once the bridge connection has ended.
var ErrClosed = errors.New("bridge: connection closed")

type fix struct {
	pos cube.Position
	ok  bool
	at  time.Time
}

// Client is one connection to a cube bridge.
type Client struct {
	conn *websocket.Conn
	ttl  time.Duration
	now  func() time.Time

	mu     sync.Mutex
	fixes  map[string]fix
	feeds  map[string]chan cube.PositionEvent
	closed bool

	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Client.
type Option func(*Client)

// WithPositionTTL sets how old a fix may be before Position reports the cube
// as off the mat. Zero disables the check.
func WithPositionTTL(d time.Duration) Option {
	return func(c *Client) { c.ttl = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func newClient(conn *websocket.Conn, opts ...Option) *Client {
	c := &Client{
		conn:  conn,
		ttl:   DefaultPositionTTL,
		now:   time.Now,
		fixes: make(map[string]fix),
		feeds: make(map[string]chan cube.PositionEvent),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dial connects to the bridge at url and starts reading frames.
func Dial(ctx context.Context, url string, opts ...Option) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial bridge %s: %w", url, err)
	}

	c := newClient(conn, opts...)
	go c.readPump()
	go c.pingPump()
	slog.Info("bridge connected", "url", url)
	return c, nil
}

// Cube returns the actuator for the cube with the given bridge id.
func (c *Client) Cube(id string) *Cube {
	return &Cube{id: id, client: c}
}

// Telemetry returns the position stream for one cube. Samples are dropped
// when the consumer falls behind; the channel closes with the connection.
func (c *Client) Telemetry(id string) <-chan cube.PositionEvent {
	c.mu.Lock()
	defer c.mu.Unlock()

	if feed, ok := c.feeds[id]; ok {
		return feed
	}
	feed := make(chan cube.PositionEvent, feedBuffer)
	if c.closed {
		close(feed)
		return feed
	}
	c.feeds[id] = feed
	return feed
}

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close says goodbye to the bridge and releases the connection.
func (c *Client) Close() error {
	select {
	case <-c.done:
		return nil
	default:
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	err := c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	c.shutdown()
	return err
}

func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		c.closed = true
		for id, feed := range c.feeds {
			close(feed)
			delete(c.feeds, id)
		}
		c.mu.Unlock()

		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// readPump reads frames from the bridge until the connection fails.
func (c *Client) readPump() {
	defer c.shutdown()

	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Error("bridge read error", "error", err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		f, err := Decode(data)
		if err != nil {
			slog.Warn("invalid bridge frame", "error", err)
			continue
		}
		c.handle(f)
	}
}

// pingPump keeps the connection alive.
func (c *Client) pingPump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				slog.Warn("bridge ping failed", "error", err)
				c.shutdown()
				return
			}
		}
	}
}

func (c *Client) handle(f Frame) {
	switch f.Op {
	case OpPosition:
		c.record(f.Cube, f.position(), true)
	case OpLost:
		c.record(f.Cube, cube.Position{}, false)
	case OpError:
		slog.Warn("bridge reported error", "cube", f.Cube, "error", f.Error)
	default:
		slog.Debug("unknown bridge frame", "op", f.Op, "cube", f.Cube)
	}
}

func (c *Client) record(id string, pos cube.Position, ok bool) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.fixes[id] = fix{pos: pos, ok: ok, at: now}

	feed, subscribed := c.feeds[id]
	if !subscribed {
		return
	}
	select {
	case feed <- cube.PositionEvent{Position: pos, OK: ok, Time: now}:
	default:
		slog.Warn("telemetry buffer full, dropping sample", "cube", id)
	}
}

func (c *Client) position(id string) (cube.Position, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return cube.Position{}, false, ErrClosed
	}
	f, seen := c.fixes[id]
	if !seen || !f.ok {
		return cube.Position{}, false, nil
	}
	if c.ttl > 0 && c.now().Sub(f.at) > c.ttl {
		return cube.Position{}, false, nil
	}
	return f.pos, true, nil
}

func (c *Client) send(ctx context.Context, f Frame) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	data, err := Encode(f)
	if err != nil {
		return fmt.Errorf("bridge: encode %s: %w", f.Op, err)
	}

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return fmt.Errorf("bridge: write %s to %s: %w", f.Op, f.Cube, err)
	}
	return nil
}
