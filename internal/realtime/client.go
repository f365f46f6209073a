// internal/realtime/client.go
package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/turnDeep/chartnote/internal/core"
)

const (
	// DefaultMaxRetries bounds reconnect attempts per outage.
	DefaultMaxRetries = 5
	// DefaultRetryDelay is the fixed pause between reconnect attempts.
	DefaultRetryDelay = 3 * time.Second
)

// ClientConfig tunes the reconnecting client.
type ClientConfig struct {
	URL        string
	MaxRetries int
	RetryDelay time.Duration
}

// Client is a reconnecting websocket consumer. Received envelopes are
// delivered on C. Frames sent while the connection is down are queued and
// flushed in order once it comes back.
type Client struct {
	cfg    ClientConfig
	logger *zap.Logger

	C chan Envelope

	mu      sync.Mutex
	conn    *websocket.Conn
	pending []Envelope
	closed  bool
}

// NewClient creates a client for the given websocket URL.
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		logger: logger,
		C:      make(chan Envelope, sendBuffer),
	}
}

// Run connects and pumps frames until ctx is cancelled or the retry budget
// for an outage is spent. C is closed on return.
func (c *Client) Run(ctx context.Context) error {
	defer func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.C)
	}()

	retries := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.cfg.URL, nil)
		if err != nil {
			retries++
			if retries > c.cfg.MaxRetries {
				c.logger.Error("giving up reconnecting",
					zap.Int("attempts", retries-1),
					zap.Error(err))
				return core.WrapError(core.ErrChannelClosed, err)
			}
			c.logger.Warn("connect failed, retrying",
				zap.Int("attempt", retries),
				zap.Error(err))
			select {
			case <-time.After(c.cfg.RetryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		retries = 0
		c.logger.Info("connected", zap.String("url", c.cfg.URL))
		c.attach(conn)
		c.flush()

		c.readLoop(ctx, conn)
		c.detach()
	}
}

// Send writes an envelope, queueing it for the next connection when offline.
func (c *Client) Send(msgType string, payload any) error {
	env, err := NewEnvelope(msgType, payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return core.ErrChannelClosed
	}
	if c.conn == nil {
		c.pending = append(c.pending, env)
		return nil
	}
	if err := c.conn.WriteJSON(env); err != nil {
		// The write raced a disconnect, keep the frame for the retry.
		c.pending = append(c.pending, env)
		return nil
	}
	return nil
}

func (c *Client) attach(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

func (c *Client) detach() {
	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()
}

// flush replays queued frames in arrival order.
func (c *Client) flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return
	}
	for len(c.pending) > 0 {
		env := c.pending[0]
		if err := c.conn.WriteJSON(env); err != nil {
			return
		}
		c.pending = c.pending[1:]
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			if ctx.Err() == nil {
				c.logger.Warn("connection lost", zap.Error(err))
			}
			return
		}
		select {
		case c.C <- env:
		case <-ctx.Done():
			return
		}
	}
}

// Pending reports queued frame count, for observability.
func (c *Client) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
