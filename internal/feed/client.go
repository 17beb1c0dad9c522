package feed

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dkaplan/trade-ticket/internal/config"
	"github.com/dkaplan/trade-ticket/internal/model"
)

// ErrAlreadyClosed is returned when connecting a closed client.
var ErrAlreadyClosed = errors.New("feed: client is closed")

// Client is a WebSocket connection to the price stream. Each decoded
// price map is passed to the OnPrices callback; the callback owns
// applying it to the tracker.
type Client struct {
	cfg      config.FeedConfig
	logger   *slog.Logger
	onPrices func(map[string]model.Quote)

	// lost receives one signal when the active connection drops.
	lost chan struct{}

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	closed    bool
}

// NewClient creates a feed client. onPrices is invoked from the read
// goroutine for every price frame.
func NewClient(cfg config.FeedConfig, onPrices func(map[string]model.Quote), logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:      cfg,
		logger:   logger,
		onPrices: onPrices,
		lost:     make(chan struct{}, 1),
	}
}

// Connect establishes the WebSocket connection and starts the read and
// heartbeat goroutines.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrAlreadyClosed
	}
	c.mu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: c.cfg.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return err
	}

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
	})

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readLoop(conn)
	go c.heartbeatLoop(conn)

	c.logger.Debug("feed connected", "url", c.cfg.URL)
	return nil
}

// readLoop decodes frames until the connection drops.
func (c *Client) readLoop(conn *websocket.Conn) {
	defer c.dropped(conn)

	for {
		if err := conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout)); err != nil {
			return
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			if !c.isClosed() {
				c.logger.Warn("feed read failed", "error", err)
			}
			return
		}

		prices, ok, err := parseFrame(data)
		if err != nil {
			// A malformed frame is skipped, not fatal.
			c.logger.Warn("dropping malformed feed frame", "error", err)
			continue
		}
		if ok && c.onPrices != nil {
			c.onPrices(prices)
		}
	}
}

// heartbeatLoop pings the server so a silent connection is detected by
// the read deadline. The ticker is stopped when the connection drops,
// never after teardown.
func (c *Client) heartbeatLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		current := c.conn
		c.mu.Unlock()
		if current != conn {
			return
		}

		deadline := time.Now().Add(time.Second)
		if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
			return
		}
	}
}

// dropped marks the connection lost and signals Run to reconnect.
func (c *Client) dropped(conn *websocket.Conn) {
	conn.Close()

	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
		c.connected = false
	}
	closed := c.closed
	c.mu.Unlock()

	if closed {
		return
	}
	select {
	case c.lost <- struct{}{}:
	default:
	}
}

// Run keeps the feed connected until ctx is cancelled, reconnecting
// with exponential backoff between the configured base and max delays.
func (c *Client) Run(ctx context.Context) error {
	delay := c.cfg.ReconnectBaseDelay

	for {
		err := c.Connect(ctx)
		if errors.Is(err, ErrAlreadyClosed) {
			return err
		}
		if err == nil {
			delay = c.cfg.ReconnectBaseDelay
			select {
			case <-ctx.Done():
				c.Close()
				return ctx.Err()
			case <-c.lost:
				c.logger.Info("feed connection lost, reconnecting")
			}
		} else {
			c.logger.Warn("feed connect failed", "error", err, "retry_in", delay)
		}

		select {
		case <-ctx.Done():
			c.Close()
			return ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > c.cfg.ReconnectMaxDelay {
			delay = c.cfg.ReconnectMaxDelay
		}
	}
}

// IsConnected returns the current connection state.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close tears the client down. Safe to call more than once; after Close
// no callback or reconnect fires.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.connected = false
	c.mu.Unlock()

	if conn != nil {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		return conn.Close()
	}
	return nil
}
