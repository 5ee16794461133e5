package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	// tokenProtocol prefixes the access token in Sec-WebSocket-Protocol.
	tokenProtocol = "access_token"
)

var (
	// ErrClosed is returned by Send once the connection is closed.
	ErrClosed = errors.New("connection closed")
	// ErrSendBufferFull is returned when the write pump falls behind.
	ErrSendBufferFull = errors.New("send buffer full")
)

// DialOptions configures Dial.
type DialOptions struct {
	URL              string
	Token            string
	HandshakeTimeout time.Duration
}

// Connection is a WebSocket connection to the game server. Frames read from
// the server are delivered on Inbound in arrival order.
type Connection struct {
	ws     *websocket.Conn
	logger *zap.Logger

	// Buffered channel for outbound messages
	send chan []byte

	inbound chan string

	done      chan struct{}
	closeOnce sync.Once
}

// Dial opens a connection to the server. A non-empty token is offered as
// "access_token, <token>" in Sec-WebSocket-Protocol.
func Dial(ctx context.Context, opts DialOptions, logger *zap.Logger) (*Connection, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: opts.HandshakeTimeout,
	}
	if opts.Token != "" {
		dialer.Subprotocols = []string{tokenProtocol, opts.Token}
	}

	ws, resp, err := dialer.DialContext(ctx, opts.URL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", opts.URL, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", opts.URL, err)
	}
	return NewConnection(ws, logger), nil
}

// NewConnection wraps an established WebSocket.
func NewConnection(ws *websocket.Conn, logger *zap.Logger) *Connection {
	return &Connection{
		ws:      ws,
		logger:  logger.Named("connection"),
		send:    make(chan []byte, 256),
		inbound: make(chan string, 64),
		done:    make(chan struct{}),
	}
}

// Run pumps frames until the peer goes away, ctx is cancelled or Close is
// called. Inbound is closed when Run returns.
func (c *Connection) Run(ctx context.Context) {
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go c.writePump(ctx)
	c.readPump() // Blocking
}

// Inbound returns the channel of server frames.
func (c *Connection) Inbound() <-chan string { return c.inbound }

// readPump pumps messages from the WebSocket connection to Inbound
func (c *Connection) readPump() {
	defer func() {
		close(c.inbound)
		c.Close()
	}()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}

		select {
		case c.inbound <- string(message):
		case <-c.done:
			return
		}
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Connection) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Warn("WebSocket write error", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-ctx.Done():
			c.writeClose()
			return

		case <-c.done:
			c.writeClose()
			return
		}
	}
}

func (c *Connection) writeClose() {
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := c.ws.WriteMessage(websocket.CloseMessage, msg); err != nil {
		c.logger.Debug("Close frame not delivered", zap.Error(err))
	}
}

// Send queues a frame for the server.
func (c *Connection) Send(data string) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.send <- []byte(data):
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close stops both pumps. It is safe to call more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}
