package websocket

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var ErrClosed = errors.New("connection closed")

// Options tunes a client connection
type Options struct {
	// Time allowed to write a message to the peer.
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer.
	PongWait time.Duration

	// Maximum message size allowed from peer.
	MaxMessageSize int64

	// Outbound frames buffered per connection.
	SendBuffer int
}

// DefaultOptions returns the standard keep-alive settings
func DefaultOptions() Options {
	return Options{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		MaxMessageSize: 512,
		SendBuffer:     256,
	}
}

// Send pings to peer with this period. Must be less than PongWait.
func (o Options) pingPeriod() time.Duration {
	return (o.PongWait * 9) / 10
}

// Conn is one client connection. It turns the websocket into a stream of
// text frames for the game protocol.
type Conn struct {
	ID uuid.UUID

	hub     *Hub
	ws      *websocket.Conn
	opts    Options
	log     zerolog.Logger
	inbound chan string
	send    chan []byte

	// done is closed once the connection is unusable
	done     chan struct{}
	doneOnce sync.Once

	// quit asks the write pump to flush and close
	quit     chan struct{}
	quitOnce sync.Once
}

func newConn(hub *Hub, ws *websocket.Conn, opts Options, log zerolog.Logger) *Conn {
	id := uuid.New()
	return &Conn{
		ID:      id,
		hub:     hub,
		ws:      ws,
		opts:    opts,
		log:     log.With().Str("conn", id.String()).Logger(),
		inbound: make(chan string, 16),
		send:    make(chan []byte, opts.SendBuffer),
		done:    make(chan struct{}),
		quit:    make(chan struct{}),
	}
}

// Receive returns the next text frame from the client
func (c *Conn) Receive(ctx context.Context) (string, error) {
	select {
	case text := <-c.inbound:
		return text, nil
	case <-c.done:
		return c.drain(ErrClosed)
	case <-ctx.Done():
		return "", context.Cause(ctx)
	}
}

// drain returns a frame read before the connection closed, if any
func (c *Conn) drain(err error) (string, error) {
	select {
	case text := <-c.inbound:
		return text, nil
	default:
		return "", err
	}
}

// Send queues a text frame for the client
func (c *Conn) Send(ctx context.Context, text string) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.send <- []byte(text):
		return nil
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

// Done is closed when the connection is gone
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Close flushes queued frames, sends a close frame and closes the socket
func (c *Conn) Close() {
	c.quitOnce.Do(func() { close(c.quit) })
}

func (c *Conn) markDone() {
	c.doneOnce.Do(func() { close(c.done) })
}

// readPump pumps frames from the websocket connection to Receive
func (c *Conn) readPump() {
	defer func() {
		c.markDone()
		c.hub.remove(c)
		c.ws.Close()
	}()

	c.ws.SetReadLimit(c.opts.MaxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(c.opts.PongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.log.Debug().Err(err).Msg("websocket read error")
			}
			return
		}
		c.ws.SetReadDeadline(time.Now().Add(c.opts.PongWait))

		select {
		case c.inbound <- string(data):
		case <-c.done:
			return
		}
	}
}

// writePump pumps frames from Send to the websocket connection
func (c *Conn) writePump() {
	ticker := time.NewTicker(c.opts.pingPeriod())
	defer func() {
		ticker.Stop()
		c.markDone()
		c.ws.Close()
	}()

	for {
		select {
		case message := <-c.send:
			if err := c.write(message); err != nil {
				c.log.Debug().Err(err).Msg("websocket write error")
				return
			}

		case <-c.quit:
			if err := c.flush(); err != nil {
				return
			}
			deadline := time.Now().Add(c.opts.WriteWait)
			c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			return

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// flush writes every frame still queued
func (c *Conn) flush() error {
	for {
		select {
		case message := <-c.send:
			if err := c.write(message); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (c *Conn) write(message []byte) error {
	c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
	return c.ws.WriteMessage(websocket.TextMessage, message)
}
