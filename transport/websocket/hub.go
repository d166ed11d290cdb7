package websocket

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Hub maintains the set of open client connections
type Hub struct {
	clients map[*Conn]bool

	// Register requests from connections
	register chan *Conn

	// Unregister requests from connections
	unregister chan *Conn

	shutdown     chan struct{}
	shutdownOnce sync.Once
	stopped      chan struct{}

	count atomic.Int64
	log   zerolog.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Conn]bool),
		register:   make(chan *Conn),
		unregister: make(chan *Conn),
		shutdown:   make(chan struct{}),
		stopped:    make(chan struct{}),
		log:        log,
	}
}

// Run starts the hub's event loop. It returns after Shutdown.
func (h *Hub) Run() {
	defer close(h.stopped)

	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.count.Store(int64(len(h.clients)))
			h.log.Debug().Str("conn", c.ID.String()).Int("clients", len(h.clients)).Msg("client registered")

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				h.count.Store(int64(len(h.clients)))
				h.log.Debug().Str("conn", c.ID.String()).Int("clients", len(h.clients)).Msg("client unregistered")
			}

		case <-h.shutdown:
			for c := range h.clients {
				c.Close()
			}
			h.log.Info().Int("clients", len(h.clients)).Msg("hub closed all connections")
			h.clients = make(map[*Conn]bool)
			h.count.Store(0)
			return
		}
	}
}

// Shutdown closes every connection and stops Run
func (h *Hub) Shutdown() {
	h.shutdownOnce.Do(func() { close(h.shutdown) })
	<-h.stopped
}

// Count returns the number of open connections
func (h *Hub) Count() int {
	return int(h.count.Load())
}

// add registers c, or reports false once the hub has stopped
func (h *Hub) add(c *Conn) bool {
	select {
	case h.register <- c:
		return true
	case <-h.stopped:
		return false
	}
}

func (h *Hub) remove(c *Conn) {
	select {
	case h.unregister <- c:
	case <-h.stopped:
	}
}
