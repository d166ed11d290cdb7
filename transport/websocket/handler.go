package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/wricardo/mcp-training/gomokuduel/game/session"
)

// Joiner hands a connected player to matchmaking
type Joiner interface {
	Join(p *session.Player) (*session.Session, error)
	Withdraw(p *session.Player) bool
}

// Handler upgrades HTTP requests and runs one player per connection
type Handler struct {
	hub      *Hub
	joiner   Joiner
	opts     Options
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewHandler creates a handler that pairs every accepted connection
func NewHandler(hub *Hub, joiner Joiner, opts Options, log zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		joiner: joiner,
		opts:   opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log,
	}
}

// ServeHTTP upgrades the request and holds the connection until the
// player's game is over
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	header := http.Header{}
	header.Set("Access-Control-Allow-Origin", "*")
	// any subprotocol the client offers is accepted
	if protocols := websocket.Subprotocols(r); len(protocols) > 0 {
		header.Set("Sec-Websocket-Protocol", protocols[0])
	}

	ws, err := h.upgrader.Upgrade(w, r, header)
	if err != nil {
		h.log.Debug().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	c := newConn(h.hub, ws, h.opts, h.log)
	if !h.hub.add(c) {
		ws.Close()
		return
	}

	go c.writePump()
	go c.readPump()

	c.log.Info().Str("remote", r.RemoteAddr).Msg("client connected")
	defer func() {
		c.Close()
		c.log.Info().Msg("client disconnected")
	}()

	player := session.NewPlayer(c.ID, c)
	if _, err := h.joiner.Join(player); err != nil {
		c.log.Warn().Err(err).Msg("join failed")
		return
	}

	select {
	case <-player.Done():
	case <-c.Done():
		if h.joiner.Withdraw(player) {
			return
		}
		<-player.Done()
	}
}
