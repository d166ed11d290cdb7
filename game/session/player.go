package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/wricardo/mcp-training/gomokuduel/game/relay"
)

var ErrDisconnected = errors.New("client disconnected")

// Transport is the connection a player talks through. Receive and Send may
// block and must return once ctx is done. Done is closed when the
// underlying connection is gone.
type Transport interface {
	Receive(ctx context.Context) (string, error)
	Send(ctx context.Context, text string) error
	Done() <-chan struct{}
}

// Outcome is the terminal sub-state of a player task
type Outcome int

const (
	Pending Outcome = iota
	Won
	Lost
	Drawn
	Disconnected
	PeerGone
	TimedOut
	ProtocolViolation
)

var outcomeNames = [...]string{
	Pending:           "pending",
	Won:               "won",
	Lost:              "lost",
	Drawn:             "drawn",
	Disconnected:      "disconnected",
	PeerGone:          "peer_gone",
	TimedOut:          "timed_out",
	ProtocolViolation: "protocol_violation",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	for i, name := range outcomeNames {
		if name == string(text) {
			*o = Outcome(i)
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}

// Abnormal reports whether the game ended without a result on the board
func (o Outcome) Abnormal() bool {
	switch o {
	case Disconnected, PeerGone, TimedOut, ProtocolViolation:
		return true
	}
	return false
}

// Player is one connected client. Its id and relay endpoint are assigned
// when it is paired.
type Player struct {
	ConnID uuid.UUID

	conn Transport

	mu      sync.RWMutex
	id      int
	name    string
	outcome Outcome
	relay   *relay.Endpoint

	done chan struct{}
	once sync.Once
}

// NewPlayer wraps a freshly accepted connection
func NewPlayer(connID uuid.UUID, conn Transport) *Player {
	return &Player{
		ConnID: connID,
		conn:   conn,
		done:   make(chan struct{}),
	}
}

// ID returns 1 or 2 once paired, 0 while waiting
func (p *Player) ID() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.id
}

// Name returns the display name, empty until the handshake completes
func (p *Player) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.name
}

// Outcome returns the terminal sub-state, Pending while the task runs
func (p *Player) Outcome() Outcome {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.outcome
}

// Done is closed when the player's task has finished
func (p *Player) Done() <-chan struct{} {
	return p.done
}

func (p *Player) setID(id int) {
	p.mu.Lock()
	p.id = id
	p.mu.Unlock()
}

func (p *Player) setName(name string) {
	p.mu.Lock()
	p.name = name
	p.mu.Unlock()
}

func (p *Player) attach(e *relay.Endpoint) {
	p.mu.Lock()
	p.relay = e
	p.mu.Unlock()
}

func (p *Player) endpoint() *relay.Endpoint {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.relay
}

func (p *Player) finish(o Outcome) {
	p.once.Do(func() {
		p.mu.Lock()
		p.outcome = o
		p.mu.Unlock()
		close(p.done)
	})
}

// gone reports whether the player's connection has already closed
func (p *Player) gone() bool {
	select {
	case <-p.conn.Done():
		return true
	default:
		return false
	}
}
