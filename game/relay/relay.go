package relay

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/gomokuduel/game/engine"
)

// DefaultCapacity is the buffer size of each link
const DefaultCapacity = 100

var (
	ErrPeerGone = errors.New("opponent left")
	ErrTimeout  = errors.New("timed out waiting for opponent")
)

// Message is one unit exchanged between the two players of a session:
// either the name handshake or a move with its outcome flags.
type Message struct {
	Name string
	Pos  engine.Position
	Win  bool
	Draw bool
}

// NameMessage builds the handshake message
func NameMessage(name string) Message {
	return Message{Name: name}
}

// MoveMessage builds a move notification
func MoveMessage(pos engine.Position, win, draw bool) Message {
	return Message{Pos: pos, Win: win, Draw: draw}
}

// IsHandshake reports whether m carries a name rather than a move
func (m Message) IsHandshake() bool {
	return m.Name != ""
}

// Link is a bounded one-way queue with a closed signal. The closed signal
// lets a receiver tell "no message yet" apart from "sender is gone".
type Link struct {
	ch     chan Message
	closed chan struct{}
	once   sync.Once
}

// NewLink creates a link buffering up to capacity messages
func NewLink(capacity int) *Link {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Link{
		ch:     make(chan Message, capacity),
		closed: make(chan struct{}),
	}
}

// Close marks the link as closed. Safe to call more than once.
func (l *Link) Close() {
	l.once.Do(func() { close(l.closed) })
}

// Closed returns a channel that is closed once the link is closed
func (l *Link) Closed() <-chan struct{} {
	return l.closed
}

// Endpoint is one player's view of the relay: it sends on out and receives
// on in. The opponent holds the mirror endpoint.
type Endpoint struct {
	out     *Link
	in      *Link
	timeout time.Duration
}

// NewEndpoint creates an endpoint. A zero timeout waits indefinitely.
func NewEndpoint(out, in *Link, timeout time.Duration) *Endpoint {
	return &Endpoint{out: out, in: in, timeout: timeout}
}

// Pair builds two cross-wired endpoints: what a sends, b receives and vice versa
func Pair(capacity int, timeout time.Duration) (a, b *Endpoint) {
	ab := NewLink(capacity)
	ba := NewLink(capacity)
	return NewEndpoint(ab, ba, timeout), NewEndpoint(ba, ab, timeout)
}

// Send delivers m to the opponent. It fails with ErrPeerGone once either
// side has closed the link.
func (e *Endpoint) Send(ctx context.Context, m Message) error {
	select {
	case <-e.out.closed:
		return ErrPeerGone
	default:
	}

	select {
	case e.out.ch <- m:
		return nil
	case <-e.out.closed:
		return ErrPeerGone
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

// Receive blocks until the opponent sends a message. Buffered messages are
// delivered even if the opponent has already closed. It fails with
// ErrPeerGone when the opponent closed, ErrTimeout when the receive timeout
// elapses, or the context cause when ctx is cancelled.
func (e *Endpoint) Receive(ctx context.Context) (Message, error) {
	select {
	case m := <-e.in.ch:
		return m, nil
	default:
	}

	var timer <-chan time.Time
	if e.timeout > 0 {
		t := time.NewTimer(e.timeout)
		defer t.Stop()
		timer = t.C
	}

	select {
	case m := <-e.in.ch:
		return m, nil
	case <-e.in.closed:
		return e.drain(ErrPeerGone)
	case <-ctx.Done():
		return e.drain(context.Cause(ctx))
	case <-timer:
		return Message{}, ErrTimeout
	}
}

func (e *Endpoint) drain(err error) (Message, error) {
	select {
	case m := <-e.in.ch:
		return m, nil
	default:
		return Message{}, err
	}
}

// Close closes both directions so the opponent observes ErrPeerGone
func (e *Endpoint) Close() {
	e.out.Close()
	e.in.Close()
}
