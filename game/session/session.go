package session

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wricardo/mcp-training/gomokuduel/game/engine"
	"github.com/wricardo/mcp-training/gomokuduel/game/relay"
)

// notifyTimeout bounds best-effort notifications sent while terminating
const notifyTimeout = 5 * time.Second

// Options configures sessions created by a Manager
type Options struct {
	Variant        engine.Variant
	RelayCapacity  int
	ReceiveTimeout time.Duration
	Logger         zerolog.Logger
}

// Session is a paired game: two players, one board and the relay between them
type Session struct {
	ID        uint64
	CreatedAt time.Time
	Board     *engine.Board

	players [2]*Player
	log     zerolog.Logger
	done    chan struct{}
}

// New builds a session from a pairing and cross-wires the players' relay
// endpoints. Nothing runs until Run is called.
func New(p Pairing, opts Options) (*Session, error) {
	if p.First == nil || p.Second == nil {
		return nil, fmt.Errorf("session %d: pairing needs two players", p.SessionID)
	}

	board, err := engine.NewBoard(opts.Variant)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	first, second := relay.Pair(opts.RelayCapacity, opts.ReceiveTimeout)
	p.First.attach(first)
	p.Second.attach(second)

	return &Session{
		ID:        p.SessionID,
		CreatedAt: time.Now(),
		Board:     board,
		players:   [2]*Player{p.First, p.Second},
		log:       opts.Logger.With().Uint64("session", p.SessionID).Logger(),
		done:      make(chan struct{}),
	}, nil
}

// Players returns player one and player two
func (s *Session) Players() [2]*Player {
	return s.players
}

// Done is closed once both player tasks have finished
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Finished reports whether both player tasks have finished
func (s *Session) Finished() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

type playerResult struct {
	index   int
	outcome Outcome
}

// Run starts both player tasks and a coordinator, then returns. The
// coordinator cancels the surviving player with relay.ErrPeerGone when the
// other ends abnormally, and calls onFinish after both tasks are done.
func (s *Session) Run(ctx context.Context, onFinish func(*Session)) {
	results := make(chan playerResult, len(s.players))
	var cancels [2]context.CancelCauseFunc

	for i, p := range s.players {
		pctx, cancel := context.WithCancelCause(ctx)
		cancels[i] = cancel

		go func() {
			select {
			case <-p.conn.Done():
				cancel(ErrDisconnected)
			case <-pctx.Done():
			}
		}()

		go func() {
			results <- playerResult{index: i, outcome: s.play(pctx, p)}
		}()
	}

	s.log.Info().
		Str("player1", s.players[0].ConnID.String()).
		Str("player2", s.players[1].ConnID.String()).
		Str("variant", s.Board.Variant().String()).
		Msg("session started")

	go func() {
		for range s.players {
			r := <-results
			if r.outcome.Abnormal() {
				cancels[1-r.index](relay.ErrPeerGone)
			}
		}
		for _, cancel := range cancels {
			cancel(nil)
		}

		s.log.Info().
			Str("player1", s.players[0].Outcome().String()).
			Str("player2", s.players[1].Outcome().String()).
			Msg("session finished")

		close(s.done)
		if onFinish != nil {
			onFinish(s)
		}
	}()
}

// play runs the protocol for one player and records its outcome
func (s *Session) play(ctx context.Context, p *Player) Outcome {
	ep := p.endpoint()
	defer ep.Close()

	pr := &protocol{
		board:  s.Board,
		player: p,
		relay:  ep,
		log: s.log.With().
			Int("player", p.ID()).
			Str("conn", p.ConnID.String()).
			Logger(),
	}

	outcome := pr.run(ctx)
	p.finish(outcome)
	return outcome
}
