package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/wricardo/mcp-training/gomokuduel/game/engine"
	"github.com/wricardo/mcp-training/gomokuduel/game/relay"
	"github.com/wricardo/mcp-training/gomokuduel/game/wire"
)

// MaxNameLength is the longest display name accepted, in runes
const MaxNameLength = 32

var ErrInvalidName = errors.New("invalid name")

type state int

const (
	stateAwaitName state = iota
	stateExchangeName
	stateSendStart
	stateOwnMove
	stateOpponentMove
	stateTerminated
)

func (s state) String() string {
	switch s {
	case stateAwaitName:
		return "await_name"
	case stateExchangeName:
		return "exchange_name"
	case stateSendStart:
		return "send_start"
	case stateOwnMove:
		return "own_move"
	case stateOpponentMove:
		return "opponent_move"
	case stateTerminated:
		return "terminated"
	}
	return "unknown"
}

// protocol drives one player's connection from the name handshake to a
// terminal outcome
type protocol struct {
	board    *engine.Board
	player   *Player
	relay    *relay.Endpoint
	log      zerolog.Logger
	opponent string
	outcome  Outcome
}

// ValidateName trims a raw handshake frame and checks it is a usable display name
func ValidateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%w: name must not be empty", ErrInvalidName)
	}
	if n := utf8.RuneCountInString(name); n > MaxNameLength {
		return "", fmt.Errorf("%w: name is %d characters, limit is %d", ErrInvalidName, n, MaxNameLength)
	}
	return name, nil
}

func (pr *protocol) run(ctx context.Context) Outcome {
	st := stateAwaitName
	for st != stateTerminated {
		pr.log.Debug().Stringer("state", st).Msg("protocol step")

		switch st {
		case stateAwaitName:
			st = pr.awaitName(ctx)
		case stateExchangeName:
			st = pr.exchangeName(ctx)
		case stateSendStart:
			st = pr.sendStart(ctx)
		case stateOwnMove:
			st = pr.ownMove(ctx)
		case stateOpponentMove:
			st = pr.opponentMove(ctx)
		}
	}

	pr.log.Info().Str("outcome", pr.outcome.String()).Msg("player finished")
	return pr.outcome
}

func (pr *protocol) awaitName(ctx context.Context) state {
	text, err := pr.player.conn.Receive(ctx)
	if err != nil {
		return pr.fail(ctx, err)
	}

	name, err := ValidateName(text)
	if err != nil {
		if err := pr.reply(ctx, wire.Error(err.Error())); err != nil {
			return pr.fail(ctx, err)
		}
		return stateAwaitName
	}

	pr.player.setName(name)
	if err := pr.relay.Send(ctx, relay.NameMessage(name)); err != nil {
		return pr.fail(ctx, err)
	}
	return stateExchangeName
}

func (pr *protocol) exchangeName(ctx context.Context) state {
	m, err := pr.relay.Receive(ctx)
	if err != nil {
		return pr.fail(ctx, err)
	}
	if !m.IsHandshake() {
		return pr.violation(ctx, "expected opponent name")
	}

	pr.opponent = m.Name
	return stateSendStart
}

func (pr *protocol) sendStart(ctx context.Context) state {
	id := pr.player.ID()
	if err := pr.reply(ctx, wire.Start(pr.opponent, id)); err != nil {
		return pr.fail(ctx, err)
	}

	pr.log.Info().Str("name", pr.player.Name()).Str("opponent", pr.opponent).Msg("game started")

	if id == 1 {
		return stateOwnMove
	}
	return stateOpponentMove
}

func (pr *protocol) ownMove(ctx context.Context) state {
	text, err := pr.player.conn.Receive(ctx)
	if err != nil {
		return pr.fail(ctx, err)
	}

	pos, err := wire.ParseMove(text)
	if err != nil {
		return pr.reject(ctx, err)
	}

	res, err := pr.board.Claim(pos, engine.Cell(pr.player.ID()))
	if err != nil {
		return pr.reject(ctx, err)
	}

	draw := !res.Win && res.Full
	env := wire.Ok(pos)
	switch {
	case res.Win:
		env = wire.Win(pos)
	case draw:
		env = wire.Draw(pos)
	}
	if err := pr.reply(ctx, env); err != nil {
		return pr.fail(ctx, err)
	}

	if err := pr.relay.Send(ctx, relay.MoveMessage(pos, res.Win, draw)); err != nil {
		if res.Win || draw {
			pr.log.Debug().Err(err).Msg("final move not relayed")
			return pr.decided(res.Win)
		}
		return pr.fail(ctx, err)
	}

	if res.Win || draw {
		return pr.decided(res.Win)
	}
	return stateOpponentMove
}

func (pr *protocol) opponentMove(ctx context.Context) state {
	m, err := pr.relay.Receive(ctx)
	if err != nil {
		return pr.fail(ctx, err)
	}
	if m.IsHandshake() {
		return pr.violation(ctx, "expected opponent move")
	}

	switch {
	case m.Win:
		if err := pr.reply(ctx, wire.Fail(m.Pos)); err != nil {
			return pr.fail(ctx, err)
		}
		return pr.terminate(Lost)
	case m.Draw:
		if err := pr.reply(ctx, wire.Draw(m.Pos)); err != nil {
			return pr.fail(ctx, err)
		}
		return pr.terminate(Drawn)
	}

	if err := pr.reply(ctx, wire.Moving(m.Pos)); err != nil {
		return pr.fail(ctx, err)
	}
	return stateOwnMove
}

// reject answers an unusable move with an error frame without consuming the turn
func (pr *protocol) reject(ctx context.Context, cause error) state {
	pr.log.Debug().Err(cause).Msg("move rejected")
	if err := pr.reply(ctx, wire.Error(cause.Error())); err != nil {
		return pr.fail(ctx, err)
	}
	return stateOwnMove
}

func (pr *protocol) reply(ctx context.Context, env wire.Envelope) error {
	text, err := env.Encode()
	if err != nil {
		return err
	}
	return pr.player.conn.Send(ctx, text)
}

// notify sends a best-effort frame that must go out even if ctx is done
func (pr *protocol) notify(ctx context.Context, env wire.Envelope) {
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := pr.reply(nctx, env); err != nil {
		pr.log.Debug().Err(err).Str("msg_type", env.Kind.String()).Msg("notification not delivered")
	}
}

func (pr *protocol) decided(win bool) state {
	if win {
		return pr.terminate(Won)
	}
	return pr.terminate(Drawn)
}

// fail maps a transport or relay error to a terminal outcome, telling the
// client when it was the opponent that went away
func (pr *protocol) fail(ctx context.Context, err error) state {
	outcome := classify(ctx, err)
	switch outcome {
	case PeerGone, TimedOut:
		pr.log.Info().Err(err).Msg("opponent left")
		pr.notify(ctx, wire.OpponentLeft())
	default:
		pr.log.Debug().Err(err).Msg("connection lost")
	}
	return pr.terminate(outcome)
}

func (pr *protocol) violation(ctx context.Context, reason string) state {
	pr.log.Warn().Str("reason", reason).Msg("protocol violation")
	pr.notify(ctx, wire.Error(reason))
	return pr.terminate(ProtocolViolation)
}

func (pr *protocol) terminate(o Outcome) state {
	pr.outcome = o
	return stateTerminated
}

func classify(ctx context.Context, err error) Outcome {
	if ctx.Err() != nil {
		err = context.Cause(ctx)
	}
	switch {
	case errors.Is(err, relay.ErrPeerGone):
		return PeerGone
	case errors.Is(err, relay.ErrTimeout):
		return TimedOut
	default:
		return Disconnected
	}
}
