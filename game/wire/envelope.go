package wire

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wricardo/mcp-training/gomokuduel/game/engine"
)

var ErrMalformedMove = errors.New("malformed move")

// Envelope is the only frame shape the server sends to clients
type Envelope struct {
	X    uint   `json:"x"`
	Y    uint   `json:"y"`
	Name string `json:"name"`
	Turn int    `json:"turn"`
	Kind Kind   `json:"msg_type"`
}

// Start tells a player who the opponent is and which turn they play
func Start(opponent string, turn int) Envelope {
	return Envelope{Name: opponent, Turn: turn, Kind: KindStart}
}

// Moving relays the opponent's move
func Moving(p engine.Position) Envelope {
	return Envelope{X: p.Row, Y: p.Col, Kind: KindMoving}
}

// Win acknowledges the mover's winning move
func Win(p engine.Position) Envelope {
	return Envelope{X: p.Row, Y: p.Col, Kind: KindWin}
}

// Fail relays the opponent's winning move to the loser
func Fail(p engine.Position) Envelope {
	return Envelope{X: p.Row, Y: p.Col, Kind: KindFail}
}

// Ok acknowledges an accepted, non-final move
func Ok(p engine.Position) Envelope {
	return Envelope{X: p.Row, Y: p.Col, Kind: KindOk}
}

// Error rejects a frame. Name carries a short human-readable reason.
func Error(reason string) Envelope {
	return Envelope{Name: reason, Kind: KindError}
}

// Draw reports a full board without a winner
func Draw(p engine.Position) Envelope {
	return Envelope{X: p.Row, Y: p.Col, Kind: KindDraw}
}

// OpponentLeft reports that the opponent disconnected or stopped responding
func OpponentLeft() Envelope {
	return Envelope{Kind: KindOpponentLeft}
}

// Position returns the envelope coordinates as a board position
func (e Envelope) Position() engine.Position {
	return engine.Position{Row: e.X, Col: e.Y}
}

// Encode renders the envelope as a JSON text frame
func (e Envelope) Encode() (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("failed to encode envelope: %w", err)
	}
	return string(data), nil
}

// Decode parses a JSON text frame into an envelope
func Decode(text string) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal([]byte(text), &e); err != nil {
		return Envelope{}, fmt.Errorf("failed to decode envelope: %w", err)
	}
	return e, nil
}

// ParseMove parses a client move frame of the form "<row>,<col>"
func ParseMove(text string) (engine.Position, error) {
	fields := strings.Split(text, ",")
	if len(fields) != 2 {
		return engine.Position{}, fmt.Errorf("%w: expected \"<row>,<col>\", got %q", ErrMalformedMove, text)
	}

	row, err := strconv.ParseUint(strings.TrimSpace(fields[0]), 10, 0)
	if err != nil {
		return engine.Position{}, fmt.Errorf("%w: bad row %q", ErrMalformedMove, fields[0])
	}
	col, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 0)
	if err != nil {
		return engine.Position{}, fmt.Errorf("%w: bad column %q", ErrMalformedMove, fields[1])
	}

	return engine.Position{Row: uint(row), Col: uint(col)}, nil
}

// FormatMove renders p as a client move frame
func FormatMove(p engine.Position) string {
	return strconv.FormatUint(uint64(p.Row), 10) + "," + strconv.FormatUint(uint64(p.Col), 10)
}
