package service

import (
	"time"

	"github.com/wricardo/mcp-training/gomokuduel/game/engine"
	"github.com/wricardo/mcp-training/gomokuduel/game/session"
)

// SessionInfo provides information about a live game session
type SessionInfo struct {
	ID        uint64          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Variant   engine.Variant  `json:"variant"`
	Moves     int             `json:"moves"`
	Finished  bool            `json:"finished"`
	Players   []PlayerInfo    `json:"players"`
	Board     [][]engine.Cell `json:"board,omitempty"`
}

// PlayerInfo describes one side of a session
type PlayerInfo struct {
	ID      int             `json:"id"`
	Name    string          `json:"name"`
	ConnID  string          `json:"conn_id"`
	Outcome session.Outcome `json:"outcome"`
}

// QueueStatus describes the matchmaking queue
type QueueStatus struct {
	Waiting           bool   `json:"waiting"`
	ActiveSessions    int    `json:"active_sessions"`
	SessionsAllocated uint64 `json:"sessions_allocated"`
	Connections       int    `json:"connections"`
}

// RulesInfo describes the game variant and client protocol
type RulesInfo struct {
	Variant       engine.Variant `json:"variant"`
	MoveFormat    string         `json:"move_format"`
	MaxNameLength int            `json:"max_name_length"`
	MessageTypes  []string       `json:"message_types"`
}
