package service

import (
	"context"

	"github.com/wricardo/mcp-training/gomokuduel/game/engine"
	"github.com/wricardo/mcp-training/gomokuduel/game/session"
)

// GameService defines the read-side operations exposed over REST and MCP
type GameService interface {
	// Sessions
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	GetSession(ctx context.Context, sessionID uint64) (*SessionInfo, error)

	// Matchmaking
	QueueStatus(ctx context.Context) (*QueueStatus, error)

	// Rules
	Rules(ctx context.Context) (*RulesInfo, error)
}

// SessionManager defines the session registry operations the service reads
type SessionManager interface {
	Get(id uint64) (*session.Session, error)
	List() []*session.Session
	Count() int
	Waiting() bool
	Allocated() uint64
	Variant() engine.Variant
}

// ConnectionCounter reports the number of open client connections
type ConnectionCounter interface {
	Count() int
}
