package service

import (
	"context"
	"fmt"

	"github.com/wricardo/mcp-training/gomokuduel/game/session"
	"github.com/wricardo/mcp-training/gomokuduel/game/wire"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	conns    ConnectionCounter
}

// NewGameService creates a new game service instance. conns may be nil when
// no transport is attached.
func NewGameService(sessions SessionManager, conns ConnectionCounter) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		conns:    conns,
	}
}

// ListSessions returns all live sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, newSessionInfo(sess, false))
	}
	return result, nil
}

// GetSession returns one live session including its board
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID uint64) (*SessionInfo, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return newSessionInfo(sess, true), nil
}

// QueueStatus reports matchmaking state
func (s *gameServiceImpl) QueueStatus(ctx context.Context) (*QueueStatus, error) {
	status := &QueueStatus{
		Waiting:           s.sessions.Waiting(),
		ActiveSessions:    s.sessions.Count(),
		SessionsAllocated: s.sessions.Allocated(),
	}
	if s.conns != nil {
		status.Connections = s.conns.Count()
	}
	return status, nil
}

// Rules describes the board variant and the client protocol
func (s *gameServiceImpl) Rules(ctx context.Context) (*RulesInfo, error) {
	kinds := wire.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}

	return &RulesInfo{
		Variant:       s.sessions.Variant(),
		MoveFormat:    "<row>,<col>",
		MaxNameLength: session.MaxNameLength,
		MessageTypes:  names,
	}, nil
}

func newSessionInfo(sess *session.Session, withBoard bool) *SessionInfo {
	players := sess.Players()
	info := &SessionInfo{
		ID:        sess.ID,
		CreatedAt: sess.CreatedAt,
		Variant:   sess.Board.Variant(),
		Moves:     sess.Board.Filled(),
		Finished:  sess.Finished(),
		Players:   make([]PlayerInfo, 0, len(players)),
	}
	for _, p := range players {
		info.Players = append(info.Players, PlayerInfo{
			ID:      p.ID(),
			Name:    p.Name(),
			ConnID:  p.ConnID.String(),
			Outcome: p.Outcome(),
		})
	}
	if withBoard {
		info.Board = sess.Board.Snapshot()
	}
	return info
}
