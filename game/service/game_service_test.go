package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wricardo/mcp-training/gomokuduel/game/engine"
	"github.com/wricardo/mcp-training/gomokuduel/game/service"
	"github.com/wricardo/mcp-training/gomokuduel/game/session"
)

// idleConn is a session.Transport that never delivers a frame
type idleConn struct {
	done chan struct{}
}

func (c *idleConn) Receive(ctx context.Context) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (c *idleConn) Send(ctx context.Context, text string) error { return nil }

func (c *idleConn) Done() <-chan struct{} { return c.done }

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[uint64]*session.Session
	waiting  bool
	variant  engine.Variant
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[uint64]*session.Session),
		variant:  engine.DefaultVariant(),
	}
}

func (m *MockSessionManager) add(t *testing.T, id uint64) *session.Session {
	t.Helper()
	p1 := session.NewPlayer(uuid.New(), &idleConn{done: make(chan struct{})})
	p2 := session.NewPlayer(uuid.New(), &idleConn{done: make(chan struct{})})
	s, err := session.New(session.Pairing{SessionID: id, First: p1, Second: p2}, session.Options{
		Variant: m.variant,
		Logger:  zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	m.sessions[id] = s
	return s
}

func (m *MockSessionManager) Get(id uint64) (*session.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", session.ErrSessionNotFound, id)
	}
	return s, nil
}

func (m *MockSessionManager) List() []*session.Session {
	result := make([]*session.Session, 0, len(m.sessions))
	for id := uint64(1); id <= uint64(len(m.sessions)); id++ {
		if s, ok := m.sessions[id]; ok {
			result = append(result, s)
		}
	}
	return result
}

func (m *MockSessionManager) Count() int              { return len(m.sessions) }
func (m *MockSessionManager) Waiting() bool           { return m.waiting }
func (m *MockSessionManager) Allocated() uint64       { return uint64(len(m.sessions)) }
func (m *MockSessionManager) Variant() engine.Variant { return m.variant }

type fixedCounter int

func (c fixedCounter) Count() int { return int(c) }

func TestListSessions(t *testing.T) {
	mgr := NewMockSessionManager()
	mgr.add(t, 1)
	mgr.add(t, 2)
	svc := service.NewGameService(mgr, nil)

	sessions, err := svc.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(sessions))
	}
	for i, info := range sessions {
		if info.ID != uint64(i+1) {
			t.Errorf("Expected session %d, got %d", i+1, info.ID)
		}
		if len(info.Players) != 2 {
			t.Errorf("Expected 2 players, got %d", len(info.Players))
		}
		if info.Board != nil {
			t.Error("List must not include board snapshots")
		}
	}
}

func TestGetSession(t *testing.T) {
	mgr := NewMockSessionManager()
	s := mgr.add(t, 1)
	if _, err := s.Board.Claim(engine.Position{Row: 7, Col: 7}, engine.PlayerOne); err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	svc := service.NewGameService(mgr, nil)

	t.Run("existing session", func(t *testing.T) {
		info, err := svc.GetSession(context.Background(), 1)
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if info.Moves != 1 {
			t.Errorf("Expected 1 move, got %d", info.Moves)
		}
		if len(info.Board) != engine.DefaultHeight || info.Board[7][7] != engine.PlayerOne {
			t.Error("Expected board snapshot with the claimed cell")
		}
		if info.Players[0].Outcome != session.Pending {
			t.Errorf("Expected pending outcome, got %s", info.Players[0].Outcome)
		}
		if info.Finished {
			t.Error("Session that never ran must not be finished")
		}
	})

	t.Run("missing session", func(t *testing.T) {
		_, err := svc.GetSession(context.Background(), 99)
		if !errors.Is(err, session.ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestQueueStatus(t *testing.T) {
	mgr := NewMockSessionManager()
	mgr.add(t, 1)
	mgr.waiting = true

	tests := []struct {
		name  string
		conns service.ConnectionCounter
		want  int
	}{
		{"without hub", nil, 0},
		{"with hub", fixedCounter(3), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := service.NewGameService(mgr, tt.conns).QueueStatus(context.Background())
			if err != nil {
				t.Fatalf("QueueStatus failed: %v", err)
			}
			if !status.Waiting || status.ActiveSessions != 1 || status.SessionsAllocated != 1 {
				t.Errorf("Unexpected status %+v", status)
			}
			if status.Connections != tt.want {
				t.Errorf("Expected %d connections, got %d", tt.want, status.Connections)
			}
		})
	}
}

func TestRules(t *testing.T) {
	svc := service.NewGameService(NewMockSessionManager(), nil)

	rules, err := svc.Rules(context.Background())
	if err != nil {
		t.Fatalf("Rules failed: %v", err)
	}
	if rules.Variant != engine.DefaultVariant() {
		t.Errorf("Expected default variant, got %+v", rules.Variant)
	}
	if len(rules.MessageTypes) != 8 || rules.MessageTypes[0] != "start" {
		t.Errorf("Unexpected message types %v", rules.MessageTypes)
	}
	if rules.MaxNameLength != session.MaxNameLength {
		t.Errorf("Expected max name length %d, got %d", session.MaxNameLength, rules.MaxNameLength)
	}
}
