package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/wricardo/mcp-training/gomokuduel/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrShuttingDown    = errors.New("server shutting down")
)

// Manager pairs incoming players and tracks live sessions
type Manager struct {
	ctx   context.Context
	opts  Options
	queue *Queue
	log   zerolog.Logger

	mu       sync.RWMutex
	sessions map[uint64]*Session
	wg       sync.WaitGroup
}

// NewManager creates a session manager. Sessions run under ctx, not under
// the request that paired them; cancelling ctx ends every running session.
func NewManager(ctx context.Context, opts Options) (*Manager, error) {
	if err := opts.Variant.Validate(); err != nil {
		return nil, err
	}
	if opts.RelayCapacity < 0 {
		return nil, fmt.Errorf("relay capacity must not be negative, got %d", opts.RelayCapacity)
	}
	if opts.ReceiveTimeout < 0 {
		return nil, fmt.Errorf("receive timeout must not be negative, got %s", opts.ReceiveTimeout)
	}

	return &Manager{
		ctx:      ctx,
		opts:     opts,
		queue:    NewQueue(),
		log:      opts.Logger,
		sessions: make(map[uint64]*Session),
	}, nil
}

// Join enqueues p. When p completes a pairing the new session is registered,
// started and returned; otherwise p is left waiting and Join returns nil.
func (m *Manager) Join(p *Player) (*Session, error) {
	if m.ctx.Err() != nil {
		return nil, ErrShuttingDown
	}

	pairing, paired := m.queue.Enqueue(p)
	if !paired {
		m.log.Info().Str("conn", p.ConnID.String()).Msg("player waiting for opponent")
		return nil, nil
	}

	s, err := New(pairing, m.opts)
	if err != nil {
		pairing.First.finish(Disconnected)
		pairing.Second.finish(Disconnected)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.wg.Add(1)
	s.Run(m.ctx, m.remove)
	return s, nil
}

// Withdraw takes a still-waiting player out of the queue
func (m *Manager) Withdraw(p *Player) bool {
	if !m.queue.Withdraw(p) {
		return false
	}
	m.log.Info().Str("conn", p.ConnID.String()).Msg("waiting player withdrew")
	return true
}

func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	delete(m.sessions, s.ID)
	m.mu.Unlock()
	m.wg.Done()
}

// Get retrieves a live session by id
func (m *Manager) Get(id uint64) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrSessionNotFound, id)
	}
	return s, nil
}

// List returns all live sessions ordered by id
func (m *Manager) List() []*Session {
	m.mu.RLock()
	result := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		result = append(result, s)
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Waiting reports whether a player is waiting for an opponent
func (m *Manager) Waiting() bool {
	return m.queue.Waiting()
}

// Allocated returns the number of sessions created since start
func (m *Manager) Allocated() uint64 {
	return m.queue.Allocated()
}

// Variant returns the board variant used for new sessions
func (m *Manager) Variant() engine.Variant {
	return m.opts.Variant
}

// Wait blocks until every started session has finished or ctx is done
func (m *Manager) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
