// Package session keeps one dashboard board per browser session.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MakeNewCode/project-maps-webapp/internal/dashboard"
)

// ErrNotFound is returned for an unknown or expired session id.
var ErrNotFound = errors.New("session not found")

// MaxSessions limits concurrent sessions.
const MaxSessions = 256

// DefaultTimeout is how long an untouched session is kept.
const DefaultTimeout = 30 * time.Minute

// KeepAliveWindow keeps a session alive while a map socket is attached.
const KeepAliveWindow = 5 * time.Minute

// Info describes a live session.
type Info struct {
	ID           string         `json:"id"`
	Kind         dashboard.Kind `json:"kind"`
	CreatedAt    time.Time      `json:"createdAt"`
	LastAccessed time.Time      `json:"lastAccessed"`
}

type sessionState struct {
	info  Info
	board *dashboard.Board
}

// Factory builds the board for a new session.
type Factory func(kind dashboard.Kind) *dashboard.Board

// Manager handles active dashboard sessions.
type Manager struct {
	sessions map[string]*sessionState
	mu       sync.RWMutex
	factory  Factory
	timeout  time.Duration
	now      func() time.Time
	log      *zap.Logger
}

// NewManager creates a session manager. A zero timeout uses DefaultTimeout.
func NewManager(factory Factory, timeout time.Duration, log *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[string]*sessionState),
		factory:  factory,
		timeout:  timeout,
		now:      time.Now,
		log:      log.With(zap.String("component", "session")),
	}
}

// Create starts a session holding a fresh board of kind.
func (m *Manager) Create(kind dashboard.Kind) (Info, *dashboard.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= MaxSessions {
		m.evictOldestLocked()
	}

	now := m.now()
	state := &sessionState{
		info: Info{
			ID:           uuid.New().String(),
			Kind:         kind,
			CreatedAt:    now,
			LastAccessed: now,
		},
		board: m.factory(kind),
	}
	m.sessions[state.info.ID] = state

	m.log.Debug("session created", zap.String("session", shortID(state.info.ID)), zap.String("kind", string(kind)))
	return state.info, state.board, nil
}

// Board returns the board of a session and marks it as accessed.
func (m *Manager) Board(id string) (*dashboard.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	state.info.LastAccessed = m.now()
	return state.board, nil
}

// Get returns the session metadata.
func (m *Manager) Get(id string) (Info, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return Info{}, false
	}
	return state.info, true
}

// TouchSession updates the LastAccessed timestamp for a session.
func (m *Manager) TouchSession(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return false
	}
	state.info.LastAccessed = m.now()
	return true
}

// Delete ends a session.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	m.removeLocked(id)
	return true
}

// removeLocked drops a session and closes its board so attached map sockets
// stop. It must be called with m.mu held.
func (m *Manager) removeLocked(id string) {
	if state, ok := m.sessions[id]; ok {
		delete(m.sessions, id)
		state.board.Close()
	}
}

// RefreshAll signals every live board to re-render and returns how many were
// signalled.
func (m *Manager) RefreshAll() int {
	m.mu.RLock()
	boards := make([]*dashboard.Board, 0, len(m.sessions))
	for _, state := range m.sessions {
		boards = append(boards, state.board)
	}
	m.mu.RUnlock()

	for _, b := range boards {
		b.Refresh()
	}
	return len(boards)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupOldSessions removes sessions not accessed within maxAge. Sessions
// with live map subscribers are kept while accessed within KeepAliveWindow.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cutoff := now.Add(-maxAge)
	keepAliveCutoff := now.Add(-KeepAliveWindow)

	removed := 0
	for id, state := range m.sessions {
		if state.board.Subscribers() > 0 && state.info.LastAccessed.After(keepAliveCutoff) {
			continue
		}
		if state.info.LastAccessed.Before(cutoff) {
			m.removeLocked(id)
			removed++
			m.log.Info("cleaned up aged session",
				zap.String("session", shortID(id)),
				zap.Duration("idle", now.Sub(state.info.LastAccessed).Round(time.Second)))
		}
	}
	return removed
}

// Run removes expired sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.CleanupOldSessions(m.timeout)
		}
	}
}

// evictOldestLocked must be called with m.mu held.
func (m *Manager) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, state := range m.sessions {
		if oldestID == "" || state.info.LastAccessed.Before(oldest) {
			oldestID, oldest = id, state.info.LastAccessed
		}
	}
	if oldestID != "" {
		m.removeLocked(oldestID)
		m.log.Info("evicted session at capacity", zap.String("session", shortID(oldestID)))
	}
}

// shortID safely truncates an ID for logging.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
