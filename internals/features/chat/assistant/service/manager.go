package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("chat session not found")

// Manager owns every live Session. Sessions idle for longer than TTL are dropped by Sweep.
type Manager struct {
	streamer     Streamer
	schools      SchoolSource
	municipality string
	log          *zap.Logger
	now          func() time.Time
	TTL          time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

type ManagerOption func(*Manager)

func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

func WithManagerLogger(l *zap.Logger) ManagerOption {
	return func(m *Manager) { m.log = l }
}

// NewManager builds a manager. A nil streamer makes every session answer with the fixed
// unavailable text.
func NewManager(streamer Streamer, schools SchoolSource, municipality string, opts ...ManagerOption) *Manager {
	m := &Manager{
		streamer:     streamer,
		schools:      schools,
		municipality: municipality,
		log:          zap.NewNop(),
		now:          time.Now,
		TTL:          2 * time.Hour,
		sessions:     map[string]*Session{},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Available reports whether an upstream is configured.
func (m *Manager) Available() bool { return m.streamer != nil }

func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString(), m.streamer, m.schools, m.municipality, m.log, m.now)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) Reset(ctx context.Context, id string) (*Session, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	s.Reset(ctx)
	return s, nil
}

func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops idle sessions and returns how many were removed.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.TTL)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.UpdatedAt().Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := m.Sweep(); n > 0 {
				m.log.Debug("chat sessions swept", zap.Int("removed", n))
			}
		}
	}
}
