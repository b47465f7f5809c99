package flow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/avoronin/intakebot/internal/dialog"
)

const sweepInterval = 5 * time.Minute

// session pairs a dialogue machine with its activity timestamp and a lock
// that serializes turns for one chat.
type session struct {
	mu         sync.Mutex
	machine    *dialog.Machine
	lastActive time.Time
}

// SessionManager holds the in-flight dialogue machines keyed by chat id.
// Idle sessions are evicted by the TTL sweeper so the map stays bounded.
type SessionManager struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*session
}

// NewSessionManager creates a registry whose sessions expire after ttl of
// inactivity.
func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		ttl:      ttl,
		sessions: make(map[string]*session),
	}
}

// replace installs a fresh machine for the key, discarding any previous one.
func (m *SessionManager) replace(key string, machine *dialog.Machine) *session {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := &session{machine: machine, lastActive: time.Now()}
	m.sessions[key] = entry
	return entry
}

// getOrCreate returns the session for the key, creating one from newMachine
// when absent. The second return value reports whether a session was created.
func (m *SessionManager) getOrCreate(key string, newMachine func() *dialog.Machine) (*session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.sessions[key]; ok {
		entry.lastActive = time.Now()
		return entry, false
	}

	entry := &session{machine: newMachine(), lastActive: time.Now()}
	m.sessions[key] = entry
	return entry, true
}

// Len returns the number of tracked sessions.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// EvictIdle removes sessions whose last activity is older than the TTL.
// Sessions with a turn in flight are skipped and picked up on a later sweep.
func (m *SessionManager) EvictIdle(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for key, entry := range m.sessions {
		if now.Sub(entry.lastActive) < m.ttl {
			continue
		}
		if !entry.mu.TryLock() {
			continue
		}
		entry.mu.Unlock()
		delete(m.sessions, key)
		evicted++
	}
	return evicted
}

// StartTTLWorker runs a background goroutine that periodically sweeps for
// idle sessions until the context is cancelled.
func (m *SessionManager) StartTTLWorker(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	go func() {
		defer ticker.Stop()
		slog.Info("Session TTL worker started", "interval", sweepInterval, "ttl", m.ttl)

		for {
			select {
			case <-ticker.C:
				if evicted := m.EvictIdle(time.Now()); evicted > 0 {
					slog.Info("Evicted idle sessions", "count", evicted)
				}
			case <-ctx.Done():
				slog.Info("Session TTL worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}
