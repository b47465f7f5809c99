package flow

import (
	"testing"
	"time"

	"github.com/avoronin/intakebot/internal/dialog"
)

func TestEvictIdleRemovesOnlyStaleSessions(t *testing.T) {
	m := NewSessionManager(time.Minute)

	stale := m.replace("stale", dialog.NewMachine("stale"))
	stale.lastActive = time.Now().Add(-2 * time.Minute)
	m.replace("fresh", dialog.NewMachine("fresh"))

	evicted := m.EvictIdle(time.Now())
	if evicted != 1 {
		t.Fatalf("Expected 1 eviction, got %d", evicted)
	}
	if m.Len() != 1 {
		t.Errorf("Expected 1 remaining session, got %d", m.Len())
	}
	if _, created := m.getOrCreate("fresh", func() *dialog.Machine { return dialog.NewMachine("fresh") }); created {
		t.Error("Fresh session should have survived the sweep")
	}
}

func TestEvictIdleSkipsSessionsWithTurnInFlight(t *testing.T) {
	m := NewSessionManager(time.Minute)

	busy := m.replace("busy", dialog.NewMachine("busy"))
	busy.lastActive = time.Now().Add(-2 * time.Minute)
	busy.mu.Lock()
	defer busy.mu.Unlock()

	if evicted := m.EvictIdle(time.Now()); evicted != 0 {
		t.Errorf("Locked session must not be evicted, got %d evictions", evicted)
	}
	if m.Len() != 1 {
		t.Errorf("Expected the busy session to remain, got %d", m.Len())
	}
}

func TestGetOrCreateTouchesActivity(t *testing.T) {
	m := NewSessionManager(time.Minute)

	entry := m.replace("c1", dialog.NewMachine("c1"))
	entry.lastActive = time.Now().Add(-2 * time.Minute)

	m.getOrCreate("c1", func() *dialog.Machine { return dialog.NewMachine("c1") })

	if evicted := m.EvictIdle(time.Now()); evicted != 0 {
		t.Errorf("Recently touched session must not be evicted, got %d evictions", evicted)
	}
}
