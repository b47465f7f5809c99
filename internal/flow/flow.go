// Package flow orchestrates intake dialogues: it owns the session registry,
// wires classification and summary into the confirmation step, and persists a
// case record when a machine signals completion.
package flow

import (
	"context"
	"log/slog"
	"time"

	"github.com/avoronin/intakebot/internal/assist"
	"github.com/avoronin/intakebot/internal/dialog"
	"github.com/avoronin/intakebot/internal/domain"
	"github.com/avoronin/intakebot/internal/store"
)

// Limits carries the dialogue limits applied to every new machine.
type Limits struct {
	MaxTotalResponses int
	MaxStageAttempts  int
}

// Result is the outcome of one orchestrated turn.
type Result struct {
	ReplyText string       `json:"reply"`
	Stage     domain.Stage `json:"-"`
	Saved     bool         `json:"saved"`
}

// Flow coordinates machines, the assistant, and the case store.
type Flow struct {
	assistant assist.Assistant
	repo      store.Repository
	sessions  *SessionManager
	limits    Limits
}

// New creates the orchestrator. The assistant must not be nil (use
// assist.WithFallback(nil, nil) for pure rule behavior).
func New(assistant assist.Assistant, repo store.Repository, sessionTTL time.Duration, limits Limits) *Flow {
	if limits.MaxTotalResponses <= 0 {
		limits.MaxTotalResponses = dialog.DefaultMaxTotalResponses
	}
	if limits.MaxStageAttempts <= 0 {
		limits.MaxStageAttempts = dialog.DefaultMaxStageAttempts
	}
	return &Flow{
		assistant: assistant,
		repo:      repo,
		sessions:  NewSessionManager(sessionTTL),
		limits:    limits,
	}
}

// Sessions exposes the session registry for the TTL worker.
func (f *Flow) Sessions() *SessionManager {
	return f.sessions
}

// StartSession creates (or replaces) the machine for the key and opens the
// dialogue.
func (f *Flow) StartSession(ctx context.Context, key string) Result {
	entry := f.sessions.replace(key, f.newMachine(key))
	entry.mu.Lock()
	defer entry.mu.Unlock()

	resp := entry.machine.Start()
	slog.Info("Session started", "chat_id", key)
	return Result{ReplyText: resp.ReplyText, Stage: resp.Stage}
}

// ProcessMessage feeds one user message into the session's machine. When no
// session exists the call behaves like StartSession and the provided text is
// not consumed; the caller sees the greeting.
func (f *Flow) ProcessMessage(ctx context.Context, key, text string) Result {
	entry, created := f.sessions.getOrCreate(key, func() *dialog.Machine {
		return f.newMachine(key)
	})
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if created {
		resp := entry.machine.Start()
		slog.Info("Session restarted on message without prior session", "chat_id", key)
		return Result{ReplyText: resp.ReplyText, Stage: resp.Stage}
	}

	resp := entry.machine.HandleReply(text, f.summarizer(ctx))

	saved := false
	if resp.ShouldSave {
		if id, err := f.persist(ctx, resp.Session); err != nil {
			slog.Error("Failed to save case", "chat_id", key, "error", err)
		} else {
			saved = true
			slog.Info("Case saved", "chat_id", key, "case_id", id)
		}
	}

	return Result{ReplyText: resp.ReplyText, Stage: resp.Stage, Saved: saved}
}

func (f *Flow) newMachine(key string) *dialog.Machine {
	return dialog.NewMachineWithLimits(key, f.limits.MaxTotalResponses, f.limits.MaxStageAttempts)
}

// summarizer derives a classification from the collected description, attaches
// it and the generated summary to the session, and returns the summary text
// for the confirmation prompt.
func (f *Flow) summarizer(ctx context.Context) dialog.Summarizer {
	return func(s *domain.Session) string {
		classification, err := f.assistant.Classify(ctx, s.DescriptionBasis())
		if err != nil {
			slog.Warn("Classification failed", "chat_id", s.ChatID, "error", err)
		} else {
			s.Classification = &classification
		}

		summary, err := f.assistant.Summarize(ctx, s.IntakeData())
		if err != nil {
			slog.Warn("Summary generation failed", "chat_id", s.ChatID, "error", err)
			return ""
		}
		s.Summary = summary
		return summary
	}
}

// persist writes the case record, re-deriving the classification when the
// confirmation step never attached one (e.g. the dialogue closed early).
func (f *Flow) persist(ctx context.Context, s *domain.Session) (int64, error) {
	if s.Classification == nil {
		classification, err := f.assistant.Classify(ctx, s.DescriptionBasis())
		if err != nil {
			slog.Warn("Classification at persistence failed", "chat_id", s.ChatID, "error", err)
		} else {
			s.Classification = &classification
		}
	}
	return f.repo.SaveCase(ctx, s.ChatID, s.IntakeData(), s.Summary)
}
