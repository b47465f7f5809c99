package assist

import (
	"context"
	"log/slog"
	"strings"

	"github.com/avoronin/intakebot/internal/domain"
)

// fallbackAssistant tries a remote assistant and silently degrades to the
// deterministic one on any failure. The remote may be nil.
type fallbackAssistant struct {
	remote Assistant
	local  *Rules
}

// WithFallback wraps a remote assistant so that every failure degrades to the
// rule/template implementation. A nil remote yields pure rule behavior.
func WithFallback(remote Assistant, local *Rules) Assistant {
	if local == nil {
		local = NewRules()
	}
	return &fallbackAssistant{remote: remote, local: local}
}

func (f *fallbackAssistant) Classify(ctx context.Context, description string) (domain.Classification, error) {
	// Empty input never reaches the remote; rules answer other/normal.
	if f.remote == nil || strings.TrimSpace(description) == "" {
		return f.local.Classify(ctx, description)
	}

	classification, err := f.remote.Classify(ctx, description)
	if err != nil {
		slog.Warn("Remote classification failed, falling back to rules", "error", err)
		return f.local.Classify(ctx, description)
	}
	return classification, nil
}

func (f *fallbackAssistant) Summarize(ctx context.Context, data domain.IntakeData) (string, error) {
	template, _ := f.local.Summarize(ctx, data)
	if f.remote == nil {
		return template, nil
	}

	summary, err := f.remote.Summarize(ctx, data)
	if err != nil {
		slog.Warn("Remote summary failed, falling back to template", "error", err)
		return template, nil
	}
	return summary, nil
}
