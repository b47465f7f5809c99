// Package assist implements case classification and summary generation.
// A deterministic rule/template implementation always works; an OpenAI-backed
// implementation can be layered on top and degrades to the rules on any
// failure, so a turn never breaks because the model is unavailable.
package assist

import (
	"context"

	"github.com/avoronin/intakebot/internal/domain"
)

// Assistant classifies a case description and summarizes collected intake
// data. Implementations must never panic; remote implementations report
// failures as errors and leave fallback to the caller.
type Assistant interface {
	// Classify maps a free-text description to a (debt type, urgency) pair.
	Classify(ctx context.Context, description string) (domain.Classification, error)

	// Summarize builds a short synopsis of the collected intake data.
	Summarize(ctx context.Context, data domain.IntakeData) (string, error)
}
