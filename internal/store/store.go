// Package store provides persistence for confirmed intake cases.
package store

import (
	"context"

	"github.com/avoronin/intakebot/internal/domain"
)

// Repository is the append-only cases store. Records are inserted once per
// completed session and never updated or deleted by this system.
type Repository interface {
	// SaveCase inserts one case record built from the collected intake data
	// and the generated summary, returning the new record id.
	SaveCase(ctx context.Context, chatID string, data domain.IntakeData, summary string) (int64, error)

	// CountCases returns the total number of stored cases.
	CountCases(ctx context.Context) (int64, error)

	// ListRecentCases returns up to limit cases, newest first.
	ListRecentCases(ctx context.Context, limit int) ([]*domain.CaseRecord, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
