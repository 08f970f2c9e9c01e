package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/fiches/internal/core/domain"
)

// ResultStore holds the latest batch result of each session.
type ResultStore interface {
	// Save replaces the session's result.
	Save(ctx context.Context, sessionID string, result *domain.BatchResult) error

	// Get returns the session's result or domain.ErrNotFound.
	Get(ctx context.Context, sessionID string) (*domain.BatchResult, error)

	// Delete drops the session's result.
	Delete(ctx context.Context, sessionID string) error

	// Expire drops results saved before cutoff and returns how many were dropped.
	Expire(ctx context.Context, cutoff time.Time) (int, error)
}
