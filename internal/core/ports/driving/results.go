package driving

import (
	"context"

	"github.com/custodia-labs/fiches/internal/core/domain"
)

// ResultService exposes batch results to the driving adapters.
type ResultService interface {
	// Save stores a result for a session, replacing any previous one.
	Save(ctx context.Context, sessionID string, result *domain.BatchResult) error

	// Get returns the session's result.
	Get(ctx context.Context, sessionID string) (*domain.BatchResult, error)

	// Document returns one document of the session's result.
	Document(ctx context.Context, sessionID, name string) (domain.NamedBuffer, error)

	// Archive returns the archive of the session's result.
	Archive(ctx context.Context, sessionID string) (domain.NamedBuffer, error)

	// Package builds the archive of a result without storing it.
	Package(result *domain.BatchResult) (domain.NamedBuffer, error)

	// Clear drops the session's result.
	Clear(ctx context.Context, sessionID string) error

	// Expire drops results older than the configured TTL.
	Expire(ctx context.Context) (int, error)
}
