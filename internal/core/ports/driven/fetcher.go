package driven

import (
	"context"

	"github.com/custodia-labs/fiches/internal/core/domain"
)

// SourceFetcher retrieves the bytes stored at a location.
// Locations are URLs, local paths or gdrive://<fileID> references.
type SourceFetcher interface {
	// Fetch downloads the payload. Failures wrap domain.ErrFetchFailed.
	Fetch(ctx context.Context, location string) (*domain.Payload, error)

	// Supports reports whether this fetcher handles the location.
	Supports(location string) bool
}
