package driving

import (
	"context"

	"github.com/custodia-labs/fiches/internal/core/domain"
)

// ProgressReporter receives row progress during a batch.
// Implementations must be safe for concurrent use.
type ProgressReporter interface {
	// RowDone is called once per processed row, successful or not.
	RowDone(done, total int, name string, err error)
}

// BatchRequest describes one batch run.
type BatchRequest struct {
	// Profile is the fully resolved profile to run.
	Profile domain.Profile

	// Policy overrides the configured error policy when non-empty.
	Policy domain.ErrorPolicy

	// Concurrency overrides the configured row concurrency when positive.
	Concurrency int

	// Progress receives per-row updates. May be nil.
	Progress ProgressReporter
}

// BatchService runs the spreadsheet-to-documents pipeline.
type BatchService interface {
	// Run fetches the inputs, renders one document per row and returns
	// them in row order. Under the abort policy the first row error is
	// returned as a *domain.BatchError and no result is returned.
	Run(ctx context.Context, req BatchRequest) (*domain.BatchResult, error)
}
