package driven

import (
	"context"

	"github.com/custodia-labs/fiches/internal/core/domain"
)

// SpreadsheetReader parses spreadsheet bytes into data rows.
// The first row is a header and is not returned.
type SpreadsheetReader interface {
	// SupportedMIMETypes returns the MIME types this reader handles.
	SupportedMIMETypes() []string

	// Read returns the data rows in sheet order. Failures wrap
	// domain.ErrMalformedSpreadsheet.
	Read(ctx context.Context, payload *domain.Payload) ([]domain.SourceRow, error)
}
