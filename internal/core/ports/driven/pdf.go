package driven

import (
	"context"

	"github.com/custodia-labs/fiches/internal/core/domain"
)

// TemplateInspector reads the page structure of a PDF document.
type TemplateInspector interface {
	// Inspect returns every page with its media box and named widgets.
	// Failures wrap domain.ErrMalformedDocument.
	Inspect(ctx context.Context, document []byte) (*domain.TemplateLayout, error)
}

// PageMerger draws an overlay on top of document pages.
type PageMerger interface {
	// Merge returns a new document; base is never modified. The overlay is
	// validated against layout before anything is drawn.
	Merge(ctx context.Context, base []byte, layout *domain.TemplateLayout, overlay *domain.Overlay) ([]byte, error)
}
