package fetch

import (
	"context"
	"fmt"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driven"
)

// Ensure Router implements the interface.
var _ driven.SourceFetcher = (*Router)(nil)

// Router dispatches locations to the first fetcher that supports them.
type Router struct {
	fetchers []driven.SourceFetcher
}

// NewRouter creates a router over fetchers, tried in order. Nil entries
// are skipped so optional fetchers can be passed unconditionally.
func NewRouter(fetchers ...driven.SourceFetcher) *Router {
	r := &Router{}
	for _, f := range fetchers {
		if f != nil {
			r.fetchers = append(r.fetchers, f)
		}
	}
	return r
}

// Supports implements driven.SourceFetcher.
func (r *Router) Supports(location string) bool {
	return r.route(location) != nil
}

// Fetch implements driven.SourceFetcher.
func (r *Router) Fetch(ctx context.Context, location string) (*domain.Payload, error) {
	if location == "" {
		return nil, fmt.Errorf("%w: no location configured", domain.ErrInvalidInput)
	}
	f := r.route(location)
	if f == nil {
		return nil, fmt.Errorf("%w: no fetcher for %q", domain.ErrUnsupportedType, location)
	}
	return f.Fetch(ctx, location)
}

func (r *Router) route(location string) driven.SourceFetcher {
	for _, f := range r.fetchers {
		if f.Supports(location) {
			return f
		}
	}
	return nil
}
