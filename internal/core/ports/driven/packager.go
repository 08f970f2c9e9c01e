package driven

import "github.com/custodia-labs/fiches/internal/core/domain"

// Packager bundles generated documents into a single archive.
type Packager interface {
	// Pack returns the archive bytes. Entries keep the input order.
	Pack(docs []domain.NamedBuffer) ([]byte, error)

	// MIMEType returns the archive content type.
	MIMEType() string
}
