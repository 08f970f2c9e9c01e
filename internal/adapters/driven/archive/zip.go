// Package archive bundles generated documents into downloadable archives.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driven"
)

// Ensure ZipPackager implements the interface.
var _ driven.Packager = (*ZipPackager)(nil)

// ZipPackager writes documents into a deflated ZIP archive, one entry per
// buffer in the given order.
type ZipPackager struct {
	now func() time.Time
}

// NewZipPackager creates a ZIP packager.
func NewZipPackager() *ZipPackager {
	return &ZipPackager{now: time.Now}
}

// MIMEType implements driven.Packager.
func (p *ZipPackager) MIMEType() string {
	return "application/zip"
}

// Pack implements driven.Packager. Entry names must be unique.
func (p *ZipPackager) Pack(docs []domain.NamedBuffer) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := p.now()

	seen := make(map[string]bool, len(docs))
	for _, doc := range docs {
		if doc.Name == "" {
			return nil, fmt.Errorf("%w: archive entry without a name", domain.ErrInvalidInput)
		}
		if seen[doc.Name] {
			return nil, fmt.Errorf("%w: duplicate archive entry %q", domain.ErrInvalidInput, doc.Name)
		}
		seen[doc.Name] = true

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     doc.Name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("create entry %s: %w", doc.Name, err)
		}
		if _, err := w.Write(doc.Content); err != nil {
			return nil, fmt.Errorf("write entry %s: %w", doc.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}
