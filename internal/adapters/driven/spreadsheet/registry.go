package spreadsheet

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driven"
	"github.com/custodia-labs/fiches/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.SpreadsheetReader = (*Registry)(nil)

// zipMagic starts every OOXML package.
var zipMagic = []byte("PK\x03\x04")

// Registry dispatches payloads to the reader registered for their format.
// Selection order: MIME type, then file extension, then leading bytes.
type Registry struct {
	byMIME   map[string]driven.SpreadsheetReader
	byExt    map[string]driven.SpreadsheetReader
	fallback driven.SpreadsheetReader
	zipped   driven.SpreadsheetReader
}

// NewRegistry creates a registry holding the workbook and CSV readers.
func NewRegistry() *Registry {
	r := &Registry{
		byMIME: make(map[string]driven.SpreadsheetReader),
		byExt:  make(map[string]driven.SpreadsheetReader),
	}
	xlsx, csvr := NewXLSXReader(), NewCSVReader()
	r.Register(xlsx, ".xlsx", ".xlsm")
	r.Register(csvr, ".csv", ".txt")
	r.zipped = xlsx
	r.fallback = csvr
	return r
}

// Register adds a reader for its MIME types and the given extensions.
// Later registrations win.
func (r *Registry) Register(reader driven.SpreadsheetReader, exts ...string) {
	for _, m := range reader.SupportedMIMETypes() {
		r.byMIME[m] = reader
	}
	for _, ext := range exts {
		r.byExt[strings.ToLower(ext)] = reader
	}
}

// SupportedMIMETypes implements driven.SpreadsheetReader.
func (r *Registry) SupportedMIMETypes() []string {
	types := make([]string, 0, len(r.byMIME))
	for m := range r.byMIME {
		types = append(types, m)
	}
	return types
}

// Read implements driven.SpreadsheetReader.
func (r *Registry) Read(ctx context.Context, payload *domain.Payload) ([]domain.SourceRow, error) {
	if payload == nil || len(payload.Content) == 0 {
		return nil, fmt.Errorf("%w: empty spreadsheet", domain.ErrMalformedSpreadsheet)
	}
	reader := r.pick(payload)
	logger.Debug("Reading spreadsheet %s (%s) with %T", payload.Location, payload.MIMEType, reader)
	return reader.Read(ctx, payload)
}

func (r *Registry) pick(payload *domain.Payload) driven.SpreadsheetReader {
	if mt, _, err := mime.ParseMediaType(payload.MIMEType); err == nil {
		if reader, ok := r.byMIME[mt]; ok {
			return reader
		}
	}
	for _, name := range []string{payload.Name, payload.Location} {
		if reader, ok := r.byExt[strings.ToLower(path.Ext(name))]; ok {
			return reader
		}
	}
	if bytes.HasPrefix(payload.Content, zipMagic) {
		return r.zipped
	}
	return r.fallback
}
