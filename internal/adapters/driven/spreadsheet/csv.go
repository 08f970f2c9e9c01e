package spreadsheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driven"
)

// Ensure CSVReader implements the interface.
var _ driven.SpreadsheetReader = (*CSVReader)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVReader reads delimited text exports. The delimiter is a semicolon when
// the header line holds more semicolons than commas.
type CSVReader struct{}

// NewCSVReader creates a delimited text reader.
func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

// SupportedMIMETypes implements driven.SpreadsheetReader.
func (r *CSVReader) SupportedMIMETypes() []string {
	return []string{domain.MIMETypeCSV, "application/csv", "text/comma-separated-values"}
}

// Read implements driven.SpreadsheetReader. Values are kept as written;
// dates are parsed later from their text.
func (r *CSVReader) Read(ctx context.Context, payload *domain.Payload) ([]domain.SourceRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content := bytes.TrimPrefix(payload.Content, utf8BOM)
	cr := csv.NewReader(bytes.NewReader(content))
	cr.Comma = delimiter(content)
	cr.FieldsPerRecord = -1

	var rows []domain.SourceRow
	for line := 0; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedSpreadsheet, err)
		}
		if line == 0 {
			continue
		}
		row := domain.NewSourceRow(line-1, record...)
		if row.Empty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func delimiter(content []byte) rune {
	header := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		header = content[:i]
	}
	if bytes.Count(header, []byte(";")) > bytes.Count(header, []byte(",")) {
		return ';'
	}
	return ','
}
