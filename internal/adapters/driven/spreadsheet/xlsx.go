package spreadsheet

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driven"
)

// Ensure XLSXReader implements the interface.
var _ driven.SpreadsheetReader = (*XLSXReader)(nil)

// XLSXReader reads the first worksheet of an Excel workbook.
type XLSXReader struct{}

// NewXLSXReader creates a workbook reader.
func NewXLSXReader() *XLSXReader {
	return &XLSXReader{}
}

// SupportedMIMETypes implements driven.SpreadsheetReader.
func (r *XLSXReader) SupportedMIMETypes() []string {
	return []string{domain.MIMETypeXLSX, "application/vnd.ms-excel.sheet.macroEnabled.12"}
}

// Read implements driven.SpreadsheetReader. Cells carrying a date number
// format are returned with their time set and a DD/MM/YYYY display value.
func (r *XLSXReader) Read(ctx context.Context, payload *domain.Payload) ([]domain.SourceRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(payload.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", domain.ErrMalformedSpreadsheet, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", domain.ErrMalformedSpreadsheet)
	}
	sheet := sheets[0]

	shown, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", domain.ErrMalformedSpreadsheet, sheet, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", domain.ErrMalformedSpreadsheet, sheet, err)
	}

	dates := &dateStyles{f: f, sheet: sheet, known: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		dates.date1904 = *props.Date1904
	}

	var rows []domain.SourceRow
	for i := 1; i < len(shown); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cells := make([]domain.Cell, len(shown[i]))
		for j, value := range shown[i] {
			cells[j] = domain.Cell{Value: value}
			if t, ok := dates.cellTime(j, i, rawAt(raw, i, j)); ok {
				cells[j] = domain.Cell{Value: domain.FormatDate(t), Time: &t}
			}
		}
		row := domain.SourceRow{Index: i - 1, Cells: cells}
		if row.Empty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func rawAt(raw [][]string, i, j int) string {
	if i >= len(raw) || j >= len(raw[i]) {
		return ""
	}
	return raw[i][j]
}

// dateStyles resolves whether cells carry a date number format.
// Results are cached per style index.
type dateStyles struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	known    map[int]bool
}

// cellTime returns the date held by the cell at zero-based (col, row).
func (d *dateStyles) cellTime(col, row int, raw string) (time.Time, bool) {
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, false
	}
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return time.Time{}, false
	}
	idx, err := d.f.GetCellStyle(d.sheet, name)
	if err != nil || idx == 0 {
		return time.Time{}, false
	}
	isDate, ok := d.known[idx]
	if !ok {
		style, err := d.f.GetStyle(idx)
		isDate = err == nil && isDateStyle(style)
		d.known[idx] = isDate
	}
	if !isDate {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, d.date1904)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// isDateStyle reports whether a style formats numbers as calendar dates.
// Pure time formats are not dates.
func isDateStyle(style *excelize.Style) bool {
	if style.CustomNumFmt != nil {
		return isDateFormatCode(*style.CustomNumFmt)
	}
	switch n := style.NumFmt; {
	case n >= 14 && n <= 17, n == 22:
		return true
	case n >= 27 && n <= 36, n >= 50 && n <= 58:
		return true
	}
	return false
}

// isDateFormatCode looks for day or year tokens outside quoted literals
// and bracketed sections.
func isDateFormatCode(code string) bool {
	code = strings.ToLower(code)
	var quoted, bracket bool
	for i := 0; i < len(code); i++ {
		switch c := code[i]; {
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '[':
			bracket = true
		case c == ']':
			bracket = false
		case bracket:
		case c == '\\':
			i++
		case c == 'd' || c == 'y':
			return true
		}
	}
	return false
}
