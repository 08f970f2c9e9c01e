package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the DD/MM/YYYY layout used for every rendered date.
const DateLayout = "02/01/2006"

// Cell is one spreadsheet cell value.
type Cell struct {
	// Value is the display string as the spreadsheet shows it.
	Value string

	// Time is set when the source cell holds a date.
	Time *time.Time
}

// Present reports whether the cell holds a value.
func (c Cell) Present() bool {
	return c.Value != "" || c.Time != nil
}

// SourceRow is one data row of the source spreadsheet.
type SourceRow struct {
	// Index is the zero-based data row position (header excluded).
	Index int

	// Cells holds the row values in column order.
	Cells []Cell
}

// NewSourceRow builds a row from plain display strings.
func NewSourceRow(index int, values ...string) SourceRow {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = Cell{Value: v}
	}
	return SourceRow{Index: index, Cells: cells}
}

// Cell returns the cell at a column and whether it holds a value.
// Columns past the end of the row are absent.
func (r SourceRow) Cell(col int) (Cell, bool) {
	if col < 0 || col >= len(r.Cells) {
		return Cell{}, false
	}
	c := r.Cells[col]
	return c, c.Present()
}

// Text returns the display string at a column, or "" when absent.
func (r SourceRow) Text(col int) string {
	c, _ := r.Cell(col)
	return c.Value
}

// Empty reports whether no cell of the row holds a value.
func (r SourceRow) Empty() bool {
	for _, c := range r.Cells {
		if c.Present() {
			return false
		}
	}
	return true
}

// RowSchema names the columns that carry the student identity.
type RowSchema struct {
	LastName  int
	FirstName int
	Date      int
}

// DefaultRowSchema returns last name in column A, first name in B, date in V.
func DefaultRowSchema() RowSchema {
	return RowSchema{LastName: 0, FirstName: 1, Date: 21}
}

// Bind attaches the schema to a row.
func (s RowSchema) Bind(row SourceRow) Record {
	return Record{row: row, schema: s}
}

// Record is a row read through a RowSchema.
type Record struct {
	row    SourceRow
	schema RowSchema
}

// Row returns the underlying row.
func (r Record) Row() SourceRow {
	return r.row
}

// LastName returns the last name column text.
func (r Record) LastName() string {
	return r.row.Text(r.schema.LastName)
}

// FirstName returns the first name column text.
func (r Record) FirstName() string {
	return r.row.Text(r.schema.FirstName)
}

// DisplayName returns "last first", trimmed.
func (r Record) DisplayName() string {
	return strings.TrimSpace(r.LastName() + " " + r.FirstName())
}

// Date returns the date column value. The boolean is false when the cell is absent.
func (r Record) Date() (time.Time, bool, error) {
	c, ok := r.row.Cell(r.schema.Date)
	if !ok {
		return time.Time{}, false, nil
	}
	if c.Time != nil {
		return *c.Time, true, nil
	}
	t, err := ParseDate(c.Value)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// DateText returns the date column formatted as DD/MM/YYYY, or "" when absent.
func (r Record) DateText() (string, error) {
	t, ok, err := r.Date()
	if err != nil || !ok {
		return "", err
	}
	return FormatDate(t), nil
}

// FormatDate formats a date as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	DateLayout,
	"2/1/2006",
	"02-01-2006",
}

// ParseDate reads a date written in one of the layouts spreadsheets commonly export.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a date", ErrInvalidInput, s)
}
