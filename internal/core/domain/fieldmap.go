package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Column identifies a spreadsheet column.
type Column struct {
	// Selector is the column letter as configured ("A".."Z").
	Selector string

	// Index is the zero-based column position.
	Index int
}

// ColumnIndex converts a single-letter column selector to its zero-based index.
// Only the letters A to Z are accepted; lowercase letters are folded.
func ColumnIndex(selector string) (int, error) {
	s := strings.ToUpper(strings.TrimSpace(selector))
	if len(s) != 1 || s[0] < 'A' || s[0] > 'Z' {
		return 0, fmt.Errorf("%w: column selector %q must be a single letter A-Z", ErrInvalidInput, selector)
	}
	return int(s[0] - 'A'), nil
}

// FieldMapping maps form field names to spreadsheet columns.
// It is immutable once built.
type FieldMapping struct {
	name    string
	columns map[string]Column
}

// NewFieldMapping validates every selector and builds a mapping.
func NewFieldMapping(name string, entries map[string]string) (*FieldMapping, error) {
	columns := make(map[string]Column, len(entries))
	for field, selector := range entries {
		if field == "" {
			return nil, fmt.Errorf("%w: mapping %q has an empty field name", ErrInvalidInput, name)
		}
		idx, err := ColumnIndex(selector)
		if err != nil {
			return nil, fmt.Errorf("mapping %q field %q: %w", name, field, err)
		}
		columns[field] = Column{Selector: strings.ToUpper(strings.TrimSpace(selector)), Index: idx}
	}
	return &FieldMapping{name: name, columns: columns}, nil
}

// Name returns the mapping name.
func (m *FieldMapping) Name() string {
	return m.name
}

// Lookup returns the column configured for a field.
// A false result means the field is unmapped and must not be rendered.
func (m *FieldMapping) Lookup(field string) (Column, bool) {
	if m == nil {
		return Column{}, false
	}
	col, ok := m.columns[field]
	return col, ok
}

// Len returns the number of mapped fields.
func (m *FieldMapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.columns)
}

// Fields returns the mapped field names in lexical order.
func (m *FieldMapping) Fields() []string {
	if m == nil {
		return nil
	}
	fields := make([]string, 0, len(m.columns))
	for f := range m.columns {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
