package domain

import "fmt"

// Rect is a rectangle in PDF user space; (X1, Y1) is the lower-left corner.
type Rect struct {
	X1, Y1, X2, Y2 float64
}

// NewRect builds a rectangle from two opposite corners in any order.
func NewRect(ax, ay, bx, by float64) Rect {
	if ax > bx {
		ax, bx = bx, ax
	}
	if ay > by {
		ay, by = by, ay
	}
	return Rect{X1: ax, Y1: ay, X2: bx, Y2: by}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 {
	return r.X2 - r.X1
}

// Height returns the vertical extent.
func (r Rect) Height() float64 {
	return r.Y2 - r.Y1
}

// AnnotationField is a named widget annotation on a page.
type AnnotationField struct {
	Name string
	Rect Rect
}

// PageLayout describes one page of a document.
type PageLayout struct {
	// Index is the zero-based page position.
	Index int

	// Box is the page media box.
	Box Rect

	// Fields are the named widgets of the page, in annotation order.
	Fields []AnnotationField
}

// TemplateLayout describes the pages of a PDF document.
// It is read-only once inspected and may be shared between rows.
type TemplateLayout struct {
	Pages []PageLayout
}

// PageCount returns the number of pages.
func (t *TemplateLayout) PageCount() int {
	if t == nil {
		return 0
	}
	return len(t.Pages)
}

// FieldCount returns the number of named widgets across all pages.
func (t *TemplateLayout) FieldCount() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, p := range t.Pages {
		n += len(p.Fields)
	}
	return n
}

// CheckPage reports ErrPageOutOfRange when index does not name a page.
func (t *TemplateLayout) CheckPage(index int) error {
	if index < 0 || index >= t.PageCount() {
		return fmt.Errorf("%w: page %d requested, document has %d pages", ErrPageOutOfRange, index, t.PageCount())
	}
	return nil
}
