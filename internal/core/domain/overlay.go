package domain

import "fmt"

// FontSpec selects the font used to draw overlay text.
type FontSpec struct {
	Family string
	Size   float64
}

// DefaultFont is Helvetica at 10 points.
func DefaultFont() FontSpec {
	return FontSpec{Family: "Helvetica", Size: 10}
}

// Point is a position in PDF user space.
type Point struct {
	X, Y float64
}

// TextRun is one string drawn at a position, in PDF user space.
type TextRun struct {
	X, Y float64
	Text string

	// Field is the widget name the run fills, empty for stamped text.
	Field string
}

// OverlayPage holds the text runs drawn on one document page.
type OverlayPage struct {
	PageIndex int
	Runs      []TextRun
}

// Placement controls which document pages an overlay targets.
type Placement int

const (
	// PlaceAllPages pairs overlay page i with document page i for every page.
	PlaceAllPages Placement = iota

	// PlaceSinglePage targets exactly one document page; the others pass through.
	PlaceSinglePage
)

// String returns the string representation.
func (p Placement) String() string {
	switch p {
	case PlaceAllPages:
		return "all_pages"
	case PlaceSinglePage:
		return "single_page"
	default:
		return "unknown"
	}
}

// Overlay is a set of text runs to draw over a document.
type Overlay struct {
	Placement Placement
	Font      FontSpec
	Pages     []OverlayPage
}

// Page returns the overlay page targeting a document page.
func (o *Overlay) Page(index int) (OverlayPage, bool) {
	for _, p := range o.Pages {
		if p.PageIndex == index {
			return p, true
		}
	}
	return OverlayPage{}, false
}

// RunCount returns the number of text runs across all pages.
func (o *Overlay) RunCount() int {
	n := 0
	for _, p := range o.Pages {
		n += len(p.Runs)
	}
	return n
}

// Validate checks that the overlay lines up with a document of pageCount pages.
func (o *Overlay) Validate(pageCount int) error {
	if o == nil {
		return fmt.Errorf("%w: nil overlay", ErrInvalidInput)
	}
	switch o.Placement {
	case PlaceAllPages:
		if len(o.Pages) != pageCount {
			return fmt.Errorf("%w: overlay has %d pages, document has %d", ErrPageCountMismatch, len(o.Pages), pageCount)
		}
		for i, p := range o.Pages {
			if p.PageIndex != i {
				return fmt.Errorf("%w: overlay page %d targets page %d", ErrPageCountMismatch, i, p.PageIndex)
			}
		}
	case PlaceSinglePage:
		if len(o.Pages) != 1 {
			return fmt.Errorf("%w: single-page overlay has %d pages", ErrPageCountMismatch, len(o.Pages))
		}
		if idx := o.Pages[0].PageIndex; idx < 0 || idx >= pageCount {
			return fmt.Errorf("%w: page %d requested, document has %d pages", ErrPageOutOfRange, idx, pageCount)
		}
	default:
		return fmt.Errorf("%w: unknown placement %d", ErrInvalidInput, o.Placement)
	}
	if o.Font.Size <= 0 {
		return fmt.Errorf("%w: font size must be positive", ErrInvalidInput)
	}
	return nil
}
