package services

import "github.com/custodia-labs/fiches/internal/core/domain"

// FormOptions configures form-fill rendering.
type FormOptions struct {
	Font  domain.FontSpec
	Inset domain.Point
}

// DefaultFormOptions draws Helvetica 10 at 4pt right and 6pt above the
// widget's lower-left corner.
func DefaultFormOptions() FormOptions {
	return FormOptions{Font: domain.DefaultFont(), Inset: domain.Point{X: 4, Y: 6}}
}

// RenderFormOverlay builds one overlay page per template page. A widget gets
// a text run when its name is mapped and the mapped cell holds a value.
// The layout is not modified.
func RenderFormOverlay(
	layout *domain.TemplateLayout,
	row domain.SourceRow,
	mapping *domain.FieldMapping,
	opts FormOptions,
) *domain.Overlay {
	overlay := &domain.Overlay{
		Placement: domain.PlaceAllPages,
		Font:      opts.Font,
		Pages:     make([]domain.OverlayPage, layout.PageCount()),
	}
	for i, page := range layout.Pages {
		op := domain.OverlayPage{PageIndex: i}
		for _, field := range page.Fields {
			if field.Name == "" {
				continue
			}
			col, ok := mapping.Lookup(field.Name)
			if !ok {
				continue
			}
			cell, ok := row.Cell(col.Index)
			if !ok {
				continue
			}
			op.Runs = append(op.Runs, domain.TextRun{
				X:     field.Rect.X1 + opts.Inset.X,
				Y:     field.Rect.Y1 + opts.Inset.Y,
				Text:  cell.Value,
				Field: field.Name,
			})
		}
		overlay.Pages[i] = op
	}
	return overlay
}

// StampOptions configures stamp rendering.
type StampOptions struct {
	Font      domain.FontSpec
	PageIndex int
	NameAt    domain.Point
	DateAt    domain.Point
}

// RenderStampOverlay builds a single-page overlay with the name and the date.
// Empty strings draw nothing.
func RenderStampOverlay(name, date string, opts StampOptions) *domain.Overlay {
	page := domain.OverlayPage{PageIndex: opts.PageIndex}
	if name != "" {
		page.Runs = append(page.Runs, domain.TextRun{X: opts.NameAt.X, Y: opts.NameAt.Y, Text: name})
	}
	if date != "" {
		page.Runs = append(page.Runs, domain.TextRun{X: opts.DateAt.X, Y: opts.DateAt.Y, Text: date})
	}
	return &domain.Overlay{
		Placement: domain.PlaceSinglePage,
		Font:      opts.Font,
		Pages:     []domain.OverlayPage{page},
	}
}
