package pdf

import (
	"bytes"
	"context"
	"fmt"

	lpdf "github.com/ledongthuc/pdf"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driven"
	"github.com/custodia-labs/fiches/internal/logger"
)

// Ensure Inspector implements the interface.
var _ driven.TemplateInspector = (*Inspector)(nil)

// a4 is used when a page and its ancestors declare no media box.
var a4 = domain.Rect{X2: 595.28, Y2: 841.89}

// Inspector reads page boxes and named widget annotations.
type Inspector struct{}

// NewInspector creates a new inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Inspect implements driven.TemplateInspector.
// Only widgets carrying their own /T name and a four-number /Rect are reported.
func (i *Inspector) Inspect(ctx context.Context, document []byte) (layout *domain.TemplateLayout, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// The reader reports malformed objects by panicking.
	defer func() {
		if r := recover(); r != nil {
			layout = nil
			err = fmt.Errorf("%w: %v", domain.ErrMalformedDocument, r)
		}
	}()

	reader, err := lpdf.NewReader(bytes.NewReader(document), int64(len(document)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
	}
	n := reader.NumPage()
	if n == 0 {
		return nil, fmt.Errorf("%w: document has no pages", domain.ErrMalformedDocument)
	}

	layout = &domain.TemplateLayout{Pages: make([]domain.PageLayout, 0, n)}
	for num := 1; num <= n; num++ {
		page := reader.Page(num)
		if page.V.IsNull() {
			return nil, fmt.Errorf("%w: page %d is missing", domain.ErrMalformedDocument, num)
		}
		pl := domain.PageLayout{Index: num - 1, Box: mediaBox(page.V)}
		annots := page.V.Key("Annots")
		for j := 0; j < annots.Len(); j++ {
			if field, ok := widgetField(annots.Index(j)); ok {
				pl.Fields = append(pl.Fields, field)
			}
		}
		layout.Pages = append(layout.Pages, pl)
	}
	logger.Debug("Inspected %d pages, %d named fields", layout.PageCount(), layout.FieldCount())
	return layout, nil
}

func widgetField(annot lpdf.Value) (domain.AnnotationField, bool) {
	name := annot.Key("T").Text()
	if name == "" {
		return domain.AnnotationField{}, false
	}
	rect, ok := rectOf(annot.Key("Rect"))
	if !ok {
		return domain.AnnotationField{}, false
	}
	return domain.AnnotationField{Name: name, Rect: rect}, true
}

// mediaBox walks the page tree upwards; /MediaBox is inheritable.
func mediaBox(page lpdf.Value) domain.Rect {
	for v := page; !v.IsNull(); v = v.Key("Parent") {
		if box, ok := rectOf(v.Key("MediaBox")); ok {
			return box
		}
	}
	return a4
}

func rectOf(v lpdf.Value) (domain.Rect, bool) {
	if v.Kind() != lpdf.Array || v.Len() != 4 {
		return domain.Rect{}, false
	}
	var n [4]float64
	for i := range n {
		item := v.Index(i)
		if k := item.Kind(); k != lpdf.Integer && k != lpdf.Real {
			return domain.Rect{}, false
		}
		n[i] = item.Float64()
	}
	return domain.NewRect(n[0], n[1], n[2], n[3]), true
}
