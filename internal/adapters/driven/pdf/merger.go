package pdf

import (
	"bytes"
	"context"
	"fmt"

	"codeberg.org/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driven"
	"github.com/custodia-labs/fiches/internal/logger"
)

// Ensure Merger implements the interface.
var _ driven.PageMerger = (*Merger)(nil)

// stampDesc pins each stamp page, unscaled and unrotated, to the lower-left
// corner of the page it covers.
const stampDesc = "scalefactor:1 abs, rotation:0, position:bl, opacity:1"

// Merger renders the text runs of an overlay into a stamp document and
// composites it above the base pages. Base page dictionaries, their
// annotations and the interactive form are carried over unchanged.
type Merger struct {
	fonts    *FontRegistry
	verifier *Verifier
	compress bool
}

// MergerOption configures a Merger.
type MergerOption func(*Merger)

// WithVerifier re-reads every merged document before returning it.
func WithVerifier(v *Verifier) MergerOption {
	return func(m *Merger) { m.verifier = v }
}

// WithCompression writes object and cross-reference streams instead of a
// plain cross-reference table.
func WithCompression(on bool) MergerOption {
	return func(m *Merger) { m.compress = on }
}

// NewMerger creates a merger. A nil registry only allows core fonts.
func NewMerger(fonts *FontRegistry, opts ...MergerOption) *Merger {
	if fonts == nil {
		fonts = NewFontRegistry()
	}
	m := &Merger{fonts: fonts}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge implements driven.PageMerger.
func (m *Merger) Merge(ctx context.Context, base []byte, layout *domain.TemplateLayout, overlay *domain.Overlay) (out []byte, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if layout.PageCount() == 0 {
		return nil, fmt.Errorf("%w: document has no pages", domain.ErrMalformedDocument)
	}
	if err := overlay.Validate(layout.PageCount()); err != nil {
		return nil, err
	}
	// Both PDF libraries report unreadable input by panicking.
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: %v", domain.ErrMalformedDocument, r)
		}
	}()

	stamp, err := m.renderStamp(layout, overlay)
	if err != nil {
		return nil, err
	}
	if overlay.RunCount() == 0 {
		out = bytes.Clone(base)
	} else if out, err = m.composite(base, stamp, stampedPages(overlay)); err != nil {
		return nil, err
	}

	if m.verifier != nil {
		if err := m.verifier.Verify(out, layout.PageCount()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// renderStamp draws the runs on blank pages sized like the base pages, one
// stamp page per base page.
func (m *Merger) renderStamp(layout *domain.TemplateLayout, overlay *domain.Overlay) ([]byte, error) {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetCompression(false)
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, 0, 0)

	font, err := m.fonts.apply(doc, overlay.Font)
	if err != nil {
		return nil, err
	}

	for i, page := range layout.Pages {
		w, h := page.Box.Width(), page.Box.Height()
		doc.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})

		op, ok := overlay.Page(i)
		if !ok || len(op.Runs) == 0 {
			continue
		}
		doc.SetFont(font.family, "", overlay.Font.Size)
		for _, run := range op.Runs {
			// Runs are in the base page's user space. The stamp page starts at
			// the origin and fpdf measures y down from its top.
			doc.Text(run.X-page.Box.X1, h-(run.Y-page.Box.Y1), font.encode(run.Text))
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: render overlay: %v", domain.ErrMalformedDocument, err)
	}
	return buf.Bytes(), nil
}

// composite stamps page i of stamp onto page i of base for every selected
// page number.
func (m *Merger) composite(base, stamp []byte, pages types.IntSet) ([]byte, error) {
	conf := configuration()
	conf.Cmd = model.ADDWATERMARKS
	conf.WriteObjectStream = m.compress
	conf.WriteXRefStream = m.compress

	doc, err := api.ReadContext(bytes.NewReader(base), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
	}
	if err := doc.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
	}

	wm, err := api.PDFMultiWatermarkForReadSeeker(bytes.NewReader(stamp), 1, 1, stampDesc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("%w: stamp: %v", domain.ErrMalformedDocument, err)
	}
	if err := api.WatermarkContext(doc, pages, wm); err != nil {
		return nil, fmt.Errorf("%w: stamp: %v", domain.ErrMalformedDocument, err)
	}

	var buf bytes.Buffer
	if err := api.WriteContext(doc, &buf); err != nil {
		return nil, fmt.Errorf("%w: write merged document: %v", domain.ErrMalformedDocument, err)
	}
	logger.Debug("Stamped %d of %d pages", len(pages), doc.PageCount)
	return buf.Bytes(), nil
}

// stampedPages returns the 1-based numbers of the pages that carry runs.
func stampedPages(overlay *domain.Overlay) types.IntSet {
	pages := types.IntSet{}
	for _, p := range overlay.Pages {
		if len(p.Runs) > 0 {
			pages[p.PageIndex+1] = true
		}
	}
	return pages
}
