package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driven"
)

// RowPipeline turns one spreadsheet row into one named document.
// Implementations are safe for concurrent use once built.
type RowPipeline interface {
	// Mode returns the strategy the pipeline implements.
	Mode() domain.Mode

	// Process renders and merges the row's document.
	Process(ctx context.Context, row domain.SourceRow) (domain.NamedBuffer, error)
}

var (
	_ RowPipeline = (*FullPageOverlay)(nil)
	_ RowPipeline = (*SinglePageOverlay)(nil)
)

// FullPageOverlay fills the named widgets of a template on every page.
type FullPageOverlay struct {
	template []byte
	layout   *domain.TemplateLayout
	mapping  *domain.FieldMapping
	schema   domain.RowSchema
	opts     FormOptions
	merger   driven.PageMerger
}

// NewFullPageOverlay creates a form-fill pipeline. The template and its
// layout are shared read-only between rows.
func NewFullPageOverlay(
	template []byte,
	layout *domain.TemplateLayout,
	mapping *domain.FieldMapping,
	schema domain.RowSchema,
	opts FormOptions,
	merger driven.PageMerger,
) (*FullPageOverlay, error) {
	if layout.PageCount() == 0 {
		return nil, fmt.Errorf("%w: template has no pages", domain.ErrMalformedDocument)
	}
	if mapping == nil {
		return nil, fmt.Errorf("%w: form-fill needs a field mapping", domain.ErrInvalidInput)
	}
	return &FullPageOverlay{
		template: template,
		layout:   layout,
		mapping:  mapping,
		schema:   schema,
		opts:     opts,
		merger:   merger,
	}, nil
}

// Mode returns domain.ModeForm.
func (p *FullPageOverlay) Mode() domain.Mode {
	return domain.ModeForm
}

// Process implements RowPipeline.
func (p *FullPageOverlay) Process(ctx context.Context, row domain.SourceRow) (domain.NamedBuffer, error) {
	overlay := RenderFormOverlay(p.layout, row, p.mapping, p.opts)
	out, err := p.merger.Merge(ctx, p.template, p.layout, overlay)
	if err != nil {
		return domain.NamedBuffer{}, err
	}
	return domain.NamedBuffer{Name: domain.FormFileName(p.schema.Bind(row)), Content: out}, nil
}

// SinglePageOverlay stamps a name and a date onto one page of a reference document.
type SinglePageOverlay struct {
	reference []byte
	layout    *domain.TemplateLayout
	schema    domain.RowSchema
	opts      StampOptions
	merger    driven.PageMerger
}

// NewSinglePageOverlay creates a stamp pipeline. A page index outside the
// document fails here, before any row is rendered.
func NewSinglePageOverlay(
	reference []byte,
	layout *domain.TemplateLayout,
	schema domain.RowSchema,
	opts StampOptions,
	merger driven.PageMerger,
) (*SinglePageOverlay, error) {
	if err := layout.CheckPage(opts.PageIndex); err != nil {
		return nil, err
	}
	return &SinglePageOverlay{
		reference: reference,
		layout:    layout,
		schema:    schema,
		opts:      opts,
		merger:    merger,
	}, nil
}

// Mode returns domain.ModeStamp.
func (p *SinglePageOverlay) Mode() domain.Mode {
	return domain.ModeStamp
}

// Process implements RowPipeline.
func (p *SinglePageOverlay) Process(ctx context.Context, row domain.SourceRow) (domain.NamedBuffer, error) {
	rec := p.schema.Bind(row)
	date, err := rec.DateText()
	if err != nil {
		return domain.NamedBuffer{}, err
	}
	overlay := RenderStampOverlay(rec.DisplayName(), date, p.opts)
	out, err := p.merger.Merge(ctx, p.reference, p.layout, overlay)
	if err != nil {
		return domain.NamedBuffer{}, err
	}
	return domain.NamedBuffer{Name: domain.StampFileName(rec), Content: out}, nil
}
