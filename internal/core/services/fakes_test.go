package services

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driven"
)

type fakeFetcher struct {
	payloads map[string]*domain.Payload
	err      error
}

var _ driven.SourceFetcher = (*fakeFetcher)(nil)

func (f *fakeFetcher) Supports(string) bool { return true }

func (f *fakeFetcher) Fetch(_ context.Context, location string) (*domain.Payload, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.payloads[location]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFetchFailed, location)
	}
	return p, nil
}

type fakeSheets struct {
	rows []domain.SourceRow
	err  error
}

var _ driven.SpreadsheetReader = (*fakeSheets)(nil)

func (f *fakeSheets) SupportedMIMETypes() []string { return []string{domain.MIMETypeCSV} }

func (f *fakeSheets) Read(context.Context, *domain.Payload) ([]domain.SourceRow, error) {
	return f.rows, f.err
}

type fakeInspector struct {
	layout *domain.TemplateLayout
	err    error
}

var _ driven.TemplateInspector = (*fakeInspector)(nil)

func (f *fakeInspector) Inspect(context.Context, []byte) (*domain.TemplateLayout, error) {
	return f.layout, f.err
}

// recordingMerger returns "merged:<first run text>" and records every overlay.
// Overlays containing failOn in any run fail.
type recordingMerger struct {
	mu       sync.Mutex
	overlays []*domain.Overlay
	failOn   string
}

var _ driven.PageMerger = (*recordingMerger)(nil)

func (m *recordingMerger) Merge(_ context.Context, base []byte, layout *domain.TemplateLayout, overlay *domain.Overlay) ([]byte, error) {
	if err := overlay.Validate(layout.PageCount()); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.overlays = append(m.overlays, overlay)
	m.mu.Unlock()

	var texts []string
	for _, p := range overlay.Pages {
		for _, r := range p.Runs {
			if m.failOn != "" && r.Text == m.failOn {
				return nil, fmt.Errorf("%w: cannot draw %q", domain.ErrMalformedDocument, r.Text)
			}
			texts = append(texts, r.Text)
		}
	}
	return []byte(string(base) + "|" + strings.Join(texts, ",")), nil
}

func (m *recordingMerger) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.overlays)
}

type fakeMappings struct {
	mapping *domain.FieldMapping
	err     error
}

var _ driven.MappingLoader = (*fakeMappings)(nil)

func (f *fakeMappings) Load(string) (*domain.FieldMapping, error) {
	return f.mapping, f.err
}

type zipPackager struct{}

var _ driven.Packager = zipPackager{}

func (zipPackager) MIMEType() string { return "application/zip" }

func (zipPackager) Pack(docs []domain.NamedBuffer) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, d := range docs {
		w, err := zw.Create(d.Name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(d.Content); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type progressRecorder struct {
	mu    sync.Mutex
	calls [][2]int
	errs  int
}

func (p *progressRecorder) RowDone(done, total int, _ string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, [2]int{done, total})
	if err != nil {
		p.errs++
	}
}

// ficheLayout is a two-page template: page 1 carries the widgets of the
// worked example, page 2 has none.
func ficheLayout() *domain.TemplateLayout {
	return &domain.TemplateLayout{Pages: []domain.PageLayout{
		{
			Index: 0,
			Box:   domain.Rect{X2: 595, Y2: 842},
			Fields: []domain.AnnotationField{
				{Name: "Champ de texte 110", Rect: domain.Rect{X1: 100, Y1: 700, X2: 200, Y2: 720}},
				{Name: "Champ de texte 123", Rect: domain.Rect{X1: 300, Y1: 700, X2: 400, Y2: 720}},
				{Name: "Signature", Rect: domain.Rect{X1: 50, Y1: 50, X2: 150, Y2: 80}},
				{Name: "", Rect: domain.Rect{X1: 10, Y1: 10, X2: 20, Y2: 20}},
			},
		},
		{Index: 1, Box: domain.Rect{X2: 595, Y2: 842}},
	}}
}

func ficheMapping() *domain.FieldMapping {
	m, err := domain.NewFieldMapping("test", map[string]string{
		"Champ de texte 110": "A",
		"Champ de texte 123": "B",
	})
	if err != nil {
		panic(err)
	}
	return m
}

// studentRow builds a 22-column row with names and an optional date.
func studentRow(index int, last, first, date string) domain.SourceRow {
	values := make([]string, 22)
	values[0], values[1], values[21] = last, first, date
	return domain.NewSourceRow(index, values...)
}
