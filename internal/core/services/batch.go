package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driven"
	"github.com/custodia-labs/fiches/internal/core/ports/driving"
	"github.com/custodia-labs/fiches/internal/logger"
)

// Ensure BatchService implements the interface.
var _ driving.BatchService = (*BatchService)(nil)

// BatchService drives one spreadsheet through a row pipeline.
type BatchService struct {
	fetcher   driven.SourceFetcher
	sheets    driven.SpreadsheetReader
	inspector driven.TemplateInspector
	merger    driven.PageMerger
	mappings  driven.MappingLoader
	defaults  domain.BatchSettings
	now       func() time.Time
}

// NewBatchService creates a new batch service.
func NewBatchService(
	fetcher driven.SourceFetcher,
	sheets driven.SpreadsheetReader,
	inspector driven.TemplateInspector,
	merger driven.PageMerger,
	mappings driven.MappingLoader,
	defaults domain.BatchSettings,
) *BatchService {
	return &BatchService{
		fetcher:   fetcher,
		sheets:    sheets,
		inspector: inspector,
		merger:    merger,
		mappings:  mappings,
		defaults:  defaults,
		now:       time.Now,
	}
}

// Run implements driving.BatchService.
func (s *BatchService) Run(ctx context.Context, req driving.BatchRequest) (*domain.BatchResult, error) {
	profile := req.Profile
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	policy := s.policy(req)
	started := s.now()

	logger.Section("Batch " + profile.Name)
	logger.Debug("mode=%s policy=%s concurrency=%d", profile.Mode, policy, s.concurrency(req))

	sheet, err := s.fetcher.Fetch(ctx, profile.Source)
	if err != nil {
		return nil, fmt.Errorf("fetch spreadsheet: %w", err)
	}
	rows, err := s.sheets.Read(ctx, sheet)
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet: %w", err)
	}
	logger.Info("Read %d rows from %s", len(rows), profile.Source)

	doc, err := s.fetcher.Fetch(ctx, profile.Document)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	layout, err := s.inspector.Inspect(ctx, doc.Content)
	if err != nil {
		return nil, fmt.Errorf("inspect document: %w", err)
	}
	logger.Debug("Document has %d pages and %d named fields", layout.PageCount(), layout.FieldCount())

	pipeline, err := s.pipeline(profile, doc.Content, layout)
	if err != nil {
		return nil, err
	}

	docs, failures, err := s.process(ctx, pipeline, rows, policy, s.concurrency(req), req.Progress)
	if err != nil {
		return nil, err
	}
	domain.UniqueNames(docs)

	result := &domain.BatchResult{
		ID:          uuid.New().String(),
		Profile:     profile.Name,
		Mode:        profile.Mode,
		ArchiveName: profile.Archive,
		Documents:   docs,
		Failures:    failures,
		Rows:        len(rows),
		StartedAt:   started,
		FinishedAt:  s.now(),
	}
	logger.Info("Generated %d documents, %d failures in %s", len(docs), len(failures), result.Duration())
	return result, nil
}

func (s *BatchService) pipeline(profile domain.Profile, document []byte, layout *domain.TemplateLayout) (RowPipeline, error) {
	switch profile.Mode {
	case domain.ModeForm:
		mapping, err := s.mappings.Load(profile.Mapping)
		if err != nil {
			return nil, fmt.Errorf("load mapping: %w", err)
		}
		return NewFullPageOverlay(document, layout, mapping, profile.Schema,
			FormOptions{Font: profile.Font, Inset: profile.Inset}, s.merger)
	case domain.ModeStamp:
		return NewSinglePageOverlay(document, layout, profile.Schema, StampOptions{
			Font:      profile.Font,
			PageIndex: profile.PageIndex,
			NameAt:    profile.NameAt,
			DateAt:    profile.DateAt,
		}, s.merger)
	default:
		return nil, fmt.Errorf("%w: mode %q", domain.ErrInvalidInput, profile.Mode)
	}
}

func (s *BatchService) policy(req driving.BatchRequest) domain.ErrorPolicy {
	if req.Policy.IsValid() {
		return req.Policy
	}
	if s.defaults.Policy.IsValid() {
		return s.defaults.Policy
	}
	return domain.PolicyAbort
}

func (s *BatchService) concurrency(req driving.BatchRequest) int {
	if req.Concurrency > 0 {
		return req.Concurrency
	}
	if s.defaults.Concurrency > 0 {
		return s.defaults.Concurrency
	}
	return 1
}

// rowOutcome holds the result of one row at its spreadsheet position.
type rowOutcome struct {
	doc *domain.NamedBuffer
	err error
}

func (s *BatchService) process(
	ctx context.Context,
	pipeline RowPipeline,
	rows []domain.SourceRow,
	policy domain.ErrorPolicy,
	concurrency int,
	progress driving.ProgressReporter,
) ([]domain.NamedBuffer, []domain.RowFailure, error) {
	outcomes := make([]rowOutcome, len(rows))
	tracker := &progressTracker{reporter: progress, total: len(rows)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, row := range rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := pipeline.Process(gctx, row)
			tracker.done(doc.Name, err)
			if err != nil {
				rowErr := &domain.BatchError{Row: row.Index, Err: err}
				if policy == domain.PolicyAbort {
					return rowErr
				}
				logger.Warn("Skipping %v", rowErr)
				outcomes[i] = rowOutcome{err: err}
				return nil
			}
			outcomes[i] = rowOutcome{doc: &doc}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	docs := make([]domain.NamedBuffer, 0, len(rows))
	var failures []domain.RowFailure
	for i, o := range outcomes {
		switch {
		case o.doc != nil:
			docs = append(docs, *o.doc)
		case o.err != nil:
			failures = append(failures, domain.RowFailure{Row: rows[i].Index, Err: o.err})
		}
	}
	return docs, failures, nil
}

// progressTracker serialises progress callbacks from row goroutines.
type progressTracker struct {
	mu       sync.Mutex
	reporter driving.ProgressReporter
	total    int
	count    int
}

func (t *progressTracker) done(name string, err error) {
	if t.reporter == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count++
	t.reporter.RowDone(t.count, t.total, name, err)
}
