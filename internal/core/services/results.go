package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driven"
	"github.com/custodia-labs/fiches/internal/core/ports/driving"
	"github.com/custodia-labs/fiches/internal/logger"
)

// Ensure ResultService implements the interface.
var _ driving.ResultService = (*ResultService)(nil)

// ResultService keeps one batch result per session and packages it on demand.
type ResultService struct {
	store    driven.ResultStore
	packager driven.Packager
	ttl      time.Duration
	now      func() time.Time
}

// NewResultService creates a new result service. A zero ttl disables expiry.
func NewResultService(store driven.ResultStore, packager driven.Packager, ttl time.Duration) *ResultService {
	return &ResultService{
		store:    store,
		packager: packager,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Save implements driving.ResultService.
func (s *ResultService) Save(ctx context.Context, sessionID string, result *domain.BatchResult) error {
	if sessionID == "" {
		return fmt.Errorf("%w: empty session id", domain.ErrInvalidInput)
	}
	if result == nil {
		return fmt.Errorf("%w: nil result", domain.ErrInvalidInput)
	}
	return s.store.Save(ctx, sessionID, result)
}

// Get implements driving.ResultService.
func (s *ResultService) Get(ctx context.Context, sessionID string) (*domain.BatchResult, error) {
	result, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", domain.ErrSessionExpired, err)
	}
	return result, err
}

// Document implements driving.ResultService.
func (s *ResultService) Document(ctx context.Context, sessionID, name string) (domain.NamedBuffer, error) {
	result, err := s.Get(ctx, sessionID)
	if err != nil {
		return domain.NamedBuffer{}, err
	}
	doc, ok := result.Document(name)
	if !ok {
		return domain.NamedBuffer{}, fmt.Errorf("%w: document %q", domain.ErrNotFound, name)
	}
	return doc, nil
}

// Archive implements driving.ResultService.
func (s *ResultService) Archive(ctx context.Context, sessionID string) (domain.NamedBuffer, error) {
	result, err := s.Get(ctx, sessionID)
	if err != nil {
		return domain.NamedBuffer{}, err
	}
	return s.Package(result)
}

// Package implements driving.ResultService.
func (s *ResultService) Package(result *domain.BatchResult) (domain.NamedBuffer, error) {
	data, err := s.packager.Pack(result.Documents)
	if err != nil {
		return domain.NamedBuffer{}, fmt.Errorf("package %s: %w", result.ArchiveName, err)
	}
	return domain.NamedBuffer{Name: result.ArchiveName, Content: data}, nil
}

// Clear implements driving.ResultService.
func (s *ResultService) Clear(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

// Expire implements driving.ResultService.
func (s *ResultService) Expire(ctx context.Context) (int, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	n, err := s.store.Expire(ctx, s.now().Add(-s.ttl))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Debug("Expired %d result sessions", n)
	}
	return n, nil
}
