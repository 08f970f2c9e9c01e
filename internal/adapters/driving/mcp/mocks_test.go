package mcp

import (
	"context"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driving"
)

// mockBatchService is a mock implementation of driving.BatchService.
type mockBatchService struct {
	result *domain.BatchResult
	err    error
	got    driving.BatchRequest
}

func (m *mockBatchService) Run(_ context.Context, req driving.BatchRequest) (*domain.BatchResult, error) {
	m.got = req
	return m.result, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func newMockSettings() *mockSettingsService {
	s := domain.DefaultAppSettings()
	p := s.Profiles["fiches"]
	p.Source = "https://example.test/fiches.xlsx"
	p.Document = "https://example.test/fiche.pdf"
	s.Profiles["fiches"] = p
	return &mockSettingsService{settings: s}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Profile(name string) (domain.Profile, error) {
	if m.err != nil {
		return domain.Profile{}, m.err
	}
	return m.settings.Profile(name)
}

func (m *mockSettingsService) SetProfileLocation(_, _, _ string) error {
	return m.err
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return *domain.DefaultAppSettings()
}

// mockResultService is a mock implementation of driving.ResultService.
type mockResultService struct {
	archive domain.NamedBuffer
	err     error
}

func (m *mockResultService) Save(_ context.Context, _ string, _ *domain.BatchResult) error {
	return m.err
}

func (m *mockResultService) Get(_ context.Context, _ string) (*domain.BatchResult, error) {
	return nil, m.err
}

func (m *mockResultService) Document(_ context.Context, _, _ string) (domain.NamedBuffer, error) {
	return domain.NamedBuffer{}, m.err
}

func (m *mockResultService) Archive(_ context.Context, _ string) (domain.NamedBuffer, error) {
	return m.archive, m.err
}

func (m *mockResultService) Package(_ *domain.BatchResult) (domain.NamedBuffer, error) {
	return m.archive, m.err
}

func (m *mockResultService) Clear(_ context.Context, _ string) error {
	return m.err
}

func (m *mockResultService) Expire(_ context.Context) (int, error) {
	return 0, m.err
}

// mockMappingService is a mock implementation of driving.MappingService.
type mockMappingService struct {
	mapping *domain.FieldMapping
	err     error
	got     string
}

func (m *mockMappingService) Resolve(profile domain.Profile) (*domain.FieldMapping, error) {
	m.got = profile.Name
	return m.mapping, m.err
}
