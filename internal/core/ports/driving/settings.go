package driving

import "github.com/custodia-labs/fiches/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Profile resolves one profile, with environment overrides applied.
	Profile(name string) (domain.Profile, error)

	// SetProfileLocation persists the source or document location of a profile.
	SetProfileLocation(name, source, document string) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
