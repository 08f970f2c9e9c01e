package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driven"
	"github.com/custodia-labs/fiches/internal/core/ports/driving"
	"github.com/custodia-labs/fiches/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyFetchTimeout    = "fetch.timeout_seconds"
	keyFetchRate       = "fetch.requests_per_second"
	keyFetchBurst      = "fetch.burst"
	keyFetchMaxBytes   = "fetch.max_bytes"
	keyFetchUserAgent  = "fetch.user_agent"
	keyDriveAPIKey     = "drive.api_key"
	keyDriveToken      = "drive.access_token"
	keyBatchPolicy     = "batch.policy"
	keyBatchWorkers    = "batch.concurrency"
	keyBatchVerify     = "batch.verify"
	keyBatchCompress   = "batch.compress"
	keyServerListen    = "server.listen"
	keyServerTTL       = "server.session_ttl_minutes"
	keyStampFontFamily = "stamp.font_family"
	keyStampFontPath   = "stamp.font_path"

	profilesPrefix = "profiles."
)

// Profile keys, relative to "profiles.<name>.".
const (
	profDescription = "description"
	profMode        = "mode"
	profSource      = "source"
	profDocument    = "document"
	profMapping     = "mapping"
	profArchive     = "archive"
	profFontFamily  = "font_family"
	profFontSize    = "font_size"
	profInsetX      = "inset_x"
	profInsetY      = "inset_y"
	profPageIndex   = "page_index"
	profNameX       = "name_x"
	profNameY       = "name_y"
	profDateX       = "date_x"
	profDateY       = "date_y"
	profLastName    = "last_name_column"
	profFirstName   = "first_name_column"
	profDate        = "date_column"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Fetch: domain.FetchSettings{
			TimeoutSeconds:    s.getInt(keyFetchTimeout, defaults.Fetch.TimeoutSeconds),
			RequestsPerSecond: s.getFloat(keyFetchRate, defaults.Fetch.RequestsPerSecond),
			Burst:             s.getInt(keyFetchBurst, defaults.Fetch.Burst),
			MaxBytes:          int64(s.getInt(keyFetchMaxBytes, int(defaults.Fetch.MaxBytes))),
			UserAgent:         s.getString(keyFetchUserAgent, defaults.Fetch.UserAgent),
		},
		Drive: domain.DriveSettings{
			APIKey:      s.configStore.GetString(keyDriveAPIKey),
			AccessToken: s.configStore.GetString(keyDriveToken),
		},
		Batch: domain.BatchSettings{
			Policy:      s.getPolicy(defaults.Batch.Policy),
			Concurrency: s.getInt(keyBatchWorkers, defaults.Batch.Concurrency),
			Verify:      s.getBool(keyBatchVerify, defaults.Batch.Verify),
			Compress:    s.getBool(keyBatchCompress, defaults.Batch.Compress),
		},
		Server: domain.ServerSettings{
			Listen:            s.getString(keyServerListen, defaults.Server.Listen),
			SessionTTLMinutes: s.getInt(keyServerTTL, defaults.Server.SessionTTLMinutes),
		},
		StampFont: domain.StampFontSettings{
			Family: s.configStore.GetString(keyStampFontFamily),
			Path:   s.configStore.GetString(keyStampFontPath),
		},
		Profiles: make(map[string]domain.Profile),
	}

	for name, base := range defaults.Profiles {
		settings.Profiles[name] = base
	}
	for _, name := range s.configuredProfiles() {
		base, ok := settings.Profiles[name]
		if !ok {
			base = domain.Profile{
				Name:   name,
				Mode:   domain.ModeForm,
				Font:   domain.DefaultFont(),
				Schema: domain.DefaultRowSchema(),
			}
		}
		profile, err := s.readProfile(name, base)
		if err != nil {
			return nil, err
		}
		settings.Profiles[name] = profile
	}

	if settings.StampFont.Path != "" && settings.StampFont.Family != "" {
		for name, p := range settings.Profiles {
			if p.Mode == domain.ModeStamp && !s.exists(profileKey(name, profFontFamily)) {
				p.Font.Family = settings.StampFont.Family
				settings.Profiles[name] = p
			}
		}
	}

	for name, p := range settings.Profiles {
		settings.Profiles[name] = s.applyEnv(p)
	}

	return settings, nil
}

// Profile resolves one profile, with environment overrides applied.
func (s *SettingsService) Profile(name string) (domain.Profile, error) {
	settings, err := s.Get()
	if err != nil {
		return domain.Profile{}, err
	}
	return settings.Profile(name)
}

// SetProfileLocation persists the source or document location of a profile.
// Empty values leave the current setting unchanged.
func (s *SettingsService) SetProfileLocation(name, source, document string) error {
	if name == "" || strings.Contains(name, ".") {
		return fmt.Errorf("%w: profile name %q", domain.ErrInvalidInput, name)
	}
	if source != "" {
		if err := s.configStore.Set(profileKey(name, profSource), source); err != nil {
			return fmt.Errorf("failed to save source: %w", err)
		}
	}
	if document != "" {
		if err := s.configStore.Set(profileKey(name, profDocument), document); err != nil {
			return fmt.Errorf("failed to save document: %w", err)
		}
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return *domain.DefaultAppSettings()
}

func (s *SettingsService) configuredProfiles() []string {
	seen := make(map[string]bool)
	var names []string
	for _, key := range s.configStore.Keys() {
		rest, ok := strings.CutPrefix(key, profilesPrefix)
		if !ok {
			continue
		}
		name, _, ok := strings.Cut(rest, ".")
		if !ok || name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func (s *SettingsService) readProfile(name string, base domain.Profile) (domain.Profile, error) {
	key := func(field string) string { return profileKey(name, field) }

	p := base
	p.Name = name
	p.Description = s.getString(key(profDescription), base.Description)
	p.Mode = domain.Mode(s.getString(key(profMode), string(base.Mode)))
	if !p.Mode.IsValid() {
		return domain.Profile{}, fmt.Errorf("%w: profile %q has unknown mode %q", domain.ErrInvalidInput, name, p.Mode)
	}
	p.Source = s.getString(key(profSource), base.Source)
	p.Document = s.getString(key(profDocument), base.Document)
	p.Mapping = s.getString(key(profMapping), base.Mapping)
	p.Archive = s.getString(key(profArchive), base.Archive)
	p.Font.Family = s.getString(key(profFontFamily), base.Font.Family)
	p.Font.Size = s.getFloat(key(profFontSize), base.Font.Size)
	p.Inset.X = s.getFloat(key(profInsetX), base.Inset.X)
	p.Inset.Y = s.getFloat(key(profInsetY), base.Inset.Y)
	p.PageIndex = s.getIndex(key(profPageIndex), base.PageIndex)
	p.NameAt.X = s.getFloat(key(profNameX), base.NameAt.X)
	p.NameAt.Y = s.getFloat(key(profNameY), base.NameAt.Y)
	p.DateAt.X = s.getFloat(key(profDateX), base.DateAt.X)
	p.DateAt.Y = s.getFloat(key(profDateY), base.DateAt.Y)

	var err error
	if p.Schema.LastName, err = s.getColumn(key(profLastName), base.Schema.LastName); err != nil {
		return domain.Profile{}, err
	}
	if p.Schema.FirstName, err = s.getColumn(key(profFirstName), base.Schema.FirstName); err != nil {
		return domain.Profile{}, err
	}
	if p.Schema.Date, err = s.getColumn(key(profDate), base.Schema.Date); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

// applyEnv overrides locations from FICHES_<PROFILE>_SOURCE and FICHES_<PROFILE>_DOCUMENT.
func (s *SettingsService) applyEnv(p domain.Profile) domain.Profile {
	prefix := "FICHES_" + envName(p.Name) + "_"
	if v := s.getenv(prefix + "SOURCE"); v != "" {
		logger.Debug("Profile %s source overridden by environment", p.Name)
		p.Source = v
	}
	if v := s.getenv(prefix + "DOCUMENT"); v != "" {
		logger.Debug("Profile %s document overridden by environment", p.Name)
		p.Document = v
	}
	return p
}

func envName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
}

func profileKey(name, field string) string {
	return profilesPrefix + name + "." + field
}

func (s *SettingsService) exists(key string) bool {
	_, ok := s.configStore.Get(key)
	return ok
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getIndex is getInt for values where zero is meaningful.
func (s *SettingsService) getIndex(key string, defaultVal int) int {
	if !s.exists(key) {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if !s.exists(key) {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if !s.exists(key) {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getColumn(key string, defaultVal int) (int, error) {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal, nil
	}
	idx, err := domain.ColumnIndex(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return idx, nil
}

func (s *SettingsService) getPolicy(defaultVal domain.ErrorPolicy) domain.ErrorPolicy {
	val := s.configStore.GetString(keyBatchPolicy)
	if val == "" {
		return defaultVal
	}
	policy := domain.ErrorPolicy(val)
	if !policy.IsValid() {
		return defaultVal
	}
	return policy
}
