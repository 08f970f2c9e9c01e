package domain

import (
	"fmt"
	"sort"
)

const unknownDescription = "Unknown"

// Mode selects the pipeline strategy of a batch.
type Mode string

// Available modes.
const (
	// ModeForm fills the named widgets of a template, one overlay page per template page.
	ModeForm Mode = "form"

	// ModeStamp draws a name and a date onto one page of a reference document.
	ModeStamp Mode = "stamp"
)

// IsValid returns true if the mode is recognised.
func (m Mode) IsValid() bool {
	return m == ModeForm || m == ModeStamp
}

// String returns the string representation.
func (m Mode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m Mode) Description() string {
	switch m {
	case ModeForm:
		return "Form fill (every template page)"
	case ModeStamp:
		return "Stamp (one page of a reference document)"
	default:
		return unknownDescription
	}
}

// ErrorPolicy decides what a row failure does to the batch.
type ErrorPolicy string

// Available error policies.
const (
	// PolicyAbort stops the batch on the first row error; no partial result is exposed.
	PolicyAbort ErrorPolicy = "abort"

	// PolicyContinue records failed rows and keeps going.
	PolicyContinue ErrorPolicy = "continue"
)

// IsValid returns true if the policy is recognised.
func (p ErrorPolicy) IsValid() bool {
	return p == PolicyAbort || p == PolicyContinue
}

// Profile is a named batch configuration.
type Profile struct {
	Name        string
	Description string
	Mode        Mode

	// Source is the spreadsheet location (URL, path or gdrive://id).
	Source string

	// Document is the template (form mode) or reference document (stamp mode) location.
	Document string

	// Mapping is the field mapping file; empty selects the built-in mapping.
	Mapping string

	// Archive is the ZIP file name.
	Archive string

	Font   FontSpec
	Schema RowSchema

	// Inset offsets form text from the widget's lower-left corner.
	Inset Point

	// PageIndex is the zero-based page stamped in stamp mode.
	PageIndex int

	// NameAt and DateAt position stamped text.
	NameAt Point
	DateAt Point
}

// Validate checks the fields every batch needs.
func (p Profile) Validate() error {
	if !p.Mode.IsValid() {
		return fmt.Errorf("%w: profile %q has unknown mode %q", ErrInvalidInput, p.Name, p.Mode)
	}
	if p.Source == "" {
		return fmt.Errorf("%w: profile %q has no spreadsheet source", ErrInvalidInput, p.Name)
	}
	if p.Document == "" {
		return fmt.Errorf("%w: profile %q has no document", ErrInvalidInput, p.Name)
	}
	if p.Archive == "" {
		return fmt.Errorf("%w: profile %q has no archive name", ErrInvalidInput, p.Name)
	}
	if p.Font.Size <= 0 {
		return fmt.Errorf("%w: profile %q font size must be positive", ErrInvalidInput, p.Name)
	}
	if p.Mode == ModeStamp && p.PageIndex < 0 {
		return fmt.Errorf("%w: profile %q page index %d", ErrPageOutOfRange, p.Name, p.PageIndex)
	}
	return nil
}

// FetchSettings configures remote retrieval.
type FetchSettings struct {
	TimeoutSeconds    int
	RequestsPerSecond float64
	Burst             int
	MaxBytes          int64
	UserAgent         string
}

// DriveSettings configures gdrive:// locations.
type DriveSettings struct {
	APIKey      string
	AccessToken string
}

// IsConfigured returns true when some Drive credential is set.
func (d DriveSettings) IsConfigured() bool {
	return d.APIKey != "" || d.AccessToken != ""
}

// BatchSettings configures row processing.
type BatchSettings struct {
	Policy      ErrorPolicy
	Concurrency int
	Verify      bool
	Compress    bool
}

// ServerSettings configures the web form.
type ServerSettings struct {
	Listen            string
	SessionTTLMinutes int
}

// StampFontSettings names a TrueType font registered once at process start.
// An empty path keeps the core font of each profile.
type StampFontSettings struct {
	Family string
	Path   string
}

// AppSettings contains all user-configurable settings.
type AppSettings struct {
	Fetch     FetchSettings
	Drive     DriveSettings
	Batch     BatchSettings
	Server    ServerSettings
	StampFont StampFontSettings
	Profiles  map[string]Profile
}

// ProfileNames returns the configured profile names in lexical order.
func (s *AppSettings) ProfileNames() []string {
	names := make([]string, 0, len(s.Profiles))
	for n := range s.Profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Profile returns a profile by name.
func (s *AppSettings) Profile(name string) (Profile, error) {
	p, ok := s.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// DefaultProfiles returns the three built-in profiles.
// Locations are left empty and come from configuration.
func DefaultProfiles() map[string]Profile {
	form := func(name, archive, desc string) Profile {
		return Profile{
			Name:        name,
			Description: desc,
			Mode:        ModeForm,
			Archive:     archive,
			Font:        DefaultFont(),
			Schema:      DefaultRowSchema(),
			Inset:       Point{X: 4, Y: 6},
		}
	}
	return map[string]Profile{
		"fiches":    form("fiches", ArchiveFiches, "Fiches de renseignements"),
		"etudiants": form("etudiants", ArchiveStudents, "PDFs étudiants"),
		"reglements": {
			Name:        "reglements",
			Description: "Règlements signés",
			Mode:        ModeStamp,
			Archive:     ArchiveReglements,
			Font:        FontSpec{Family: "Helvetica", Size: 11},
			Schema:      DefaultRowSchema(),
			PageIndex:   0,
			NameAt:      Point{X: 150, Y: 160},
			DateAt:      Point{X: 400, Y: 160},
		},
	}
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() *AppSettings {
	return &AppSettings{
		Fetch: FetchSettings{
			TimeoutSeconds:    60,
			RequestsPerSecond: 5,
			Burst:             2,
			MaxBytes:          64 << 20,
			UserAgent:         "fiches",
		},
		Batch: BatchSettings{
			Policy:      PolicyAbort,
			Concurrency: 1,
			Compress:    true,
		},
		Server: ServerSettings{
			Listen:            "127.0.0.1:8501",
			SessionTTLMinutes: 60,
		},
		Profiles: DefaultProfiles(),
	}
}
