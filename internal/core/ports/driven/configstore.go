package driven

// ConfigStore holds flattened configuration keys such as
// "profiles.fiches.source". Typed getters return the zero value when a key
// is absent or holds another type.
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	GetString(key string) string

	// GetInt truncates float values.
	GetInt(key string) int

	GetBool(key string) bool

	// GetFloat widens integer values.
	GetFloat(key string) float64

	// GetStringSlice skips non-string items.
	GetStringSlice(key string) []string

	// Keys lists every set key in lexical order.
	Keys() []string

	// Set stores value under key. File-backed stores persist it immediately.
	Set(key string, value any) error

	// Save writes the configuration back to its backing file.
	Save() error

	// Load replaces the in-memory values with the backing file's content.
	Load() error

	// Path is the backing file, or ":memory:".
	Path() string
}
