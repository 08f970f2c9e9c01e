package pdf

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/logger"
)

// coreFonts are the standard PDF fonts available without embedding.
var coreFonts = map[string]bool{
	"courier":      true,
	"helvetica":    true,
	"arial":        true,
	"times":        true,
	"symbol":       true,
	"zapfdingbats": true,
}

// FontRegistry holds TrueType fonts registered once at process start.
// Lookups are safe for concurrent use.
type FontRegistry struct {
	mu    sync.RWMutex
	fonts map[string][]byte
}

// NewFontRegistry creates an empty registry.
func NewFontRegistry() *FontRegistry {
	return &FontRegistry{fonts: make(map[string][]byte)}
}

// Register adds a TrueType font under a family name.
func (r *FontRegistry) Register(family string, ttf []byte) error {
	key := strings.ToLower(strings.TrimSpace(family))
	if key == "" {
		return fmt.Errorf("%w: empty font family", domain.ErrInvalidInput)
	}
	if coreFonts[key] {
		return fmt.Errorf("%w: %q is a core font name", domain.ErrInvalidInput, family)
	}
	if len(ttf) == 0 {
		return fmt.Errorf("%w: font %q is empty", domain.ErrInvalidInput, family)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fonts[key] = ttf
	return nil
}

// RegisterFile reads a TrueType file and registers it.
func (r *FontRegistry) RegisterFile(family, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read font %s: %w", path, err)
	}
	if err := r.Register(family, data); err != nil {
		return err
	}
	logger.Debug("Registered font %s from %s", family, path)
	return nil
}

// Has reports whether a family is registered or is a core font.
func (r *FontRegistry) Has(family string) bool {
	key := strings.ToLower(family)
	if coreFonts[key] {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.fonts[key]
	return ok
}

// face is a font selected on a document together with its text encoder.
type face struct {
	family string
	encode func(string) string
}

// apply makes the font available on doc and returns how to encode text for it.
// Core fonts use WinAnsi, so UTF-8 text is translated to cp1252.
func (r *FontRegistry) apply(doc *fpdf.Fpdf, spec domain.FontSpec) (face, error) {
	key := strings.ToLower(spec.Family)
	if key == "" {
		key = "helvetica"
	}
	if coreFonts[key] {
		return face{family: key, encode: doc.UnicodeTranslatorFromDescriptor("")}, nil
	}

	r.mu.RLock()
	ttf, ok := r.fonts[key]
	r.mu.RUnlock()
	if !ok {
		return face{}, fmt.Errorf("%w: font %q is not registered", domain.ErrInvalidInput, spec.Family)
	}
	doc.AddUTF8FontFromBytes(key, "", ttf)
	if err := doc.Error(); err != nil {
		return face{}, fmt.Errorf("%w: font %q: %v", domain.ErrMalformedDocument, spec.Family, err)
	}
	return face{family: key, encode: func(s string) string { return s }}, nil
}
