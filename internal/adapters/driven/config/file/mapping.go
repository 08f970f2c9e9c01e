package file

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driven"
	"github.com/custodia-labs/fiches/internal/logger"
)

// Ensure MappingStore implements the interface.
var _ driven.MappingLoader = (*MappingStore)(nil)

//go:embed mapping.toml
var builtinMapping []byte

// BuiltinMappingName names the embedded mapping in listings.
const BuiltinMappingName = "builtin"

// mappingFile is the on-disk mapping format.
type mappingFile struct {
	Name   string            `toml:"name" yaml:"name"`
	Fields map[string]string `toml:"fields" yaml:"fields"`
}

// MappingStore loads field mappings from TOML or YAML files and caches
// them by path. An empty location selects the embedded default.
type MappingStore struct {
	mu    sync.RWMutex
	cache map[string]*domain.FieldMapping

	builtinOnce sync.Once
	builtin     *domain.FieldMapping
	builtinErr  error
}

// NewMappingStore creates an empty mapping store.
func NewMappingStore() *MappingStore {
	return &MappingStore{cache: make(map[string]*domain.FieldMapping)}
}

// Load implements driven.MappingLoader.
func (s *MappingStore) Load(location string) (*domain.FieldMapping, error) {
	if location == "" || location == BuiltinMappingName {
		s.builtinOnce.Do(func() {
			s.builtin, s.builtinErr = parseMapping(builtinMapping, ".toml", BuiltinMappingName)
		})
		return s.builtin, s.builtinErr
	}

	path, err := filepath.Abs(location)
	if err != nil {
		return nil, fmt.Errorf("%w: mapping path %q: %v", domain.ErrInvalidInput, location, err)
	}

	s.mu.RLock()
	m, ok := s.cache[path]
	s.mu.RUnlock()
	if ok {
		return m, nil
	}

	m, err = readMapping(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.cache[path]; ok {
		return cached, nil
	}
	s.cache[path] = m
	return m, nil
}

// Reload re-reads a cached mapping file. Paths never loaded are ignored.
// On error the previous mapping stays in place.
func (s *MappingStore) Reload(location string) error {
	path, err := filepath.Abs(location)
	if err != nil {
		return err
	}

	s.mu.RLock()
	_, ok := s.cache[path]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	m, err := readMapping(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cache[path] = m
	s.mu.Unlock()
	logger.Info("Reloaded mapping %s (%d fields)", path, m.Len())
	return nil
}

// Paths returns the files currently cached.
func (s *MappingStore) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.cache))
	for p := range s.cache {
		paths = append(paths, p)
	}
	return paths
}

func readMapping(path string) (*domain.FieldMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read mapping: %v", domain.ErrInvalidInput, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return parseMapping(data, filepath.Ext(path), name)
}

// parseMapping decodes a mapping document. Files without a name field are
// named after their file.
func parseMapping(data []byte, ext, fallbackName string) (*domain.FieldMapping, error) {
	var mf mappingFile
	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &mf)
	default:
		err = toml.Unmarshal(data, &mf)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode mapping %s: %v", domain.ErrInvalidInput, fallbackName, err)
	}
	if len(mf.Fields) == 0 {
		return nil, fmt.Errorf("%w: mapping %s has no fields", domain.ErrInvalidInput, fallbackName)
	}
	if mf.Name == "" {
		mf.Name = fallbackName
	}
	return domain.NewFieldMapping(mf.Name, mf.Fields)
}
