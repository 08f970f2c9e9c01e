package outdir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/logger"
)

// Writer stores generated documents under one directory.
type Writer struct {
	dir string
}

// New creates a writer for dir. The directory is created on first write.
func New(dir string) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{dir: dir}
}

// Dir returns the target directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Write stores every buffer and returns the written paths in order.
// Existing files with the same name are replaced.
func (w *Writer) Write(buffers ...domain.NamedBuffer) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	paths := make([]string, 0, len(buffers))
	for _, b := range buffers {
		p, err := w.path(b.Name)
		if err != nil {
			return paths, err
		}
		if err := os.WriteFile(p, b.Content, 0o644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", b.Name, err)
		}
		logger.Debug("Wrote %s (%d bytes)", p, len(b.Content))
		paths = append(paths, p)
	}
	return paths, nil
}

// WriteResult stores the documents of a result, then the archive when given.
func (w *Writer) WriteResult(result *domain.BatchResult, archive *domain.NamedBuffer) ([]string, error) {
	buffers := result.Documents
	if archive != nil {
		buffers = append(append([]domain.NamedBuffer(nil), buffers...), *archive)
	}
	return w.Write(buffers...)
}

// path rejects names that would leave the directory.
func (w *Writer) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: output name %q", domain.ErrInvalidInput, name)
	}
	return filepath.Join(w.dir, name), nil
}
