package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driven"
)

// Ensure FileFetcher implements the interface.
var _ driven.SourceFetcher = (*FileFetcher)(nil)

// FileFetcher reads local files.
type FileFetcher struct {
	maxBytes int64
}

// NewFileFetcher creates a local file fetcher. maxBytes <= 0 means no limit.
func NewFileFetcher(maxBytes int64) *FileFetcher {
	return &FileFetcher{maxBytes: maxBytes}
}

// Supports implements driven.SourceFetcher. Any location without a URL
// scheme is treated as a path.
func (f *FileFetcher) Supports(location string) bool {
	if strings.HasPrefix(location, "file://") {
		return true
	}
	return location != "" && !strings.Contains(location, "://")
}

// Fetch implements driven.SourceFetcher.
func (f *FileFetcher) Fetch(ctx context.Context, location string) (*domain.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := strings.TrimPrefix(location, "file://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w: %s", domain.ErrFetchFailed, domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer file.Close()

	content, err := readLimited(file, f.maxBytes)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	return &domain.Payload{
		Location: location,
		Name:     name,
		MIMEType: mimeFor(name),
		Content:  content,
	}, nil
}

// readLimited reads r fully, failing once more than max bytes arrive.
func readLimited(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: read: %v", domain.ErrFetchFailed, err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", domain.ErrFetchFailed, err)
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w: content exceeds %d bytes", domain.ErrFetchFailed, max)
	}
	return data, nil
}
