package fetch

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driven"
	"github.com/custodia-labs/fiches/internal/logger"
)

// Ensure HTTPFetcher implements the interface.
var _ driven.SourceFetcher = (*HTTPFetcher)(nil)

// HTTPFetcher downloads http and https locations.
type HTTPFetcher struct {
	client    *http.Client
	limiter   *RateLimiter
	maxBytes  int64
	userAgent string
}

// NewHTTPFetcher creates a fetcher from settings. A nil client gets one
// with the configured timeout.
func NewHTTPFetcher(cfg domain.FetchSettings, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	}
	return &HTTPFetcher{
		client:    client,
		limiter:   NewRateLimiter(cfg),
		maxBytes:  cfg.MaxBytes,
		userAgent: cfg.UserAgent,
	}
}

// Supports implements driven.SourceFetcher.
func (f *HTTPFetcher) Supports(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Fetch implements driven.SourceFetcher. HTML responses are rejected: a
// sharing link that is not a direct download returns a web page.
func (f *HTTPFetcher) Fetch(ctx context.Context, location string) (*domain.Payload, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrFetchFailed, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	logger.Debug("GET %s", location)
	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		f.limiter.Backoff(parseRetryAfter(resp.Header.Get("Retry-After")))
		return nil, fmt.Errorf("%w: %w: %s", domain.ErrFetchFailed, domain.ErrRateLimited, location)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %w: %s", domain.ErrFetchFailed, domain.ErrNotFound, location)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrFetchFailed, location, resp.StatusCode)
	}

	contentType := mediaType(resp.Header.Get("Content-Type"))
	if contentType == "text/html" {
		return nil, fmt.Errorf("%w: %s returned a web page instead of a file", domain.ErrFetchFailed, location)
	}

	content, err := readLimited(resp.Body, f.maxBytes)
	if err != nil {
		return nil, err
	}

	name := responseName(resp)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimeFor(name)
	}
	return &domain.Payload{
		Location: location,
		Name:     name,
		MIMEType: contentType,
		Content:  content,
	}, nil
}

// responseName prefers the Content-Disposition filename over the URL path.
func responseName(resp *http.Response) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			return params["filename"]
		}
	}
	name := path.Base(resp.Request.URL.Path)
	if name == "/" || name == "." {
		return ""
	}
	return strings.TrimSpace(name)
}
