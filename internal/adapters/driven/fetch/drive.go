package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driven"
	"github.com/custodia-labs/fiches/internal/logger"
)

// Ensure DriveFetcher implements the interface.
var _ driven.SourceFetcher = (*DriveFetcher)(nil)

// DriveScheme prefixes locations read through the Drive API.
const DriveScheme = "gdrive://"

// Google Workspace MIME types and the formats they are exported to.
const (
	mimeGoogleSheet = "application/vnd.google-apps.spreadsheet"
	mimeGoogleDoc   = "application/vnd.google-apps.document"
	mimeFolder      = "application/vnd.google-apps.folder"
)

var exportFormats = map[string]string{
	mimeGoogleSheet: domain.MIMETypeXLSX,
	mimeGoogleDoc:   domain.MIMETypePDF,
}

// DriveFetcher downloads gdrive://<fileID> locations. Native Google Sheets
// are exported to xlsx and Google Docs to PDF.
type DriveFetcher struct {
	svc      *drive.Service
	limiter  *RateLimiter
	maxBytes int64
}

// NewDriveFetcher creates a Drive API client. An access token takes
// precedence over an API key; with neither, requests are unauthenticated.
// Extra options are appended after the credential options.
func NewDriveFetcher(
	ctx context.Context, cfg domain.FetchSettings, creds domain.DriveSettings, opts ...option.ClientOption,
) (*DriveFetcher, error) {
	var clientOpts []option.ClientOption
	switch {
	case creds.AccessToken != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.AccessToken, TokenType: "Bearer"})
		clientOpts = append(clientOpts, option.WithTokenSource(ts))
	case creds.APIKey != "":
		clientOpts = append(clientOpts, option.WithAPIKey(creds.APIKey))
	default:
		clientOpts = append(clientOpts, option.WithoutAuthentication())
	}
	if cfg.UserAgent != "" {
		clientOpts = append(clientOpts, option.WithUserAgent(cfg.UserAgent))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &DriveFetcher{svc: svc, limiter: NewRateLimiter(cfg), maxBytes: cfg.MaxBytes}, nil
}

// Supports implements driven.SourceFetcher.
func (f *DriveFetcher) Supports(location string) bool {
	return strings.HasPrefix(location, DriveScheme) && driveFileID(location) != ""
}

// Fetch implements driven.SourceFetcher.
func (f *DriveFetcher) Fetch(ctx context.Context, location string) (*domain.Payload, error) {
	id := driveFileID(location)
	if id == "" {
		return nil, fmt.Errorf("%w: %w: no file ID in %q", domain.ErrFetchFailed, domain.ErrInvalidInput, location)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	file, err := f.svc.Files.Get(id).
		Fields("id", "name", "mimeType", "size").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, f.wrapError(ctx, id, err)
	}
	if file.MimeType == mimeFolder {
		return nil, fmt.Errorf("%w: %w: %s is a folder", domain.ErrFetchFailed, domain.ErrUnsupportedType, id)
	}
	if f.maxBytes > 0 && file.Size > f.maxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", domain.ErrFetchFailed, id, file.Size, f.maxBytes)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	mimeType := file.MimeType
	name := file.Name
	var resp *http.Response
	if export, ok := exportFormats[file.MimeType]; ok {
		logger.Debug("Exporting drive file %s (%s) as %s", id, file.Name, export)
		resp, err = f.svc.Files.Export(id, export).Context(ctx).Download()
		mimeType = export
		name = exportName(file.Name, export)
	} else {
		logger.Debug("Downloading drive file %s (%s)", id, file.Name)
		resp, err = f.svc.Files.Get(id).SupportsAllDrives(true).Context(ctx).Download()
	}
	if err != nil {
		return nil, f.wrapError(ctx, id, err)
	}
	defer resp.Body.Close()

	content, err := readLimited(resp.Body, f.maxBytes)
	if err != nil {
		return nil, err
	}
	return &domain.Payload{Location: location, Name: name, MIMEType: mimeType, Content: content}, nil
}

// wrapError maps Drive API failures onto domain errors.
func (f *DriveFetcher) wrapError(ctx context.Context, id string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w: drive file %s", domain.ErrFetchFailed, domain.ErrNotFound, id)
		case http.StatusTooManyRequests:
			f.limiter.Backoff(parseRetryAfter(gerr.Header.Get("Retry-After")))
			return fmt.Errorf("%w: %w: drive file %s", domain.ErrFetchFailed, domain.ErrRateLimited, id)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: access to drive file %s denied: %s", domain.ErrFetchFailed, id, gerr.Message)
		}
	}
	return fmt.Errorf("%w: drive file %s: %v", domain.ErrFetchFailed, id, err)
}

// driveFileID extracts the ID from gdrive://<id> or gdrive://files/<id>.
func driveFileID(location string) string {
	id := strings.TrimPrefix(location, DriveScheme)
	id = strings.TrimPrefix(id, "files/")
	return strings.Trim(id, "/ ")
}

func exportName(name, mimeType string) string {
	for ext, m := range extMIME {
		if m == mimeType && !strings.HasSuffix(strings.ToLower(name), ext) {
			return name + ext
		}
	}
	return name
}
