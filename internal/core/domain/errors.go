package domain

import (
	"context"
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown spreadsheet format or location scheme.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrRateLimited indicates the remote host rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Fetch Errors.

	// ErrFetchFailed indicates a spreadsheet or document could not be retrieved.
	ErrFetchFailed = errors.New("fetch failed")

	// Parse Errors.

	// ErrMalformedSpreadsheet indicates the spreadsheet bytes could not be read.
	ErrMalformedSpreadsheet = errors.New("malformed spreadsheet")

	// ErrMalformedDocument indicates a PDF could not be parsed or written.
	ErrMalformedDocument = errors.New("malformed document")

	// Configuration Errors.

	// ErrPageOutOfRange indicates a configured page index does not exist in the document.
	// It is fatal for the whole batch and is raised before any row is rendered.
	ErrPageOutOfRange = errors.New("page index out of range")

	// ErrPageCountMismatch indicates an overlay does not line up with the document pages.
	ErrPageCountMismatch = errors.New("page count mismatch")

	// ErrUnknownProfile indicates no profile with the requested name is configured.
	ErrUnknownProfile = errors.New("unknown profile")

	// ErrSessionExpired indicates the result store no longer holds a session.
	ErrSessionExpired = errors.New("session expired")
)

// BatchError reports the failure of a single spreadsheet row.
type BatchError struct {
	// Row is the zero-based data row index (header excluded).
	Row int

	// Err is the underlying failure.
	Err error
}

// Error implements error.
func (e *BatchError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row+1, e.Err)
}

// Unwrap exposes the underlying error to errors.Is and errors.As.
func (e *BatchError) Unwrap() error {
	return e.Err
}

// ErrorKind groups errors by where in a batch they originate.
type ErrorKind string

// Error kinds.
const (
	ErrorKindFetch         ErrorKind = "fetch"
	ErrorKindSpreadsheet   ErrorKind = "spreadsheet"
	ErrorKindConfiguration ErrorKind = "configuration"
	ErrorKindRender        ErrorKind = "render"
	ErrorKindCancelled     ErrorKind = "cancelled"
	ErrorKindUnknown       ErrorKind = "unknown"
)

// Classify maps an error to its kind.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorKindCancelled
	case errors.Is(err, ErrFetchFailed), errors.Is(err, ErrRateLimited):
		return ErrorKindFetch
	case errors.Is(err, ErrMalformedSpreadsheet):
		return ErrorKindSpreadsheet
	case errors.Is(err, ErrPageOutOfRange),
		errors.Is(err, ErrUnknownProfile),
		errors.Is(err, ErrUnsupportedType),
		errors.Is(err, ErrInvalidInput):
		return ErrorKindConfiguration
	case errors.Is(err, ErrMalformedDocument), errors.Is(err, ErrPageCountMismatch):
		return ErrorKindRender
	default:
		return ErrorKindUnknown
	}
}

// UserMessage renders the single human-readable message shown when a batch fails.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var prefix string
	switch Classify(err) {
	case ErrorKindFetch:
		prefix = "téléchargement impossible"
	case ErrorKindSpreadsheet:
		prefix = "tableur illisible"
	case ErrorKindConfiguration:
		prefix = "configuration invalide"
	case ErrorKindRender:
		prefix = "génération du PDF impossible"
	case ErrorKindCancelled:
		prefix = "opération annulée"
	default:
		return fmt.Sprintf("Erreur : %v", err)
	}
	return fmt.Sprintf("Erreur : %s (%v)", prefix, err)
}
