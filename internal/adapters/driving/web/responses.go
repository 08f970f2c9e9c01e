package web

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/logger"
)

// writeFile sends a generated file. PDFs open inline, archives download.
func writeFile(w http.ResponseWriter, file domain.NamedBuffer, contentType string) {
	disposition := "attachment"
	if contentType == "application/pdf" {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, file.Name))
	w.Header().Set("Content-Length", fmt.Sprint(len(file.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Content); err != nil {
		logger.Warn("writing %s to response: %v", file.Name, err)
	}
}

// statusFor maps a batch or lookup error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		return http.StatusGone
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	}
	switch domain.Classify(err) {
	case domain.ErrorKindFetch:
		return http.StatusBadGateway
	case domain.ErrorKindConfiguration:
		return http.StatusBadRequest
	case domain.ErrorKindSpreadsheet, domain.ErrorKindRender:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// recoverWrapper turns handler panics into a 500.
func recoverWrapper(inner http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic serving %s: %v\n%s", r.URL.Path, rec, debug.Stack())
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		inner.ServeHTTP(w, r)
	})
}
