// Package fetch retrieves source spreadsheets and template documents.
//
// A location is one of:
//
//   - an http:// or https:// URL, such as a Google Drive download link
//   - gdrive://<fileID>, read through the Google Drive API
//   - a local path or file:// URL
//
// Router dispatches a location to the first fetcher that supports it.
// Every fetcher wraps its failures in domain.ErrFetchFailed.
package fetch
