package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/custodia-labs/fiches/internal/core/domain"
)

func fakeDrive(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		media := r.URL.Query().Get("alt") == "media"
		switch r.URL.Path {
		case "/drive/v3/files/sheet1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"sheet1","name":"Eleves","mimeType":"application/vnd.google-apps.spreadsheet"}`))
		case "/drive/v3/files/sheet1/export":
			if r.URL.Query().Get("mimeType") != domain.MIMETypeXLSX {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte("PK\x03\x04exported"))
		case "/drive/v3/files/pdf1":
			if media {
				_, _ = w.Write([]byte("%PDF-1.4 fiche"))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"pdf1","name":"Fiche.pdf","mimeType":"application/pdf","size":"14"}`))
		case "/drive/v3/files/folder1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"folder1","name":"Docs","mimeType":"application/vnd.google-apps.folder"}`))
		default:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"File not found"}}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestDriveFetcher(t *testing.T, srv *httptest.Server) *DriveFetcher {
	t.Helper()
	f, err := NewDriveFetcher(context.Background(), testFetchSettings(), domain.DriveSettings{},
		option.WithEndpoint(srv.URL+"/drive/v3/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return f
}

func TestDriveFetcher_Supports(t *testing.T) {
	f := newTestDriveFetcher(t, fakeDrive(t))

	assert.True(t, f.Supports("gdrive://abc"))
	assert.True(t, f.Supports("gdrive://files/abc"))
	assert.False(t, f.Supports("gdrive://"))
	assert.False(t, f.Supports("https://drive.google.com/uc?id=abc"))
}

func TestDriveFetcher_ExportsSheets(t *testing.T) {
	f := newTestDriveFetcher(t, fakeDrive(t))

	payload, err := f.Fetch(context.Background(), "gdrive://sheet1")
	require.NoError(t, err)
	assert.Equal(t, "Eleves.xlsx", payload.Name)
	assert.Equal(t, domain.MIMETypeXLSX, payload.MIMEType)
	assert.Equal(t, "PK\x03\x04exported", string(payload.Content))
}

func TestDriveFetcher_DownloadsFiles(t *testing.T) {
	f := newTestDriveFetcher(t, fakeDrive(t))

	payload, err := f.Fetch(context.Background(), "gdrive://files/pdf1")
	require.NoError(t, err)
	assert.Equal(t, "Fiche.pdf", payload.Name)
	assert.Equal(t, domain.MIMETypePDF, payload.MIMEType)
	assert.Equal(t, "%PDF-1.4 fiche", string(payload.Content))
}

func TestDriveFetcher_Failures(t *testing.T) {
	f := newTestDriveFetcher(t, fakeDrive(t))

	_, err := f.Fetch(context.Background(), "gdrive://missing")
	assert.True(t, errors.Is(err, domain.ErrFetchFailed))
	assert.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)

	_, err = f.Fetch(context.Background(), "gdrive://folder1")
	assert.True(t, errors.Is(err, domain.ErrUnsupportedType), "got %v", err)
}
