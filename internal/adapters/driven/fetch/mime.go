package fetch

import (
	"mime"
	"path"
	"strings"

	"github.com/custodia-labs/fiches/internal/core/domain"
)

var extMIME = map[string]string{
	".xlsx": domain.MIMETypeXLSX,
	".xlsm": "application/vnd.ms-excel.sheet.macroEnabled.12",
	".csv":  domain.MIMETypeCSV,
	".pdf":  domain.MIMETypePDF,
}

// mimeFor guesses a content type from a file name.
func mimeFor(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if m, ok := extMIME[ext]; ok {
		return m
	}
	if m := mime.TypeByExtension(ext); m != "" {
		return m
	}
	return "application/octet-stream"
}

// mediaType strips parameters from a Content-Type value.
func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mt
}
