package domain

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// Archive names, fixed per profile.
const (
	ArchiveStudents   = "PDFs_etudiants.zip"
	ArchiveFiches     = "Fiches.zip"
	ArchiveReglements = "Reglements.zip"
)

// NamedBuffer is one generated document.
type NamedBuffer struct {
	Name    string
	Content []byte
}

var nameReplacer = strings.NewReplacer("/", "-", "\\", "-", "\x00", "")

// FormFileName returns "{last}_{first}.pdf".
func FormFileName(rec Record) string {
	return nameReplacer.Replace(fmt.Sprintf("%s_%s.pdf", rec.LastName(), rec.FirstName()))
}

// StampFileName returns "Reglement_{last} {first}.pdf".
func StampFileName(rec Record) string {
	return nameReplacer.Replace(fmt.Sprintf("Reglement_%s %s.pdf", rec.LastName(), rec.FirstName()))
}

// UniqueNames renames duplicates in place as "name (2).pdf", "name (3).pdf".
// The first occurrence keeps its name.
func UniqueNames(docs []NamedBuffer) {
	used := make(map[string]bool, len(docs))
	for i := range docs {
		name := docs[i].Name
		if used[name] {
			ext := path.Ext(name)
			base := strings.TrimSuffix(name, ext)
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s (%d)%s", base, n, ext)
				if !used[candidate] {
					name = candidate
					break
				}
			}
			docs[i].Name = name
		}
		used[name] = true
	}
}

// RowFailure records a row skipped under the continue policy.
type RowFailure struct {
	Row int
	Err error
}

// Message returns the failure text.
func (f RowFailure) Message() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

// BatchResult is the outcome of one batch.
type BatchResult struct {
	// ID identifies the batch.
	ID string

	// Profile is the profile name the batch ran with.
	Profile string

	// Mode is the pipeline strategy.
	Mode Mode

	// ArchiveName is the ZIP file name for the documents.
	ArchiveName string

	// Documents are the generated PDFs in spreadsheet row order.
	Documents []NamedBuffer

	// Failures are the rows skipped under the continue policy.
	Failures []RowFailure

	// Rows is the number of data rows read.
	Rows int

	StartedAt  time.Time
	FinishedAt time.Time
}

// Document returns the document with the given name.
func (r *BatchResult) Document(name string) (NamedBuffer, bool) {
	for _, d := range r.Documents {
		if d.Name == name {
			return d, true
		}
	}
	return NamedBuffer{}, false
}

// Names returns the document names in order.
func (r *BatchResult) Names() []string {
	names := make([]string, len(r.Documents))
	for i, d := range r.Documents {
		names[i] = d.Name
	}
	return names
}

// Duration returns how long the batch ran.
func (r *BatchResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
