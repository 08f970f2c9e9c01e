package domain

// Payload represents opaque bytes fetched from a location.
// It is the fetcher's output before a spreadsheet or PDF is parsed.
type Payload struct {
	// Location is the location the payload was fetched from.
	Location string

	// Name is the file name, when the source reports one.
	Name string

	// MIMEType is the content type (e.g., "text/csv").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}

// MIME types of the inputs fiches reads.
const (
	MIMETypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMETypeCSV  = "text/csv"
	MIMETypePDF  = "application/pdf"
)
