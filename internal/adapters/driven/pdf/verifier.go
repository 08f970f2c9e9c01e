package pdf

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/fiches/internal/core/domain"
)

var disableConfigDir sync.Once

// configuration returns a relaxed pdfcpu configuration that never touches
// the user's pdfcpu config directory.
func configuration() *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Verifier re-reads generated documents with an independent parser.
type Verifier struct {
	conf *model.Configuration
}

// NewVerifier creates a verifier using relaxed validation.
func NewVerifier() *Verifier {
	return &Verifier{conf: configuration()}
}

// Verify parses and validates document and checks its page count.
func (v *Verifier) Verify(document []byte, wantPages int) error {
	ctx, err := api.ReadContext(bytes.NewReader(document), v.conf)
	if err != nil {
		return fmt.Errorf("%w: verify output: %v", domain.ErrMalformedDocument, err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return fmt.Errorf("%w: verify output: %v", domain.ErrMalformedDocument, err)
	}
	if ctx.PageCount != wantPages {
		return fmt.Errorf("%w: output has %d pages, want %d", domain.ErrPageCountMismatch, ctx.PageCount, wantPages)
	}
	return nil
}
