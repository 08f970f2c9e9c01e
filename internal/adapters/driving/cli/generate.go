package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/fiches/internal/adapters/driven/outdir"
	"github.com/custodia-labs/fiches/internal/adapters/driving/tui"
	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driving"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the documents of a profile",
	Long: `Fetch the spreadsheet and the document of a profile, render one PDF per
data row and write them, plus the ZIP archive, into the output directory.

Examples:
  fiches generate --profile fiches
  fiches generate --profile reglements --source ./inscrits.xlsx --out ./reglements
  fiches generate --profile etudiants --policy continue --concurrency 4`,
	RunE: runGenerate,
}

// isTerminal reports whether w is an interactive terminal.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func init() {
	f := generateCmd.Flags()
	f.StringP("profile", "p", "fiches", "profile to run")
	f.String("source", "", "spreadsheet location (URL, path or gdrive://id)")
	f.String("document", "", "template or reference PDF location")
	f.String("mapping", "", "field mapping file (form profiles)")
	f.StringP("out", "o", ".", "output directory")
	f.String("policy", "", "row error policy: abort or continue")
	f.Int("concurrency", 0, "rows rendered in parallel")
	f.Bool("no-archive", false, "do not write the ZIP archive")
	f.Bool("save", false, "store --source and --document in the profile")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if batchService == nil || settingsService == nil {
		return fmt.Errorf("generate: %w", errNotConfigured)
	}
	flags := cmd.Flags()
	name, _ := flags.GetString("profile")
	source, _ := flags.GetString("source")
	document, _ := flags.GetString("document")
	mapping, _ := flags.GetString("mapping")
	out, _ := flags.GetString("out")
	policy, _ := flags.GetString("policy")
	concurrency, _ := flags.GetInt("concurrency")
	noArchive, _ := flags.GetBool("no-archive")
	save, _ := flags.GetBool("save")

	if policy != "" && !domain.ErrorPolicy(policy).IsValid() {
		return fmt.Errorf("%w: policy %q must be abort or continue", domain.ErrInvalidInput, policy)
	}
	if save {
		if err := settingsService.SetProfileLocation(name, source, document); err != nil {
			return err
		}
	}

	profile, err := settingsService.Profile(name)
	if err != nil {
		return err
	}
	if source != "" {
		profile.Source = source
	}
	if document != "" {
		profile.Document = document
	}
	if mapping != "" {
		profile.Mapping = mapping
	}

	req := driving.BatchRequest{
		Profile:     profile,
		Policy:      domain.ErrorPolicy(policy),
		Concurrency: concurrency,
	}

	var result *domain.BatchResult
	if isTerminal(cmd.OutOrStdout()) {
		result, err = tui.RunBatch(cmd.Context(), &tui.Ports{Batch: batchService}, req, cmd.OutOrStdout())
	} else {
		req.Progress = &lineReporter{w: cmd.ErrOrStderr()}
		result, err = batchService.Run(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	var archive *domain.NamedBuffer
	if !noArchive && resultService != nil && len(result.Documents) > 0 {
		a, err := resultService.Package(result)
		if err != nil {
			return err
		}
		archive = &a
	}

	paths, err := outdir.New(out).WriteResult(result, archive)
	if err != nil {
		return err
	}

	cmd.Printf("Generated %d of %d documents in %s (%s)\n",
		len(result.Documents), result.Rows, out, result.Duration().Round(time.Millisecond))
	if archive != nil {
		cmd.Printf("Archive: %s\n", paths[len(paths)-1])
	}
	for _, f := range result.Failures {
		cmd.Printf("  row %d skipped: %s\n", f.Row+1, domain.UserMessage(f.Err))
	}
	return nil
}

// lineReporter prints one line per processed row.
type lineReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// RowDone implements driving.ProgressReporter.
func (r *lineReporter) RowDone(done, total int, name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		fmt.Fprintf(r.w, "[%d/%d] %s\n", done, total, domain.UserMessage(err))
		return
	}
	fmt.Fprintf(r.w, "[%d/%d] %s\n", done, total, name)
}
