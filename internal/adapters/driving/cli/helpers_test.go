package cli

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/fiches/internal/adapters/driven/archive"
	"github.com/custodia-labs/fiches/internal/adapters/driven/config/file"
	"github.com/custodia-labs/fiches/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driving"
	"github.com/custodia-labs/fiches/internal/core/services"
)

// fakeBatch records requests and reports one progress line per document.
type fakeBatch struct {
	mu     sync.Mutex
	result *domain.BatchResult
	err    error
	runs   []driving.BatchRequest
}

func (f *fakeBatch) Run(_ context.Context, req driving.BatchRequest) (*domain.BatchResult, error) {
	f.mu.Lock()
	f.runs = append(f.runs, req)
	f.mu.Unlock()
	if f.err != nil {
		if req.Progress != nil {
			req.Progress.RowDone(1, 1, "", f.err)
		}
		return nil, f.err
	}
	if req.Progress != nil {
		for i, d := range f.result.Documents {
			req.Progress.RowDone(i+1, len(f.result.Documents), d.Name, nil)
		}
	}
	return f.result, nil
}

func (f *fakeBatch) lastRun() driving.BatchRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs[len(f.runs)-1]
}

func sampleResult() *domain.BatchResult {
	start := time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)
	return &domain.BatchResult{
		Profile:     "fiches",
		Mode:        domain.ModeForm,
		ArchiveName: domain.ArchiveFiches,
		Rows:        3,
		Documents: []domain.NamedBuffer{
			{Name: "Dupont_Marie.pdf", Content: []byte("%PDF-dupont")},
			{Name: "Martin_Paul.pdf", Content: []byte("%PDF-martin")},
		},
		Failures:   []domain.RowFailure{{Row: 1, Err: domain.ErrMalformedDocument}},
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
	}
}

// testServices holds the services injected by setupTestServices.
type testServices struct {
	batch    *fakeBatch
	config   *memory.ConfigStore
	settings *services.SettingsService
	results  *services.ResultService
}

// setupTestServices installs real settings, result and mapping services
// over in-memory stores plus a fake batch service.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()
	config := memory.NewConfigStore(map[string]any{
		"profiles.fiches.source":   "https://example.test/fiches.xlsx",
		"profiles.fiches.document": "https://example.test/fiche.pdf",
	})
	ts := &testServices{
		batch:    &fakeBatch{result: sampleResult()},
		config:   config,
		settings: services.NewSettingsService(config),
		results:  services.NewResultService(memory.NewResultStore(), archive.NewZipPackager(), 0),
	}
	SetServices(&Services{
		Batch:    ts.batch,
		Results:  ts.results,
		Settings: ts.settings,
		Mappings: services.NewMappingService(file.NewMappingStore()),
	})

	origTerminal := isTerminal
	isTerminal = func(io.Writer) bool { return false }
	t.Cleanup(func() {
		SetServices(nil)
		isTerminal = origTerminal
	})
	return ts
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut safeBuffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// resetFlags restores every flag to its default between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

type safeBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}

