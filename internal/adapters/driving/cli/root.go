// Package cli provides the fiches command line.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fiches/internal/core/ports/driving"
	"github.com/custodia-labs/fiches/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// Services used by the commands. They are package variables so tests can
// swap in fakes.
var (
	batchService    driving.BatchService
	resultService   driving.ResultService
	settingsService driving.SettingsService
	mappingService  driving.MappingService
	mappingWatcher  MappingWatcher
)

// MappingWatcher reloads mapping files while a long-running command serves.
type MappingWatcher interface {
	Watch(location string) error
	Start(ctx context.Context)
	Stop() error
}

// Services is what the binary wires into the commands.
type Services struct {
	Batch    driving.BatchService
	Results  driving.ResultService
	Settings driving.SettingsService
	Mappings driving.MappingService

	// Watcher is optional.
	Watcher MappingWatcher
}

// Options are the global flags handed to the bootstrap function.
type Options struct {
	ConfigDir string
	Verbose   bool
}

// Bootstrap builds the services once the global flags are parsed.
type Bootstrap func(opts Options) (*Services, error)

var bootstrap Bootstrap

var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "fiches",
	Short: "Generate one filled PDF per spreadsheet row",
	Long: `fiches reads a spreadsheet, fills a PDF template (or stamps a reference
document) once per data row and packages the results into a ZIP archive.

Profiles select the spreadsheet, the document and the rendering mode.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.fiches)")
}

// SetServices injects the services used by the commands.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	batchService = s.Batch
	resultService = s.Results
	settingsService = s.Settings
	mappingService = s.Mappings
	mappingWatcher = s.Watcher
}

// SetBootstrap registers the function that builds the services after flag
// parsing. It runs once per execution.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if bootstrap == nil {
		return nil
	}
	s, err := bootstrap(Options{ConfigDir: configDir, Verbose: verbose})
	if err != nil {
		return err
	}
	SetServices(s)
	return nil
}

var errNotConfigured = errors.New("service not configured")
