package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fiches/internal/adapters/driving/web"
	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web form",
	Long: `Serve the document generation form. Each browser session keeps its last
result until it expires; documents are downloaded one by one or as a ZIP.

Mapping files used by form profiles are reloaded when they change.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("listen", "l", "", "listen address (default from config, 127.0.0.1:8501)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("serve: %w", errNotConfigured)
	}
	settings, err := settingsService.Get()
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("listen")
	if addr == "" {
		addr = settings.Server.Listen
	}

	server, err := web.NewServer(
		&web.Ports{Batch: batchService, Results: resultService, Settings: settingsService},
		web.WithSessionTTL(time.Duration(settings.Server.SessionTTLMinutes)*time.Minute),
	)
	if err != nil {
		return err
	}

	if mappingWatcher != nil {
		watchMappings(settings)
		mappingWatcher.Start(cmd.Context())
		defer func() {
			if err := mappingWatcher.Stop(); err != nil {
				logger.Warn("stopping mapping watcher: %v", err)
			}
		}()
	}

	cmd.Printf("Web form listening on http://%s\n", addr)
	return server.Run(cmd.Context(), addr)
}

// watchMappings registers the mapping file of every form profile.
func watchMappings(settings *domain.AppSettings) {
	for _, name := range settings.ProfileNames() {
		p := settings.Profiles[name]
		if p.Mode != domain.ModeForm {
			continue
		}
		if err := mappingWatcher.Watch(p.Mapping); err != nil {
			logger.Warn("not watching mapping of %s: %v", name, err)
		}
	}
}
