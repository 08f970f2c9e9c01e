// Command fiches generates one filled PDF per spreadsheet row.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/custodia-labs/fiches/internal/adapters/driven/archive"
	"github.com/custodia-labs/fiches/internal/adapters/driven/config/file"
	"github.com/custodia-labs/fiches/internal/adapters/driven/fetch"
	"github.com/custodia-labs/fiches/internal/adapters/driven/pdf"
	"github.com/custodia-labs/fiches/internal/adapters/driven/spreadsheet"
	"github.com/custodia-labs/fiches/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/fiches/internal/adapters/driving/cli"
	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driven"
	"github.com/custodia-labs/fiches/internal/core/services"
	"github.com/custodia-labs/fiches/internal/logger"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(func(opts cli.Options) (*cli.Services, error) {
		return wire(ctx, opts)
	})

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, domain.UserMessage(err))
		logger.Debug("%v", err)
		os.Exit(1)
	}
}

// wire builds the adapters and services from the configuration directory.
func wire(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	dir := opts.ConfigDir
	if dir == "" {
		d, err := file.DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open config in %s: %w", dir, err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded configuration from %s", dir)

	fetchers := []driven.SourceFetcher{fetch.NewHTTPFetcher(settings.Fetch, nil)}
	if settings.Drive.IsConfigured() {
		driveFetcher, err := fetch.NewDriveFetcher(ctx, settings.Fetch, settings.Drive)
		if err != nil {
			return nil, err
		}
		fetchers = append(fetchers, driveFetcher)
	}
	fetchers = append(fetchers, fetch.NewFileFetcher(settings.Fetch.MaxBytes))

	fonts := pdf.NewFontRegistry()
	if settings.StampFont.Path != "" {
		if err := fonts.RegisterFile(settings.StampFont.Family, settings.StampFont.Path); err != nil {
			return nil, err
		}
	}
	mergerOpts := []pdf.MergerOption{pdf.WithCompression(settings.Batch.Compress)}
	if settings.Batch.Verify {
		mergerOpts = append(mergerOpts, pdf.WithVerifier(pdf.NewVerifier()))
	}

	mappings := file.NewMappingStore()
	watcher, err := file.NewMappingWatcher(mappings, file.DefaultDebounce)
	if err != nil {
		return nil, err
	}

	batch := services.NewBatchService(
		fetch.NewRouter(fetchers...),
		spreadsheet.NewRegistry(),
		pdf.NewInspector(),
		pdf.NewMerger(fonts, mergerOpts...),
		mappings,
		settings.Batch,
	)
	ttl := time.Duration(settings.Server.SessionTTLMinutes) * time.Minute
	results := services.NewResultService(memory.NewResultStore(), archive.NewZipPackager(), ttl)

	return &cli.Services{
		Batch:    batch,
		Results:  results,
		Settings: settingsService,
		Mappings: services.NewMappingService(mappings),
		Watcher:  watcher,
	}, nil
}
