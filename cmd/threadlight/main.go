// Command threadlight enriches chat messages and previews their attachments.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/threadlight/internal/adapters/driven/config/file"
	"github.com/custodia-labs/threadlight/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/threadlight/internal/adapters/driving/cli"
	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/core/services"
	"github.com/custodia-labs/threadlight/internal/enrichers"
	"github.com/custodia-labs/threadlight/internal/handlers"
	"github.com/custodia-labs/threadlight/internal/handlers/thumb"
	"github.com/custodia-labs/threadlight/internal/handlers/video"
	"github.com/custodia-labs/threadlight/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configDir, err := file.DefaultDir()
	if err != nil {
		return err
	}
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings := settingsService.Get()

	enricherRegistry := enrichers.NewRegistry()
	enrichers.RegisterDefaults(enricherRegistry)
	chain := enrichers.NewChain()
	reload := func() error {
		s := settingsService.Get()
		units, err := enricherRegistry.BuildAll(s.Enrichers.Names, s.Enrichers.Configs)
		if err != nil {
			return fmt.Errorf("building enrichers: %w", err)
		}
		chain.Replace(units...)
		logger.Debug("enrichment chain: %d enrichers %v", chain.Len(), s.Enrichers.Names)
		return nil
	}
	if err := reload(); err != nil {
		return err
	}

	video.SetFFprobePath(settings.Video.FFprobePath)
	handlerRegistry := handlers.NewDefaultRegistry(handlers.Options{
		Thumb: thumb.Options{
			Quality:      settings.Thumbnail.Quality,
			AllowUpscale: settings.Thumbnail.AllowUpscale,
		},
		FFmpegPath: settings.Video.FFmpegPath,
	})

	store, err := sqlite.NewStore(dataDir(configDir, settings))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	cli.SetVersion(version)
	cli.Configure(cli.Services{
		Messages: services.NewMessageService(chain, store.MessageStore()),
		Attachments: services.NewAttachmentService(handlerRegistry, store.AttachmentStore(), services.AttachmentOptions{
			MaxWorkers: settings.Workers.Max,
			Timeout:    settings.Thumbnail.Timeout(),
		}),
		Settings:        settingsService,
		MessageStore:    store.MessageStore(),
		AttachmentStore: store.AttachmentStore(),
		ConfigWatcher:   configStore,
		ReloadEnrichers: reload,
	})

	return cli.Execute(ctx)
}

func dataDir(configDir string, s domain.Settings) string {
	if s.Storage.DataDir != "" {
		return s.Storage.DataDir
	}
	return filepath.Join(configDir, "data")
}
