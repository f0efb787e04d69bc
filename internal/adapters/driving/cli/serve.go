package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/threadlight/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the HTTP API serving enriched messages, attachment metadata and
thumbnails. Edits to the config file are picked up without a restart: the
enrichment chain is rebuilt whenever the file changes.

Examples:
  threadlight serve
  threadlight serve --addr :9000`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if messageService == nil || attachmentService == nil {
		return errors.New("services not configured")
	}
	logger.Section("HTTP API")

	settings := domain.DefaultSettings()
	if settingsService != nil {
		settings = settingsService.Get()
	}
	addr := serveAddr
	if addr == "" {
		addr = settings.Server.Addr
	}

	srv, err := httpapi.New(&httpapi.Ports{
		Messages:    messageService,
		Attachments: attachmentService,
	}, httpapi.Options{
		CacheMaxAge:  time.Duration(settings.Server.CacheMaxAgeSeconds) * time.Second,
		DefaultBound: settings.Thumbnail.Bound(),
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx := cmd.Context()
	if err := watchConfig(ctx); err != nil {
		logger.Warn("config reload disabled: %v", err)
	}

	cmd.Printf("Listening on http://%s\n", addr)
	return srv.ListenAndServe(ctx, addr)
}

// watchConfig rebuilds the enrichers each time the config file changes
// until ctx is done.
func watchConfig(ctx context.Context) error {
	if configWatcher == nil || reloadEnrichers == nil {
		return nil
	}

	changes, err := configWatcher.Watch(ctx)
	if err != nil {
		return err
	}

	go func() {
		for range changes {
			if err := reloadEnrichers(); err != nil {
				logger.Error("reloading enrichers: %v", err)
				continue
			}
			logger.Info("enrichers reloaded")
		}
	}()
	return nil
}
