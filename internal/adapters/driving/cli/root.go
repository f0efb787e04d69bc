// Package cli implements the threadlight command line interface with cobra.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/threadlight/internal/core/ports/driven"
	"github.com/custodia-labs/threadlight/internal/core/ports/driving"
	"github.com/custodia-labs/threadlight/internal/logger"
)

// version is overridden at build time with -ldflags.
var version = "dev"

var verbose bool

// Services injected by the composition root.
var (
	messageService    driving.MessageService
	attachmentService driving.AttachmentService
	settingsService   driving.SettingsService
	messageStore      driven.MessageStore
	attachmentStore   driven.AttachmentStore
	configWatcher     ConfigWatcher
	reloadEnrichers   func() error
)

// ConfigWatcher signals when the configuration file has been reloaded.
type ConfigWatcher interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// Services bundles everything the commands need.
type Services struct {
	Messages    driving.MessageService
	Attachments driving.AttachmentService
	Settings    driving.SettingsService

	// MessageStore and AttachmentStore back the import command.
	MessageStore    driven.MessageStore
	AttachmentStore driven.AttachmentStore

	// ConfigWatcher and ReloadEnrichers let serve pick up config edits.
	// Both are optional.
	ConfigWatcher   ConfigWatcher
	ReloadEnrichers func() error
}

// Configure installs the services used by every command.
func Configure(s Services) {
	messageService = s.Messages
	attachmentService = s.Attachments
	settingsService = s.Settings
	messageStore = s.MessageStore
	attachmentStore = s.AttachmentStore
	configWatcher = s.ConfigWatcher
	reloadEnrichers = s.ReloadEnrichers
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "threadlight",
	Short: "Enrich chat messages and preview their attachments",
	Long: `threadlight detects one-time codes, phone numbers, @mentions and
emoji-only messages in chat text, and renders thumbnails and metadata for
image and video attachments.

Stored messages live in a local SQLite database. Configuration is read from
~/.threadlight/config.toml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
}

// Execute runs the root command. Command output goes to stdout so it can
// be piped; cobra would otherwise print to stderr.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}
