package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change threadlight settings. Values are stored in
~/.threadlight/config.toml and unset keys fall back to their defaults.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show resolved settings",
	RunE:  runSettingsShow,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print the configured value of a key",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a key",
	Long: `Set a settings key. The value is checked against the key's type.

Examples:
  threadlight settings set phone.region GB
  threadlight settings set thumbnail.quality 85
  threadlight settings set enrichers.emoji.enabled false`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every settings key",
	RunE:  runSettingsList,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsListCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	s := settingsService.Get()

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("File: %s\n", settingsService.Path())
	cmd.Println()

	cmd.Println("[Enrichers]")
	cmd.Printf("  Enabled: %s\n", strings.Join(s.Enrichers.Names, ", "))
	cmd.Printf("  Phone region: %s\n", s.Phone.Region)
	cmd.Println()

	cmd.Println("[Thumbnails]")
	cmd.Printf("  Bound: %dx%d\n", s.Thumbnail.MaxWidth, s.Thumbnail.MaxHeight)
	cmd.Printf("  Quality: %d\n", s.Thumbnail.Quality)
	cmd.Printf("  Upscale: %t\n", s.Thumbnail.AllowUpscale)
	cmd.Printf("  Timeout: %s\n", s.Thumbnail.Timeout())
	cmd.Printf("  Workers: %d\n", s.Workers.Max)
	cmd.Println()

	cmd.Println("[Video]")
	cmd.Printf("  ffmpeg: %s\n", s.Video.FFmpegPath)
	cmd.Printf("  ffprobe: %s\n", s.Video.FFprobePath)
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", s.Server.Addr)
	cmd.Printf("  Cache max age: %ds\n", s.Server.CacheMaxAgeSeconds)
	if s.Storage.DataDir != "" {
		cmd.Println()
		cmd.Println("[Storage]")
		cmd.Printf("  Data dir: %s\n", s.Storage.DataDir)
	}
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	v, ok := settingsService.Value(args[0])
	if !ok {
		cmd.Printf("%s is not set\n", args[0])
		return nil
	}
	cmd.Printf("%v\n", v)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}

func runSettingsList(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, key := range settingsService.Keys() {
		if v, ok := settingsService.Value(key); ok {
			cmd.Printf("%s = %v\n", key, v)
			continue
		}
		cmd.Println(key)
	}
	return nil
}
