package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/core/services"
)

var (
	thumbnailOut    string
	thumbnailWidth  int
	thumbnailHeight int
	metadataJSON    bool
)

var thumbnailCmd = &cobra.Command{
	Use:   "thumbnail [attachment-id]",
	Short: "Render a JPEG thumbnail of an attachment",
	Long: `Renders a JPEG thumbnail of a stored image or video attachment that fits
within --width x --height while keeping the aspect ratio. Without explicit
dimensions the configured thumbnail bound is used.`,
	Args: cobra.ExactArgs(1),
	RunE: runThumbnail,
}

var metadataCmd = &cobra.Command{
	Use:   "metadata [attachment-id...]",
	Short: "Show media metadata of attachments",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMetadata,
}

func init() {
	thumbnailCmd.Flags().StringVarP(&thumbnailOut, "out", "o", "", "output file (default <attachment-id>.jpg)")
	thumbnailCmd.Flags().IntVar(&thumbnailWidth, "width", 0, "maximum thumbnail width")
	thumbnailCmd.Flags().IntVar(&thumbnailHeight, "height", 0, "maximum thumbnail height")
	metadataCmd.Flags().BoolVar(&metadataJSON, "json", false, "output metadata as JSON")
	rootCmd.AddCommand(thumbnailCmd)
	rootCmd.AddCommand(metadataCmd)
}

func runThumbnail(cmd *cobra.Command, args []string) error {
	if attachmentService == nil {
		return errors.New("attachment service not configured")
	}
	id := args[0]

	bound := thumbnailBound()
	data, err := attachmentService.Thumbnail(cmd.Context(), id, bound)
	switch {
	case errors.Is(err, domain.ErrNoHandler):
		return fmt.Errorf("no preview available: %w", err)
	case err != nil:
		return fmt.Errorf("failed to render thumbnail: %w", err)
	case data == nil:
		cmd.Println("Nothing to render for this attachment.")
		return nil
	}

	out := thumbnailOut
	if out == "" {
		out = id + ".jpg"
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write thumbnail: %w", err)
	}
	cmd.Printf("Wrote %s to %s\n", humanize.Bytes(uint64(len(data))), out)
	return nil
}

// thumbnailBound resolves the requested bound, filling unset dimensions
// from settings.
func thumbnailBound() domain.Size {
	def := domain.DefaultSettings().Thumbnail.Bound()
	if settingsService != nil {
		def = settingsService.Get().Thumbnail.Bound()
	}
	bound := domain.Size{Width: thumbnailWidth, Height: thumbnailHeight}
	if bound.Width <= 0 {
		bound.Width = def.Width
	}
	if bound.Height <= 0 {
		bound.Height = def.Height
	}
	return bound
}

// metadataRow is one line of metadata output.
type metadataRow struct {
	ID       string                     `json:"id"`
	MIMEType string                     `json:"mimeType,omitempty"`
	Size     int64                      `json:"size"`
	Metadata *domain.AttachmentMetadata `json:"metadata,omitempty"`
}

func runMetadata(cmd *cobra.Command, args []string) error {
	if attachmentService == nil {
		return errors.New("attachment service not configured")
	}
	ctx := cmd.Context()

	metas, err := attachmentService.MetadataBatch(ctx, args)
	if err != nil {
		return fmt.Errorf("failed to extract metadata: %w", err)
	}

	rows := make([]metadataRow, 0, len(args))
	for _, id := range args {
		att, err := attachmentService.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get attachment: %w", err)
		}
		row := metadataRow{ID: id, MIMEType: services.ContentType(att), Size: att.Size}
		if meta, ok := metas[id]; ok {
			row.Metadata = &meta
		}
		rows = append(rows, row)
	}

	if metadataJSON {
		return outputJSON(cmd, rows)
	}
	for _, row := range rows {
		cmd.Printf("%s  %s  %s  %s\n", row.ID, orDash(row.MIMEType), humanize.Bytes(uint64(row.Size)), describeMetadata(row.Metadata))
	}
	return nil
}

func describeMetadata(m *domain.AttachmentMetadata) string {
	if m == nil {
		return "(no handler)"
	}
	if m.IsEmpty() {
		return "(no data)"
	}
	var parts []string
	if m.Width != nil && m.Height != nil {
		parts = append(parts, fmt.Sprintf("%dx%d", *m.Width, *m.Height))
	}
	if m.DurationSeconds != nil {
		d := time.Duration(*m.DurationSeconds * float64(time.Second))
		parts = append(parts, d.Round(100*time.Millisecond).String())
	}
	if len(parts) == 0 {
		return "(no data)"
	}
	return strings.Join(parts, "  ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
