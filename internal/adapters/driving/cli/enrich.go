package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/enrichers/span"
)

var (
	enrichJSON  bool
	enrichPlain bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich [text]",
	Short: "Enrich a piece of message text",
	Long: `Runs the enrichment chain over the given text and prints what was found:
one-time codes, phone numbers, @mentions and whether the text is emoji only.
Multiple arguments are joined with spaces.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().BoolVar(&enrichJSON, "json", false, "output the enriched message as JSON")
	enrichCmd.Flags().BoolVar(&enrichPlain, "plain", false, "never colour highlights")
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	if messageService == nil {
		return errors.New("message service not configured")
	}

	enriched := messageService.EnrichText(strings.Join(args, " "))
	if enrichJSON {
		return outputJSON(cmd, enriched)
	}

	printEnriched(cmd, enriched, !enrichPlain && isTerminal())
	return nil
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// printEnriched writes a human readable summary of e. When styled is set
// the highlighted spans are coloured inline.
func printEnriched(cmd *cobra.Command, e domain.EnrichedMessage, styled bool) {
	text, ok := e.Body()
	if !ok {
		cmd.Println("(no text)")
		return
	}

	if styled {
		cmd.Println(renderHighlights(text, e.Highlights, NewStyles(nil)))
	} else {
		cmd.Println(text)
	}

	if len(e.DetectedCodes) > 0 {
		values := make([]string, len(e.DetectedCodes))
		for i, c := range e.DetectedCodes {
			values[i] = fmt.Sprintf("%s (%s)", c.Value, c.Confidence)
		}
		cmd.Printf("  Codes:    %s\n", strings.Join(values, ", "))
	}
	if phones := e.HighlightsOfKind(domain.HighlightPhoneNumber); len(phones) > 0 {
		values := make([]string, len(phones))
		for i, h := range phones {
			values[i] = h.Text
		}
		cmd.Printf("  Phones:   %s\n", strings.Join(values, ", "))
	}
	if len(e.Mentions) > 0 {
		values := make([]string, len(e.Mentions))
		for i, m := range e.Mentions {
			values[i] = m.Text
		}
		cmd.Printf("  Mentions: %s\n", strings.Join(values, ", "))
	}
	if e.IsEmojiOnly {
		cmd.Println("  Emoji only")
	}
}

// renderHighlights styles each highlighted span of text. Offsets are
// grapheme clusters. Spans overlapping an earlier span are left unstyled.
func renderHighlights(text string, highlights []domain.TextHighlight, styles *Styles) string {
	if len(highlights) == 0 {
		return text
	}

	hs := make([]domain.TextHighlight, len(highlights))
	copy(hs, highlights)
	sort.SliceStable(hs, func(i, j int) bool { return hs[i].StartOffset < hs[j].StartOffset })

	clusters := span.Clusters(text)
	var b strings.Builder
	pos := 0
	for _, h := range hs {
		if h.StartOffset < pos || h.EndOffset > len(clusters) || h.StartOffset >= h.EndOffset {
			continue
		}
		b.WriteString(strings.Join(clusters[pos:h.StartOffset], ""))
		b.WriteString(styles.Highlight(h.Kind).Render(strings.Join(clusters[h.StartOffset:h.EndOffset], "")))
		pos = h.EndOffset
	}
	b.WriteString(strings.Join(clusters[pos:], ""))
	return b.String()
}
