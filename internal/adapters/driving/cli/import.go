package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/logger"
)

// importFile is the JSON document accepted by the import command.
type importFile struct {
	Messages    []domain.Message    `json:"messages"`
	Attachments []domain.Attachment `json:"attachments"`
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import messages and attachments from JSON",
	Long: `Imports messages and attachment records from a JSON file (or stdin when
the file is "-") into the local database. Records without an id get a new
one. Attachment sizes are read from disk when not given.

  {
    "messages": [{"id": "m1", "conversationId": "c1", "text": "...",
                  "timestamp": "2026-01-02T15:04:05Z", "isFromMe": false}],
    "attachments": [{"id": "a1", "messageId": "m1", "path": "/tmp/cat.jpg",
                     "mimeType": "image/jpeg"}]
  }`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if messageStore == nil || attachmentStore == nil {
		return errors.New("storage not configured")
	}

	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open import file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var doc importFile
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("failed to parse import file: %w", err)
	}

	ctx := cmd.Context()
	for i := range doc.Messages {
		msg := &doc.Messages[i]
		if msg.ID == "" {
			msg.ID = uuid.NewString()
		}
		if err := messageStore.SaveMessage(ctx, msg); err != nil {
			return fmt.Errorf("failed to save message %s: %w", msg.ID, err)
		}
	}
	for i := range doc.Attachments {
		att := &doc.Attachments[i]
		if att.ID == "" {
			att.ID = uuid.NewString()
		}
		if att.Size == 0 {
			if info, err := os.Stat(att.Path); err == nil {
				att.Size = info.Size()
			} else {
				logger.Debug("import: stat %s: %v", att.Path, err)
			}
		}
		if err := attachmentStore.SaveAttachment(ctx, att); err != nil {
			return fmt.Errorf("failed to save attachment %s: %w", att.ID, err)
		}
	}

	cmd.Printf("Imported %d messages and %d attachments.\n", len(doc.Messages), len(doc.Attachments))
	return nil
}
