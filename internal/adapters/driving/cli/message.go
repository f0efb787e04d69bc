package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/threadlight/internal/core/domain"
)

var (
	messageJSON       bool
	conversationLimit int
	conversationJSON  bool
)

var messageCmd = &cobra.Command{
	Use:   "message [id]",
	Short: "Show a stored message with its enrichment",
	Args:  cobra.ExactArgs(1),
	RunE:  runMessage,
}

var conversationCmd = &cobra.Command{
	Use:   "conversation [id]",
	Short: "List the enriched messages of a conversation",
	Long:  `Lists the messages of a conversation, oldest first, each with its enrichment.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConversation,
}

func init() {
	messageCmd.Flags().BoolVar(&messageJSON, "json", false, "output the message as JSON")
	conversationCmd.Flags().IntVarP(&conversationLimit, "limit", "n", 50, "maximum number of messages")
	conversationCmd.Flags().BoolVar(&conversationJSON, "json", false, "output messages as JSON")
	rootCmd.AddCommand(messageCmd)
	rootCmd.AddCommand(conversationCmd)
}

func runMessage(cmd *cobra.Command, args []string) error {
	if messageService == nil {
		return errors.New("message service not configured")
	}

	msg, err := messageService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get message: %w", err)
	}
	if msg == nil {
		return fmt.Errorf("message %s: %w", args[0], domain.ErrNotFound)
	}

	if messageJSON {
		return outputJSON(cmd, msg)
	}
	printMessageHeader(cmd, msg.Message)
	printEnriched(cmd, *msg, isTerminal())
	return nil
}

func runConversation(cmd *cobra.Command, args []string) error {
	if messageService == nil {
		return errors.New("message service not configured")
	}

	msgs, err := messageService.ListConversation(cmd.Context(), args[0], conversationLimit)
	if err != nil {
		return fmt.Errorf("failed to list conversation: %w", err)
	}

	if conversationJSON {
		if msgs == nil {
			msgs = []domain.EnrichedMessage{}
		}
		return outputJSON(cmd, msgs)
	}

	if len(msgs) == 0 {
		cmd.Println("No messages found.")
		return nil
	}
	styled := isTerminal()
	for i := range msgs {
		printMessageHeader(cmd, msgs[i].Message)
		printEnriched(cmd, msgs[i], styled)
		cmd.Println()
	}
	return nil
}

func printMessageHeader(cmd *cobra.Command, m domain.Message) {
	who := "them"
	if m.IsFromMe {
		who = "me"
	}
	ts := "-"
	if !m.Timestamp.IsZero() {
		ts = m.Timestamp.Local().Format(time.DateTime)
	}
	cmd.Printf("[%s] %s  %s\n", ts, who, m.ID)
}
