package commands

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyluth/bridge/internal/format"
	"github.com/dyluth/bridge/internal/printer"
	"github.com/dyluth/bridge/internal/timespec"
	"github.com/dyluth/bridge/pkg/bridge"
)

var (
	messagesUnread   bool
	messagesSince    string
	messagesUntil    string
	messagesJSONL    bool
	messagesMarkRead bool
)

var messagesCmd = &cobra.Command{
	Use:   "messages <agent>",
	Short: "List messages for an agent",
	Long: `Lists the messages addressed to an agent, including broadcasts.

Use --unread to hide messages already marked read, --since/--until to
limit by age ('1h', '30m' or an RFC3339 timestamp), --jsonl for
machine-readable output, and --mark-read to flip the read flag on
everything shown.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		agent := args[0]
		c := newClient()

		res, err := c.GetMessages(cmd.Context(), bridge.GetMessagesRequest{
			Agent:      agent,
			UnreadOnly: messagesUnread,
		})
		if err != nil {
			return printer.Error("Failed to fetch messages",
				err.Error(),
				[]string{"Check that the bridge server is running (bridge serve)"})
		}

		messages := res.Messages
		if messagesSince != "" || messagesUntil != "" {
			since, until, err := timespec.ParseRange(messagesSince, messagesUntil)
			if err != nil {
				return printer.Error("Invalid time range", err.Error(), nil)
			}
			messages = filterMessagesRange(messages, since, until)
		}

		if messagesJSONL {
			if err := format.JSONL(os.Stdout, messages); err != nil {
				return err
			}
		} else {
			format.MessagesTable(os.Stdout, messages, agent)
		}

		if messagesMarkRead && len(messages) > 0 {
			ids := make([]string, len(messages))
			for i, m := range messages {
				ids[i] = m.ID
			}
			marked, err := c.MarkMessagesRead(cmd.Context(), bridge.MarkMessagesReadRequest{MessageIDs: ids})
			if err != nil {
				return printer.Error("Failed to mark messages read", err.Error(), nil)
			}
			printer.Success("Marked %d read\n", marked.MarkedRead)
		}

		return nil
	},
}

// filterMessagesRange keeps messages with a timestamp at or after
// since and before until. A zero bound leaves that end open.
func filterMessagesRange(messages []bridge.Message, since, until time.Time) []bridge.Message {
	filtered := []bridge.Message{}
	for _, m := range messages {
		if !since.IsZero() && m.Timestamp.Before(since) {
			continue
		}
		if !until.IsZero() && !m.Timestamp.Before(until) {
			continue
		}
		filtered = append(filtered, m)
	}
	return filtered
}

func init() {
	messagesCmd.Flags().BoolVar(&messagesUnread, "unread", false, "only show unread messages")
	messagesCmd.Flags().StringVar(&messagesSince, "since", "", "only show messages newer than a duration or RFC3339 time")
	messagesCmd.Flags().StringVar(&messagesUntil, "until", "", "only show messages older than a duration or RFC3339 time")
	messagesCmd.Flags().BoolVar(&messagesJSONL, "jsonl", false, "output as line-delimited JSON")
	messagesCmd.Flags().BoolVar(&messagesMarkRead, "mark-read", false, "mark the listed messages as read")
	rootCmd.AddCommand(messagesCmd)
}
