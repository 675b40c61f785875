package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/dyluth/bridge/internal/printer"
	"github.com/dyluth/bridge/pkg/bridge"
)

var sendCmd = &cobra.Command{
	Use:   "send <from> <to> <content>...",
	Short: "Send a message to another agent",
	Long: `Sends a message from one agent to another. Use "all" as the
recipient to broadcast to every agent.

Example:
  bridge send cascade codex "header fix is ready for review"`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := newClient().SendMessage(cmd.Context(), bridge.SendMessageRequest{
			From:    args[0],
			To:      args[1],
			Content: strings.Join(args[2:], " "),
		})
		if err != nil {
			return printer.Error("Failed to send message",
				err.Error(),
				[]string{"Check that the bridge server is running (bridge serve)"})
		}

		printer.Success("Message sent (%s)\n", res.MessageID[:8])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
