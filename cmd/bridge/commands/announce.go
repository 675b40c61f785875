package commands

import (
	"github.com/spf13/cobra"

	"github.com/dyluth/bridge/internal/printer"
	"github.com/dyluth/bridge/pkg/bridge"
)

var announceWorkingOn []string

var announceCmd = &cobra.Command{
	Use:   "announce <agent> <status>",
	Short: "Announce that an agent is online",
	Long: `Broadcasts an agent's availability to every other agent.

Example:
  bridge announce cascade "back from lunch" --working-on "header fix"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := newClient().AnnouncePresence(cmd.Context(), bridge.AnnouncePresenceRequest{
			Agent:     args[0],
			Status:    args[1],
			WorkingOn: announceWorkingOn,
		})
		if err != nil {
			return printer.Error("Failed to announce presence",
				err.Error(),
				[]string{"Check that the bridge server is running (bridge serve)"})
		}

		printer.Success("Announced %s\n", args[0])
		return nil
	},
}

func init() {
	announceCmd.Flags().StringSliceVar(&announceWorkingOn, "working-on", nil, "what the agent is working on (repeatable)")
	rootCmd.AddCommand(announceCmd)
}
