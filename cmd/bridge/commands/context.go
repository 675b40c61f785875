package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dyluth/bridge/internal/format"
	"github.com/dyluth/bridge/internal/printer"
	"github.com/dyluth/bridge/pkg/bridge"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Show or update the shared working context",
}

var contextShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the shared context",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newClient().GetContext(cmd.Context())
		if err != nil {
			return printer.Error("Failed to fetch context",
				err.Error(),
				[]string{"Check that the bridge server is running (bridge serve)"})
		}
		return format.SingleJSON(os.Stdout, ctx)
	},
}

var (
	contextSetBranch  string
	contextSetNotes   string
	contextSetFiles   []string
	contextSetChanges []string
)

var contextSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update fields of the shared context",
	Long: `Updates the shared context. Only the flags you pass are applied;
everything else keeps its current value. Passing a flag with an empty
value clears that field.

Example:
  bridge context set --branch feature/header-fix --files header.css --files layout.tsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := bridge.UpdateContextRequest{}

		// Only flags the user actually passed take part in the update
		if cmd.Flags().Changed("branch") {
			req.CurrentBranch = &contextSetBranch
		}
		if cmd.Flags().Changed("notes") {
			req.Notes = &contextSetNotes
		}
		if cmd.Flags().Changed("files") {
			req.ActiveFiles = contextSetFiles
		}
		if cmd.Flags().Changed("changes") {
			req.RecentChanges = contextSetChanges
		}

		res, err := newClient().UpdateContext(cmd.Context(), req)
		if err != nil {
			return printer.Error("Failed to update context",
				err.Error(),
				[]string{"Check that the bridge server is running (bridge serve)"})
		}

		printer.Success("Context updated\n")
		return format.SingleJSON(os.Stdout, res.Context)
	},
}

func init() {
	contextSetCmd.Flags().StringVar(&contextSetBranch, "branch", "", "current working branch")
	contextSetCmd.Flags().StringVar(&contextSetNotes, "notes", "", "free-form coordination notes")
	contextSetCmd.Flags().StringSliceVar(&contextSetFiles, "files", nil, "active files (repeatable, replaces the list)")
	contextSetCmd.Flags().StringSliceVar(&contextSetChanges, "changes", nil, "recent changes (repeatable, replaces the list)")

	contextCmd.AddCommand(contextShowCmd)
	contextCmd.AddCommand(contextSetCmd)
	rootCmd.AddCommand(contextCmd)
}
