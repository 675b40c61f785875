package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyluth/bridge/internal/format"
	"github.com/dyluth/bridge/internal/printer"
	"github.com/dyluth/bridge/pkg/bridge"
)

var watchJSONL bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream bridge activity as it happens",
	Long: `Connects to the server's event stream and prints every message,
task change and context update until interrupted. Delivery is
best-effort: a watcher that falls behind misses events.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		stream, err := newClient().Events(ctx)
		if err != nil {
			return printer.Error("Failed to open event stream",
				err.Error(),
				[]string{"Check that the bridge server is running (bridge serve)"})
		}
		defer stream.Close()

		printer.Info("Watching bridge activity (Ctrl+C to stop)...\n\n")

		for {
			select {
			case <-ctx.Done():
				return nil
			case err := <-stream.Errs():
				return printer.Error("Event stream failed", err.Error(), nil)
			case event, open := <-stream.Events():
				if !open {
					return nil
				}
				printEvent(event)
			}
		}
	},
}

func printEvent(event bridge.Event) {
	if watchJSONL {
		_ = format.JSONL(os.Stdout, []bridge.Event{event})
		return
	}

	stamp := event.Timestamp.Local().Format(time.TimeOnly)
	switch event.Type {
	case bridge.EventMessageSent:
		printer.Printf("[%s] message  %s → %s: %s\n", stamp, event.Message.From, event.Message.To, event.Message.Content)
	case bridge.EventTaskCreated:
		printer.Printf("[%s] task     %q created for %s by %s (%s)\n",
			stamp, event.Task.Title, event.Task.AssignedTo, event.Task.CreatedBy, event.Task.Priority)
	case bridge.EventTaskUpdated:
		printer.Printf("[%s] task     %q is now %s\n", stamp, event.Task.Title, event.Task.Status)
	case bridge.EventContextUpdated:
		printer.Printf("[%s] context  branch=%s files=%d\n",
			stamp, event.Context.CurrentBranch, len(event.Context.ActiveFiles))
	default:
		printer.Printf("[%s] %s\n", stamp, event.Type)
	}
}

func init() {
	watchCmd.Flags().BoolVar(&watchJSONL, "jsonl", false, "output raw events as line-delimited JSON")
	rootCmd.AddCommand(watchCmd)
}
