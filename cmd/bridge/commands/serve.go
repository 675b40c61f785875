package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dyluth/bridge/internal/config"
	"github.com/dyluth/bridge/internal/logging"
	"github.com/dyluth/bridge/internal/printer"
	"github.com/dyluth/bridge/internal/server"
	"github.com/dyluth/bridge/pkg/bridge"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bridge server",
	Long: `Starts the relay: an HTTP server holding all messages, tasks and
shared context in memory for its lifetime. State is lost on restart.

Reads bridge.yml from the current directory if present; a path given
via --config must exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg *config.BridgeConfig
		var err error
		if cmd.Flags().Changed("config") {
			cfg, err = config.Load(serveConfigPath)
		} else {
			cfg, err = config.LoadOrDefault(serveConfigPath)
		}
		if err != nil {
			return printer.Error("Failed to load configuration",
				err.Error(),
				[]string{"Fix the config file or remove it to use defaults"})
		}

		logging.Setup(cfg)

		state := bridge.NewState()
		srv := server.New(cfg, state)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return printer.Error("Server failed",
				err.Error(),
				[]string{"Check that the listen address is free and valid"})
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", config.DefaultPath, "path to bridge.yml")
	rootCmd.AddCommand(serveCmd)
}
