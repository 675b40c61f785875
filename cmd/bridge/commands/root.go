package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dyluth/bridge/internal/client"
)

var (
	version string
	commit  string
	date    string

	addrFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Bridge - message and task relay for AI coding agents",
	Long: `Bridge is a small relay that lets named AI coding agents working on
the same project coordinate: exchange messages, hand off tasks, and
share working context.

Run 'bridge serve' to start the relay, then point the other commands
at it with --addr or the BRIDGE_ADDR environment variable.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&addrFlag, "addr", "",
		"bridge server address (default BRIDGE_ADDR or "+client.DefaultAddr+")")
}

// serverAddr resolves the server address: --addr beats BRIDGE_ADDR
// beats the built-in default.
func serverAddr() string {
	if addrFlag != "" {
		return addrFlag
	}
	if env := os.Getenv("BRIDGE_ADDR"); env != "" {
		return env
	}
	return client.DefaultAddr
}

// newClient builds a client for the resolved server address.
func newClient() *client.Client {
	return client.New(serverAddr())
}
