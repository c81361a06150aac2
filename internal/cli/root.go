// Package cli implements the deployctl command tree.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "deployctl",
	Short: "Deploy compiled smart contracts over JSON-RPC",
	Long: `deployctl drives a contract deployment through its full transaction
lifecycle: connect, verify the deployer account, build and sign the creation
transaction, broadcast it, wait for the receipt, and verify the deployed code.

Examples:
  deployctl deploy --artifact build/Token.json --rpc-url http://localhost:8545
  deployctl verify --address 0x5FbDB2315678afecb367f032d93F642f64180aa3 \
    --rpc-url http://localhost:8545`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds the CLI logger at the configured level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	}))
}
