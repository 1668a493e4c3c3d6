package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for trustscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trustscan",
		Short: "Trust score and threat alerts for the page in your browser",
		Long: `trustscan sends the page open in the browser's active tab to a local
analysis service and shows the returned trust score and threat alerts.

The browser is reached through its DevTools endpoint; start Chrome with
--remote-debugging-port=9222. The analysis service defaults to
http://localhost:8000.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("log-format", logFormatText, "Log format: text or json")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
