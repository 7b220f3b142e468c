package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pulse",
		Short: "Server-driven interaction runtime for Pulsegram",
		Long: `Pulse keeps Pulsegram's widget state on the server.

Browsers connect over a websocket, send DOM events up, and receive
patch instructions back. Likes, follows and saves flip optimistically
and reconcile against the backend API; search is debounced server-side;
comments and messages append provisionally until confirmed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
