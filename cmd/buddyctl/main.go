// Command buddyctl is an operator tool for Buddy. Most commands run offline
// against the local library and rules; chat and events talk to a running
// service over NATS.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/buddy/internal/config"
)

var (
	libraryDir string
	verbose    bool
)

func main() {
	config.LoadDotenv(".env")
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "buddyctl",
		Short: "Inspect and exercise Buddy",
		Long: `buddyctl inspects Buddy's building blocks.

Offline:
  normalize  - turn a chat export into plain message text
  match      - find the behavior scenario for a message
  traits     - show which traits a signal/policy pair teaches
  scenarios  - list the behavior library

Online (NATS):
  chat       - send a chat turn to a running Buddy
  events     - follow trait-learned events`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&libraryDir, "library", os.Getenv("BEHAVIOR_LIBRARY_DIR"), "behavior library directory (empty = embedded)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log library warnings")

	root.AddCommand(
		newNormalizeCmd(),
		newMatchCmd(),
		newTraitsCmd(),
		newScenariosCmd(),
		newChatCmd(),
		newEventsCmd(),
	)
	return root
}

func cliLogger(w io.Writer) *slog.Logger {
	if !verbose {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, nil))
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
