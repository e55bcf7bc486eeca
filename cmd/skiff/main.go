package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	outputFormat string
	verbose      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "skiff",
		Short: "Skiff document-service deployment CLI",
		Long:  `Skiff launches short-lived EC2 instances running a containerized document-processing service and waits for them to become ready.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(newLogger())
			// Status lines go to stderr so -o json stays pipeable.
			pterm.SetDefaultOutput(os.Stderr)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log lifecycle events to stderr")

	rootCmd.AddCommand(deployCmd())
	rootCmd.AddCommand(terminateCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the process logger. Quiet by default so command output
// stays parseable; --verbose turns on the lifecycle log.
func newLogger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// defaultRegion resolves the region from the environment when no flag or
// deploy file sets one.
func defaultRegion() string {
	if env := os.Getenv("SKIFF_REGION"); env != "" {
		return env
	}
	if env := os.Getenv("AWS_REGION"); env != "" {
		return env
	}
	return ""
}
