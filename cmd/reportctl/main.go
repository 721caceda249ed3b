package main

import (
	"fmt"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Set by build flags.
var version = "dev"

func main() {
	// reportctl writes data to stdout; logs go to stderr.
	slog.SetDefault(slog.New(charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: false,
		Level:           charmlog.WarnLevel,
	})))

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "reportctl",
		Short: "Export, inspect and archive identity verification reports",
		Long: `reportctl renders the published daily identity verification reports
(authentications, proofing dropoffs, registrations) from the command line.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")

	root.AddCommand(newExportCmd(&configPath))
	root.AddCommand(newShowCmd(&configPath))
	root.AddCommand(newArchiveCmd(&configPath))
	root.AddCommand(newReportsCmd())
	return root
}
