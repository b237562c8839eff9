package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/slotboard/slotboard/pkg/config"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with
// values injected via ldflags at build time.
//
// Parameters:
//   - v: semantic version string (e.g., "v1.2.3")
//   - c: git commit SHA (short or long form)
//   - d: build timestamp (e.g., "2026-08-24T14:32:01Z")
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// configPath is the value of the persistent --config flag.
var configPath string

// loadConfig reads the configuration for a command run: the --config flag
// value if given, otherwise the default lookup locations.
func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

// Execute runs the slotboard CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (edit, render,
// serve, seed, tree), configures logging based on the --verbose flag, and
// executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext. The passed context carries signal cancellation so
// long-running commands (edit, serve) shut down cleanly.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "slotboard",
		Short:        "Slotboard edits and serves tree-structured page layouts",
		Long:         `Slotboard is a visual layout engine: pages are trees of slots placed on a 12-column grid, edited by direct manipulation and persisted as configuration documents.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("slotboard %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to slotboard.toml")

	root.AddCommand(newEditCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newTreeCmd())

	return root.ExecuteContext(ctx)
}
