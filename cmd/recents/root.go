package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/recents/internal/config"
	"github.com/raphi011/recents/internal/log"
	"github.com/raphi011/recents/internal/output"
)

// Command group IDs for organizing help output
const (
	GroupCore    = "core"
	GroupBackup  = "backup"
	GroupUtility = "utility"
)

// rootFlags holds the global flags.
type rootFlags struct {
	verbose bool
	quiet   bool
}

// newRootCmd builds the command tree. The config is taken from the
// context passed to Execute; Default() is used if none is attached.
func newRootCmd() *cobra.Command {
	var (
		flags   rootFlags
		logSink io.Closer
	)

	root := &cobra.Command{
		Use:   "recents",
		Short: "Search and maintain the IDE's recent projects and files",
		Long: `recents reads the recent projects and files list of every installed
IDE instance, searches it and keeps all instances' lists in sync when
entries are removed or restored.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2, // Enable typo suggestions
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.verbose && flags.quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}

			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			if cfg == nil {
				d := config.Default()
				cfg = &d
				ctx = config.WithConfig(ctx, cfg)
			}

			// Logger writes diagnostics to stderr, plus the log file if configured
			var w io.Writer = cmd.ErrOrStderr()
			if cfg.LogFile != "" {
				sink := log.FileSink(cfg.LogFile)
				logSink = sink
				w = io.MultiWriter(w, sink)
			}
			ctx = log.WithLogger(ctx, log.New(w, flags.verbose, flags.quiet))

			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if logSink != nil {
				return logSink.Close()
			}
			return nil
		},
		// Run is not set - shows help when no subcommand provided
	}

	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Show external commands and debug output")
	root.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "Suppress all log output")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.Version = versionString()
	root.SetVersionTemplate("{{.Version}}\n")

	root.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupBackup, Title: "Backup Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
	)

	// Core commands
	root.AddCommand(newListCmd())
	root.AddCommand(newRemoveCmd())
	root.AddCommand(newClearCmd())
	root.AddCommand(newCleanCmd())

	// Backup commands
	root.AddCommand(newBackupCmd())
	root.AddCommand(newRestoreCmd())

	// Utility commands
	root.AddCommand(newInstancesCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newConfigCmd())

	return root
}

// Execute loads the config and runs the command line.
func Execute() {
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx = config.WithConfig(ctx, &loadedCfg)

	// Add output printer (stdout for primary data)
	ctx = output.WithPrinter(ctx, os.Stdout)

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'recents -h' for help")
		cancel()
		os.Exit(1)
	}
}
