package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/snapkit/internal/config"
	"github.com/roach88/snapkit/internal/snapshot"
	"github.com/roach88/snapkit/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Backend    string
	Database   string

	cfg    config.Config
	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the snapkit CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "snapkit",
		Short: "snapkit - snapshot artifact tool",
		Long:  "Inspect, check, reformat and remove the snapshot artifacts recorded by snapkit test suites.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			return opts.loadConfig(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default "+config.DefaultFile+" if present)")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "snapshot backend (file|sqlite), overrides config")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "SQLite database path for the sqlite backend")

	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewFmtCommand(opts))
	cmd.AddCommand(NewRmCommand(opts))

	return cmd
}

// newLogger writes diagnostics to w; --verbose lowers the level to debug.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig reads configuration and applies flag overrides.
func (o *RootOptions) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading config", err)
	}
	if cmd.Flags().Changed("backend") {
		cfg.Backend = o.Backend
	}
	if cmd.Flags().Changed("db") {
		cfg.Database = o.Database
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid config", err)
	}
	o.cfg = cfg
	o.logger.Debug("config loaded", "backend", cfg.Backend, "database", cfg.Database)
	return nil
}

// openStore returns the configured store. The returned close function is
// always non-nil.
func (o *RootOptions) openStore() (snapshot.Store, func() error, error) {
	switch o.cfg.Backend {
	case config.BackendSQLite:
		db, err := store.OpenSQLite(o.cfg.Database)
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "opening database", err)
		}
		return db, db.Close, nil
	default:
		return store.NewFile(), func() error { return nil }, nil
	}
}

// formatter returns an OutputFormatter bound to the command's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
