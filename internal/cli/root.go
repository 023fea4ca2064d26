package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Davimalu/TourPlanner-sub000/internal/catalog"
	"github.com/Davimalu/TourPlanner-sub000/internal/config"
	"github.com/Davimalu/TourPlanner-sub000/internal/eventbus"
	"github.com/Davimalu/TourPlanner-sub000/internal/reconcile"
	"github.com/Davimalu/TourPlanner-sub000/internal/search"
	"github.com/Davimalu/TourPlanner-sub000/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string
	Locale   string

	// Config holds the environment settings the flags default to.
	Config config.Config

	// OpIDs overrides the synchronizer's operation ids. Tests set it for
	// stable output.
	OpIDs reconcile.OpIDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the tourplanner CLI. Flag
// defaults come from the environment and a .env file in the working
// directory.
func NewRootCommand() *cobra.Command {
	cfg, cfgErr := config.Load(".env")
	return newRootCommand(cfg, cfgErr)
}

// NewRootCommandWithConfig creates the root command with explicit settings.
func NewRootCommandWithConfig(cfg config.Config) *cobra.Command {
	return newRootCommand(cfg, nil)
}

func newRootCommand(cfg config.Config, cfgErr error) *cobra.Command {
	opts := &RootOptions{Config: cfg}

	cmd := &cobra.Command{
		Use:   "tourplanner",
		Short: "TourPlanner - plan tours and keep their logs",
		Long: `Manage a catalog of tours and their logs.

Tours are stored in a local SQLite database. Snapshot files (YAML or JSON)
can be imported, reconciled into an existing tour, and exported again.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", cfgErr)
			}
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if _, err := search.ParseLocale(opts.Locale); err != nil {
				return WrapExitError(ExitCommandError, "invalid locale", err)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", cfg.DBPath, "path to SQLite database")
	cmd.PersistentFlags().StringVar(&opts.Locale, "locale", cfg.Locale, "locale for search and number formatting (BCP 47)")

	// Add subcommands
	cmd.AddCommand(NewTourCommand(opts))
	cmd.AddCommand(NewLogCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewScoreCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// formatter builds the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// session is the set of collaborators one command invocation works with.
type session struct {
	store   *store.Store
	bus     *eventbus.Bus
	view    *catalog.View
	service *catalog.Service
	locale  *search.TextLocale
	logger  *slog.Logger
}

// openSession opens the database and wires the catalog around it. Logs go
// to stderr; --verbose lowers the level to debug.
func (o *RootOptions) openSession(cmd *cobra.Command) (*session, error) {
	logCfg := o.Config
	if logCfg.LogLevel == "" {
		logCfg.LogLevel = "info"
	}
	if logCfg.LogFormat == "" {
		logCfg.LogFormat = config.LogFormatText
	}
	if o.Verbose {
		logCfg.LogLevel = "debug"
	}
	logger, err := logCfg.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	locale, err := search.ParseLocale(o.Locale)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid locale", err)
	}

	st, err := store.Open(o.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	bus := eventbus.New(logger)
	view := catalog.NewView(bus, search.New(locale), logger)

	svcOpts := []catalog.ServiceOption{catalog.WithAtomicSync(o.Config.AtomicSync)}
	if o.OpIDs != nil {
		svcOpts = append(svcOpts, catalog.WithOpIDs(o.OpIDs))
	}

	return &session{
		store:   st,
		bus:     bus,
		view:    view,
		service: catalog.NewService(st, bus, logger, svcOpts...),
		locale:  locale,
		logger:  logger,
	}, nil
}

// Close detaches the view and closes the database.
func (s *session) Close() error {
	s.view.Close()
	return s.store.Close()
}
