// Package cli implements the roster command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/roster/internal/config"
	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/logging"
	"github.com/JonMunkholm/roster/internal/pgsync"
)

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		ue := core.NewUserError(err)
		slog.Debug("command failed", "error", ue.Technical, "code", ue.User.Code)
		if ue.Known() {
			fmt.Fprintln(stderr, ue.Display())
		} else {
			fmt.Fprintln(stderr, "Error:", ue.Technical)
		}
		return 1
	}
	return 0
}

// app holds what every subcommand needs after setup.
type app struct {
	file string

	cfg      *config.Config
	store    *core.FileStore
	service  *core.Service
	logger   *slog.Logger
	closeLog func() error
}

// NewRootCmd builds the roster command tree. Running it without a
// subcommand opens the interactive menu.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "roster",
		Short:         "Manage a character roster stored as CSV",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if a.closeLog != nil {
				return a.closeLog()
			}
			return nil
		},
		RunE: a.runMenu,
	}

	cmd.PersistentFlags().StringVarP(&a.file, "file", "f", "", "roster file (overrides ROSTER_FILE)")

	cmd.AddCommand(
		a.listCmd(),
		a.addCmd(),
		a.levelUpCmd(),
		a.exportCmd(),
		a.serveCmd(),
		a.syncCmd(),
	)
	return cmd
}

// setup loads configuration, configures logging and builds the service.
// The menu owns the terminal, so its logs go to LOG_FILE or nowhere.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.file != "" {
		cfg.Roster.File = a.file
	}
	a.cfg = cfg

	w := cmd.ErrOrStderr()
	a.closeLog = nil
	if cmd == cmd.Root() {
		fileW, closeFn, err := logging.OpenFile(cfg.Logging.File)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		w, a.closeLog = fileW, closeFn
	}
	a.logger = logging.Setup(cfg.Logging.Level, cfg.Logging.Format, w)
	a.logger.Debug("configuration loaded", "config", cfg.String())

	a.store = core.NewFileStore(cfg.Roster.File, cfg.Roster.WriteWait)
	a.service = core.NewService(a.store)
	return nil
}

// openSyncer connects to the configured database and prepares the schema.
// The returned close function releases the pool.
func (a *app) openSyncer(ctx context.Context) (*pgsync.Syncer, func(), error) {
	pool, err := pgsync.Connect(ctx, a.cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	syncer := pgsync.New(pool)
	if err := syncer.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return syncer, pool.Close, nil
}
