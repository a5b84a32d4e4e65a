package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/roster/internal/web"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the roster over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

// serve runs the HTTP server until ctx is cancelled, then waits for
// in-flight roster writes before shutting down.
func (a *app) serve(ctx context.Context) error {
	var opts []web.Option
	if a.cfg.Database.Enabled() {
		syncer, closeFn, err := a.openSyncer(ctx)
		if err != nil {
			return err
		}
		defer closeFn()
		opts = append(opts, web.WithSyncer(syncer))
	}

	server := web.NewServer(a.service, a.cfg.Server, opts...)

	a.logger.Info("configuration loaded",
		"file", a.cfg.Roster.File,
		"addr", a.cfg.Server.Addr(),
		"sync_enabled", a.cfg.Database.Enabled(),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	// Wait for roster writes to complete (with timeout)
	if active := a.store.Limiter().ActiveCount(); active > 0 {
		a.logger.Info("waiting for roster writes to complete", "active", active)
		if err := a.store.Limiter().WaitForDrain(shutdownCtx); err != nil {
			a.logger.Warn("roster writes did not complete in time", "error", err)
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("shutdown error", "error", err)
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	a.logger.Info("server stopped")
	return nil
}
