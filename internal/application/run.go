// Package application runs the interactive roster menu in the terminal.
package application

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the menu until the user exits or ctx is cancelled. Logs must not
// go to the terminal while the program runs; log is used for recovered panics.
// Cancellation of ctx (SIGINT, SIGTERM) is a normal exit.
func Run(ctx context.Context, deps Deps, log *slog.Logger) error {
	p := tea.NewProgram(wrapSafe(NewModel(ctx, deps), log), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return exitError(ctx, err)
}

// exitError drops the error bubbletea reports when ctx ends the program.
func exitError(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
