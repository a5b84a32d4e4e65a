package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestExitError(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	live := context.Background()
	boom := errors.New("boom")

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want error
	}{
		{name: "clean exit", ctx: live, err: nil, want: nil},
		{name: "killed by signal", ctx: cancelled, err: tea.ErrProgramKilled, want: nil},
		{name: "killed and wrapped", ctx: cancelled, err: fmt.Errorf("%w: %w", tea.ErrProgramKilled, context.Canceled), want: nil},
		{name: "killed without cancellation", ctx: live, err: tea.ErrProgramKilled, want: tea.ErrProgramKilled},
		{name: "other failure after cancel", ctx: cancelled, err: boom, want: boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exitError(tt.ctx, tt.err)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}
