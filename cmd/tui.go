package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/festify/internal/shared"
	"github.com/desertthunder/festify/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for building a playlist.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Logging.File, r.config.Logging)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)
	if r.ownsAPI {
		r.connect(ctx)
	}

	w, _ := r.newWorkflow(r.recorder())
	model := ui.NewModel(ctx, w, shared.WithLogger(fileLogger, "component", "ui"))
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
