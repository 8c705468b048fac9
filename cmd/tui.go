package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mawshu/movie-tracker/internal/shared"
	"github.com/mawshu/movie-tracker/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for ordering watchlists.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.currentUser(ctx)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, closer, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer closer.Close()
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.catalog, userID, fileLogger)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
