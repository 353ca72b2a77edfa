package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/steamx/internal/shared"
	"github.com/desertthunder/steamx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive exporter.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	creds, err := r.requireCredentials()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/steamx-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.logger = fileLogger

	opts := ui.Options{
		Catalog:     r.catalog,
		Source:      r.source,
		Credentials: creds,
		OutputDir:   r.config.Export.OutputDir,
		Delay:       r.config.Steam.Delay.Duration,
		Logger:      r.logger,
	}
	if cache, err := r.gameCache(); err != nil {
		r.logger.Warn("game cache unavailable", "error", err)
	} else {
		opts.Cache = cache
	}
	if history, err := r.jobHistory(); err != nil {
		r.logger.Warn("export history unavailable", "error", err)
	} else {
		opts.History = history
	}

	model := ui.NewModel(ctx, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
