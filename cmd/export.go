package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	bar "github.com/charmbracelet/bubbles/progress"
	"github.com/desertthunder/steamx/internal/models"
	"github.com/desertthunder/steamx/internal/progress"
	"github.com/desertthunder/steamx/internal/services"
	"github.com/desertthunder/steamx/internal/shared"
	"github.com/desertthunder/steamx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ExportRun exports the achievements of the games named by --game (or every game with --all).
//
// The export runs on the exporter's worker while this goroutine drains its events and animates
// the progress bar. An interrupt requests cancellation; rows already written are kept.
func (r *Runner) ExportRun(ctx context.Context, cmd *cli.Command) error {
	creds, err := r.requireCredentials()
	if err != nil {
		return err
	}

	selection, err := r.selectGames(ctx, creds, cmd.StringSlice("game"), cmd.Bool("all"))
	if err != nil {
		return err
	}

	outputDir := cmd.String("output-dir")
	if outputDir == "" {
		outputDir = r.config.Export.OutputDir
	}
	delay := r.config.Steam.Delay.Duration
	if cmd.IsSet("delay") {
		delay = cmd.Duration("delay")
		if delay == 0 {
			delay = -1
		}
	}

	events := make(chan tasks.Event, 64)
	opts := tasks.ExporterOpts{Delay: delay, Emit: tasks.ChanEmitter(events), Logger: r.logger}
	if history, err := r.jobHistory(); err != nil {
		r.logger.Warn("export history unavailable", "error", err)
	} else {
		opts.History = history
	}

	exporter := tasks.NewExporter(r.source, opts)
	path := tasks.ExportPath(outputDir, selection)
	if err := exporter.Start(ctx, creds, selection, path); err != nil {
		return err
	}

	out := r.follow(ctx, exporter, events, !cmd.Bool("no-progress"))
	exporter.Wait()

	switch out.Kind {
	case tasks.OutcomeFailed:
		return fmt.Errorf("export failed: %w", out.Err)
	case tasks.OutcomeCompleted:
		if out.Empty {
			r.logger.Warn("no achievements could be retrieved", "path", out.Path)
		}
	}

	if cmd.Bool("open") && out.Rows > 0 {
		if err := shared.Open(out.Path); err != nil {
			r.logger.Warn("failed to open export", "error", err)
		}
	}
	return nil
}

// selectGames resolves the requested games, preferring the cached list and fetching from Steam
// when the cache is empty, cannot satisfy the request, or --all is set.
func (r *Runner) selectGames(ctx context.Context, creds services.Credentials, values []string, all bool) ([]models.Game, error) {
	if !all && len(values) == 0 {
		return nil, fmt.Errorf("%w: pass --game <appid|name> or --all", shared.ErrMissingArgument)
	}

	if !all {
		if lib, err := r.cachedLibrary(); err == nil && len(lib.Games()) > 0 {
			if selection, err := resolveGames(lib, values); err == nil {
				return selection, nil
			}
		}
	}

	lib, err := r.fetchLibrary(ctx, creds)
	if err != nil {
		return nil, err
	}
	if all {
		games := lib.Games()
		if len(games) == 0 {
			return nil, fmt.Errorf("%w: the account has no visible games", shared.ErrGameNotFound)
		}
		return games, nil
	}
	return resolveGames(lib, values)
}

// follow is the foreground loop of a CLI export. It returns the job's outcome.
func (r *Runner) follow(ctx context.Context, exporter *tasks.Exporter, events <-chan tasks.Event, draw bool) tasks.Outcome {
	reporter := progress.New()
	pbar := bar.New(bar.WithDefaultGradient(), bar.WithWidth(40))
	ticker := time.NewTicker(progress.FrameInterval)
	defer ticker.Stop()

	done := ctx.Done()
	drawn := -1.0

	for {
		select {
		case ev := <-events:
			switch ev.Kind {
			case tasks.EventProgress:
				if ev.Step == 0 {
					reporter.Reset()
				} else {
					reporter.SetTarget(ev.Percent, time.Now())
				}
			case tasks.EventLog, tasks.EventItemDone:
				r.printLine(draw, ev.Message)
			case tasks.EventOutcome:
				if draw {
					reporter.Step(time.Now().Add(progress.RiseDuration))
					r.writePlain("\r%s\n", pbar.ViewAs(reporter.Fraction()))
				}
				r.writePlain("%s\n", ev.Message)
				if ev.Outcome == nil {
					return tasks.Outcome{Kind: tasks.OutcomeFailed, Err: errors.New("missing outcome")}
				}
				return *ev.Outcome
			}

		case now := <-ticker.C:
			v, _ := reporter.Step(now)
			if draw && v != drawn {
				drawn = v
				r.writePlain("\r%s", pbar.ViewAs(reporter.Fraction()))
			}

		case <-done:
			done = nil
			if exporter.RequestCancel() {
				r.printLine(draw, "Canceling after the current game...")
			}
		}
	}
}

// printLine writes a log line above the progress bar.
func (r *Runner) printLine(draw bool, line string) {
	if draw {
		r.writePlain("\r\x1b[2K")
	}
	r.writePlain("%s\n", line)
}
