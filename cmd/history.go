package main

import (
	"context"
	"time"

	"github.com/desertthunder/steamx/internal/repositories"
	"github.com/urfave/cli/v3"
)

// historyEntry is the JSON form of an export job.
type historyEntry struct {
	ID          string     `json:"id"`
	Sequence    int        `json:"sequence"`
	Status      string     `json:"status"`
	GamesTotal  int        `json:"games_total"`
	Attempted   int        `json:"games_attempted"`
	Rows        int        `json:"rows_written"`
	OutputPath  string     `json:"output_path"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// HistoryList prints recent export jobs, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	jobs, err := repositories.NewExportJobRepository(db).List(map[string]any{
		"limit":  int(cmd.Int("limit")),
		"status": cmd.String("status"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		entries := make([]historyEntry, 0, len(jobs))
		for _, j := range jobs {
			entries = append(entries, historyEntry{
				ID:          j.ID(),
				Sequence:    j.Sequence(),
				Status:      j.Status(),
				GamesTotal:  j.GamesTotal(),
				Attempted:   j.GamesAttempted(),
				Rows:        j.RowsWritten(),
				OutputPath:  j.OutputPath(),
				Error:       j.ErrorMessage(),
				StartedAt:   j.StartedAt(),
				CompletedAt: j.CompletedAt(),
			})
		}
		return r.writeJSON(entries, true)
	}

	r.writePlainHeader("Export history")
	if len(jobs) == 0 {
		return r.writePlain("No exports yet\n")
	}
	for _, j := range jobs {
		r.writePlain("#%-4d %-17s %3d/%-3d games %5d rows  %s  %s\n",
			j.Sequence(), j.Status(), j.GamesAttempted(), j.GamesTotal(), j.RowsWritten(),
			j.StartedAt().Local().Format("2006-01-02 15:04"), j.OutputPath())
		if msg := j.ErrorMessage(); msg != "" {
			r.writePlain("      error: %s\n", msg)
		}
	}
	return nil
}
