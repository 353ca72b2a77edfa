// package tasks runs the achievement export pipeline and the owned-games list fetch as background jobs.
package tasks

import (
	"fmt"

	"github.com/desertthunder/steamx/internal/models"
)

// Sink receives exported rows. [formatter.CSVSink] is the production implementation.
type Sink interface {
	WriteHeader() error
	Append(models.AchievementRecord) error
	Close() error
}

// JobRecorder persists export history. Implemented by repositories.JobHistoryAdapter.
type JobRecorder interface {
	Begin(id string, total int, outputPath string) error
	Finish(id, status string, attempted, rows int, errMsg string) error
}

// GameCache stores the last owned-games list. Implemented by repositories.GameCacheAdapter.
type GameCache interface {
	SaveGames(games []models.Game) error
	LoadGames() ([]models.Game, error)
}

// JobState is the exporter's state machine.
type JobState int

const (
	Idle JobState = iota
	Running
	CancelRequested
	Completed
	Canceled
	Failed
)

func (s JobState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case CancelRequested:
		return "cancel_requested"
	case Completed:
		return "completed"
	case Canceled:
		return "canceled"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

// Active reports whether a worker owns the exporter.
func (s JobState) Active() bool {
	return s != Idle
}

// OutcomeKind is the terminal result of a job.
type OutcomeKind int

const (
	OutcomeCompleted OutcomeKind = iota
	OutcomeCanceled
	OutcomeFailed
)

// Outcome is reported exactly once per job.
type Outcome struct {
	Kind      OutcomeKind
	Empty     bool // completed with zero rows
	Partial   bool // canceled after at least one row
	Attempted int
	Total     int
	Rows      int
	Path      string
	Err       error
}

// State maps the outcome to its terminal [JobState].
func (o Outcome) State() JobState {
	switch o.Kind {
	case OutcomeCanceled:
		return Canceled
	case OutcomeFailed:
		return Failed
	default:
		return Completed
	}
}

// Status maps the outcome to the persisted export job status.
func (o Outcome) Status() string {
	switch {
	case o.Kind == OutcomeFailed:
		return models.JobStatusFailed
	case o.Kind == OutcomeCanceled && o.Partial:
		return models.JobStatusCanceledPartial
	case o.Kind == OutcomeCanceled:
		return models.JobStatusCanceled
	case o.Empty:
		return models.JobStatusCompletedEmpty
	default:
		return models.JobStatusCompleted
	}
}

// Message is the single user-facing notice for the job.
func (o Outcome) Message() string {
	switch o.Status() {
	case models.JobStatusFailed:
		return fmt.Sprintf("Export failed: %v", o.Err)
	case models.JobStatusCanceledPartial:
		return fmt.Sprintf("Export canceled after %d of %d game(s); %d row(s) kept in %s", o.Attempted, o.Total, o.Rows, o.Path)
	case models.JobStatusCanceled:
		return "Export canceled; nothing was written"
	case models.JobStatusCompletedEmpty:
		return "No achievements could be retrieved"
	default:
		return fmt.Sprintf("Export complete: %d row(s) written to %s", o.Rows, o.Path)
	}
}

// decideOutcome applies the completion rules after the item loop.
func decideOutcome(canceled bool, attempted, total, rows int, path string) Outcome {
	out := Outcome{Attempted: attempted, Total: total, Rows: rows, Path: path}
	switch {
	case canceled:
		out.Kind = OutcomeCanceled
		out.Partial = rows > 0
	default:
		out.Kind = OutcomeCompleted
		out.Empty = rows == 0
	}
	return out
}
