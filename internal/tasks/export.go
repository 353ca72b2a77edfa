package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/steamx/internal/formatter"
	"github.com/desertthunder/steamx/internal/models"
	"github.com/desertthunder/steamx/internal/services"
	"github.com/desertthunder/steamx/internal/shared"
	"golang.org/x/time/rate"
)

// DefaultDelay is the minimum spacing between per-game fetches.
const DefaultDelay = 300 * time.Millisecond

// ExporterOpts contains configuration for an [Exporter].
type ExporterOpts struct {
	Delay    time.Duration                   // spacing between fetches (default: 300ms, negative disables pacing)
	OpenSink func(path string) (Sink, error) // default: formatter.OpenCSV
	Emit     func(Event)                     // receives every event; nil discards
	Logger   *log.Logger
	History  JobRecorder // optional
}

// Exporter runs at most one export job at a time.
//
// The state word is guarded by mu; the cancel flag is the only value the worker reads that the foreground writes.
type Exporter struct {
	client services.AchievementSource
	opts   ExporterOpts

	mu     sync.Mutex
	state  JobState
	jobID  string
	cancel atomic.Bool
	wg     sync.WaitGroup
}

type exportJob struct {
	id        string
	creds     services.Credentials
	selection []models.Game
	path      string
}

// NewExporter creates an exporter that fetches through client.
func NewExporter(client services.AchievementSource, opts ExporterOpts) *Exporter {
	if opts.Delay == 0 {
		opts.Delay = DefaultDelay
	}
	if opts.OpenSink == nil {
		opts.OpenSink = func(path string) (Sink, error) { return formatter.OpenCSV(path) }
	}
	if opts.Emit == nil {
		opts.Emit = func(Event) {}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Exporter{client: client, opts: opts}
}

// ExportPath joins the output directory and the file name chosen for selection.
func ExportPath(baseDir string, selection []models.Game) string {
	return filepath.Join(formatter.ResolveOutputDir(baseDir), formatter.ExportFilename(selection))
}

// Start launches a job on a worker goroutine and returns immediately.
//
// It fails with [shared.ErrBusy] while another job is active and with [shared.ErrAuth] when credentials are empty.
// The selection is copied, so callers may change their slice afterwards.
func (e *Exporter) Start(ctx context.Context, creds services.Credentials, selection []models.Game, outputPath string) error {
	job, err := e.begin(creds, selection, outputPath)
	if err != nil {
		return err
	}

	go func() {
		defer e.wg.Done()
		e.execute(ctx, job)
	}()
	return nil
}

// Run executes a job on the calling goroutine and returns its outcome.
//
// The same busy and credential checks as Start apply.
func (e *Exporter) Run(ctx context.Context, creds services.Credentials, selection []models.Game, outputPath string) (Outcome, error) {
	job, err := e.begin(creds, selection, outputPath)
	if err != nil {
		return Outcome{}, err
	}

	defer e.wg.Done()
	return e.execute(ctx, job), nil
}

// RequestCancel asks the running job to stop before its next game. It returns false when no job is running.
func (e *Exporter) RequestCancel() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case Running:
		e.cancel.Store(true)
		e.state = CancelRequested
		e.opts.Logger.Info("cancel requested", "job", e.jobID)
		return true
	case CancelRequested:
		return true
	default:
		return false
	}
}

// State returns the current job state.
func (e *Exporter) State() JobState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Wait blocks until the in-flight job has delivered its outcome.
func (e *Exporter) Wait() {
	e.wg.Wait()
}

// begin claims the exporter for a new job. On success the caller owns one wg slot and must call execute.
func (e *Exporter) begin(creds services.Credentials, selection []models.Game, outputPath string) (exportJob, error) {
	job, err := e.claim(creds, selection, outputPath)
	if err != nil {
		return exportJob{}, err
	}
	e.opts.Emit(resetUpdate(job.id, len(job.selection)))
	return job, nil
}

func (e *Exporter) claim(creds services.Credentials, selection []models.Game, outputPath string) (exportJob, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Active() {
		return exportJob{}, fmt.Errorf("%w: export %s is %s", shared.ErrBusy, e.jobID, e.state)
	}
	if creds.Empty() {
		return exportJob{}, fmt.Errorf("%w: API key and SteamID are required", shared.ErrAuth)
	}

	job := exportJob{
		id:        shared.GenerateID(),
		creds:     creds,
		selection: append([]models.Game(nil), selection...),
		path:      outputPath,
	}

	e.state = Running
	e.jobID = job.id
	e.cancel.Store(false)
	e.wg.Add(1)
	return job, nil
}

// execute runs the item loop, records history and delivers the outcome.
func (e *Exporter) execute(ctx context.Context, job exportJob) Outcome {
	logger := shared.WithLogger(e.opts.Logger, "job", job.id)
	logger.Info("export started", "games", len(job.selection), "path", job.path)

	if e.opts.History != nil {
		if err := e.opts.History.Begin(job.id, len(job.selection), job.path); err != nil {
			logger.Warn("failed to record export job", "error", err)
		}
	}

	out := e.process(ctx, job, logger)

	if e.opts.History != nil {
		errMsg := ""
		if out.Err != nil {
			errMsg = out.Err.Error()
		}
		if err := e.opts.History.Finish(job.id, out.Status(), out.Attempted, out.Rows, errMsg); err != nil {
			logger.Warn("failed to finish export job", "error", err)
		}
	}

	logger.Info("export finished", "status", out.Status(), "attempted", out.Attempted, "rows", out.Rows)

	e.mu.Lock()
	e.state = out.State()
	e.mu.Unlock()

	e.opts.Emit(outcomeUpdate(job.id, out))

	e.mu.Lock()
	e.state = Idle
	e.mu.Unlock()
	return out
}

func (e *Exporter) process(ctx context.Context, job exportJob, logger *log.Logger) Outcome {
	total := len(job.selection)

	sink, err := e.opts.OpenSink(job.path)
	if err != nil {
		logger.Error("failed to open output", "error", err)
		return Outcome{Kind: OutcomeFailed, Total: total, Path: job.path, Err: ioError(err)}
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Warn("failed to close output", "error", err)
		}
	}()

	if err := sink.WriteHeader(); err != nil {
		return Outcome{Kind: OutcomeFailed, Total: total, Path: job.path, Err: ioError(err)}
	}

	e.opts.Emit(startedUpdate(job.id, total, job.path))

	limiter := newLimiter(e.opts.Delay)
	rows, attempted, canceled := 0, 0, false

	for i, game := range job.selection {
		if e.stopRequested(ctx) {
			canceled = true
			break
		}
		if err := limiter.Wait(ctx); err != nil || e.stopRequested(ctx) {
			canceled = true
			break
		}

		e.opts.Emit(fetchingUpdate(job.id, i+1, total, game))
		res := e.client.FetchAchievements(ctx, job.creds, game.AppID)
		attempted++

		written := 0
		switch res.Status {
		case services.FetchOK:
			for _, record := range res.Data.Records(game.Title()) {
				if err := sink.Append(record); err != nil {
					logger.Error("failed to write row", "appid", game.AppID, "error", err)
					return Outcome{
						Kind:      OutcomeFailed,
						Attempted: attempted,
						Total:     total,
						Rows:      rows,
						Path:      job.path,
						Err:       ioError(err),
					}
				}
				rows++
				written++
			}
		case services.FetchNoData:
			logger.Debug("no achievement data", "appid", game.AppID, "reason", res.Reason)
		default:
			logger.Warn("fetch failed", "appid", game.AppID, "error", res.Err)
		}

		e.opts.Emit(itemDoneUpdate(job.id, i+1, total, game, res, written))
		e.opts.Emit(progressUpdate(job.id, i+1, total))
	}

	return decideOutcome(canceled, attempted, total, rows, job.path)
}

func (e *Exporter) stopRequested(ctx context.Context) bool {
	return e.cancel.Load() || ctx.Err() != nil
}

// newLimiter spaces successive fetches at least delay apart. The first fetch is not delayed.
func newLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

func ioError(err error) error {
	if err == nil || errors.Is(err, shared.ErrIO) {
		return err
	}
	return fmt.Errorf("%w: %v", shared.ErrIO, err)
}
