package models

import (
	"fmt"
	"time"
)

// Export job statuses as persisted in the export_jobs table.
const (
	JobStatusRunning         = "running"
	JobStatusCompleted       = "completed"
	JobStatusCompletedEmpty  = "completed_empty"
	JobStatusCanceled        = "canceled"
	JobStatusCanceledPartial = "canceled_partial"
	JobStatusFailed          = "failed"
)

var validJobStatuses = map[string]bool{
	JobStatusRunning:         true,
	JobStatusCompleted:       true,
	JobStatusCompletedEmpty:  true,
	JobStatusCanceled:        true,
	JobStatusCanceledPartial: true,
	JobStatusFailed:          true,
}

// ExportJob records one run of the export pipeline.
type ExportJob struct {
	id             string
	sequence       int
	status         string
	gamesTotal     int
	gamesAttempted int
	rowsWritten    int
	outputPath     string
	errorMessage   string
	startedAt      time.Time
	completedAt    *time.Time
	createdAt      time.Time
	updatedAt      time.Time
	deletedAt      *time.Time
}

// NewExportJob creates a running job for gamesTotal games writing to outputPath.
func NewExportJob(sequence, gamesTotal int, outputPath string) *ExportJob {
	now := time.Now()
	return &ExportJob{
		sequence:   sequence,
		status:     JobStatusRunning,
		gamesTotal: gamesTotal,
		outputPath: outputPath,
		startedAt:  now,
		createdAt:  now,
		updatedAt:  now,
	}
}

func (j *ExportJob) ID() string              { return j.id }
func (j *ExportJob) Sequence() int           { return j.sequence }
func (j *ExportJob) Status() string          { return j.status }
func (j *ExportJob) GamesTotal() int         { return j.gamesTotal }
func (j *ExportJob) GamesAttempted() int     { return j.gamesAttempted }
func (j *ExportJob) RowsWritten() int        { return j.rowsWritten }
func (j *ExportJob) OutputPath() string      { return j.outputPath }
func (j *ExportJob) ErrorMessage() string    { return j.errorMessage }
func (j *ExportJob) StartedAt() time.Time    { return j.startedAt }
func (j *ExportJob) CompletedAt() *time.Time { return j.completedAt }
func (j *ExportJob) CreatedAt() time.Time    { return j.createdAt }
func (j *ExportJob) UpdatedAt() time.Time    { return j.updatedAt }
func (j *ExportJob) DeletedAt() *time.Time   { return j.deletedAt }

func (j *ExportJob) SetID(id string)             { j.id = id }
func (j *ExportJob) SetSequence(seq int)         { j.sequence = seq }
func (j *ExportJob) SetStatus(status string)     { j.status = status }
func (j *ExportJob) SetGamesTotal(n int)         { j.gamesTotal = n }
func (j *ExportJob) SetGamesAttempted(n int)     { j.gamesAttempted = n }
func (j *ExportJob) SetRowsWritten(n int)        { j.rowsWritten = n }
func (j *ExportJob) SetOutputPath(path string)   { j.outputPath = path }
func (j *ExportJob) SetErrorMessage(msg string)  { j.errorMessage = msg }
func (j *ExportJob) SetStartedAt(t time.Time)    { j.startedAt = t }
func (j *ExportJob) SetCompletedAt(t *time.Time) { j.completedAt = t }
func (j *ExportJob) SetCreatedAt(t time.Time)    { j.createdAt = t }
func (j *ExportJob) SetUpdatedAt(t time.Time)    { j.updatedAt = t }
func (j *ExportJob) SetDeletedAt(t *time.Time)   { j.deletedAt = t }

// Finish moves the job to a terminal status and stamps the completion time.
func (j *ExportJob) Finish(status string, attempted, rows int, errMsg string) {
	now := time.Now()
	j.status = status
	j.gamesAttempted = attempted
	j.rowsWritten = rows
	j.errorMessage = errMsg
	j.completedAt = &now
	j.updatedAt = now
}

// Terminal reports whether the job has reached a final status.
func (j *ExportJob) Terminal() bool {
	return j.status != JobStatusRunning
}

func (j *ExportJob) Validate() error {
	if !validJobStatuses[j.status] {
		return fmt.Errorf("invalid export job status: %q", j.status)
	}
	if j.gamesTotal < 0 || j.gamesAttempted < 0 || j.rowsWritten < 0 {
		return fmt.Errorf("export job counts must not be negative")
	}
	if j.gamesAttempted > j.gamesTotal {
		return fmt.Errorf("games attempted (%d) exceeds total (%d)", j.gamesAttempted, j.gamesTotal)
	}
	return nil
}
