package repositories

import (
	"fmt"

	"github.com/desertthunder/steamx/internal/models"
)

// JobHistoryAdapter implements tasks.JobRecorder using ExportJobRepository.
type JobHistoryAdapter struct {
	repo *ExportJobRepository
}

// NewJobHistoryAdapter creates a new JobHistoryAdapter with the given repository
func NewJobHistoryAdapter(repo *ExportJobRepository) *JobHistoryAdapter {
	return &JobHistoryAdapter{repo: repo}
}

// Begin records a running job under the exporter's job ID.
func (a *JobHistoryAdapter) Begin(id string, total int, outputPath string) error {
	job := models.NewExportJob(0, total, outputPath)
	job.SetID(id)
	if err := a.repo.Create(job); err != nil {
		return fmt.Errorf("failed to record export job: %w", err)
	}
	return nil
}

// Finish stores the terminal status and counts of a job started with Begin.
func (a *JobHistoryAdapter) Finish(id, status string, attempted, rows int, errMsg string) error {
	job, err := a.repo.Get(id)
	if err != nil {
		return err
	}

	job.Finish(status, attempted, rows, errMsg)
	if err := a.repo.Update(job); err != nil {
		return fmt.Errorf("failed to finish export job: %w", err)
	}
	return nil
}
