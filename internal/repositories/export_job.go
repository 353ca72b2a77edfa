package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/steamx/internal/models"
	"github.com/desertthunder/steamx/internal/shared"
)

// ExportJobRepository implements models.Repository[*models.ExportJob] for export history.
//
// Handles export job CRUD operations with soft delete support and status-based queries.
type ExportJobRepository struct {
	db *sql.DB
}

// NewExportJobRepository creates a new ExportJobRepository with the given database connection
func NewExportJobRepository(db *sql.DB) *ExportJobRepository {
	return &ExportJobRepository{db: db}
}

var _ models.Repository[*models.ExportJob] = (*ExportJobRepository)(nil)

const exportJobColumns = `
	id, sequence, status, games_total, games_attempted, rows_written,
	output_path, error_message, started_at, completed_at, created_at,
	updated_at, deleted_at
`

// Create inserts a new export job into the database with a sequence, generating an ID unless one is set
func (r *ExportJobRepository) Create(job *models.ExportJob) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "export_jobs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	if job.ID() == "" {
		job.SetID(shared.GenerateID())
	}
	job.SetSequence(sequence)

	query := `
		INSERT INTO export_jobs (
			id, sequence, status, games_total, games_attempted, rows_written,
			output_path, error_message, started_at, completed_at, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		job.ID(),
		job.Sequence(),
		job.Status(),
		job.GamesTotal(),
		job.GamesAttempted(),
		job.RowsWritten(),
		job.OutputPath(),
		job.ErrorMessage(),
		job.StartedAt(),
		job.CompletedAt(),
		job.CreatedAt(),
		job.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert export job: %w", err)
	}

	return nil
}

// Get retrieves an export job by ID, excluding soft-deleted jobs
func (r *ExportJobRepository) Get(id string) (*models.ExportJob, error) {
	query := `SELECT ` + exportJobColumns + ` FROM export_jobs WHERE id = ? AND deleted_at IS NULL`

	job, err := scanExportJob(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrJobNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan export job: %w", err)
	}
	return job, nil
}

// Update writes the job's mutable fields back to the database
func (r *ExportJobRepository) Update(job *models.ExportJob) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	job.SetUpdatedAt(now)

	query := `
		UPDATE export_jobs
		SET status = ?, games_total = ?, games_attempted = ?, rows_written = ?,
			output_path = ?, error_message = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		job.Status(),
		job.GamesTotal(),
		job.GamesAttempted(),
		job.RowsWritten(),
		job.OutputPath(),
		job.ErrorMessage(),
		job.CompletedAt(),
		now,
		job.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update export job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrJobNotFound, job.ID())
	}

	return nil
}

// Delete soft-deletes an export job by ID
func (r *ExportJobRepository) Delete(id string) error {
	query := `UPDATE export_jobs SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete export job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrJobNotFound, id)
	}

	return nil
}

// List retrieves export jobs newest first.
//
// Supported criteria: "status" (string) and "limit" (int).
func (r *ExportJobRepository) List(criteria map[string]any) ([]*models.ExportJob, error) {
	query := `SELECT ` + exportJobColumns + ` FROM export_jobs WHERE deleted_at IS NULL`
	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query export jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.ExportJob
	for rows.Next() {
		job, err := scanExportJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export job: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return jobs, nil
}

// scanner is satisfied by both [sql.Row] and [sql.Rows]
type scanner interface {
	Scan(dest ...any) error
}

func scanExportJob(s scanner) (*models.ExportJob, error) {
	var (
		id             string
		sequence       int
		status         string
		gamesTotal     int
		gamesAttempted int
		rowsWritten    int
		outputPath     string
		errorMessage   string
		startedAt      time.Time
		completedAt    sql.NullTime
		createdAt      time.Time
		updatedAt      time.Time
		deletedAt      sql.NullTime
	)

	err := s.Scan(
		&id, &sequence, &status, &gamesTotal, &gamesAttempted, &rowsWritten,
		&outputPath, &errorMessage, &startedAt, &completedAt, &createdAt,
		&updatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	job := models.NewExportJob(sequence, gamesTotal, outputPath)
	job.SetID(id)
	job.SetStatus(status)
	job.SetGamesAttempted(gamesAttempted)
	job.SetRowsWritten(rowsWritten)
	job.SetErrorMessage(errorMessage)
	job.SetStartedAt(startedAt)
	job.SetCreatedAt(createdAt)
	job.SetUpdatedAt(updatedAt)
	if completedAt.Valid {
		job.SetCompletedAt(&completedAt.Time)
	}
	if deletedAt.Valid {
		job.SetDeletedAt(&deletedAt.Time)
	}

	return job, nil
}
