package repository

import (
	"context"
	"errors"
	"time"

	"caseatlas-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExtractionJobRepository handles database operations for extraction jobs
type ExtractionJobRepository struct {
	db *pgxpool.Pool
}

// NewExtractionJobRepository creates a new extraction job repository
func NewExtractionJobRepository(db *pgxpool.Pool) *ExtractionJobRepository {
	return &ExtractionJobRepository{db: db}
}

// Create creates a new extraction job
func (r *ExtractionJobRepository) Create(ctx context.Context, job *models.ExtractionJob) error {
	query := `
		INSERT INTO extraction_jobs (
			filename, status, current_step, steps, error_message
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		job.Filename,
		job.Status,
		job.CurrentStep,
		job.Steps,
		job.ErrorMessage,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)

	return err
}

// GetByID retrieves an extraction job by ID
func (r *ExtractionJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ExtractionJob, error) {
	job := &models.ExtractionJob{}
	query := `
		SELECT id, filename, status, current_step, steps, error_message,
			created_at, updated_at, completed_at
		FROM extraction_jobs
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&job.ID,
		&job.Filename,
		&job.Status,
		&job.CurrentStep,
		&job.Steps,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if job.Steps == nil {
		job.Steps = make(models.ExtractionSteps, 0)
	}

	return job, nil
}

// UpdateStatus updates the status of an extraction job
func (r *ExtractionJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ExtractionJobStatus) error {
	query := `
		UPDATE extraction_jobs SET
			status = $2,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, status)
	return err
}

// UpdateProgress updates the current step and step list of an extraction job
func (r *ExtractionJobRepository) UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.ExtractionSteps) error {
	query := `
		UPDATE extraction_jobs SET
			current_step = $2,
			steps = $3,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, currentStep, steps)
	return err
}

// Complete marks an extraction job as completed
func (r *ExtractionJobRepository) Complete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	query := `
		UPDATE extraction_jobs SET
			status = $2,
			completed_at = $3,
			updated_at = $3
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.JobStatusCompleted, now)
	return err
}

// Fail marks an extraction job as failed
func (r *ExtractionJobRepository) Fail(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE extraction_jobs SET
			status = $2,
			error_message = $3,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.JobStatusFailed, errorMessage)
	return err
}
