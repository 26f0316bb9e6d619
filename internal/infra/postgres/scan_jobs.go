package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veriscan/veriscan-detection-service/internal/domain/entity"
)

type ScanJobRepository struct {
	pool *pgxpool.Pool
}

func NewScanJobRepository(pool *pgxpool.Pool) *ScanJobRepository {
	return &ScanJobRepository{pool: pool}
}

func (r *ScanJobRepository) Create(ctx context.Context, job *entity.ScanJob) error {
	query := `
		INSERT INTO scan_jobs (
			id, media_key, media_type, file_size, requested_by, status,
			attempt, max_attempts, analysis_id, error_message,
			created_at, updated_at, completed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`

	_, err := r.pool.Exec(ctx, query,
		job.ID, job.MediaKey, string(job.MediaType), job.FileSize,
		job.RequestedBy, string(job.Status), job.Attempt, job.MaxAttempts,
		job.AnalysisID, job.ErrorMessage,
		job.CreatedAt, job.UpdatedAt, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert scan job: %w", err)
	}
	return nil
}

func (r *ScanJobRepository) Update(ctx context.Context, job *entity.ScanJob) error {
	query := `
		UPDATE scan_jobs SET
			status=$2, attempt=$3, analysis_id=$4, error_message=$5,
			updated_at=$6, completed_at=$7
		WHERE id=$1`

	_, err := r.pool.Exec(ctx, query,
		job.ID, string(job.Status), job.Attempt, job.AnalysisID,
		job.ErrorMessage, job.UpdatedAt, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update scan job: %w", err)
	}
	return nil
}

func (r *ScanJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ScanJob, error) {
	query := `
		SELECT id, media_key, media_type, file_size, requested_by, status,
			attempt, max_attempts, analysis_id, error_message,
			created_at, updated_at, completed_at
		FROM scan_jobs WHERE id=$1`

	job := &entity.ScanJob{}
	var mediaType, status string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.MediaKey, &mediaType, &job.FileSize,
		&job.RequestedBy, &status, &job.Attempt, &job.MaxAttempts,
		&job.AnalysisID, &job.ErrorMessage,
		&job.CreatedAt, &job.UpdatedAt, &job.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("find scan job by id: %w", err)
	}
	job.MediaType = entity.MediaType(mediaType)
	job.Status = entity.ScanJobStatus(status)
	return job, nil
}
