package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veriscan/veriscan-detection-service/internal/domain/entity"
)

type AnalysisRepository struct {
	pool *pgxpool.Pool
}

func NewAnalysisRepository(pool *pgxpool.Pool) *AnalysisRepository {
	return &AnalysisRepository{pool: pool}
}

func (r *AnalysisRepository) Save(ctx context.Context, a *entity.Analysis) error {
	query := `
		INSERT INTO analyses (
			id, media_type, filename, file_size, score, threshold,
			is_deepfake, confidence, frames_scored, scorer, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, string(a.MediaType), a.Filename, a.FileSize,
		a.Score, a.Threshold, a.Verdict.IsDeepfake, a.Verdict.Confidence,
		a.FramesScored, a.ScorerName, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Analysis, error) {
	query := `
		SELECT id, media_type, filename, file_size, score, threshold,
			is_deepfake, confidence, frames_scored, scorer, created_at
		FROM analyses ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var out []*entity.Analysis
	for rows.Next() {
		a := &entity.Analysis{}
		var mediaType string
		if err := rows.Scan(
			&a.ID, &mediaType, &a.Filename, &a.FileSize,
			&a.Score, &a.Threshold, &a.Verdict.IsDeepfake, &a.Verdict.Confidence,
			&a.FramesScored, &a.ScorerName, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan analysis row: %w", err)
		}
		a.MediaType = entity.MediaType(mediaType)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses: %w", err)
	}
	return out, nil
}
