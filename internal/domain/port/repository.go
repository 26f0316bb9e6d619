package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/veriscan/veriscan-detection-service/internal/domain/entity"
)

type AnalysisRepository interface {
	Save(ctx context.Context, analysis *entity.Analysis) error
	ListRecent(ctx context.Context, limit int) ([]*entity.Analysis, error)
}

type ScanJobRepository interface {
	Create(ctx context.Context, job *entity.ScanJob) error
	Update(ctx context.Context, job *entity.ScanJob) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ScanJob, error)
}
