package port

import (
	"context"

	"github.com/veriscan/veriscan-detection-service/internal/domain/entity"
)

// ReviewNotifier alerts the review team about media flagged as deepfake.
type ReviewNotifier interface {
	NotifyFlagged(ctx context.Context, recipient string, analysis *entity.Analysis) error
}
