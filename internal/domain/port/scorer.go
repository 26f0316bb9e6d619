package port

import (
	"context"

	"github.com/veriscan/veriscan-detection-service/internal/domain/entity"
)

// Scorer produces a manipulation likelihood in [0,1] for one input tensor.
type Scorer interface {
	Name() string
	Score(ctx context.Context, t entity.Tensor) (float64, error)
}

// ScorerProbe reports whether a scoring backend is reachable and has its
// model loaded.
type ScorerProbe interface {
	Ready(ctx context.Context) error
}
