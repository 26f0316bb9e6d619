package modelserver

import (
	"context"
	"sync"

	"github.com/veriscan/veriscan-detection-service/internal/domain/entity"
	"github.com/veriscan/veriscan-detection-service/internal/domain/port"
)

// SerialScorer serializes Score calls through a shared mutex. The
// classifier backend handles one inference at a time, so every scorer
// sharing a backend must share the same gate.
type SerialScorer struct {
	inner port.Scorer
	gate  *sync.Mutex
}

func NewSerialScorer(inner port.Scorer, gate *sync.Mutex) *SerialScorer {
	return &SerialScorer{inner: inner, gate: gate}
}

func (s *SerialScorer) Name() string {
	return s.inner.Name()
}

func (s *SerialScorer) Score(ctx context.Context, tensor entity.Tensor) (float64, error) {
	s.gate.Lock()
	defer s.gate.Unlock()
	return s.inner.Score(ctx, tensor)
}
