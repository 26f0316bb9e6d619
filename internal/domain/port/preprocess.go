package port

import (
	"image"

	"github.com/veriscan/veriscan-detection-service/internal/domain/entity"
)

// FramePreprocessor converts one decoded frame into the classifier's input
// tensor. Warnings carry non-fatal validation findings. A non-nil error
// means this frame should be skipped, not that the whole analysis failed.
type FramePreprocessor interface {
	Preprocess(frame image.Image) (entity.Tensor, []string, error)
}

// ImagePreprocessor decodes and prepares a whole still image for scoring.
// Unlike the per-frame path, a failure here is fatal for the request.
type ImagePreprocessor interface {
	PreprocessImage(data []byte) (entity.Tensor, []string, error)
}
