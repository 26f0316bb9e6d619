package usecase

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/veriscan/veriscan-detection-service/internal/domain/entity"
)

func TestAnalyzeImageSuccess(t *testing.T) {
	scorer := &scriptedScorer{results: []scoreResult{{score: 0.95}}}
	sink := &capturingRecorder{}
	uc := NewAnalyzeImageUseCase(&stubPreprocessor{}, scorer, sink, zap.NewNop(), 0.9)

	analysis, err := uc.Execute(context.Background(), AnalyzeRequest{Filename: "face.png", Size: 100, Data: []byte("img")})
	require.NoError(t, err)

	assert.Equal(t, entity.MediaTypeImage, analysis.MediaType)
	assert.True(t, analysis.Verdict.IsDeepfake)
	assert.Equal(t, 0.95, analysis.Verdict.Confidence)
	assert.Equal(t, 1, analysis.FramesScored)
	require.Len(t, sink.analyses, 1)
}

func TestAnalyzeImagePreprocessFailureIsClientError(t *testing.T) {
	pre := &stubPreprocessor{fn: func(_ image.Image) (entity.Tensor, []string, error) {
		return entity.Tensor{}, nil, errors.New("decode image: unknown format")
	}}
	uc := NewAnalyzeImageUseCase(pre, &scriptedScorer{}, nil, zap.NewNop(), 0.9)

	_, err := uc.Execute(context.Background(), AnalyzeRequest{Filename: "face.png", Data: []byte("junk")})
	require.Error(t, err)

	var pe *entity.ProcessingError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "image processing failed: decode image: unknown format", pe.Message)
}

func TestAnalyzeImageScoringFailureStaysServerError(t *testing.T) {
	scorer := &scriptedScorer{results: []scoreResult{{err: errors.New("model timeout")}}}
	uc := NewAnalyzeImageUseCase(&stubPreprocessor{}, scorer, nil, zap.NewNop(), 0.9)

	_, err := uc.Execute(context.Background(), AnalyzeRequest{Filename: "face.png", Data: []byte("img")})
	require.Error(t, err)

	// Scoring failures are not collapsed into the client-facing kind.
	var pe *entity.ProcessingError
	assert.False(t, errors.As(err, &pe))
}
