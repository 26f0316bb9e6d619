package usecase

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/veriscan/veriscan-detection-service/internal/domain/entity"
	"github.com/veriscan/veriscan-detection-service/internal/domain/port"
	"github.com/veriscan/veriscan-detection-service/internal/infra/metrics"
)

type AnalyzeImageUseCase struct {
	pre       port.ImagePreprocessor
	scorer    port.Scorer
	sink      ResultRecorder
	logger    *zap.Logger
	threshold float64
}

func NewAnalyzeImageUseCase(
	pre port.ImagePreprocessor,
	scorer port.Scorer,
	sink ResultRecorder,
	logger *zap.Logger,
	threshold float64,
) *AnalyzeImageUseCase {
	return &AnalyzeImageUseCase{
		pre:       pre,
		scorer:    scorer,
		sink:      sink,
		logger:    logger,
		threshold: threshold,
	}
}

func (uc *AnalyzeImageUseCase) Execute(ctx context.Context, req AnalyzeRequest) (*entity.Analysis, error) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "AnalyzeImageUseCase.Execute")
	defer span.End()

	span.SetAttributes(
		attribute.String("media.filename", req.Filename),
		attribute.Int64("media.size", req.Size),
	)

	start := time.Now()
	metrics.ActiveAnalyses.Inc()
	defer metrics.ActiveAnalyses.Dec()

	tensor, warnings, err := uc.pre.PreprocessImage(req.Data)
	for _, warning := range warnings {
		uc.logger.Warn("image preprocess warning",
			zap.String("filename", req.Filename),
			zap.String("warning", warning),
		)
	}
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("image", "failed").Inc()
		uc.logger.Warn("image preprocessing failed",
			zap.String("filename", req.Filename),
			zap.Error(err),
		)
		return nil, entity.FlattenImageError(err)
	}

	scoreStart := time.Now()
	score, err := uc.scorer.Score(ctx, tensor)
	metrics.ScorerLatency.WithLabelValues(uc.scorer.Name()).Observe(time.Since(scoreStart).Seconds())
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("image", "failed").Inc()
		uc.logger.Error("image scoring failed",
			zap.String("filename", req.Filename),
			zap.Error(err),
		)
		return nil, fmt.Errorf("score image: %w", err)
	}

	analysis := entity.NewAnalysis(entity.MediaTypeImage, req.Filename, req.Size,
		score, uc.threshold, 1, uc.scorer.Name())

	metrics.AnalysesTotal.WithLabelValues("image", "completed").Inc()
	metrics.AnalysisDuration.WithLabelValues("image").Observe(time.Since(start).Seconds())

	if uc.sink != nil {
		uc.sink.Record(ctx, analysis, req.Data)
	}

	uc.logger.Info("image analyzed",
		zap.String("analysis_id", analysis.ID.String()),
		zap.String("filename", req.Filename),
		zap.Float64("score", score),
		zap.Bool("is_deepfake", analysis.Verdict.IsDeepfake),
		zap.Duration("duration", time.Since(start)),
	)
	return analysis, nil
}
