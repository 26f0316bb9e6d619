package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/veriscan/veriscan-detection-service/internal/domain/entity"
	"github.com/veriscan/veriscan-detection-service/internal/domain/port"
	"github.com/veriscan/veriscan-detection-service/internal/infra/metrics"
)

// AnalyzeRequest carries one uploaded media item through an analysis.
type AnalyzeRequest struct {
	Filename string
	Size     int64
	Data     []byte
}

type AnalyzeVideoUseCase struct {
	decoder    port.VideoDecoder
	pre        port.FramePreprocessor
	scorer     port.Scorer
	sink       ResultRecorder
	logger     *zap.Logger
	sampleRate int
	threshold  float64
}

type AnalyzeVideoConfig struct {
	SampleRate int
	Threshold  float64
}

func NewAnalyzeVideoUseCase(
	decoder port.VideoDecoder,
	pre port.FramePreprocessor,
	scorer port.Scorer,
	sink ResultRecorder,
	logger *zap.Logger,
	cfg AnalyzeVideoConfig,
) *AnalyzeVideoUseCase {
	return &AnalyzeVideoUseCase{
		decoder:    decoder,
		pre:        pre,
		scorer:     scorer,
		sink:       sink,
		logger:     logger,
		sampleRate: cfg.SampleRate,
		threshold:  cfg.Threshold,
	}
}

func (uc *AnalyzeVideoUseCase) Execute(ctx context.Context, req AnalyzeRequest) (*entity.Analysis, error) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "AnalyzeVideoUseCase.Execute")
	defer span.End()

	span.SetAttributes(
		attribute.String("media.filename", req.Filename),
		attribute.Int64("media.size", req.Size),
	)

	start := time.Now()
	metrics.ActiveAnalyses.Inc()
	defer metrics.ActiveAnalyses.Dec()

	score, framesScored, err := uc.AggregateScore(ctx, req.Data)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("video", "failed").Inc()
		uc.logger.Warn("video analysis failed",
			zap.String("filename", req.Filename),
			zap.String("failure_class", string(entity.ClassOf(err))),
			zap.Error(err),
		)
		return nil, entity.FlattenVideoError(err)
	}

	analysis := entity.NewAnalysis(entity.MediaTypeVideo, req.Filename, req.Size,
		score, uc.threshold, framesScored, uc.scorer.Name())

	metrics.AnalysesTotal.WithLabelValues("video", "completed").Inc()
	metrics.AnalysisDuration.WithLabelValues("video").Observe(time.Since(start).Seconds())

	if uc.sink != nil {
		uc.sink.Record(ctx, analysis, req.Data)
	}

	uc.logger.Info("video analyzed",
		zap.String("analysis_id", analysis.ID.String()),
		zap.String("filename", req.Filename),
		zap.Float64("score", score),
		zap.Int("frames_scored", framesScored),
		zap.Bool("is_deepfake", analysis.Verdict.IsDeepfake),
		zap.Duration("duration", time.Since(start)),
	)
	return analysis, nil
}

// AggregateScore runs the frame pipeline and returns the mean score of
// every frame that made it through, plus how many that was.
func (uc *AnalyzeVideoUseCase) AggregateScore(ctx context.Context, data []byte) (float64, int, error) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "aggregate_score")
	defer span.End()

	src, err := uc.decoder.Open(ctx, data)
	if err != nil {
		return 0, 0, entity.NewAnalysisError(entity.FailureOpen, fmt.Errorf("could not open video: %w", err))
	}
	defer src.Close()

	if src.FrameCount() == 0 {
		return 0, 0, entity.NewAnalysisError(entity.FailureEmptyVideo, errors.New("video contains no frames"))
	}

	scores := uc.collectScores(ctx, src)
	if len(scores) == 0 {
		return 0, 0, entity.NewAnalysisError(entity.FailureNoFramesScored, errors.New("no frames were successfully scored"))
	}

	return mean(scores), len(scores), nil
}

// collectScores walks the frames in decode order and scores every
// sampleRate-th one. A frame that fails preprocessing or scoring is
// skipped, the rest of the video still counts.
func (uc *AnalyzeVideoUseCase) collectScores(ctx context.Context, src port.FrameSource) []float64 {
	var scores []float64

	for {
		frame, ok := src.Next()
		if !ok {
			break
		}
		if frame.Index%uc.sampleRate != 0 {
			continue
		}

		tensor, warnings, err := uc.pre.Preprocess(frame.Pixels)
		for _, warning := range warnings {
			uc.logger.Warn("frame preprocess warning",
				zap.Int("frame", frame.Index),
				zap.String("warning", warning),
			)
		}
		if err != nil {
			uc.logger.Warn("skipping frame, preprocess failed",
				zap.Int("frame", frame.Index),
				zap.Error(err),
			)
			metrics.FramesSkippedTotal.WithLabelValues("preprocess").Inc()
			continue
		}

		scoreStart := time.Now()
		score, err := uc.scorer.Score(ctx, tensor)
		metrics.ScorerLatency.WithLabelValues(uc.scorer.Name()).Observe(time.Since(scoreStart).Seconds())
		if err != nil {
			uc.logger.Warn("skipping frame, scoring failed",
				zap.Int("frame", frame.Index),
				zap.Error(err),
			)
			metrics.FramesSkippedTotal.WithLabelValues("score").Inc()
			continue
		}

		scores = append(scores, score)
		metrics.FramesScoredTotal.Inc()
	}

	return scores
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
