package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/veriscan/veriscan-detection-service/internal/domain/entity"
	"github.com/veriscan/veriscan-detection-service/internal/domain/port"
	"github.com/veriscan/veriscan-detection-service/internal/infra/metrics"
)

// ResultRecorder handles everything that happens after a verdict is
// reached. Recording is best-effort: failures are logged and never
// change the verdict already returned to the caller.
type ResultRecorder interface {
	Record(ctx context.Context, analysis *entity.Analysis, media []byte)
}

type ResultSink struct {
	repo      port.AnalysisRepository
	verdicts  port.VerdictPublisher
	store     port.MediaStore
	previews  port.PreviewExtractor
	bundler   port.Bundler
	notifier  port.ReviewNotifier
	logger    *zap.Logger
	recipient string
	archive   bool
	tempDir   string
}

type ResultSinkConfig struct {
	Recipient string
	Archive   bool
	TempDir   string
}

func NewResultSink(
	repo port.AnalysisRepository,
	verdicts port.VerdictPublisher,
	store port.MediaStore,
	previews port.PreviewExtractor,
	bundler port.Bundler,
	notifier port.ReviewNotifier,
	logger *zap.Logger,
	cfg ResultSinkConfig,
) *ResultSink {
	return &ResultSink{
		repo:      repo,
		verdicts:  verdicts,
		store:     store,
		previews:  previews,
		bundler:   bundler,
		notifier:  notifier,
		logger:    logger,
		recipient: cfg.Recipient,
		archive:   cfg.Archive,
		tempDir:   cfg.TempDir,
	}
}

func (s *ResultSink) Record(ctx context.Context, analysis *entity.Analysis, media []byte) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "ResultSink.Record")
	defer span.End()

	log := s.logger.With(zap.String("analysis_id", analysis.ID.String()))

	if s.repo != nil {
		if err := s.repo.Save(ctx, analysis); err != nil {
			log.Error("failed to persist analysis", zap.Error(err))
		}
	}

	if s.verdicts != nil {
		data, _ := json.Marshal(entity.VerdictMessageFrom(analysis))
		if err := s.verdicts.PublishVerdict(ctx, data); err != nil {
			log.Error("failed to publish verdict event", zap.Error(err))
		}
	}

	if !analysis.Verdict.IsDeepfake {
		return
	}

	metrics.FlaggedTotal.WithLabelValues(string(analysis.MediaType)).Inc()

	if s.archive && s.store != nil && s.bundler != nil {
		if err := s.buildReviewBundle(ctx, analysis, media); err != nil {
			log.Error("failed to build review bundle", zap.Error(err))
		}
	}

	if s.recipient != "" && s.notifier != nil {
		_ = s.notifier.NotifyFlagged(ctx, s.recipient, analysis)
	}
}

// buildReviewBundle stages the flagged media, preview stills and the
// verdict into a zip and uploads it to the review bucket.
func (s *ResultSink) buildReviewBundle(ctx context.Context, analysis *entity.Analysis, media []byte) error {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "build_review_bundle")
	defer span.End()

	if err := os.MkdirAll(s.tempDir, 0755); err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	workDir, err := os.MkdirTemp(s.tempDir, "review-*")
	if err != nil {
		return fmt.Errorf("create review workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	ext := filepath.Ext(analysis.Filename)
	if ext == "" {
		if analysis.MediaType == entity.MediaTypeVideo {
			ext = ".mp4"
		} else {
			ext = ".bin"
		}
	}
	mediaPath := filepath.Join(workDir, "media"+ext)
	if err := os.WriteFile(mediaPath, media, 0644); err != nil {
		return fmt.Errorf("write media file: %w", err)
	}
	files := []string{mediaPath}

	if analysis.MediaType == entity.MediaTypeVideo && s.previews != nil {
		previewsDir := filepath.Join(workDir, "previews")
		if err := os.MkdirAll(previewsDir, 0755); err != nil {
			return fmt.Errorf("create previews dir: %w", err)
		}
		result, err := s.previews.ExtractPreviews(ctx, mediaPath, previewsDir)
		if err != nil {
			s.logger.Warn("preview extraction failed, bundling without stills",
				zap.String("analysis_id", analysis.ID.String()),
				zap.Error(err))
		} else {
			files = append(files, result.FramePaths...)
		}
	}

	verdictPath := filepath.Join(workDir, "verdict.json")
	verdictJSON, err := json.MarshalIndent(entity.VerdictMessageFrom(analysis), "", "  ")
	if err != nil {
		return fmt.Errorf("encode verdict: %w", err)
	}
	if err := os.WriteFile(verdictPath, verdictJSON, 0644); err != nil {
		return fmt.Errorf("write verdict file: %w", err)
	}
	files = append(files, verdictPath)

	bundlePath := filepath.Join(workDir, "bundle.zip")
	if err := s.bundler.CreateBundle(ctx, files, bundlePath); err != nil {
		return fmt.Errorf("create bundle: %w", err)
	}

	bundle, err := os.Open(bundlePath)
	if err != nil {
		return fmt.Errorf("open bundle: %w", err)
	}
	defer bundle.Close()
	stat, err := bundle.Stat()
	if err != nil {
		return fmt.Errorf("stat bundle: %w", err)
	}

	key := fmt.Sprintf("flagged/%s/%s.zip", analysis.CreatedAt.Format("2006-01-02"), analysis.ID)
	if err := s.store.UploadReviewBundle(ctx, key, bundle, stat.Size()); err != nil {
		return fmt.Errorf("upload bundle: %w", err)
	}

	s.logger.Info("review bundle uploaded",
		zap.String("analysis_id", analysis.ID.String()),
		zap.String("key", key),
		zap.Int("files", len(files)),
	)
	return nil
}
