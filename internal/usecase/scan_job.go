package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/veriscan/veriscan-detection-service/internal/domain/entity"
	"github.com/veriscan/veriscan-detection-service/internal/domain/port"
	"github.com/veriscan/veriscan-detection-service/internal/infra/metrics"
)

// ScanJobUseCase consumes queued scan requests for media already in
// object storage and runs them through the same analysis pipeline the
// upload endpoint uses.
type ScanJobUseCase struct {
	jobs     port.ScanJobRepository
	store    port.MediaStore
	video    *AnalyzeVideoUseCase
	image    *AnalyzeImageUseCase
	dlq      port.DLQPublisher
	logger   *zap.Logger
	tempDir  string
	maxRetry int
}

type ScanJobConfig struct {
	TempDir    string
	MaxRetries int
}

func NewScanJobUseCase(
	jobs port.ScanJobRepository,
	store port.MediaStore,
	video *AnalyzeVideoUseCase,
	image *AnalyzeImageUseCase,
	dlq port.DLQPublisher,
	logger *zap.Logger,
	cfg ScanJobConfig,
) *ScanJobUseCase {
	return &ScanJobUseCase{
		jobs:     jobs,
		store:    store,
		video:    video,
		image:    image,
		dlq:      dlq,
		logger:   logger,
		tempDir:  cfg.TempDir,
		maxRetry: cfg.MaxRetries,
	}
}

func (uc *ScanJobUseCase) Execute(ctx context.Context, rawMsg []byte) error {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "ScanJobUseCase.Execute")
	defer span.End()

	var msg entity.ScanRequestMessage
	if err := json.Unmarshal(rawMsg, &msg); err != nil {
		uc.logger.Error("failed to unmarshal scan request", zap.Error(err), zap.ByteString("body", rawMsg))
		_ = uc.dlq.PublishToDLQ(ctx, rawMsg, "unmarshal_error: "+err.Error())
		return nil
	}

	span.SetAttributes(
		attribute.String("job.id", msg.JobID.String()),
		attribute.String("job.media_key", msg.MediaKey),
	)

	log := uc.logger.With(zap.String("job_id", msg.JobID.String()), zap.String("media_key", msg.MediaKey))

	job, err := uc.jobs.FindByID(ctx, msg.JobID)
	if err != nil {
		job = entity.NewScanJob(msg.MediaKey, msg.MediaType, msg.FileSize, msg.RequestedBy, uc.maxRetry)
		job.ID = msg.JobID
		if err := uc.jobs.Create(ctx, job); err != nil {
			log.Error("failed to create scan job record", zap.Error(err))
			return fmt.Errorf("create scan job: %w", err)
		}
	}

	if !job.CanRetry() {
		log.Warn("scan job exhausted retries, sending to DLQ")
		return uc.failPermanently(ctx, job, rawMsg, "max retries exceeded")
	}

	job.MarkProcessing()
	if err := uc.jobs.Update(ctx, job); err != nil {
		log.Error("failed to update scan job to PROCESSING", zap.Error(err))
		return fmt.Errorf("update scan job: %w", err)
	}

	workDir := filepath.Join(uc.tempDir, job.ID.String())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return fmt.Errorf("create workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	ctxDl, spanDl := tracer.Start(ctx, "download_media")
	mediaPath := filepath.Join(workDir, filepath.Base(job.MediaKey))
	if err := uc.store.DownloadMedia(ctxDl, job.MediaKey, mediaPath); err != nil {
		spanDl.End()
		log.Error("failed to download media", zap.Error(err))
		return uc.failRetryably(ctx, job, rawMsg, "download_media: "+err.Error())
	}
	spanDl.End()

	data, err := os.ReadFile(mediaPath)
	if err != nil {
		return uc.failRetryably(ctx, job, rawMsg, "read_media: "+err.Error())
	}

	req := AnalyzeRequest{
		Filename: filepath.Base(job.MediaKey),
		Size:     int64(len(data)),
		Data:     data,
	}

	var analysis *entity.Analysis
	switch job.ResolveMediaType() {
	case entity.MediaTypeVideo:
		analysis, err = uc.video.Execute(ctx, req)
	case entity.MediaTypeImage:
		analysis, err = uc.image.Execute(ctx, req)
	default:
		return uc.failPermanently(ctx, job, rawMsg, fmt.Sprintf("unsupported media type for %s", job.MediaKey))
	}

	if err != nil {
		var pe *entity.ProcessingError
		if errors.As(err, &pe) {
			// The input itself is unusable, retrying cannot fix it.
			return uc.failPermanently(ctx, job, rawMsg, pe.Message)
		}
		return uc.failRetryably(ctx, job, rawMsg, "analyze: "+err.Error())
	}

	job.MarkCompleted(analysis.ID)
	if err := uc.jobs.Update(ctx, job); err != nil {
		log.Error("failed to update scan job to COMPLETED", zap.Error(err))
		return fmt.Errorf("update scan job completed: %w", err)
	}

	metrics.ScanJobsTotal.WithLabelValues("completed").Inc()

	log.Info("scan job completed",
		zap.String("analysis_id", analysis.ID.String()),
		zap.Float64("score", analysis.Score),
		zap.Bool("is_deepfake", analysis.Verdict.IsDeepfake),
	)
	return nil
}

func (uc *ScanJobUseCase) failRetryably(ctx context.Context, job *entity.ScanJob, rawMsg []byte, errMsg string) error {
	job.MarkFailed(errMsg)
	_ = uc.jobs.Update(ctx, job)

	if !job.CanRetry() {
		return uc.failPermanently(ctx, job, rawMsg, errMsg)
	}

	metrics.RetryTotal.WithLabelValues(strconv.Itoa(job.Attempt)).Inc()

	return fmt.Errorf("retryable failure (attempt %d/%d): %s", job.Attempt, job.MaxAttempts, errMsg)
}

func (uc *ScanJobUseCase) failPermanently(ctx context.Context, job *entity.ScanJob, rawMsg []byte, errMsg string) error {
	job.MarkFailed(errMsg)
	_ = uc.jobs.Update(ctx, job)

	_ = uc.dlq.PublishToDLQ(ctx, rawMsg, errMsg)

	metrics.ScanJobsTotal.WithLabelValues("dlq").Inc()

	uc.logger.Warn("scan job failed permanently",
		zap.String("job_id", job.ID.String()),
		zap.String("media_key", job.MediaKey),
		zap.String("error", errMsg),
	)
	return nil
}
