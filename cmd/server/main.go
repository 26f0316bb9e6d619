package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/veriscan/veriscan-detection-service/internal/domain/port"
	"github.com/veriscan/veriscan-detection-service/internal/infra/archive"
	"github.com/veriscan/veriscan-detection-service/internal/infra/config"
	"github.com/veriscan/veriscan-detection-service/internal/infra/email"
	"github.com/veriscan/veriscan-detection-service/internal/infra/ffmpeg"
	"github.com/veriscan/veriscan-detection-service/internal/infra/httpapi"
	"github.com/veriscan/veriscan-detection-service/internal/infra/metrics"
	miniostorage "github.com/veriscan/veriscan-detection-service/internal/infra/minio"
	"github.com/veriscan/veriscan-detection-service/internal/infra/modelserver"
	"github.com/veriscan/veriscan-detection-service/internal/infra/postgres"
	"github.com/veriscan/veriscan-detection-service/internal/infra/preprocess"
	"github.com/veriscan/veriscan-detection-service/internal/infra/rabbitmq"
	"github.com/veriscan/veriscan-detection-service/internal/infra/tracing"
	"github.com/veriscan/veriscan-detection-service/internal/infra/video"
	"github.com/veriscan/veriscan-detection-service/internal/usecase"
	"github.com/veriscan/veriscan-detection-service/pkg/logger"
)

func main() {
	portFlag := flag.Int("port", 0, "override the HTTP API port")
	flag.Parse()

	cfg, err := config.Load()
	fatalOnErr(err, "load config")
	if *portFlag != 0 {
		cfg.HTTPPort = *portFlag
	}

	log, err := logger.New(cfg.LogLevel)
	fatalOnErr(err, "init logger")
	defer log.Sync()

	log.Info("starting veriscan-detection-service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing (non-fatal if Jaeger unavailable)
	tp, err := tracing.InitTracer(ctx, cfg.JaegerEndpoint)
	if err != nil {
		log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
	} else {
		defer tp.Shutdown(ctx)
	}

	// Database
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	fatalOnErr(err, "connect to postgres")
	defer pool.Close()

	// Migrations
	err = postgres.RunMigrations(cfg.DatabaseURL, "migrations")
	if err != nil {
		log.Warn("migration warning", zap.Error(err))
	}

	// MinIO
	storage, err := miniostorage.NewStorage(miniostorage.StorageConfig{
		Endpoint:     cfg.MinIOEndpoint,
		AccessKey:    cfg.MinIOAccessKey,
		SecretKey:    cfg.MinIOSecretKey,
		UseSSL:       cfg.MinIOUseSSL,
		MediaBucket:  cfg.MinIOMediaBucket,
		ReviewBucket: cfg.MinIOReviewBucket,
	})
	fatalOnErr(err, "create minio storage")
	fatalOnErr(storage.EnsureBuckets(ctx), "ensure minio buckets")

	// RabbitMQ publisher connection
	rmqConn, err := amqp.Dial(cfg.RabbitMQURL)
	fatalOnErr(err, "connect to rabbitmq for publisher")
	defer rmqConn.Close()

	pub, err := rabbitmq.NewPublisher(rmqConn, cfg.RabbitMQExchange)
	fatalOnErr(err, "create rabbitmq publisher")

	verdictPub := rabbitmq.NewVerdictPublisher(pub, cfg.RabbitMQVerdictQueue)
	dlqPub := rabbitmq.NewDLQPublisher(pub, cfg.RabbitMQDLQ)

	// Scorers. The model server runs inference single-threaded, so both
	// scorers share one gate.
	var inferenceGate sync.Mutex
	imageClient := modelserver.NewClient(cfg.ImageScorerURL, cfg.ImageScorerModel, cfg.ScorerTimeout, log)
	videoClient := modelserver.NewClient(cfg.VideoScorerURL, cfg.VideoScorerModel, cfg.ScorerTimeout, log)
	imageScorer := modelserver.NewSerialScorer(imageClient, &inferenceGate)
	videoScorer := modelserver.NewSerialScorer(videoClient, &inferenceGate)

	status := httpapi.ScorerStatus{
		ImageErr: probeScorer(ctx, imageClient),
		VideoErr: probeScorer(ctx, videoClient),
	}
	if status.ImageErr != nil {
		log.Error("image scorer unavailable", zap.Error(status.ImageErr))
	}
	if status.VideoErr != nil {
		log.Error("video scorer unavailable", zap.Error(status.VideoErr))
	}

	// Infra adapters
	analysisRepo := postgres.NewAnalysisRepository(pool)
	jobRepo := postgres.NewScanJobRepository(pool)
	decoder := video.NewDecoder(log)
	preprocessor := preprocess.NewPreprocessor()
	previews := ffmpeg.NewPreviewExtractor(cfg.PreviewFPS, cfg.PreviewFormat, log)
	bundler := archive.NewZipBundler()
	notifier := email.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, log)

	// Use cases
	sink := usecase.NewResultSink(
		analysisRepo, verdictPub, storage, previews, bundler, notifier, log,
		usecase.ResultSinkConfig{
			Recipient: cfg.NotificationTo,
			Archive:   cfg.ReviewArchive,
			TempDir:   cfg.TempDir,
		},
	)
	videoUC := usecase.NewAnalyzeVideoUseCase(
		decoder, preprocessor, videoScorer, sink, log,
		usecase.AnalyzeVideoConfig{
			SampleRate: cfg.FrameSampleRate,
			Threshold:  cfg.PredictionThreshold,
		},
	)
	imageUC := usecase.NewAnalyzeImageUseCase(preprocessor, imageScorer, sink, log, cfg.PredictionThreshold)
	scanUC := usecase.NewScanJobUseCase(
		jobRepo, storage, videoUC, imageUC, dlqPub, log,
		usecase.ScanJobConfig{
			TempDir:    cfg.TempDir,
			MaxRetries: cfg.MaxRetries,
		},
	)

	// Metrics server
	metricsSrv := metrics.StartMetricsServer(ctx, cfg.MetricsPort, log)

	// HTTP API
	handler := httpapi.NewHandler(videoUC, imageUC, analysisRepo, status, cfg.MaxUploadBytes, log)
	apiSrv := httpapi.NewServer(cfg.HTTPPort, httpapi.NewRouter(handler, log))
	go func() {
		log.Info("http api listening", zap.Int("port", cfg.HTTPPort))
		if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http api error", zap.Error(err))
			cancel()
		}
	}()

	// Consumer (worker pool)
	consumer, err := rabbitmq.NewConsumer(rabbitmq.ConsumerConfig{
		URL:          cfg.RabbitMQURL,
		Queue:        cfg.RabbitMQScanQueue,
		Exchange:     cfg.RabbitMQExchange,
		DLQ:          cfg.RabbitMQDLQ,
		VerdictQueue: cfg.RabbitMQVerdictQueue,
		Prefetch:     cfg.RabbitMQPrefetch,
		WorkerCount:  cfg.WorkerCount,
		BaseDelayMs:  cfg.RetryBaseDelayMs,
	}, scanUC.Execute, log)
	fatalOnErr(err, "create consumer")

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	log.Info("veriscan-detection-service started, consuming messages")

	if err := consumer.Start(ctx); err != nil {
		log.Error("consumer error", zap.Error(err))
	}

	// Shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	apiSrv.Shutdown(shutdownCtx)
	metricsSrv.Shutdown(shutdownCtx)

	consumer.Close()
	log.Info("veriscan-detection-service stopped")
}

func probeScorer(ctx context.Context, p port.ScorerProbe) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return p.Ready(ctx)
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
