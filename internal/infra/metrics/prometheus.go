package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veriscan_analyses_total",
		Help: "Total number of media analyses, by media type and outcome",
	}, []string{"media_type", "outcome"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "veriscan_analysis_duration_seconds",
		Help:    "Duration of a single media analysis",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
	}, []string{"media_type"})

	FramesScoredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "veriscan_frames_scored_total",
		Help: "Total number of video frames successfully scored",
	})

	FramesSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veriscan_frames_skipped_total",
		Help: "Total number of sampled frames skipped, by reason",
	}, []string{"reason"})

	FlaggedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veriscan_flagged_total",
		Help: "Total number of analyses flagged as deepfake",
	}, []string{"media_type"})

	ScorerLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "veriscan_scorer_latency_seconds",
		Help:    "Latency of model server predictions",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	ScanJobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veriscan_scan_jobs_total",
		Help: "Total number of queued scan jobs, by terminal status",
	}, []string{"status"})

	RetryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veriscan_scan_retry_total",
		Help: "Total number of scan job retries, by attempt",
	}, []string{"attempt"})

	ActiveAnalyses = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "veriscan_active_analyses",
		Help: "Number of analyses currently in progress",
	})
)
