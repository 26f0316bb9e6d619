package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/veriscan/veriscan-detection-service/internal/domain/entity"
	"github.com/veriscan/veriscan-detection-service/internal/domain/port"
	"github.com/veriscan/veriscan-detection-service/internal/usecase"
)

// Analyzer runs a full analysis for one uploaded media item.
type Analyzer interface {
	Execute(ctx context.Context, req usecase.AnalyzeRequest) (*entity.Analysis, error)
}

// ScorerStatus records the result of the startup readiness probes. A
// scorer that failed its probe stays unavailable until restart, the
// same way a model that failed to load would.
type ScorerStatus struct {
	ImageErr error
	VideoErr error
}

type Handler struct {
	video    Analyzer
	image    Analyzer
	history  port.AnalysisRepository
	status   ScorerStatus
	maxBytes int64
	logger   *zap.Logger
}

func NewHandler(video, image Analyzer, history port.AnalysisRepository, status ScorerStatus, maxBytes int64, logger *zap.Logger) *Handler {
	return &Handler{
		video:    video,
		image:    image,
		history:  history,
		status:   status,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	if h.status.ImageErr != nil && h.status.VideoErr != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf(
			"no scorers available: %v; %v", h.status.ImageErr, h.status.VideoErr))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file found in request (expected field 'file')")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "no file selected")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read uploaded file: %v", err))
		return
	}

	mediaType, typeLabel := resolveMediaType(header.Header.Get("Content-Type"), header.Filename)

	req := usecase.AnalyzeRequest{
		Filename: header.Filename,
		Size:     int64(len(data)),
		Data:     data,
	}

	var analysis *entity.Analysis
	switch mediaType {
	case entity.MediaTypeVideo:
		if h.status.VideoErr != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("video scorer unavailable: %v", h.status.VideoErr))
			return
		}
		analysis, err = h.video.Execute(r.Context(), req)
	case entity.MediaTypeImage:
		if h.status.ImageErr != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("image scorer unavailable: %v", h.status.ImageErr))
			return
		}
		analysis, err = h.image.Execute(r.Context(), req)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported file type %q", typeLabel))
		return
	}

	if err != nil {
		var pe *entity.ProcessingError
		if errors.As(err, &pe) {
			writeError(w, http.StatusBadRequest, pe.Message)
			return
		}
		h.logger.Error("analysis failed unexpectedly",
			zap.String("filename", header.Filename),
			zap.String("media_type", string(mediaType)),
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "an unexpected error occurred during processing")
		return
	}

	writeJSON(w, http.StatusOK, verdictResponse{
		IsDeepfake: analysis.Verdict.IsDeepfake,
		Confidence: analysis.Verdict.Confidence,
	})
}

// resolveMediaType prefers the client-declared content type and falls
// back to the filename extension. The label is what the error message
// reports when neither resolves to a supported type.
func resolveMediaType(declared, filename string) (entity.MediaType, string) {
	if mt := entity.MediaTypeFromContentType(declared); mt != "" {
		return mt, declared
	}

	guessed := entity.GuessContentType(filename)
	if mt := entity.MediaTypeFromContentType(guessed); mt != "" {
		return mt, guessed
	}

	label := declared
	if label == "" {
		label = guessed
	}
	if label == "" {
		label = "unknown"
	}
	return "", label
}

type analysisSummary struct {
	ID           uuid.UUID `json:"id"`
	MediaType    string    `json:"media_type"`
	Filename     string    `json:"filename"`
	Score        float64   `json:"score"`
	Threshold    float64   `json:"threshold"`
	IsDeepfake   bool      `json:"is_deepfake"`
	Confidence   float64   `json:"confidence"`
	FramesScored int       `json:"frames_scored"`
	Scorer       string    `json:"scorer"`
	CreatedAt    time.Time `json:"created_at"`
}

func (h *Handler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and 200")
			return
		}
		limit = n
	}

	analyses, err := h.history.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list analyses",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to list analyses")
		return
	}

	out := make([]analysisSummary, 0, len(analyses))
	for _, a := range analyses {
		out = append(out, analysisSummary{
			ID:           a.ID,
			MediaType:    string(a.MediaType),
			Filename:     a.Filename,
			Score:        a.Score,
			Threshold:    a.Threshold,
			IsDeepfake:   a.Verdict.IsDeepfake,
			Confidence:   a.Verdict.Confidence,
			FramesScored: a.FramesScored,
			Scorer:       a.ScorerName,
			CreatedAt:    a.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	scorerState := func(err error) string {
		if err != nil {
			return fmt.Sprintf("unavailable: %v", err)
		}
		return "ready"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"scorers": map[string]string{
			"image": scorerState(h.status.ImageErr),
			"video": scorerState(h.status.VideoErr),
		},
	})
}
