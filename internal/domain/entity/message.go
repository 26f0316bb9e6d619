package entity

import (
	"time"

	"github.com/google/uuid"
)

// ScanRequestMessage is the inbound message from the media.scan queue.
// MediaType may be left empty; the consumer then guesses from the key.
type ScanRequestMessage struct {
	JobID       uuid.UUID `json:"job_id"`
	MediaKey    string    `json:"media_key"`
	MediaType   MediaType `json:"media_type,omitempty"`
	FileSize    int64     `json:"file_size"`
	RequestedBy string    `json:"requested_by,omitempty"`
}

// VerdictMessage is the outbound event published for every completed
// analysis, and the summary embedded in review bundles.
type VerdictMessage struct {
	AnalysisID   uuid.UUID `json:"analysis_id"`
	MediaType    MediaType `json:"media_type"`
	Filename     string    `json:"filename,omitempty"`
	Score        float64   `json:"score"`
	Threshold    float64   `json:"threshold"`
	IsDeepfake   bool      `json:"is_deepfake"`
	Confidence   float64   `json:"confidence"`
	FramesScored int       `json:"frames_scored,omitempty"`
	Scorer       string    `json:"scorer,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func VerdictMessageFrom(a *Analysis) VerdictMessage {
	return VerdictMessage{
		AnalysisID:   a.ID,
		MediaType:    a.MediaType,
		Filename:     a.Filename,
		Score:        a.Score,
		Threshold:    a.Threshold,
		IsDeepfake:   a.Verdict.IsDeepfake,
		Confidence:   a.Verdict.Confidence,
		FramesScored: a.FramesScored,
		Scorer:       a.ScorerName,
		CreatedAt:    a.CreatedAt,
	}
}
