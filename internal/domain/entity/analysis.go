package entity

import (
	"time"

	"github.com/google/uuid"
)

// Analysis is the persisted record of one completed analysis.
type Analysis struct {
	ID           uuid.UUID
	MediaType    MediaType
	Filename     string
	FileSize     int64
	Score        float64
	Threshold    float64
	Verdict      Verdict
	FramesScored int
	ScorerName   string
	CreatedAt    time.Time
}

func NewAnalysis(mediaType MediaType, filename string, fileSize int64, score, threshold float64, framesScored int, scorerName string) *Analysis {
	return &Analysis{
		ID:           uuid.New(),
		MediaType:    mediaType,
		Filename:     filename,
		FileSize:     fileSize,
		Score:        score,
		Threshold:    threshold,
		Verdict:      NewVerdict(score, threshold),
		FramesScored: framesScored,
		ScorerName:   scorerName,
		CreatedAt:    time.Now().UTC(),
	}
}
