package entity

import (
	"time"

	"github.com/google/uuid"
)

type ScanJobStatus string

const (
	ScanJobStatusPending    ScanJobStatus = "PENDING"
	ScanJobStatusProcessing ScanJobStatus = "PROCESSING"
	ScanJobStatusCompleted  ScanJobStatus = "COMPLETED"
	ScanJobStatusFailed     ScanJobStatus = "FAILED"
)

// ScanJob tracks one queued analysis of an object already in media storage.
type ScanJob struct {
	ID           uuid.UUID
	MediaKey     string
	MediaType    MediaType
	FileSize     int64
	RequestedBy  string
	Status       ScanJobStatus
	Attempt      int
	MaxAttempts  int
	AnalysisID   *uuid.UUID
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

func NewScanJob(mediaKey string, mediaType MediaType, fileSize int64, requestedBy string, maxAttempts int) *ScanJob {
	now := time.Now().UTC()
	return &ScanJob{
		ID:          uuid.New(),
		MediaKey:    mediaKey,
		MediaType:   mediaType,
		FileSize:    fileSize,
		RequestedBy: requestedBy,
		Status:      ScanJobStatusPending,
		Attempt:     0,
		MaxAttempts: maxAttempts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ResolveMediaType returns the declared media type, falling back to the
// media key's filename extension when the producer left it unset.
func (j *ScanJob) ResolveMediaType() MediaType {
	if j.MediaType != "" {
		return j.MediaType
	}
	return MediaTypeForFilename(j.MediaKey)
}

func (j *ScanJob) MarkProcessing() {
	j.Status = ScanJobStatusProcessing
	j.Attempt++
	j.UpdatedAt = time.Now().UTC()
}

func (j *ScanJob) MarkCompleted(analysisID uuid.UUID) {
	now := time.Now().UTC()
	j.Status = ScanJobStatusCompleted
	j.AnalysisID = &analysisID
	j.ErrorMessage = ""
	j.UpdatedAt = now
	j.CompletedAt = &now
}

func (j *ScanJob) MarkFailed(errMsg string) {
	j.Status = ScanJobStatusFailed
	j.ErrorMessage = errMsg
	j.UpdatedAt = time.Now().UTC()
}

func (j *ScanJob) CanRetry() bool {
	return j.Attempt < j.MaxAttempts
}
