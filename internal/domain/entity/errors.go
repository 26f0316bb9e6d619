package entity

import (
	"errors"
	"fmt"
)

// FailureClass identifies which stage of the analysis pipeline rejected the
// input. It travels with AnalysisError so logs and tests can branch on the
// cause before it is flattened at the API boundary.
type FailureClass string

const (
	FailureOpen           FailureClass = "open_failed"
	FailureEmptyVideo     FailureClass = "empty_video"
	FailureNoFramesScored FailureClass = "no_frames_scored"
	FailureUnexpected     FailureClass = "unexpected"
)

// AnalysisError is the internal, classified form of a failed analysis.
type AnalysisError struct {
	Class FailureClass
	Cause error
}

func NewAnalysisError(class FailureClass, cause error) *AnalysisError {
	return &AnalysisError{Class: class, Cause: cause}
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s: %v", e.Class, e.Cause)
}

func (e *AnalysisError) Unwrap() error { return e.Cause }

// ClassOf extracts the failure class from err, or FailureUnexpected when err
// carries no AnalysisError.
func ClassOf(err error) FailureClass {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Class
	}
	return FailureUnexpected
}

// ProcessingError is the single error kind clients observe from an analysis.
// The HTTP layer maps it to a 400 with the message in the response body.
type ProcessingError struct {
	Message string
}

func (e *ProcessingError) Error() string { return e.Message }

// FlattenVideoError collapses any video analysis failure, classified or not,
// into the one uniform client-facing error. The internal taxonomy stays
// available up to this boundary; past it the caller sees a single kind.
func FlattenVideoError(err error) error {
	if err == nil {
		return nil
	}
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return &ProcessingError{Message: fmt.Sprintf("video processing failed: %v", ae.Cause)}
	}
	return &ProcessingError{Message: fmt.Sprintf("video processing failed: %v", err)}
}

// FlattenImageError is the still-image counterpart, applied only to
// preprocessing failures; image scoring failures stay unclassified and reach
// the caller as server errors.
func FlattenImageError(err error) error {
	if err == nil {
		return nil
	}
	return &ProcessingError{Message: fmt.Sprintf("image processing failed: %v", err)}
}
