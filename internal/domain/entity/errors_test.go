package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassOf(t *testing.T) {
	err := NewAnalysisError(FailureEmptyVideo, errors.New("video contains no frames"))
	assert.Equal(t, FailureEmptyVideo, ClassOf(err))

	wrapped := fmt.Errorf("pipeline: %w", err)
	assert.Equal(t, FailureEmptyVideo, ClassOf(wrapped))

	assert.Equal(t, FailureUnexpected, ClassOf(errors.New("something else")))
}

func TestAnalysisErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewAnalysisError(FailureOpen, cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "open_failed: boom", err.Error())
}

func TestFlattenVideoErrorUsesClassifiedCause(t *testing.T) {
	err := FlattenVideoError(NewAnalysisError(FailureOpen, errors.New("could not open video: bad header")))

	var pe *ProcessingError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "video processing failed: could not open video: bad header", pe.Message)
}

func TestFlattenVideoErrorWrapsUnclassified(t *testing.T) {
	err := FlattenVideoError(errors.New("disk full"))

	var pe *ProcessingError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "video processing failed: disk full", pe.Message)
}

func TestFlattenVideoErrorNil(t *testing.T) {
	assert.NoError(t, FlattenVideoError(nil))
}

func TestFlattenImageError(t *testing.T) {
	err := FlattenImageError(errors.New("decode image: unknown format"))

	var pe *ProcessingError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "image processing failed: decode image: unknown format", pe.Message)
}
