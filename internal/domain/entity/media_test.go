package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMediaTypeFromContentType(t *testing.T) {
	assert.Equal(t, MediaTypeImage, MediaTypeFromContentType("image/png"))
	assert.Equal(t, MediaTypeImage, MediaTypeFromContentType("image/jpeg"))
	assert.Equal(t, MediaTypeVideo, MediaTypeFromContentType("video/mp4"))
	assert.Equal(t, MediaTypeVideo, MediaTypeFromContentType("video/x-matroska"))
	assert.Equal(t, MediaType(""), MediaTypeFromContentType("application/pdf"))
	assert.Equal(t, MediaType(""), MediaTypeFromContentType(""))
}

func TestMediaTypeForFilename(t *testing.T) {
	assert.Equal(t, MediaTypeVideo, MediaTypeForFilename("clip.mp4"))
	assert.Equal(t, MediaTypeVideo, MediaTypeForFilename("CLIP.MP4"))
	assert.Equal(t, MediaTypeVideo, MediaTypeForFilename("uploads/2026/clip.webm"))
	assert.Equal(t, MediaTypeImage, MediaTypeForFilename("photo.jpeg"))
	assert.Equal(t, MediaTypeImage, MediaTypeForFilename("scan.BMP"))
	assert.Equal(t, MediaType(""), MediaTypeForFilename("notes.txt"))
	assert.Equal(t, MediaType(""), MediaTypeForFilename("no-extension"))
}

func TestGuessContentType(t *testing.T) {
	assert.Equal(t, "video/mp4", GuessContentType("a.mp4"))
	assert.Equal(t, "video/x-matroska", GuessContentType("a.mkv"))
	assert.Equal(t, "image/webp", GuessContentType("a.webp"))
}
