package entity

import (
	"mime"
	"path/filepath"
	"strings"
)

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// mime.TypeByExtension only knows a handful of types unless the host ships
// /etc/mime.types, so the common media extensions are mapped here.
var extContentTypes = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
}

// MediaTypeFromContentType maps a MIME content type to the media type the
// node knows how to analyze. Returns "" for anything else.
func MediaTypeFromContentType(contentType string) MediaType {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return MediaTypeImage
	case strings.HasPrefix(contentType, "video/"):
		return MediaTypeVideo
	default:
		return ""
	}
}

// MediaTypeForFilename guesses the media type from the filename extension.
func MediaTypeForFilename(filename string) MediaType {
	return MediaTypeFromContentType(GuessContentType(filename))
}

// GuessContentType resolves a content type from the filename extension.
func GuessContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := extContentTypes[ext]; ok {
		return ct
	}
	return mime.TypeByExtension(ext)
}
