package port

import "context"

type PreviewResult struct {
	FramePaths    []string
	FrameCount    int
	VideoDuration float64
}

// PreviewExtractor renders still frames from a flagged video so reviewers
// can eyeball it without downloading the whole file.
type PreviewExtractor interface {
	ExtractPreviews(ctx context.Context, videoPath string, outputDir string) (*PreviewResult, error)
}
