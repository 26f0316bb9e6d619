package port

import "context"

// Bundler assembles the zip reviewers download for one flagged item: the
// original media, the verdict summary, and any preview stills.
type Bundler interface {
	CreateBundle(ctx context.Context, filePaths []string, outputPath string) error
}
