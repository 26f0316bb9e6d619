package port

import (
	"context"
	"io"
)

// MediaStore moves media between the node and object storage: downloads for
// queued scan jobs, uploads of review bundles for flagged items.
type MediaStore interface {
	DownloadMedia(ctx context.Context, objectKey string, destPath string) error
	UploadReviewBundle(ctx context.Context, objectKey string, reader io.Reader, size int64) error
}
