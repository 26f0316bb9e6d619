package port

import (
	"context"
	"image"
)

// Frame is one decoded video frame paired with the 1-based position the
// decoder reports for it.
type Frame struct {
	Index  int
	Pixels image.Image
}

// FrameSource is a lazy, finite, non-restartable sequence of decoded frames
// backed by an open video handle. Frames arrive in increasing index order
// until the stream ends. Close releases the handle and whatever backing
// resources the decoder materialized; it is safe to call after exhaustion.
type FrameSource interface {
	FrameCount() int
	Next() (Frame, bool)
	Close()
}

// VideoDecoder opens raw video bytes for sequential frame reads.
type VideoDecoder interface {
	Open(ctx context.Context, data []byte) (FrameSource, error)
}
