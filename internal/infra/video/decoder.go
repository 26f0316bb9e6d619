package video

import (
	"context"
	"fmt"
	"image"
	"os"

	vidio "github.com/AlexEidt/Vidio"
	"go.uber.org/zap"

	"github.com/veriscan/veriscan-detection-service/internal/domain/port"
)

// Decoder opens in-memory video bytes through a temp file and exposes
// the frames lazily. Vidio shells out to ffmpeg, which only reads from
// paths, so the bytes are staged on disk for the lifetime of the source.
type Decoder struct {
	logger *zap.Logger
}

func NewDecoder(logger *zap.Logger) *Decoder {
	return &Decoder{logger: logger}
}

func (d *Decoder) Open(ctx context.Context, data []byte) (port.FrameSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "upload-*.mp4")
	if err != nil {
		return nil, fmt.Errorf("create temp video file: %w", err)
	}
	path := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		d.removeTemp(path)
		return nil, fmt.Errorf("write temp video file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		d.removeTemp(path)
		return nil, fmt.Errorf("close temp video file: %w", err)
	}

	v, err := vidio.NewVideo(path)
	if err != nil {
		d.removeTemp(path)
		return nil, fmt.Errorf("open video: %w", err)
	}

	return &frameSource{video: v, path: path, logger: d.logger}, nil
}

func (d *Decoder) removeTemp(path string) {
	if err := os.Remove(path); err != nil {
		d.logger.Warn("failed to remove temp video file",
			zap.String("path", path),
			zap.Error(err))
	}
}

type frameSource struct {
	video  *vidio.Video
	path   string
	logger *zap.Logger
	index  int
	closed bool
}

func (s *frameSource) FrameCount() int {
	return s.video.Frames()
}

// Next decodes the next frame. Indices are 1-based in decode order.
// The frame buffer is copied because Vidio reuses it across reads.
func (s *frameSource) Next() (port.Frame, bool) {
	if !s.video.Read() {
		return port.Frame{}, false
	}
	s.index++

	w, h := s.video.Width(), s.video.Height()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, s.video.FrameBuffer())

	return port.Frame{Index: s.index, Pixels: img}, true
}

func (s *frameSource) Close() {
	if s.closed {
		return
	}
	s.closed = true

	s.video.Close()
	if err := os.Remove(s.path); err != nil {
		s.logger.Warn("failed to remove temp video file",
			zap.String("path", s.path),
			zap.Error(err))
	}
}
