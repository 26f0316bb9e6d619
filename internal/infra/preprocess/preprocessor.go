package preprocess

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/veriscan/veriscan-detection-service/internal/domain/entity"
)

const (
	TargetHeight     = 224
	TargetWidth      = 224
	ExpectedChannels = 3
)

// Preprocessor normalizes a decoded frame into the tensor shape the
// classifier expects: 1x224x224x3 RGB with values scaled to [0, 1].
type Preprocessor struct{}

func NewPreprocessor() *Preprocessor {
	return &Preprocessor{}
}

func (p *Preprocessor) Preprocess(frame image.Image) (entity.Tensor, []string, error) {
	if frame == nil {
		return entity.Tensor{}, nil, errors.New("frame is nil")
	}
	bounds := frame.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return entity.Tensor{}, nil, fmt.Errorf("frame has empty bounds %v", bounds)
	}

	var warnings []string
	if ch := nativeChannels(frame); ch != ExpectedChannels {
		warnings = append(warnings, fmt.Sprintf("frame has %d channels, expected %d", ch, ExpectedChannels))
	}

	resized := image.NewRGBA(image.Rect(0, 0, TargetWidth, TargetHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), frame, bounds, draw.Over, nil)

	tensor := entity.NewTensor(1, TargetHeight, TargetWidth, ExpectedChannels)
	for y := 0; y < TargetHeight; y++ {
		for x := 0; x < TargetWidth; x++ {
			off := resized.PixOffset(x, y)
			tensor.Set(0, y, x, 0, float32(resized.Pix[off])/255.0)
			tensor.Set(0, y, x, 1, float32(resized.Pix[off+1])/255.0)
			tensor.Set(0, y, x, 2, float32(resized.Pix[off+2])/255.0)
		}
	}

	return tensor, warnings, nil
}

func (p *Preprocessor) PreprocessImage(data []byte) (entity.Tensor, []string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return entity.Tensor{}, nil, fmt.Errorf("decode image: %w", err)
	}
	return p.Preprocess(img)
}

func nativeChannels(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	case *image.CMYK:
		return 4
	default:
		return 3
	}
}
