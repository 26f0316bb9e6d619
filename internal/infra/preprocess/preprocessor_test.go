package preprocess

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestPreprocessShapeAndScaling(t *testing.T) {
	p := NewPreprocessor()

	tensor, warnings, err := p.Preprocess(solidImage(640, 480, color.RGBA{R: 255, G: 128, B: 0, A: 255}))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, 1, tensor.Batch)
	assert.Equal(t, TargetHeight, tensor.Height)
	assert.Equal(t, TargetWidth, tensor.Width)
	assert.Equal(t, ExpectedChannels, tensor.Channels)

	assert.InDelta(t, 1.0, tensor.At(0, 112, 112, 0), 0.01)
	assert.InDelta(t, 128.0/255.0, tensor.At(0, 112, 112, 1), 0.01)
	assert.InDelta(t, 0.0, tensor.At(0, 112, 112, 2), 0.01)
}

func TestPreprocessUpscalesSmallFrames(t *testing.T) {
	p := NewPreprocessor()

	tensor, _, err := p.Preprocess(solidImage(32, 32, color.RGBA{R: 10, G: 20, B: 30, A: 255}))
	require.NoError(t, err)

	assert.Len(t, tensor.Data, TargetHeight*TargetWidth*ExpectedChannels)
	assert.InDelta(t, 10.0/255.0, tensor.At(0, 0, 0, 0), 0.01)
}

func TestPreprocessWarnsOnGrayscale(t *testing.T) {
	p := NewPreprocessor()

	gray := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			gray.SetGray(x, y, color.Gray{Y: 200})
		}
	}

	tensor, warnings, err := p.Preprocess(gray)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "1 channels")

	// Grayscale still scores: the value is replicated across RGB.
	assert.InDelta(t, 200.0/255.0, tensor.At(0, 32, 32, 0), 0.01)
	assert.InDelta(t, 200.0/255.0, tensor.At(0, 32, 32, 2), 0.01)
}

func TestPreprocessRejectsNilAndEmpty(t *testing.T) {
	p := NewPreprocessor()

	_, _, err := p.Preprocess(nil)
	assert.Error(t, err)

	_, _, err = p.Preprocess(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	assert.Error(t, err)
}

func TestPreprocessIsDeterministic(t *testing.T) {
	p := NewPreprocessor()
	img := solidImage(100, 80, color.RGBA{R: 77, G: 99, B: 121, A: 255})

	first, _, err := p.Preprocess(img)
	require.NoError(t, err)
	second, _, err := p.Preprocess(img)
	require.NoError(t, err)

	assert.Equal(t, first.Data, second.Data)
}

func TestPreprocessImageDecodesPNG(t *testing.T) {
	p := NewPreprocessor()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidImage(50, 50, color.RGBA{R: 0, G: 0, B: 255, A: 255})))

	tensor, warnings, err := p.PreprocessImage(buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.InDelta(t, 1.0, tensor.At(0, 100, 100, 2), 0.01)
}

func TestPreprocessImageRejectsGarbage(t *testing.T) {
	p := NewPreprocessor()

	_, _, err := p.PreprocessImage([]byte("not an image"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode image")
}
