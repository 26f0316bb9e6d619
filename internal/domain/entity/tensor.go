package entity

// Tensor is a dense float32 array in batch-height-width-channel order, the
// input layout the classifiers were trained on. Data is row-major.
type Tensor struct {
	Batch    int
	Height   int
	Width    int
	Channels int
	Data     []float32
}

func NewTensor(batch, height, width, channels int) Tensor {
	return Tensor{
		Batch:    batch,
		Height:   height,
		Width:    width,
		Channels: channels,
		Data:     make([]float32, batch*height*width*channels),
	}
}

func (t Tensor) At(b, y, x, c int) float32 {
	return t.Data[((b*t.Height+y)*t.Width+x)*t.Channels+c]
}

func (t Tensor) Set(b, y, x, c int, v float32) {
	t.Data[((b*t.Height+y)*t.Width+x)*t.Channels+c] = v
}
