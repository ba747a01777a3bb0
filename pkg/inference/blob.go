package inference

import (
	"image"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// NewBlob resizes img to width x height and returns it as planar RGB scaled to
// [0, 1], the [1, 3, H, W] input a YOLO export expects.
func NewBlob(img image.Image, width, height int) ([]float32, error) {
	dst := make([]float32, 3*width*height)
	if err := FillBlob(img, width, height, dst); err != nil {
		return nil, err
	}
	return dst, nil
}

// FillBlob writes the blob for img into dst, which must hold 3*width*height values.
func FillBlob(img image.Image, width, height int, dst []float32) error {
	if img == nil {
		return errors.New("nil image")
	}
	if width <= 0 || height <= 0 {
		return errors.Errorf("invalid blob size %dx%d", width, height)
	}

	channel := width * height
	if len(dst) < 3*channel {
		return errors.Errorf("destination holds %d floats, needs %d", len(dst), 3*channel)
	}

	red := dst[0:channel]
	green := dst[channel : 2*channel]
	blue := dst[2*channel : 3*channel]

	resized := resize.Resize(uint(width), uint(height), img, resize.Bilinear)
	bounds := resized.Bounds()

	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := resized.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			red[i] = float32(r>>8) / 255.0
			green[i] = float32(g>>8) / 255.0
			blue[i] = float32(b>>8) / 255.0
			i++
		}
	}

	return nil
}
