package overlay

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/TheNopenator/EcoVision/pkg/detector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaption(t *testing.T) {
	d := detector.Detection{Label: "bottle", Candidate: detector.Candidate{Confidence: 0.854}}
	assert.Equal(t, "bottle: 0.85", Caption(d))
}

func TestDraw(t *testing.T) {
	r, err := New(WithLineWidth(2))
	require.NoError(t, err)

	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	green := color.RGBA{G: 255, A: 255}

	out := r.Draw(src, []detector.Detection{{
		Candidate: detector.Candidate{Box: detector.Box{Left: 20, Top: 30, Width: 40, Height: 40}, Confidence: 0.9},
		Label:     "can",
		Color:     green,
	}})

	assert.Equal(t, src.Bounds(), out.Bounds())

	_, g, _, _ := out.At(20, 50).RGBA()
	assert.Greater(t, g>>8, uint32(100), "left edge should be stroked")

	r0, g0, b0, _ := out.At(40, 50).RGBA()
	assert.Zero(t, r0|g0|b0, "box interior stays untouched")

	// The source image is not modified.
	_, sg, _, _ := src.At(20, 50).RGBA()
	assert.Zero(t, sg)
}

func TestEncode(t *testing.T) {
	r, err := New(WithJPEGQuality(80))
	require.NoError(t, err)

	data, err := r.Encode(image.NewRGBA(image.Rect(0, 0, 64, 48)), nil)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 48), decoded.Bounds())
}
