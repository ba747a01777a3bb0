// Package overlay draws detections onto the source image.
package overlay

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"github.com/TheNopenator/EcoVision/pkg/detector"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	defaultLineWidth = 2
	defaultFontSize  = 14
	labelOffset      = 10
)

type Renderer struct {
	font      *truetype.Font
	lineWidth float64
	fontSize  float64
	quality   int
}

type Option func(*Renderer)

func WithLineWidth(w float64) Option {
	return func(r *Renderer) {
		if w > 0 {
			r.lineWidth = w
		}
	}
}

func WithFontSize(size float64) Option {
	return func(r *Renderer) {
		if size > 0 {
			r.fontSize = size
		}
	}
}

func WithJPEGQuality(q int) Option {
	return func(r *Renderer) {
		if q > 0 && q <= 100 {
			r.quality = q
		}
	}
}

func New(opts ...Option) (*Renderer, error) {
	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "parse font")
	}

	r := &Renderer{
		font:      font,
		lineWidth: defaultLineWidth,
		fontSize:  defaultFontSize,
		quality:   jpeg.DefaultQuality,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Caption is the text drawn above a box, e.g. "bottle: 0.85".
func Caption(d detector.Detection) string {
	return fmt.Sprintf("%s: %.2f", d.Label, d.Confidence)
}

// Draw returns a copy of img with every detection outlined and captioned.
func (r *Renderer) Draw(img image.Image, detections []detector.Detection) image.Image {
	dc := gg.NewContextForImage(img)
	dc.SetFontFace(truetype.NewFace(r.font, &truetype.Options{Size: r.fontSize}))

	for _, d := range detections {
		rect := d.Box.Rect()
		drawRectangle(dc, rect, d.Color, r.lineWidth)

		dc.SetColor(d.Color)
		dc.DrawString(Caption(d), float64(rect.Min.X), float64(rect.Min.Y-labelOffset))
	}

	return dc.Image()
}

// Encode draws the detections and returns the result as JPEG.
func (r *Renderer) Encode(img image.Image, detections []detector.Detection) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, r.Draw(img, detections), &jpeg.Options{Quality: r.quality}); err != nil {
		return nil, errors.Wrap(err, "encode annotated image")
	}
	return buf.Bytes(), nil
}

func drawRectangle(dc *gg.Context, rect image.Rectangle, c color.Color, width float64) {
	dc.SetColor(c)
	dc.SetLineWidth(width)
	dc.DrawRectangle(float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()))
	dc.Stroke()
}
