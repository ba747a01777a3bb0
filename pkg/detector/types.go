package detector

import (
	"fmt"
	"image"
	"image/color"
)

// Layout describes how a raw tensor orders its two trailing dimensions.
type Layout int

const (
	// LayoutAttributeMajor is the native YOLO export layout: all cx values,
	// then all cy values, and so on. Shape is [1, 5+C, N] or [5+C, N].
	LayoutAttributeMajor Layout = iota
	// LayoutRowMajor holds one candidate per row. Shape is [1, N, 5+C] or [N, 5+C].
	LayoutRowMajor
)

// Tensor is the raw output of a detection network.
type Tensor struct {
	Shape []int     `json:"shape"`
	Data  []float32 `json:"data"`
}

// Frame carries the pixel dimensions of the image the tensor was computed from.
type Frame struct {
	Width  int
	Height int
}

// Box is an axis-aligned rectangle in corner form.
type Box struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (b Box) Area() int {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

func (b Box) Rect() image.Rectangle {
	return image.Rect(b.Left, b.Top, b.Left+b.Width, b.Top+b.Height)
}

// IoU returns the intersection over union of two boxes, 0 when the union is empty.
func IoU(a, b Box) float64 {
	ix := min(a.Left+a.Width, b.Left+b.Width) - max(a.Left, b.Left)
	iy := min(a.Top+a.Height, b.Top+b.Height) - max(a.Top, b.Top)
	if ix <= 0 || iy <= 0 {
		return 0
	}

	inter := ix * iy
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}

	return float64(inter) / float64(union)
}

// Candidate is a decoded row that passed both confidence filters.
type Candidate struct {
	Box        Box     `json:"bbox"`
	Confidence float32 `json:"confidence"`
	ClassID    int     `json:"class_id"`
}

// Detection is a candidate that survived suppression.
type Detection struct {
	Candidate
	Label string     `json:"label"`
	Color color.RGBA `json:"-"`
}

// HexColor formats the display color as #RRGGBB.
func (d Detection) HexColor() string {
	return fmt.Sprintf("#%02X%02X%02X", d.Color.R, d.Color.G, d.Color.B)
}
