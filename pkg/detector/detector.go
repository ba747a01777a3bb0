// Package detector turns raw YOLO output tensors into labeled, de-duplicated boxes.
//
// A Detector is immutable once built and holds no model handle, so one value can
// be shared by every request goroutine.
package detector

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

const (
	DefaultObjectnessThreshold float32 = 0.5
	DefaultClassThreshold      float32 = 0.25
	DefaultNMSThreshold        float64 = 0.4

	// boxAttributes is cx, cy, w, h and objectness.
	boxAttributes = 5
)

var DefaultColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}

var (
	ErrShapeMismatch    = errors.New("tensor shape mismatch")
	ErrNoClasses        = errors.New("class names must not be empty")
	ErrInvalidThreshold = errors.New("threshold out of range")
	ErrInvalidColor     = errors.New("invalid color")
)

type Option func(*Detector) error

type Detector struct {
	classNames          []string
	objectnessThreshold float32
	classThreshold      float32
	nmsThreshold        float64
	layout              Layout
	inputWidth          int
	inputHeight         int
	rounded             bool
	classAware          bool
	defaultColor        color.RGBA
	palette             map[int]color.RGBA
}

// New builds a Detector for the given class list. Thresholds default to
// 0.5 objectness, 0.25 class score and 0.4 IoU.
func New(classNames []string, opts ...Option) (*Detector, error) {
	if len(classNames) == 0 {
		return nil, ErrNoClasses
	}

	d := &Detector{
		classNames:          append([]string(nil), classNames...),
		objectnessThreshold: DefaultObjectnessThreshold,
		classThreshold:      DefaultClassThreshold,
		nmsThreshold:        DefaultNMSThreshold,
		layout:              LayoutAttributeMajor,
		defaultColor:        DefaultColor,
		palette:             make(map[int]color.RGBA),
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

func WithObjectnessThreshold(v float32) Option {
	return func(d *Detector) error {
		if v < 0 || v > 1 {
			return errors.Wrapf(ErrInvalidThreshold, "objectness %v", v)
		}
		d.objectnessThreshold = v
		return nil
	}
}

func WithClassThreshold(v float32) Option {
	return func(d *Detector) error {
		if v < 0 || v > 1 {
			return errors.Wrapf(ErrInvalidThreshold, "class %v", v)
		}
		d.classThreshold = v
		return nil
	}
}

func WithNMSThreshold(v float64) Option {
	return func(d *Detector) error {
		if v < 0 || v > 1 {
			return errors.Wrapf(ErrInvalidThreshold, "nms %v", v)
		}
		d.nmsThreshold = v
		return nil
	}
}

func WithLayout(l Layout) Option {
	return func(d *Detector) error {
		d.layout = l
		return nil
	}
}

// WithInputSize rescales boxes from network-input pixels to frame pixels.
// Without it boxes are reported in network-input space.
func WithInputSize(width, height int) Option {
	return func(d *Detector) error {
		if width < 0 || height < 0 {
			return errors.Errorf("invalid input size %dx%d", width, height)
		}
		d.inputWidth = width
		d.inputHeight = height
		return nil
	}
}

// WithRoundedCoordinates rounds corner coordinates instead of truncating them.
func WithRoundedCoordinates() Option {
	return func(d *Detector) error {
		d.rounded = true
		return nil
	}
}

// WithClassAwareNMS restricts suppression to boxes of the same class.
func WithClassAwareNMS() Option {
	return func(d *Detector) error {
		d.classAware = true
		return nil
	}
}

func WithDefaultColor(hex string) Option {
	return func(d *Detector) error {
		c, err := parseHex(hex)
		if err != nil {
			return err
		}
		d.defaultColor = c
		return nil
	}
}

// WithPalette assigns a display color per class name. Names that are not
// configured classes are ignored.
func WithPalette(colors map[string]string) Option {
	return func(d *Detector) error {
		for i, name := range d.classNames {
			hex, ok := colors[name]
			if !ok {
				continue
			}
			c, err := parseHex(hex)
			if err != nil {
				return errors.Wrapf(err, "class %q", name)
			}
			d.palette[i] = c
		}
		return nil
	}
}

func parseHex(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, errors.Wrapf(ErrInvalidColor, "%q", hex)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

func (d *Detector) ClassNames() []string {
	return append([]string(nil), d.classNames...)
}

func (d *Detector) Color(classID int) color.RGBA {
	if c, ok := d.palette[classID]; ok {
		return c
	}
	return d.defaultColor
}

// Process decodes, filters and suppresses the candidates in t. The result is
// ordered by selection, highest confidence first. A tensor with zero rows
// yields an empty slice.
func (d *Detector) Process(t Tensor, frame Frame) ([]Detection, error) {
	rows, err := Rows(t, len(d.classNames), d.layout)
	if err != nil {
		return nil, err
	}

	candidates := d.Decode(rows, frame)
	kept := Suppress(candidates, d.nmsThreshold, d.classAware)

	detections := make([]Detection, 0, len(kept))
	for _, c := range kept {
		detections = append(detections, Detection{
			Candidate: c,
			Label:     d.classNames[c.ClassID],
			Color:     d.Color(c.ClassID),
		})
	}

	return detections, nil
}

// Rows validates the tensor shape and returns one slice per candidate laid out
// as [cx, cy, w, h, objectness, scores...].
func Rows(t Tensor, numClasses int, layout Layout) ([][]float32, error) {
	attrs := boxAttributes + numClasses
	shape := t.Shape

	switch len(shape) {
	case 3:
		if shape[0] != 1 {
			return nil, errors.Wrapf(ErrShapeMismatch, "batch size %d", shape[0])
		}
		shape = shape[1:]
	case 2:
	default:
		return nil, errors.Wrapf(ErrShapeMismatch, "rank %d", len(shape))
	}

	var n, gotAttrs int
	if layout == LayoutRowMajor {
		n, gotAttrs = shape[0], shape[1]
	} else {
		gotAttrs, n = shape[0], shape[1]
	}

	if n < 0 || gotAttrs != attrs {
		return nil, errors.Wrapf(ErrShapeMismatch, "shape %v, want %d attributes per row", t.Shape, attrs)
	}
	if len(t.Data) != n*attrs {
		return nil, errors.Wrapf(ErrShapeMismatch, "shape %v holds %d values, got %d", t.Shape, n*attrs, len(t.Data))
	}

	rows := make([][]float32, n)
	if layout == LayoutRowMajor {
		for i := range rows {
			rows[i] = t.Data[i*attrs : (i+1)*attrs : (i+1)*attrs]
		}
		return rows, nil
	}

	backing := make([]float32, n*attrs)
	for i := range rows {
		row := backing[i*attrs : (i+1)*attrs : (i+1)*attrs]
		for a := 0; a < attrs; a++ {
			row[a] = t.Data[a*n+i]
		}
		rows[i] = row
	}

	return rows, nil
}

// Decode applies the objectness and class filters and converts surviving rows
// to corner-form boxes. Rows must already have 5+len(classNames) values.
func (d *Detector) Decode(rows [][]float32, frame Frame) []Candidate {
	sx, sy := 1.0, 1.0
	if d.inputWidth > 0 && d.inputHeight > 0 && frame.Width > 0 && frame.Height > 0 {
		sx = float64(frame.Width) / float64(d.inputWidth)
		sy = float64(frame.Height) / float64(d.inputHeight)
	}

	var candidates []Candidate
	for _, row := range rows {
		objectness := row[4]
		// NaN scores fail both comparisons and are discarded.
		if !(objectness > d.objectnessThreshold) {
			continue
		}

		scores := row[boxAttributes:]
		classID := argmax(scores)
		if !(scores[classID] > d.classThreshold) {
			continue
		}

		cx, cy := float64(row[0])*sx, float64(row[1])*sy
		w, h := float64(row[2])*sx, float64(row[3])*sy

		candidates = append(candidates, Candidate{
			Box: Box{
				Left:   d.pixel(cx - w/2),
				Top:    d.pixel(cy - h/2),
				Width:  d.pixel(w),
				Height: d.pixel(h),
			},
			Confidence: objectness,
			ClassID:    classID,
		})
	}

	return candidates
}

func (d *Detector) pixel(v float64) int {
	if d.rounded {
		return int(math.Round(v))
	}
	return int(v)
}

// argmax returns the first index holding the largest score.
func argmax(scores []float32) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}
