package detector

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// attributeMajor packs rows into the [1, attrs, N] layout a YOLO export emits.
func attributeMajor(rows ...[]float32) Tensor {
	if len(rows) == 0 {
		return Tensor{Shape: []int{1, 7, 0}}
	}
	attrs, n := len(rows[0]), len(rows)
	data := make([]float32, attrs*n)
	for i, row := range rows {
		for a, v := range row {
			data[a*n+i] = v
		}
	}
	return Tensor{Shape: []int{1, attrs, n}, Data: data}
}

func newTestDetector(t *testing.T, opts ...Option) *Detector {
	t.Helper()
	d, err := New([]string{"bottle", "can"}, opts...)
	require.NoError(t, err)
	return d
}

func TestProcess_SingleBottle(t *testing.T) {
	d := newTestDetector(t)

	got, err := d.Process(attributeMajor([]float32{100, 100, 40, 60, 0.9, 0.8, 0.1}), Frame{Width: 640, Height: 640})
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, Box{Left: 80, Top: 70, Width: 40, Height: 60}, got[0].Box)
	assert.Equal(t, 0, got[0].ClassID)
	assert.Equal(t, "bottle", got[0].Label)
	assert.InDelta(t, 0.9, got[0].Confidence, 1e-6)
	assert.Equal(t, DefaultColor, got[0].Color)
	assert.Equal(t, "#00FF00", got[0].HexColor())
}

func TestProcess_Filters(t *testing.T) {
	nan := float32(math.NaN())

	tests := []struct {
		name string
		row  []float32
		want int
	}{
		{name: "objectness at threshold", row: []float32{50, 50, 10, 10, 0.5, 0.9, 0.1}, want: 0},
		{name: "objectness below threshold", row: []float32{50, 50, 10, 10, 0.2, 0.9, 0.1}, want: 0},
		{name: "objectness NaN", row: []float32{50, 50, 10, 10, nan, 0.9, 0.1}, want: 0},
		{name: "class score at threshold", row: []float32{50, 50, 10, 10, 0.9, 0.25, 0.1}, want: 0},
		{name: "class score below threshold", row: []float32{50, 50, 10, 10, 0.9, 0.1, 0.2}, want: 0},
		{name: "both above threshold", row: []float32{50, 50, 10, 10, 0.51, 0.26, 0.1}, want: 1},
	}

	d := newTestDetector(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Process(attributeMajor(tt.row), Frame{})
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestProcess_ArgmaxPicksFirstOfTies(t *testing.T) {
	d, err := New([]string{"a", "b", "c"})
	require.NoError(t, err)

	got, err := d.Process(attributeMajor([]float32{50, 50, 10, 10, 0.9, 0.3, 0.3, 0.1}), Frame{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].ClassID)
	assert.Equal(t, "a", got[0].Label)
}

func TestProcess_SuppressesAcrossClasses(t *testing.T) {
	d := newTestDetector(t)

	tensor := attributeMajor(
		[]float32{100, 100, 40, 40, 0.7, 0.1, 0.9},
		[]float32{102, 100, 40, 40, 0.95, 0.9, 0.1},
	)

	got, err := d.Process(tensor, Frame{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bottle", got[0].Label)
	assert.InDelta(t, 0.95, got[0].Confidence, 1e-6)
}

func TestProcess_ClassAwareKeepsOtherClasses(t *testing.T) {
	d := newTestDetector(t, WithClassAwareNMS())

	tensor := attributeMajor(
		[]float32{100, 100, 40, 40, 0.7, 0.1, 0.9},
		[]float32{102, 100, 40, 40, 0.95, 0.9, 0.1},
		[]float32{101, 100, 40, 40, 0.8, 0.9, 0.1},
	)

	got, err := d.Process(tensor, Frame{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "bottle", got[0].Label)
	assert.Equal(t, "can", got[1].Label)
}

func TestProcess_DisjointBoxesSurviveInConfidenceOrder(t *testing.T) {
	d := newTestDetector(t)

	tensor := attributeMajor(
		[]float32{20, 20, 10, 10, 0.6, 0.9, 0.1},
		[]float32{200, 200, 10, 10, 0.9, 0.1, 0.9},
	)

	got, err := d.Process(tensor, Frame{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "can", got[0].Label)
	assert.Equal(t, "bottle", got[1].Label)
}

func TestProcess_Idempotent(t *testing.T) {
	d := newTestDetector(t)

	tensor := attributeMajor(
		[]float32{100, 100, 40, 40, 0.7, 0.1, 0.9},
		[]float32{102, 100, 40, 40, 0.95, 0.9, 0.1},
		[]float32{300, 300, 20, 20, 0.8, 0.3, 0.4},
	)

	first, err := d.Process(tensor, Frame{})
	require.NoError(t, err)
	second, err := d.Process(tensor, Frame{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProcess_ZeroRows(t *testing.T) {
	d := newTestDetector(t)

	got, err := d.Process(attributeMajor(), Frame{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestProcess_NothingPasses(t *testing.T) {
	d := newTestDetector(t)

	got, err := d.Process(attributeMajor([]float32{1, 1, 1, 1, 0.1, 0.1, 0.1}), Frame{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProcess_ShapeMismatch(t *testing.T) {
	tests := []struct {
		name   string
		tensor Tensor
	}{
		{name: "too few class scores", tensor: Tensor{Shape: []int{1, 6, 1}, Data: make([]float32, 6)}},
		{name: "too many class scores", tensor: Tensor{Shape: []int{8, 1}, Data: make([]float32, 8)}},
		{name: "data shorter than shape", tensor: Tensor{Shape: []int{1, 7, 2}, Data: make([]float32, 10)}},
		{name: "rank one", tensor: Tensor{Shape: []int{7}, Data: make([]float32, 7)}},
		{name: "batch of two", tensor: Tensor{Shape: []int{2, 7, 1}, Data: make([]float32, 14)}},
		{name: "no shape", tensor: Tensor{}},
	}

	d := newTestDetector(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Process(tt.tensor, Frame{})
			assert.ErrorIs(t, err, ErrShapeMismatch)
			assert.Nil(t, got)
		})
	}
}

func TestProcess_RowMajorLayout(t *testing.T) {
	d := newTestDetector(t, WithLayout(LayoutRowMajor))

	tensor := Tensor{
		Shape: []int{2, 7},
		Data: []float32{
			100, 100, 40, 60, 0.9, 0.8, 0.1,
			400, 400, 40, 60, 0.8, 0.1, 0.7,
		},
	}

	got, err := d.Process(tensor, Frame{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Box{Left: 80, Top: 70, Width: 40, Height: 60}, got[0].Box)
	assert.Equal(t, Box{Left: 380, Top: 370, Width: 40, Height: 60}, got[1].Box)
}

func TestProcess_CoordinateConversion(t *testing.T) {
	row := []float32{1, 10, 5, 5, 0.9, 0.9, 0.1}

	truncated, err := newTestDetector(t).Process(attributeMajor(row), Frame{})
	require.NoError(t, err)
	require.Len(t, truncated, 1)
	// -1.5 truncates toward zero, 7.5 truncates down.
	assert.Equal(t, Box{Left: -1, Top: 7, Width: 5, Height: 5}, truncated[0].Box)

	rounded, err := newTestDetector(t, WithRoundedCoordinates()).Process(attributeMajor(row), Frame{})
	require.NoError(t, err)
	require.Len(t, rounded, 1)
	assert.Equal(t, Box{Left: -2, Top: 8, Width: 5, Height: 5}, rounded[0].Box)
}

func TestProcess_ScalesToFrame(t *testing.T) {
	d := newTestDetector(t, WithInputSize(640, 640))

	got, err := d.Process(attributeMajor([]float32{100, 100, 40, 60, 0.9, 0.8, 0.1}), Frame{Width: 1280, Height: 960})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Box{Left: 160, Top: 105, Width: 80, Height: 90}, got[0].Box)
}

func TestProcess_Palette(t *testing.T) {
	d := newTestDetector(t, WithPalette(map[string]string{"can": "#4ECDC4", "paper": "#45B7D1"}))

	got, err := d.Process(attributeMajor([]float32{50, 50, 10, 10, 0.9, 0.1, 0.9}), Frame{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, color.RGBA{R: 0x4E, G: 0xCD, B: 0xC4, A: 255}, got[0].Color)
	assert.Equal(t, DefaultColor, d.Color(0))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNoClasses)

	_, err = New([]string{"a"}, WithObjectnessThreshold(1.5))
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = New([]string{"a"}, WithNMSThreshold(-0.1))
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = New([]string{"a"}, WithPalette(map[string]string{"a": "green"}))
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestNew_CopiesClassNames(t *testing.T) {
	names := []string{"bottle", "can"}
	d, err := New(names)
	require.NoError(t, err)

	names[0] = "mutated"
	assert.Equal(t, []string{"bottle", "can"}, d.ClassNames())
}
