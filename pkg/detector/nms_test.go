package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIoU(t *testing.T) {
	tests := []struct {
		name string
		a, b Box
		want float64
	}{
		{name: "identical", a: Box{0, 0, 10, 10}, b: Box{0, 0, 10, 10}, want: 1},
		{name: "disjoint", a: Box{0, 0, 10, 10}, b: Box{20, 20, 10, 10}, want: 0},
		{name: "touching edges", a: Box{0, 0, 10, 10}, b: Box{10, 0, 10, 10}, want: 0},
		{name: "half shifted", a: Box{0, 0, 10, 10}, b: Box{5, 0, 10, 10}, want: 50.0 / 150.0},
		{name: "contained", a: Box{0, 0, 10, 10}, b: Box{0, 0, 10, 4}, want: 0.4},
		{name: "zero area", a: Box{0, 0, 0, 0}, b: Box{0, 0, 0, 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, IoU(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.want, IoU(tt.b, tt.a), 1e-9)
		})
	}
}

func TestSuppress_ThresholdIsExclusive(t *testing.T) {
	candidates := []Candidate{
		{Box: Box{0, 0, 10, 10}, Confidence: 0.9},
		{Box: Box{0, 0, 10, 4}, Confidence: 0.8},
	}

	assert.Len(t, Suppress(candidates, 0.4, false), 2)
	assert.Len(t, Suppress(candidates, 0.39, false), 1)
}

func TestSuppress_StableOnEqualConfidence(t *testing.T) {
	candidates := []Candidate{
		{Box: Box{0, 0, 10, 10}, Confidence: 0.8, ClassID: 1},
		{Box: Box{1, 0, 10, 10}, Confidence: 0.8, ClassID: 0},
	}

	got := Suppress(candidates, 0.4, false)
	assert.Equal(t, []Candidate{candidates[0]}, got)
}

func TestSuppress_FixedPoint(t *testing.T) {
	candidates := []Candidate{
		{Box: Box{0, 0, 10, 10}, Confidence: 0.5},
		{Box: Box{2, 2, 10, 10}, Confidence: 0.9},
		{Box: Box{50, 50, 10, 10}, Confidence: 0.7},
		{Box: Box{52, 50, 10, 10}, Confidence: 0.6},
	}

	once := Suppress(candidates, 0.4, false)
	assert.Equal(t, once, Suppress(once, 0.4, false))
	assert.Len(t, once, 2)
	assert.InDelta(t, 0.9, once[0].Confidence, 1e-6)
	assert.InDelta(t, 0.7, once[1].Confidence, 1e-6)
}

func TestSuppress_DoesNotMutateInput(t *testing.T) {
	candidates := []Candidate{
		{Box: Box{0, 0, 10, 10}, Confidence: 0.1},
		{Box: Box{40, 40, 10, 10}, Confidence: 0.9},
	}
	before := append([]Candidate(nil), candidates...)

	Suppress(candidates, 0.4, false)
	assert.Equal(t, before, candidates)
}

func TestSuppress_Empty(t *testing.T) {
	assert.Empty(t, Suppress(nil, 0.4, false))
}
