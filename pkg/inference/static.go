package inference

import (
	"context"
	"image"

	"github.com/TheNopenator/EcoVision/pkg/detector"
)

type staticEngine struct {
	tensor detector.Tensor
}

// NewStatic returns an engine that answers every image with a copy of t.
// Used for demos and tests where no model is available.
func NewStatic(t detector.Tensor) Engine {
	return &staticEngine{tensor: copyTensor(t)}
}

func (e *staticEngine) Infer(ctx context.Context, _ image.Image) (detector.Tensor, error) {
	if err := ctx.Err(); err != nil {
		return detector.Tensor{}, err
	}
	return copyTensor(e.tensor), nil
}

func (e *staticEngine) Close() error { return nil }
