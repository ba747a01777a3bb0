//go:build opencv

package inference

import (
	"context"
	"image"
	"sync"

	"github.com/TheNopenator/EcoVision/pkg/detector"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

func init() {
	constructors[EngineOpenCV] = newOpenCV
}

// openCVEngine runs the model through OpenCV's dnn module.
type openCVEngine struct {
	mu     sync.Mutex
	net    gocv.Net
	output string
	size   image.Point
	closed bool
}

func newOpenCV(cfg Config, _ *logrus.Logger) (Engine, error) {
	net := gocv.ReadNet(cfg.ModelPath, "")
	if net.Empty() {
		return nil, errors.Errorf("cannot read network from %s", cfg.ModelPath)
	}

	return &openCVEngine{
		net:    net,
		output: cfg.OutputName,
		size:   image.Pt(cfg.InputWidth, cfg.InputHeight),
	}, nil
}

func (e *openCVEngine) Infer(ctx context.Context, img image.Image) (detector.Tensor, error) {
	if err := ctx.Err(); err != nil {
		return detector.Tensor{}, err
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return detector.Tensor{}, errors.Wrap(err, "convert image")
	}
	defer mat.Close()

	// The mat is already RGB so no channel swap is needed.
	blob := gocv.BlobFromImage(mat, 1.0/255.0, e.size, gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return detector.Tensor{}, ErrEngineClosed
	}

	e.net.SetInput(blob, "")
	out := e.net.Forward(e.output)
	defer out.Close()

	data, err := out.DataPtrFloat32()
	if err != nil {
		return detector.Tensor{}, errors.Wrap(err, "read output")
	}

	return copyTensor(detector.Tensor{Shape: out.Size(), Data: data}), nil
}

func (e *openCVEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	return e.net.Close()
}
