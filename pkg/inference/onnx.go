package inference

import (
	"context"
	"image"
	"os"
	"sync"

	"github.com/TheNopenator/EcoVision/pkg/detector"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	ort "github.com/yalue/onnxruntime_go"
)

type onnxEngine struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	shape   []int
	width   int
	height  int
	closed  bool
}

func newONNX(cfg Config, log *logrus.Logger) (Engine, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("model path is required")
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, errors.Wrap(err, "model file")
	}
	if len(cfg.OutputShape) == 0 {
		return nil, errors.New("output shape is required")
	}

	if !ort.IsInitialized() {
		if cfg.SharedLibraryPath != "" {
			ort.SetSharedLibraryPath(cfg.SharedLibraryPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, errors.Wrap(err, "initialize onnxruntime")
		}
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, int64(cfg.InputHeight), int64(cfg.InputWidth)))
	if err != nil {
		return nil, errors.Wrap(err, "create input tensor")
	}

	dims := make([]int64, len(cfg.OutputShape))
	for i, d := range cfg.OutputShape {
		dims[i] = int64(d)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(dims...))
	if err != nil {
		input.Destroy()
		return nil, errors.Wrap(err, "create output tensor")
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, errors.Wrap(err, "create session options")
	}
	defer options.Destroy()

	if cfg.IntraOpThreads > 0 {
		if err := options.SetIntraOpNumThreads(cfg.IntraOpThreads); err != nil {
			log.WithError(err).Warn("Failed to set onnxruntime intra-op threads")
		}
	}

	session, err := ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{cfg.InputName},
		[]string{cfg.OutputName},
		[]ort.Value{input},
		[]ort.Value{output},
		options,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, errors.Wrap(err, "create session")
	}

	return &onnxEngine{
		session: session,
		input:   input,
		output:  output,
		shape:   append([]int(nil), cfg.OutputShape...),
		width:   cfg.InputWidth,
		height:  cfg.InputHeight,
	}, nil
}

func (e *onnxEngine) Infer(ctx context.Context, img image.Image) (detector.Tensor, error) {
	if err := ctx.Err(); err != nil {
		return detector.Tensor{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return detector.Tensor{}, ErrEngineClosed
	}

	if err := FillBlob(img, e.width, e.height, e.input.GetData()); err != nil {
		return detector.Tensor{}, errors.Wrap(err, "prepare input")
	}

	if err := e.session.Run(); err != nil {
		return detector.Tensor{}, errors.Wrap(err, "run session")
	}

	return copyTensor(detector.Tensor{Shape: e.shape, Data: e.output.GetData()}), nil
}

func (e *onnxEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	var firstErr error
	for _, destroy := range []func() error{e.session.Destroy, e.input.Destroy, e.output.Destroy} {
		if err := destroy(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
