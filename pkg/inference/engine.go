// Package inference runs a detection network over an image and returns its raw
// output tensor. Engines are picked by name so the rest of the service never
// knows whether it talks to onnxruntime, a remote model server or a fixture.
package inference

import (
	"context"
	"image"
	"sort"
	"time"

	"github.com/TheNopenator/EcoVision/pkg/detector"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	EngineONNX   = "onnx"
	EngineRemote = "remote"
	EngineStatic = "static"
	EngineOpenCV = "opencv"
)

var (
	ErrUnknownEngine = errors.New("unknown inference engine")
	ErrEngineClosed  = errors.New("inference engine closed")
)

type Engine interface {
	Infer(ctx context.Context, img image.Image) (detector.Tensor, error)
	Close() error
}

type Config struct {
	Engine string

	ModelPath         string
	SharedLibraryPath string
	InputName         string
	OutputName        string
	InputWidth        int
	InputHeight       int
	OutputShape       []int
	IntraOpThreads    int

	RemoteURL     string
	RemoteTimeout time.Duration
	JPEGQuality   int

	StaticTensor detector.Tensor
}

type constructor func(cfg Config, log *logrus.Logger) (Engine, error)

var constructors = map[string]constructor{
	EngineONNX:   newONNX,
	EngineRemote: newRemote,
	EngineStatic: func(cfg Config, _ *logrus.Logger) (Engine, error) {
		return NewStatic(cfg.StaticTensor), nil
	},
}

// New builds the engine named by cfg.Engine.
func New(cfg Config, log *logrus.Logger) (Engine, error) {
	build, ok := constructors[cfg.Engine]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownEngine, "%q (available: %v)", cfg.Engine, Available())
	}

	engine, err := build(cfg, log)
	if err != nil {
		return nil, errors.Wrapf(err, "init %s engine", cfg.Engine)
	}

	log.WithFields(logrus.Fields{
		"engine": cfg.Engine,
		"model":  cfg.ModelPath,
	}).Info("Inference engine ready")

	return engine, nil
}

// Available lists the engine names compiled into this binary.
func Available() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func copyTensor(t detector.Tensor) detector.Tensor {
	return detector.Tensor{
		Shape: append([]int(nil), t.Shape...),
		Data:  append([]float32(nil), t.Data...),
	}
}
