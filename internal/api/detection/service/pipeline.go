package detectionService

import (
	"context"
	"image"
	"time"

	"github.com/TheNopenator/EcoVision/pkg/detector"
	"github.com/TheNopenator/EcoVision/pkg/inference"
	"github.com/TheNopenator/EcoVision/pkg/metrics"
	"github.com/TheNopenator/EcoVision/pkg/overlay"
)

// Pipeline turns an image into labeled detections: the engine produces the
// raw tensor and the detector post-processes it.
type Pipeline struct {
	engine     inference.Engine
	engineName string
	detector   *detector.Detector
	renderer   *overlay.Renderer
	metrics    *metrics.Manager
}

func NewPipeline(engine inference.Engine, engineName string, det *detector.Detector, renderer *overlay.Renderer, m *metrics.Manager) *Pipeline {
	return &Pipeline{
		engine:     engine,
		engineName: engineName,
		detector:   det,
		renderer:   renderer,
		metrics:    m,
	}
}

func (p *Pipeline) Detect(ctx context.Context, img image.Image) ([]detector.Detection, error) {
	start := time.Now()
	tensor, err := p.engine.Infer(ctx, img)
	p.metrics.ObserveInference(p.engineName, time.Since(start))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return p.detector.Process(tensor, detector.Frame{Width: bounds.Dx(), Height: bounds.Dy()})
}

func (p *Pipeline) Annotate(img image.Image, detections []detector.Detection) ([]byte, error) {
	return p.renderer.Encode(img, detections)
}
