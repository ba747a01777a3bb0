package detection

import (
	"time"

	"github.com/TheNopenator/EcoVision/internal/entity"
	"github.com/TheNopenator/EcoVision/pkg/detector"
	"github.com/samber/lo"
)

type LocationRequest struct {
	Lat     float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng     float64 `json:"lng" validate:"gte=-180,lte=180"`
	Address string  `json:"address" validate:"max=255"`
}

type UpdateDetectionRequest struct {
	Processed *bool `json:"processed" validate:"required"`
}

// DetectedObject is one box as the dashboard draws it: bbox is
// [x1, y1, x2, y2] in image pixels.
type DetectedObject struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	BBox       [4]int  `json:"bbox"`
	Color      string  `json:"color"`
}

type UploadResponse struct {
	DetectionID       string           `json:"detection_id"`
	ImageURL          string           `json:"image_url"`
	AnnotatedImageURL string           `json:"annotated_image_url"`
	Detections        []DetectedObject `json:"detections"`
	DetectedObjects   []string         `json:"detected_objects"`
	ConfidenceScores  []float64        `json:"confidence_scores"`
	Location          entity.Location  `json:"location"`
	DetectedAt        time.Time        `json:"detected_at"`
	TaskID            string           `json:"task_id,omitempty"`
}

type DetectionResponse struct {
	ID                string           `json:"id"`
	ImageURL          string           `json:"image_url"`
	AnnotatedImageURL string           `json:"annotated_image_url"`
	DetectedObjects   []string         `json:"detected_objects"`
	ConfidenceScores  []float64        `json:"confidence_scores"`
	Detections        []DetectedObject `json:"detections"`
	Location          entity.Location  `json:"location"`
	DetectedAt        time.Time        `json:"detected_at"`
	Processed         bool             `json:"processed"`
}

type DetectionListResponse struct {
	Detections []DetectionResponse `json:"detections"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
}

type StatisticsResponse struct {
	TotalDetections int            `json:"total_detections"`
	TodayDetections int            `json:"today_detections"`
	TrashCounts     map[string]int `json:"trash_counts"`
}

// StreamResult is written back for every frame received on the live stream.
type StreamResult struct {
	Detections []DetectedObject `json:"detections"`
	Width      int              `json:"width"`
	Height     int              `json:"height"`
	ElapsedMS  int64            `json:"elapsed_ms"`
}

func FromDetections(detections []detector.Detection) []DetectedObject {
	return lo.Map(detections, func(d detector.Detection, _ int) DetectedObject {
		return DetectedObject{
			Class:      d.Label,
			Confidence: float64(d.Confidence),
			BBox:       [4]int{d.Box.Left, d.Box.Top, d.Box.Left + d.Box.Width, d.Box.Top + d.Box.Height},
			Color:      d.HexColor(),
		}
	})
}

func FromBoxes(boxes []entity.DetectionBox) []DetectedObject {
	return lo.Map(boxes, func(b entity.DetectionBox, _ int) DetectedObject {
		return DetectedObject{
			Class:      b.Label,
			Confidence: b.Confidence,
			BBox:       [4]int{b.Left, b.Top, b.Left + b.Width, b.Top + b.Height},
			Color:      b.Color,
		}
	})
}

func ToBoxes(detections []detector.Detection) []entity.DetectionBox {
	return lo.Map(detections, func(d detector.Detection, _ int) entity.DetectionBox {
		return entity.DetectionBox{
			Label:      d.Label,
			Confidence: float64(d.Confidence),
			Left:       d.Box.Left,
			Top:        d.Box.Top,
			Width:      d.Box.Width,
			Height:     d.Box.Height,
			Color:      d.HexColor(),
		}
	})
}

func ToDetectionResponse(d entity.TrashDetection) DetectionResponse {
	return DetectionResponse{
		ID:                d.ID,
		ImageURL:          d.ImageURL,
		AnnotatedImageURL: d.AnnotatedImageURL,
		DetectedObjects:   lo.Ternary(d.DetectedObjects == nil, []string{}, d.DetectedObjects),
		ConfidenceScores:  lo.Ternary(d.ConfidenceScores == nil, []float64{}, d.ConfidenceScores),
		Detections:        FromBoxes(d.Boxes),
		Location:          d.Location,
		DetectedAt:        d.DetectedAt,
		Processed:         d.Processed,
	}
}

func ToDetectionResponses(detections []entity.TrashDetection) []DetectionResponse {
	return lo.Map(detections, func(d entity.TrashDetection, _ int) DetectionResponse {
		return ToDetectionResponse(d)
	})
}
