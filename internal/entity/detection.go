package entity

import "time"

type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// DetectionBox is one labeled box as stored with its detection.
type DetectionBox struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Left       int     `json:"left"`
	Top        int     `json:"top"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Color      string  `json:"color"`
}

type TrashDetection struct {
	ID                string         `db:"id"`
	ImageURL          string         `db:"image_url"`
	AnnotatedImageURL string         `db:"annotated_image_url"`
	DetectedObjects   []string       `db:"detected_objects"`
	ConfidenceScores  []float64      `db:"confidence_scores"`
	Boxes             []DetectionBox `db:"boxes"`
	Location          Location       `db:"location"`
	DetectedAt        time.Time      `db:"detected_at"`
	Processed         bool           `db:"processed"`
}

type DetectionStatistics struct {
	TotalDetections int            `json:"total_detections"`
	TodayDetections int            `json:"today_detections"`
	TrashCounts     map[string]int `json:"trash_counts"`
}
