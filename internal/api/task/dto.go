package task

import (
	"time"

	"github.com/TheNopenator/EcoVision/internal/api/detection"
	"github.com/TheNopenator/EcoVision/internal/entity"
	"github.com/samber/lo"
)

type UpdateTaskRequest struct {
	AssignedTo *string `json:"assigned_to" validate:"omitempty,max=100"`
	Notes      *string `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type TaskResponse struct {
	ID          string                       `json:"id"`
	DetectionID string                       `json:"detection_id"`
	Status      entity.TaskStatus            `json:"status"`
	AssignedTo  string                       `json:"assigned_to"`
	CreatedAt   time.Time                    `json:"created_at"`
	CompletedAt *time.Time                   `json:"completed_at"`
	Notes       string                       `json:"notes"`
	Detection   *detection.DetectionResponse `json:"detection,omitempty"`
}

func ToTaskResponse(t entity.CleanupTask) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		DetectionID: t.DetectionID,
		Status:      t.Status,
		AssignedTo:  t.AssignedTo,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
		Notes:       t.Notes,
	}
	if t.Detection.ID != "" {
		d := detection.ToDetectionResponse(t.Detection)
		resp.Detection = &d
	}
	return resp
}

func ToTaskResponses(tasks []entity.CleanupTask) []TaskResponse {
	return lo.Map(tasks, func(t entity.CleanupTask, _ int) TaskResponse {
		return ToTaskResponse(t)
	})
}
