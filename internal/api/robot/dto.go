package robot

import (
	"time"

	"github.com/TheNopenator/EcoVision/internal/entity"
	"github.com/samber/lo"
)

type ContactRobotRequest struct {
	Location   string   `json:"location" validate:"required,max=255"`
	TrashTypes []string `json:"trash_types" validate:"max=20,dive,required,max=50"`
	Priority   string   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Notes      string   `json:"notes" validate:"max=1000"`
	RobotID    string   `json:"robot_id" validate:"max=20"`
}

type ContactRobotResponse struct {
	RequestID string `json:"request_id"`
	RobotID   string `json:"robot_id"`
	Status    string `json:"status"`
	ETA       int    `json:"eta"`
	Message   string `json:"message"`
}

type RobotRequestResponse struct {
	ID          string    `json:"id"`
	RobotID     string    `json:"robot_id"`
	Status      string    `json:"status"`
	TrashTypes  []string  `json:"trash_types"`
	Priority    string    `json:"priority"`
	Location    string    `json:"location"`
	Notes       string    `json:"notes"`
	RequestTime time.Time `json:"request_time"`
	ETAMinutes  int       `json:"eta_minutes"`
}

func ToRobotRequestResponses(requests []entity.RobotRequest) []RobotRequestResponse {
	return lo.Map(requests, func(r entity.RobotRequest, _ int) RobotRequestResponse {
		return RobotRequestResponse{
			ID:          r.ID,
			RobotID:     r.RobotID,
			Status:      r.Status,
			TrashTypes:  lo.Ternary(r.TrashTypes == nil, []string{}, r.TrashTypes),
			Priority:    r.Priority,
			Location:    r.Location,
			Notes:       r.Notes,
			RequestTime: r.RequestTime,
			ETAMinutes:  r.ETAMinutes,
		}
	})
}
