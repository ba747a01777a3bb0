package robotService

import (
	"context"
	"errors"

	"github.com/TheNopenator/EcoVision/internal/api/robot"
	"github.com/TheNopenator/EcoVision/internal/entity"
	contextPkg "github.com/TheNopenator/EcoVision/pkg/context"
	"github.com/TheNopenator/EcoVision/pkg/dispatch"
	"github.com/sirupsen/logrus"
)

func (s *robotService) ContactRobot(ctx context.Context, req robot.ContactRobotRequest) (*robot.ContactRobotResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if req.Priority == "" {
		req.Priority = dispatch.PriorityMedium
	}

	assignment, err := s.dispatcher.Dispatch(dispatch.Request{
		RobotID:  req.RobotID,
		Priority: req.Priority,
	})
	if err != nil {
		if errors.Is(err, dispatch.ErrUnknownRobot) {
			return nil, robot.ErrUnknownRobot
		}
		return nil, err
	}

	now := s.now().UTC()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return nil, robot.ErrCreateRobotRequest
	}

	record := entity.RobotRequest{
		ID:          id,
		RobotID:     assignment.Robot.Name,
		Status:      assignment.Status,
		TrashTypes:  req.TrashTypes,
		Priority:    req.Priority,
		Location:    req.Location,
		Notes:       req.Notes,
		RequestTime: now,
		ETAMinutes:  assignment.ETAMinutes,
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	if err := repo.Requests.CreateRobotRequest(ctx, record); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to persist robot request")
		return nil, robot.ErrCreateRobotRequest
	}

	s.metrics.RecordDispatch(assignment.Status)

	s.log.WithFields(logrus.Fields{
		"request_id":  requestID,
		"robot":       record.RobotID,
		"status":      record.Status,
		"eta_minutes": record.ETAMinutes,
		"priority":    record.Priority,
	}).Info("Robot request dispatched")

	return &robot.ContactRobotResponse{
		RequestID: record.ID,
		RobotID:   record.RobotID,
		Status:    record.Status,
		ETA:       record.ETAMinutes,
		Message:   assignment.Message,
	}, nil
}

func (s *robotService) GetRobotRequests(ctx context.Context) ([]entity.RobotRequest, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	return repo.Requests.GetRobotRequests(ctx, requestHistoryLimit)
}

func (s *robotService) GetFleet() []dispatch.Robot {
	return s.dispatcher.Fleet()
}
