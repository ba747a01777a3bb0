package robotService

import (
	"context"
	"time"

	"github.com/TheNopenator/EcoVision/internal/api/robot"
	robotRepository "github.com/TheNopenator/EcoVision/internal/api/robot/repository"
	"github.com/TheNopenator/EcoVision/internal/entity"
	"github.com/TheNopenator/EcoVision/pkg/dispatch"
	"github.com/TheNopenator/EcoVision/pkg/metrics"
	"github.com/TheNopenator/EcoVision/pkg/utils"
	"github.com/sirupsen/logrus"
)

const requestHistoryLimit = 50

type Dispatcher interface {
	Dispatch(req dispatch.Request) (dispatch.Assignment, error)
	Fleet() []dispatch.Robot
}

type IRobotService interface {
	ContactRobot(ctx context.Context, req robot.ContactRobotRequest) (*robot.ContactRobotResponse, error)
	GetRobotRequests(ctx context.Context) ([]entity.RobotRequest, error)
	GetFleet() []dispatch.Robot
}

type robotService struct {
	log        *logrus.Logger
	repo       robotRepository.Repository
	dispatcher Dispatcher
	metrics    *metrics.Manager
	utils      utils.IUtils
	now        func() time.Time
}

func NewRobotService(
	log *logrus.Logger,
	repo robotRepository.Repository,
	dispatcher Dispatcher,
	metrics *metrics.Manager,
	utils utils.IUtils,
) IRobotService {
	return &robotService{
		log:        log,
		repo:       repo,
		dispatcher: dispatcher,
		metrics:    metrics,
		utils:      utils,
		now:        time.Now,
	}
}
