package cooperationService

import (
	"context"
	"time"

	"github.com/TheNopenator/EcoVision/internal/api/cooperation"
	cooperationRepository "github.com/TheNopenator/EcoVision/internal/api/cooperation/repository"
	"github.com/TheNopenator/EcoVision/internal/entity"
	"github.com/TheNopenator/EcoVision/pkg/smtp"
	"github.com/TheNopenator/EcoVision/pkg/utils"
	"github.com/sirupsen/logrus"
)

type ICooperationService interface {
	CreateCooperationRequest(ctx context.Context, req cooperation.CreateCooperationRequest) (*cooperation.CreateCooperationResponse, error)
	GetCooperationRequests(ctx context.Context, status string) ([]entity.CooperationRequest, error)
	UpdateStatus(ctx context.Context, id string, status string) error
}

type cooperationService struct {
	log    *logrus.Logger
	repo   cooperationRepository.Repository
	mailer smtp.ItfSmtp
	utils  utils.IUtils
	now    func() time.Time
}

func NewCooperationService(
	log *logrus.Logger,
	repo cooperationRepository.Repository,
	mailer smtp.ItfSmtp,
	utils utils.IUtils,
) ICooperationService {
	return &cooperationService{
		log:    log,
		repo:   repo,
		mailer: mailer,
		utils:  utils,
		now:    time.Now,
	}
}
