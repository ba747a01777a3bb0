package cooperationService

import (
	"context"
	"errors"
	"strings"

	"github.com/TheNopenator/EcoVision/internal/api/cooperation"
	"github.com/TheNopenator/EcoVision/internal/entity"
	contextPkg "github.com/TheNopenator/EcoVision/pkg/context"
	"github.com/TheNopenator/EcoVision/pkg/response"
	"github.com/TheNopenator/EcoVision/pkg/smtp"
	"github.com/sirupsen/logrus"
)

// CreateCooperationRequest stores the request and mails the partnership inbox.
// A failed notice is logged; the request is still accepted.
func (s *cooperationService) CreateCooperationRequest(ctx context.Context, req cooperation.CreateCooperationRequest) (*cooperation.CreateCooperationResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	now := s.now().UTC()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return nil, cooperation.ErrCreateCooperation
	}

	record := entity.CooperationRequest{
		ID:                 id,
		CompanyName:        strings.TrimSpace(req.CompanyName),
		ContactPerson:      strings.TrimSpace(req.ContactPerson),
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:              strings.TrimSpace(req.Phone),
		CooperationType:    req.CooperationType,
		CompanySize:        req.CompanySize,
		CooperationDetails: req.CooperationDetails,
		Status:             entity.CooperationStatusNew,
		CreatedAt:          now,
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	if err := repo.Cooperation.CreateCooperationRequest(ctx, record); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to persist cooperation request")
		return nil, cooperation.ErrCreateCooperation
	}

	err = s.mailer.NotifyCooperation(smtp.CooperationNotice{
		CompanyName:     record.CompanyName,
		ContactPerson:   record.ContactPerson,
		Email:           record.Email,
		Phone:           record.Phone,
		CooperationType: record.CooperationType,
		Details:         record.CooperationDetails,
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":     requestID,
			"cooperation_id": record.ID,
			"error":          err.Error(),
		}).Warn("Failed to send cooperation notice")
	}

	s.log.WithFields(logrus.Fields{
		"request_id":       requestID,
		"cooperation_id":   record.ID,
		"cooperation_type": record.CooperationType,
	}).Info("Cooperation request received")

	return &cooperation.CreateCooperationResponse{
		ID:      record.ID,
		Status:  string(record.Status),
		Message: "Thank you, our partnership team will contact you soon",
	}, nil
}

func (s *cooperationService) GetCooperationRequests(ctx context.Context, status string) ([]entity.CooperationRequest, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	return repo.Cooperation.GetCooperationRequests(ctx, status)
}

func (s *cooperationService) UpdateStatus(ctx context.Context, id string, status string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return err
	}

	if err := repo.Cooperation.UpdateStatus(ctx, id, entity.CooperationStatus(status)); err != nil {
		var respErr *response.Error
		if errors.As(err, &respErr) {
			return err
		}
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to update cooperation status")
		return cooperation.ErrUpdateCooperation
	}

	return nil
}
