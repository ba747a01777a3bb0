package authService

import (
	"context"
	"crypto/subtle"

	"github.com/TheNopenator/EcoVision/internal/api/auth"
	contextPkg "github.com/TheNopenator/EcoVision/pkg/context"
	jwtPkg "github.com/TheNopenator/EcoVision/pkg/jwt"
	"github.com/sirupsen/logrus"
)

// dummyHash keeps the response time of an unknown username close to that of a
// wrong password.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3Ot8G3IzPVRqE/AaxIVuVWO"

func (s *authService) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.cfg.PasswordHash == "" || s.cfg.Secret == "" {
		return auth.LoginResponse{}, auth.ErrLoginDisabled
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.cfg.OperatorUsername)) == 1
	hash := s.cfg.PasswordHash
	if !userOK {
		hash = dummyHash
	}

	if err := s.bcrypt.ComparePassword(hash, req.Password); err != nil || !userOK {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"username":   req.Username,
		}).Warn("Operator login rejected")
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := jwtPkg.Sign(s.cfg.Secret, req.Username, jwtPkg.RoleOperator, s.cfg.TTL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign operator token")
		return auth.LoginResponse{}, auth.ErrIssueToken
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"username":   req.Username,
	}).Info("Operator logged in")

	return auth.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}
