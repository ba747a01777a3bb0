package authService

import (
	"context"
	"time"

	"github.com/TheNopenator/EcoVision/internal/api/auth"
	"github.com/TheNopenator/EcoVision/pkg/bcrypt"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Secret           string
	TTL              time.Duration
	OperatorUsername string
	PasswordHash     string
}

type AuthService interface {
	Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error)
}

type authService struct {
	log    *logrus.Logger
	cfg    Config
	bcrypt bcrypt.IBcrypt
}

func New(log *logrus.Logger, cfg Config, bcrypt bcrypt.IBcrypt) AuthService {
	return &authService{
		log:    log,
		cfg:    cfg,
		bcrypt: bcrypt,
	}
}
