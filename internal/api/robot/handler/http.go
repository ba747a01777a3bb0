package robotHandler

import (
	robotService "github.com/TheNopenator/EcoVision/internal/api/robot/service"
	"github.com/TheNopenator/EcoVision/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type RobotHandler struct {
	log          *logrus.Logger
	validator    *validator.Validate
	middleware   middleware.Middleware
	robotService robotService.IRobotService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	rs robotService.IRobotService,
) *RobotHandler {
	return &RobotHandler{
		robotService: rs,
		log:          log,
		validator:    validator,
		middleware:   middleware,
	}
}

func (h *RobotHandler) Start(srv fiber.Router) {
	srv.Post("/contact-robot", h.middleware.NewRateLimiter, h.ContactRobot)
	srv.Get("/robot-requests", h.GetRobotRequests)
	srv.Get("/robots", h.GetFleet)
}
