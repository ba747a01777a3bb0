package cooperationHandler

import (
	cooperationService "github.com/TheNopenator/EcoVision/internal/api/cooperation/service"
	"github.com/TheNopenator/EcoVision/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type CooperationHandler struct {
	log                *logrus.Logger
	validator          *validator.Validate
	middleware         middleware.Middleware
	cooperationService cooperationService.ICooperationService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	cs cooperationService.ICooperationService,
) *CooperationHandler {
	return &CooperationHandler{
		cooperationService: cs,
		log:                log,
		validator:          validator,
		middleware:         middleware,
	}
}

func (h *CooperationHandler) Start(srv fiber.Router) {
	srv.Post("/cooperation", h.middleware.NewRateLimiter, h.CreateCooperationRequest)

	requests := srv.Group("/cooperation-requests", h.middleware.NewTokenMiddleware)
	requests.Get("/", h.GetCooperationRequests)
	requests.Patch("/:id/status", h.UpdateStatus)
}
