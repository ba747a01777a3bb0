package detectionHandler

import (
	detectionService "github.com/TheNopenator/EcoVision/internal/api/detection/service"
	"github.com/TheNopenator/EcoVision/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type DetectionHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	detectionService detectionService.IDetectionService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ds detectionService.IDetectionService,
) *DetectionHandler {
	return &DetectionHandler{
		detectionService: ds,
		log:              log,
		validator:        validator,
		middleware:       middleware,
	}
}

func (h *DetectionHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	// The dashboard posts straight to /detect-trash.
	srv.Post("/detect-trash", h.middleware.NewRateLimiter, h.UploadAndDetect)

	detections := srv.Group("/detections")
	detections.Post("/upload", h.middleware.NewRateLimiter, h.UploadAndDetect)
	detections.Get("/", h.GetAllDetections)
	detections.Get("/recent", h.GetRecentDetections)
	detections.Get("/statistics", h.GetStatistics)

	detections.Use("/stream", wsMiddleware)
	detections.Get("/stream", websocket.New(h.handleStream))

	detections.Get("/:id", h.GetDetectionByID)
	detections.Patch("/:id", h.UpdateDetection)
	detections.Delete("/:id", h.middleware.NewTokenMiddleware, h.DeleteDetection)
}
