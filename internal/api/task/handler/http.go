package taskHandler

import (
	taskService "github.com/TheNopenator/EcoVision/internal/api/task/service"
	"github.com/TheNopenator/EcoVision/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type TaskHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	taskService taskService.ITaskService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ts taskService.ITaskService,
) *TaskHandler {
	return &TaskHandler{
		taskService: ts,
		log:         log,
		validator:   validator,
		middleware:  middleware,
	}
}

func (h *TaskHandler) Start(srv fiber.Router) {
	tasks := srv.Group("/tasks")
	tasks.Get("/", h.GetAllTasks)
	tasks.Get("/pending", h.GetPendingTasks)
	tasks.Get("/:id", h.GetTaskByID)
	tasks.Put("/:id", h.UpdateTask)
	tasks.Patch("/:id/status", h.UpdateStatus)
	tasks.Delete("/:id", h.middleware.NewTokenMiddleware, h.DeleteTask)
}
