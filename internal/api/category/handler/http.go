package categoryHandler

import (
	categoryService "github.com/TheNopenator/EcoVision/internal/api/category/service"
	"github.com/TheNopenator/EcoVision/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type CategoryHandler struct {
	log             *logrus.Logger
	validator       *validator.Validate
	middleware      middleware.Middleware
	categoryService categoryService.ICategoryService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	cs categoryService.ICategoryService,
) *CategoryHandler {
	return &CategoryHandler{
		categoryService: cs,
		log:             log,
		validator:       validator,
		middleware:      middleware,
	}
}

func (h *CategoryHandler) Start(srv fiber.Router) {
	categories := srv.Group("/categories")
	categories.Get("/", h.GetAllCategories)
	categories.Get("/:id", h.GetCategoryByID)
	categories.Post("/", h.middleware.NewTokenMiddleware, h.CreateCategory)
	categories.Put("/:id", h.middleware.NewTokenMiddleware, h.UpdateCategory)
	categories.Delete("/:id", h.middleware.NewTokenMiddleware, h.DeleteCategory)
}
