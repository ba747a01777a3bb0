package categoryService

import (
	"context"

	"github.com/TheNopenator/EcoVision/internal/api/category"
	categoryRepository "github.com/TheNopenator/EcoVision/internal/api/category/repository"
	"github.com/TheNopenator/EcoVision/internal/entity"
	"github.com/TheNopenator/EcoVision/pkg/utils"
	"github.com/sirupsen/logrus"
)

type ICategoryService interface {
	CreateCategory(ctx context.Context, req category.CreateCategoryRequest) (entity.TrashCategory, error)
	GetAllCategories(ctx context.Context) ([]entity.TrashCategory, error)
	GetCategoryByID(ctx context.Context, id string) (entity.TrashCategory, error)
	UpdateCategory(ctx context.Context, id string, req category.UpdateCategoryRequest) (entity.TrashCategory, error)
	DeleteCategory(ctx context.Context, id string) error
}

type categoryService struct {
	log   *logrus.Logger
	repo  categoryRepository.Repository
	utils utils.IUtils
}

func NewCategoryService(log *logrus.Logger, repo categoryRepository.Repository, utils utils.IUtils) ICategoryService {
	return &categoryService{
		log:   log,
		repo:  repo,
		utils: utils,
	}
}
