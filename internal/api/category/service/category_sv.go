package categoryService

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/TheNopenator/EcoVision/internal/api/category"
	"github.com/TheNopenator/EcoVision/internal/entity"
	contextPkg "github.com/TheNopenator/EcoVision/pkg/context"
	"github.com/TheNopenator/EcoVision/pkg/response"
	"github.com/sirupsen/logrus"
)

func (s *categoryService) CreateCategory(ctx context.Context, req category.CreateCategoryRequest) (entity.TrashCategory, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.TrashCategory{}, err
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return entity.TrashCategory{}, category.ErrCreateCategory
	}

	c := entity.TrashCategory{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Color:       normalizeColor(req.Color),
		Description: req.Description,
	}

	if err := repo.Categories.CreateCategory(ctx, c); err != nil {
		return entity.TrashCategory{}, s.wrap(requestID, err, category.ErrCreateCategory, "create")
	}

	return c, nil
}

func (s *categoryService) GetAllCategories(ctx context.Context) ([]entity.TrashCategory, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	return repo.Categories.GetAllCategories(ctx)
}

func (s *categoryService) GetCategoryByID(ctx context.Context, id string) (entity.TrashCategory, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return entity.TrashCategory{}, err
	}

	return repo.Categories.GetCategoryByID(ctx, id)
}

func (s *categoryService) UpdateCategory(ctx context.Context, id string, req category.UpdateCategoryRequest) (entity.TrashCategory, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(true)
	if err != nil {
		return entity.TrashCategory{}, err
	}
	defer repo.Rollback()

	current, err := repo.Categories.GetCategoryByID(ctx, id)
	if err != nil {
		return entity.TrashCategory{}, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		current.Name = name
	}
	if req.Color != "" {
		current.Color = normalizeColor(req.Color)
	}
	if req.Description != nil {
		current.Description = *req.Description
	}

	if err := repo.Categories.UpdateCategory(ctx, current); err != nil {
		return entity.TrashCategory{}, s.wrap(requestID, err, category.ErrUpdateCategory, "update")
	}

	if err := repo.Commit(); err != nil {
		return entity.TrashCategory{}, category.ErrUpdateCategory
	}

	return current, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return err
	}

	if err := repo.Categories.DeleteCategory(ctx, id); err != nil {
		return s.wrap(requestID, err, category.ErrDeleteCategory, "delete")
	}

	return nil
}

// wrap passes domain errors through and hides everything else behind fallback.
func (s *categoryService) wrap(requestID string, err, fallback error, op string) error {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"operation":  op,
		"error":      err.Error(),
	}).Error("Category repository failure")
	return fallback
}

func normalizeColor(color string) string {
	if color == "" {
		return entity.DefaultCategoryColor
	}
	return strings.ToUpper(color)
}
