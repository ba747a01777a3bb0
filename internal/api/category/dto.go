package category

import (
	"github.com/TheNopenator/EcoVision/internal/entity"
	"github.com/samber/lo"
)

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Color       string `json:"color" validate:"omitempty,len=7,hexcolor"`
	Description string `json:"description" validate:"max=1000"`
}

type UpdateCategoryRequest struct {
	Name        string  `json:"name" validate:"omitempty,min=2,max=100"`
	Color       string  `json:"color" validate:"omitempty,len=7,hexcolor"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

func ToCategoryResponse(c entity.TrashCategory) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Color:       c.Color,
		Description: c.Description,
	}
}

func ToCategoryResponses(categories []entity.TrashCategory) []CategoryResponse {
	return lo.Map(categories, func(c entity.TrashCategory, _ int) CategoryResponse {
		return ToCategoryResponse(c)
	})
}
