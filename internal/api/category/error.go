package category

import (
	"net/http"

	"github.com/TheNopenator/EcoVision/pkg/response"
)

var (
	ErrCategoryNotFound = response.NewError(http.StatusNotFound, "trash category not found")
	ErrCategoryExists   = response.NewError(http.StatusConflict, "trash category already exists")
	ErrCreateCategory   = response.NewError(http.StatusInternalServerError, "failed to create trash category")
	ErrUpdateCategory   = response.NewError(http.StatusInternalServerError, "failed to update trash category")
	ErrDeleteCategory   = response.NewError(http.StatusInternalServerError, "failed to delete trash category")
)
