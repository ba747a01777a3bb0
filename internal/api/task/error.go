package task

import (
	"net/http"

	"github.com/TheNopenator/EcoVision/pkg/response"
)

var (
	ErrTaskNotFound  = response.NewError(http.StatusNotFound, "cleanup task not found")
	ErrInvalidStatus = response.NewError(http.StatusBadRequest, "Invalid status")
	ErrUpdateTask    = response.NewError(http.StatusInternalServerError, "failed to update cleanup task")
	ErrDeleteTask    = response.NewError(http.StatusInternalServerError, "failed to delete cleanup task")
)
