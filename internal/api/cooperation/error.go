package cooperation

import (
	"net/http"

	"github.com/TheNopenator/EcoVision/pkg/response"
)

var (
	ErrInvalidContent      = response.NewError(http.StatusBadRequest, "content is not a valid cooperation request")
	ErrCooperationNotFound = response.NewError(http.StatusNotFound, "cooperation request not found")
	ErrCreateCooperation   = response.NewError(http.StatusInternalServerError, "failed to save cooperation request")
	ErrUpdateCooperation   = response.NewError(http.StatusInternalServerError, "failed to update cooperation request")
)
