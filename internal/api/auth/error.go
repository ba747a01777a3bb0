package auth

import (
	"net/http"

	"github.com/TheNopenator/EcoVision/pkg/response"
)

var (
	ErrInvalidCredentials = response.NewError(http.StatusUnauthorized, "invalid username or password")
	ErrLoginDisabled      = response.NewError(http.StatusServiceUnavailable, "operator login is not configured")
	ErrIssueToken         = response.NewError(http.StatusInternalServerError, "failed to issue token")
)
