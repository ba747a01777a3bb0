package robot

import (
	"net/http"

	"github.com/TheNopenator/EcoVision/pkg/response"
)

var (
	ErrUnknownRobot       = response.NewError(http.StatusNotFound, "robot not found")
	ErrCreateRobotRequest = response.NewError(http.StatusInternalServerError, "failed to record robot request")
)
