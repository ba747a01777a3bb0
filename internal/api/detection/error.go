package detection

import (
	"net/http"

	"github.com/TheNopenator/EcoVision/pkg/response"
)

var (
	ErrDetectionNotFound = response.NewError(http.StatusNotFound, "detection not found")
	ErrInvalidImage      = response.NewError(http.StatusBadRequest, "uploaded file is not a valid image")
	ErrImageRequired     = response.NewError(http.StatusBadRequest, "image is required")
	ErrImageTooLarge     = response.NewError(http.StatusRequestEntityTooLarge, "image exceeds the upload limit")
	ErrInvalidLocation   = response.NewError(http.StatusBadRequest, "location must be a JSON object with lat, lng and address")
	ErrStoreImage        = response.NewError(http.StatusInternalServerError, "failed to store image")
	ErrCreateDetection   = response.NewError(http.StatusInternalServerError, "failed to create detection")
	ErrUpdateDetection   = response.NewError(http.StatusInternalServerError, "failed to update detection")
	ErrDeleteDetection   = response.NewError(http.StatusInternalServerError, "failed to delete detection")
	ErrStatistics        = response.NewError(http.StatusInternalServerError, "failed to compute statistics")
)

// ProcessImageError reports a failure inside the detection pipeline.
func ProcessImageError(cause error) error {
	return response.NewErrorf(http.StatusInternalServerError, "Error processing image: %v", cause)
}
