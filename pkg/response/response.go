package response

import (
	"errors"
	"net/http"

	"sandbox-payment-gateway/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Status    string   `json:"status"`
	ErrorCode string   `json:"error_code"`
	Message   string   `json:"message"`
	Reasons   []string `json:"reasons,omitempty"`
}

// OK sends a 200 response with the payload as-is. The sandbox API uses
// flat response shapes, so there is no envelope on success.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error sends an error response. It checks if err is an *apperror.AppError
// and maps it accordingly, otherwise returns 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorResponse{
			Status:    "error",
			ErrorCode: appErr.Code,
			Message:   appErr.Message,
			Reasons:   appErr.Reasons,
		})
		return
	}

	// Unknown error -> 500
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Status:    "error",
		ErrorCode: "SYS_001",
		Message:   "Internal server error",
	})
}
