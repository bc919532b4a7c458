package response

import (
	"net/http"

	"eonestep.com/institutebackend/pkg/apperror"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Envelope is the uniform response body every endpoint returns.
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Send writes the uniform envelope with the given status code.
func Send(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// Error maps the error to a status code and writes the envelope. Internal
// failures are logged with their cause; the caller only sees a generic message.
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	message := err.Error()
	if code == http.StatusInternalServerError {
		zap.L().Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
		message = "Server error"
	}

	c.AbortWithStatusJSON(code, Envelope{
		Status:  code,
		Message: message,
		Data:    nil,
	})
}
