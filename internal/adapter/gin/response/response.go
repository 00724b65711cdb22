package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	pkgerrors "contacts-api/pkg/errors"
	"contacts-api/pkg/logger"
)

// ServerErrorMessage replaces the message of every 5xx response.
const ServerErrorMessage = "Server error"

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Error writes err as {message} with the status carried by its type and aborts
// the handler chain. Unclassified errors become 500 without leaking details.
func Error(c *gin.Context, log *zap.Logger, err error) {
	status := pkgerrors.StatusOf(err)
	message := err.Error()

	if status >= http.StatusInternalServerError {
		logger.WithContext(c.Request.Context(), log).Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		message = ServerErrorMessage
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Message: message})
}
