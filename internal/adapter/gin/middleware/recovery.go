package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contacts-api/internal/adapter/gin/response"
	pkgerrors "contacts-api/pkg/errors"
	"contacts-api/pkg/logger"
)

// Recovery turns a panic into a 500 response.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithContext(c.Request.Context(), log).Error("panic recovered",
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
				response.Error(c, log, pkgerrors.NewInternalError("panic", fmt.Errorf("%v", r)))
			}
		}()
		c.Next()
	}
}
