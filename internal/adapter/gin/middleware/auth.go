package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contacts-api/internal/adapter/gin/response"
	domain "contacts-api/internal/domain/user"
	"contacts-api/pkg/logger"
)

const currentUserKey = "currentUser"

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Auth rejects requests without a live session token and stores the resolved
// user in the gin context.
func Auth(a Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := a.Authenticate(c.Request.Context(), bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			response.Error(c, log, err)
			return
		}

		c.Set(currentUserKey, u)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), u.ID))
		c.Next()
	}
}

// CurrentUser returns the user stored by Auth, or nil on unauthenticated routes.
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
