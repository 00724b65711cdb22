package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contacts-api/internal/adapter/gin/handler"
	"contacts-api/internal/adapter/gin/middleware"
	"contacts-api/pkg/logger"
)

// Config holds the router settings that come from configuration.
type Config struct {
	ServiceName string
	Upload      middleware.UploadConfig
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	cfg Config,
	authHandler *handler.AuthHandler,
	contactHandler *handler.ContactHandler,
	authenticator middleware.Authenticator,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(logger.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": cfg.ServiceName,
		})
	})

	registerSwagger(router)

	requireAuth := middleware.Auth(authenticator, log)
	requireBody := middleware.RequireBody(log)

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("/register", requireBody, authHandler.Register)
			users.POST("/login", requireBody, authHandler.Login)
			users.GET("/current", requireAuth, authHandler.Current)
			users.POST("/logout", requireAuth, authHandler.Logout)
			users.PATCH("/avatars", requireAuth, middleware.SingleFile(cfg.Upload, log), authHandler.UpdateAvatar)
			users.GET("/verify/:verificationToken", authHandler.Verify)
			users.POST("/verify", authHandler.ResendVerification)
		}

		contacts := api.Group("/contacts", requireAuth)
		{
			contacts.GET("", contactHandler.List)
			contacts.GET("/:contactId", contactHandler.Get)
			contacts.POST("", requireBody, contactHandler.Create)
			contacts.PUT("/:contactId", requireBody, contactHandler.Update)
			contacts.PATCH("/:contactId/favorite", requireBody, contactHandler.UpdateFavorite)
			contacts.DELETE("/:contactId", contactHandler.Delete)
		}
	}

	return router
}
