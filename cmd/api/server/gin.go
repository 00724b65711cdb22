package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ginhandler "contacts-api/internal/adapter/gin/handler"
	"contacts-api/internal/adapter/gin/middleware"
	ginrouter "contacts-api/internal/adapter/gin/router"
	"contacts-api/internal/config"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	cfg *config.Config,
	authHandler *ginhandler.AuthHandler,
	contactHandler *ginhandler.ContactHandler,
	authenticator middleware.Authenticator,
	l *zap.Logger,
) *http.Server {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := ginrouter.SetupRouter(ginrouter.Config{
		ServiceName: cfg.Logger.ServiceName,
		Upload: middleware.UploadConfig{
			Field:    "avatar",
			Dir:      cfg.Storage.TmpDir,
			MaxBytes: cfg.Storage.UploadMaxBytes,
		},
	}, authHandler, contactHandler, authenticator, l)

	addr := ":" + cfg.App.HTTPPort
	l.Info("Gin REST API configured", zap.String("address", addr))
	l.Info("Swagger UI available at", zap.String("url", "http://localhost"+addr+"/swagger/index.html"))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
