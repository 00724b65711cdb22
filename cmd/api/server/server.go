package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"contacts-api/cmd/api/di"
)

// Server owns the HTTP listener of the API.
type Server struct {
	Logger *zap.Logger
	Gin    *http.Server
}

// New creates a new server instance from the wired container.
func New(c *di.Container) *Server {
	return &Server{
		Logger: c.Logger,
		Gin:    SetupGinServer(c.Config, c.AuthHandler, c.ContactHandler, c.AuthUC, c.Logger),
	}
}

// Start serves HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.Logger.Info("REST API running", zap.String("address", s.Gin.Addr))

	if err := s.Gin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve HTTP: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("shutting down HTTP server...")
	return s.Gin.Shutdown(ctx)
}
