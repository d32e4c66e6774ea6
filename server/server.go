package server

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"search-bridge/config"
	"search-bridge/internal/auth"
	"search-bridge/rest"
)

type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *slog.Logger
}

func New(cfg *config.Config, handler *rest.Handler, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadHeaderTimeout = cfg.HTTP.ReadHeaderTimeout

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.GET("/v1/health", handler.Health)
	e.GET("/v1/search", handler.Search)

	writes := e.Group("")
	if cfg.Auth.Enabled {
		writes.Use(auth.RequireAuth(auth.NewVerifier(cfg.Auth.Secret)))
	}
	writes.POST("/v1/entities/:type", handler.UpdateEntities)
	writes.DELETE("/v1/entities/:id", handler.RemoveEntity)
	writes.POST("/v1/indexes/clear", handler.ClearIndexes)

	return &Server{
		echo:   e,
		config: cfg,
		logger: logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.config.HTTP.Addr)
	return s.echo.Start(s.config.HTTP.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}
