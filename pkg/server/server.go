// Package server exposes the document vault over HTTP. One handler per
// source file; every handler translates the request into vault, search or
// archive calls and maps the error taxonomy onto status codes.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"lexvault/pkg/archive"
	"lexvault/pkg/blob"
	"lexvault/pkg/config"
	"lexvault/pkg/index"
	"lexvault/pkg/log"
	"lexvault/pkg/search"
	"lexvault/pkg/vault"
)

// Server is the HTTP front of the vault.
type Server struct {
	echo    *echo.Echo
	cfg     *config.Config
	vault   *vault.Service
	search  *search.Engine
	catalog *search.CatalogService
	archive *archive.Streamer
	version string
}

// New wires the full service on top of a blob client.
func New(cfg *config.Config, blobs blob.Client, version string) *Server {
	ix := index.New(blobs)
	engine := search.New(blobs, ix, cfg.Search.MaxScan)

	return &Server{
		echo:    echo.New(),
		cfg:     cfg,
		vault:   vault.New(blobs, ix, cfg.Download.URLTTL),
		search:  engine,
		catalog: search.NewCatalogService(engine, cfg.Search.CatalogTTL),
		archive: archive.New(blobs),
		version: version,
	}
}

// Start runs the server until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	s.setupRoutes()

	go func() {
		log.Info().
			Str("addr", s.cfg.Server.Addr).
			Str("version", s.version).
			Msg("Starting lexvault server")

		if err := s.echo.Start(s.cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server startup failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return s.Shutdown()
}

// Shutdown stops the listener, waiting out in-flight requests up to the
// configured timeout.
func (s *Server) Shutdown() error {
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
		return err
	}

	log.Info().Msg("Server gracefully stopped")
	return nil
}

func (s *Server) setupRoutes() {
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} ${status} ${method} ${uri} (${latency_human})\n",
	}))
	s.echo.Use(middleware.Recover())

	s.echo.GET("/healthz", s.health)

	api := s.echo.Group("/api")
	api.GET("/list", s.list)
	api.POST("/upload", s.upload)
	api.DELETE("/delete", s.deletePath)
	api.GET("/download-url", s.downloadURL)
	api.POST("/download-zip", s.downloadZip)
	api.POST("/move", s.move)
	api.POST("/move-batch", s.moveBatch)
	api.POST("/copy", s.copy)
	api.POST("/copy-batch", s.copyBatch)
	api.POST("/rename", s.rename)
	api.POST("/create-folder", s.createFolder)
	api.GET("/properties", s.properties)
	api.GET("/metadata", s.indexDocument)
	api.PUT("/update-metadata", s.updateMetadata)
	api.POST("/search", s.searchHandler)
	api.GET("/tags", s.tags)
}

// respondError maps the error taxonomy onto HTTP statuses with a
// human-readable message and the underlying error detail.
func respondError(ctx echo.Context, err error) error {
	var notFound blob.NotFoundError
	var conflict blob.ConflictError
	var invalid blob.InvalidPathError

	switch {
	case errors.As(err, &notFound):
		return ctx.JSON(http.StatusNotFound, map[string]string{
			"message": "not found",
			"error":   err.Error(),
		})
	case errors.As(err, &conflict):
		return ctx.JSON(http.StatusConflict, map[string]string{
			"message": "conflict",
			"error":   err.Error(),
		})
	case errors.As(err, &invalid):
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "invalid request",
			"error":   err.Error(),
		})
	default:
		log.Error().Err(err).Str("path", ctx.Request().URL.Path).Msg("Request failed")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"message": "internal error",
			"error":   err.Error(),
		})
	}
}
