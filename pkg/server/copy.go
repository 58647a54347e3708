package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lexvault/pkg/log"
)

func (s *Server) copy(ctx echo.Context) error {
	var req moveRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "malformed request body",
			"error":   err.Error(),
		})
	}
	log.Info().Str("source", req.SourcePath).Str("dest", req.DestinationFolderPath).Msg("Copy request")

	if err := s.vault.Copy(ctx.Request().Context(), req.SourcePath, req.DestinationFolderPath); err != nil {
		return respondError(ctx, err)
	}

	s.catalog.Invalidate()
	return ctx.JSON(http.StatusOK, map[string]string{"message": "copied successfully"})
}

func (s *Server) copyBatch(ctx echo.Context) error {
	var req batchRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "malformed request body",
			"error":   err.Error(),
		})
	}
	log.Info().Int("items", len(req.SourcePaths)).Str("dest", req.DestinationFolderPath).Msg("Batch copy request")

	result := s.vault.CopyBatch(ctx.Request().Context(), req.SourcePaths, req.DestinationFolderPath)
	s.catalog.Invalidate()
	return respondBatch(ctx, result)
}
