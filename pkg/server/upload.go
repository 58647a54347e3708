package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lexvault/pkg/docmeta"
	"lexvault/pkg/log"
)

func (s *Server) upload(ctx echo.Context) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		log.Error().Err(err).Msg("File parameter is required")
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "file parameter is required",
			"error":   err.Error(),
		})
	}

	targetPath := ctx.FormValue("targetPath")
	if targetPath == "" {
		targetPath = file.Filename
	}

	meta, err := docmeta.Parse([]byte(ctx.FormValue("metadata")))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "invalid metadata",
			"error":   err.Error(),
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"message": "failed to open uploaded file",
			"error":   err.Error(),
		})
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close uploaded file")
		}
	}()

	contentType := file.Header.Get("Content-Type")
	result, err := s.vault.Upload(ctx.Request().Context(), targetPath, src, contentType, meta)
	if err != nil {
		return respondError(ctx, err)
	}

	s.catalog.Invalidate()
	return ctx.JSON(http.StatusOK, result)
}
