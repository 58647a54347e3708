package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lexvault/pkg/docmeta"
	"lexvault/pkg/log"
)

func (s *Server) properties(ctx echo.Context) error {
	path := ctx.QueryParam("path")
	log.Debug().Str("path", path).Msg("Properties request")

	props, err := s.vault.Properties(ctx.Request().Context(), path)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, props)
}

func (s *Server) indexDocument(ctx echo.Context) error {
	path := ctx.QueryParam("path")
	log.Debug().Str("path", path).Msg("Index document request")

	doc, err := s.vault.IndexDocument(ctx.Request().Context(), path)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, doc)
}

type updateMetadataRequest struct {
	BlobPath string           `json:"blobPath"`
	Metadata docmeta.Metadata `json:"metadata"`
}

func (s *Server) updateMetadata(ctx echo.Context) error {
	var req updateMetadataRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "malformed request body",
			"error":   err.Error(),
		})
	}
	log.Info().Str("path", req.BlobPath).Msg("Update metadata request")

	if err := s.vault.UpdateMetadata(ctx.Request().Context(), req.BlobPath, req.Metadata); err != nil {
		return respondError(ctx, err)
	}

	s.catalog.Invalidate()
	return ctx.JSON(http.StatusOK, map[string]string{"message": "metadata updated"})
}
