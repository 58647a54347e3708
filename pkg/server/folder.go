package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lexvault/pkg/docmeta"
	"lexvault/pkg/log"
)

type createFolderRequest struct {
	Path     string           `json:"path"`
	Metadata docmeta.Metadata `json:"metadata"`
}

func (s *Server) createFolder(ctx echo.Context) error {
	var req createFolderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "malformed request body",
			"error":   err.Error(),
		})
	}
	log.Info().Str("path", req.Path).Msg("Create folder request")

	if err := s.vault.CreateFolder(ctx.Request().Context(), req.Path, req.Metadata); err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, map[string]string{
		"message": "folder created",
		"path":    req.Path,
	})
}
