package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lexvault/pkg/log"
)

type renameRequest struct {
	OriginalPath string `json:"originalPath"`
	NewPath      string `json:"newPath"`
}

func (s *Server) rename(ctx echo.Context) error {
	var req renameRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "malformed request body",
			"error":   err.Error(),
		})
	}
	log.Info().Str("from", req.OriginalPath).Str("to", req.NewPath).Msg("Rename request")

	if err := s.vault.Rename(ctx.Request().Context(), req.OriginalPath, req.NewPath); err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]string{"message": "renamed successfully"})
}
