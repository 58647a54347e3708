package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lexvault/pkg/log"
)

// deletePath handles DELETE /api/delete requests for files and directories.
func (s *Server) deletePath(ctx echo.Context) error {
	path := ctx.QueryParam("path")
	log.Info().Str("path", path).Msg("Delete request")

	result, err := s.vault.Delete(ctx.Request().Context(), path)
	if err != nil {
		return respondError(ctx, err)
	}

	s.catalog.Invalidate()
	if len(result.Errors) > 0 {
		return ctx.JSON(http.StatusMultiStatus, map[string]any{
			"message":      "deleted with errors",
			"deletedCount": result.DeletedCount,
			"errors":       result.Errors,
		})
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"message":      "deleted successfully",
		"deletedCount": result.DeletedCount,
	})
}
