package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lexvault/pkg/log"
)

func (s *Server) list(ctx echo.Context) error {
	path := ctx.QueryParam("path")
	log.Debug().Str("path", path).Msg("List request")

	items, err := s.vault.List(ctx.Request().Context(), path)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, items)
}
