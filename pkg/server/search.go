package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lexvault/pkg/log"
	"lexvault/pkg/search"
)

type searchRequest struct {
	Tags        []search.TagFilter `json:"tags"`
	CurrentPath string             `json:"currentPath"`
	DeepSearch  bool               `json:"deepSearch"`
	FilterLogic string             `json:"filterLogic"`
}

func (s *Server) searchHandler(ctx echo.Context) error {
	var req searchRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "malformed request body",
			"error":   err.Error(),
		})
	}
	log.Debug().
		Int("filters", len(req.Tags)).
		Str("scope", req.CurrentPath).
		Bool("deep", req.DeepSearch).
		Msg("Search request")

	result, err := s.search.Search(ctx.Request().Context(), search.Query{
		Tags:   req.Tags,
		Prefix: req.CurrentPath,
		Deep:   req.DeepSearch,
		Logic:  search.Logic(req.FilterLogic),
	})
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, result)
}

func (s *Server) tags(ctx echo.Context) error {
	catalog, err := s.catalog.Get(ctx.Request().Context())
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, catalog)
}
