package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lexvault/pkg/log"
	"lexvault/pkg/vault"
)

type moveRequest struct {
	SourcePath            string `json:"sourcePath"`
	DestinationFolderPath string `json:"destinationFolderPath"`
}

type batchRequest struct {
	SourcePaths           []string `json:"sourcePaths"`
	DestinationFolderPath string   `json:"destinationFolderPath"`
}

func (s *Server) move(ctx echo.Context) error {
	var req moveRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "malformed request body",
			"error":   err.Error(),
		})
	}
	log.Info().Str("source", req.SourcePath).Str("dest", req.DestinationFolderPath).Msg("Move request")

	if err := s.vault.Move(ctx.Request().Context(), req.SourcePath, req.DestinationFolderPath); err != nil {
		return respondError(ctx, err)
	}

	s.catalog.Invalidate()
	return ctx.JSON(http.StatusOK, map[string]string{"message": "moved successfully"})
}

func (s *Server) moveBatch(ctx echo.Context) error {
	var req batchRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "malformed request body",
			"error":   err.Error(),
		})
	}
	log.Info().Int("items", len(req.SourcePaths)).Str("dest", req.DestinationFolderPath).Msg("Batch move request")

	result := s.vault.MoveBatch(ctx.Request().Context(), req.SourcePaths, req.DestinationFolderPath)
	s.catalog.Invalidate()
	return respondBatch(ctx, result)
}

// respondBatch returns 200 on full success, 207 with the per-path error
// list otherwise.
func respondBatch(ctx echo.Context, result *vault.BatchResult) error {
	if result.Full() {
		return ctx.JSON(http.StatusOK, result)
	}
	return ctx.JSON(http.StatusMultiStatus, result)
}
