package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"lexvault/pkg/log"
)

func (s *Server) downloadURL(ctx echo.Context) error {
	path := ctx.QueryParam("path")
	log.Debug().Str("path", path).Msg("Download URL request")

	url, err := s.vault.DownloadURL(ctx.Request().Context(), path)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]string{"url": url})
}

type downloadZipRequest struct {
	Paths []string `json:"paths"`
}

// downloadZip streams the selected files and directories as one ZIP
// archive. The archive is written through to the response as entries are
// read, never buffered whole.
func (s *Server) downloadZip(ctx echo.Context) error {
	var req downloadZipRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "malformed request body",
			"error":   err.Error(),
		})
	}
	if len(req.Paths) == 0 {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "paths is required",
		})
	}

	filename := fmt.Sprintf("documents-%s.zip", time.Now().UTC().Format("20060102-150405"))
	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "application/zip")
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	res.WriteHeader(http.StatusOK)

	if err := s.archive.Stream(ctx.Request().Context(), req.Paths, res); err != nil {
		// Headers are already on the wire; all we can do is log.
		log.Error().Err(err).Msg("ZIP stream failed")
		return err
	}
	return nil
}
