package handler

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/deppfellow/bookstore/internal/server"
	"github.com/deppfellow/bookstore/static"
	"github.com/labstack/echo/v4"
)

const openAPIUIPage = "openapi.html"

// OpenAPIHandler serves the API documentation UI. The page loads
// /static/openapi.json.
type OpenAPIHandler struct {
	Handler
	assets fs.FS
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		assets:  static.FS,
	}
}

// ServeOpenAPIUI serves the docs page uncached so a redeploy shows up at once.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	templateBytes, err := fs.ReadFile(h.assets, openAPIUIPage)

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	if err := c.HTML(http.StatusOK, string(templateBytes)); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
