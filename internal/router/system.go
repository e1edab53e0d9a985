package router

import (
	"github.com/deppfellow/bookstore/internal/handler"
	"github.com/deppfellow/bookstore/static"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the endpoints outside the book resource:
// health, the docs UI and the static files it loads.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.StaticFS("/static", static.FS)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
